package stubapi

import "github.com/Veraticus/customs/internal/model"

// DemoClassifications is a small slice of the TN VED nomenclature.
func DemoClassifications() []model.Classification {
	return []model.Classification{
		{Code: "0101210000", Description: "Zotli naslli otlar", Level: 10},
		{Code: "0201100001", Description: "Qoramol go'shti, yangi yoki sovutilgan", Level: 10},
		{Code: "0803901000", Description: "Bananlar, yangi", Level: 10},
		{Code: "0901210000", Description: "Qovurilgan kofe, kofeinsizlantirilmagan", Level: 10},
		{Code: "3004900002", Description: "Dori vositalari, chakana savdo uchun qadoqlangan", Level: 10},
		{Code: "6109100000", Description: "Paxta trikotaj futbolkalar", Level: 10},
		{Code: "6403990000", Description: "Charm ustki qismli poyabzal", Level: 10},
		{Code: "8415101000", Description: "Devorga o'rnatiladigan konditsionerlar", Level: 10},
		{Code: "8471300000", Description: "Portativ hisoblash mashinalari, og'irligi 10 kg dan oshmaydigan (noutbuklar)", Level: 10},
		{Code: "8471410000", Description: "Boshqa raqamli hisoblash mashinalari", Level: 10},
		{Code: "8471500000", Description: "Raqamli ishlov berish bloklari", Level: 10},
		{Code: "8471600000", Description: "Kiritish yoki chiqarish qurilmalari", Level: 10},
		{Code: "8471700000", Description: "Xotira qurilmalari", Level: 10},
		{Code: "8517130000", Description: "Smartfonlar", Level: 10},
		{Code: "8528720000", Description: "Televizorlar, rangli", Level: 10},
		{Code: "8703231990", Description: "Yengil avtomobillar, dvigatel hajmi 1500-3000 sm3", Level: 10},
		{Code: "8703800000", Description: "Elektr dvigatelli yengil avtomobillar", Level: 10},
		{Code: "9503007000", Description: "O'yinchoqlar", Level: 10},
		{Code: "9999000000", Level: 10},
	}
}

// DemoCountries lists common origin countries.
func DemoCountries() []model.Country {
	return []model.Country{
		{Code: "CN", NameUZ: "Xitoy", NameEN: "China", IsActive: true},
		{Code: "RU", NameUZ: "Rossiya", NameEN: "Russia", IsActive: true},
		{Code: "KZ", NameUZ: "Qozog'iston", NameEN: "Kazakhstan", IsActive: true},
		{Code: "TR", NameUZ: "Turkiya", NameEN: "Turkey", IsActive: true},
		{Code: "DE", NameUZ: "Germaniya", NameEN: "Germany", IsActive: true},
		{Code: "KR", NameUZ: "Janubiy Koreya", NameEN: "South Korea", IsActive: true},
		{Code: "US", NameUZ: "AQSH", NameEN: "United States", IsActive: true},
		{Code: "XX", NameUZ: "Noma'lum", NameEN: "Unknown", IsActive: true},
	}
}
