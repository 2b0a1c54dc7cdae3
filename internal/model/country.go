package model

// Country is an origin country known to the backend.
type Country struct {
	Code     string `json:"code"`
	NameUZ   string `json:"name_uz"`
	NameRU   string `json:"name_ru,omitempty"`
	NameEN   string `json:"name_en,omitempty"`
	IsActive bool   `json:"is_active"`
}

// DisplayName prefers the Uzbek name and falls back to English, then the code.
func (c Country) DisplayName() string {
	switch {
	case c.NameUZ != "":
		return c.NameUZ
	case c.NameEN != "":
		return c.NameEN
	default:
		return c.Code
	}
}

// FreeTradeStatus is the backend's answer to a free-trade membership check.
type FreeTradeStatus struct {
	RequiresCertificate *bool  `json:"requires_certificate"`
	CountryCode         string `json:"country_code"`
	AgreementName       string `json:"agreement_name,omitempty"`
	IsFreeTrade         bool   `json:"is_free_trade"`
}
