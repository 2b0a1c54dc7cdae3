package viewmodel

import (
	"fmt"

	"github.com/Veraticus/customs/internal/tradezone"
)

// Button texts.
const (
	ButtonSubmit = "Hisoblash"
	ButtonBusy   = "Hisoblanmoqda..."
)

var fieldLabels = [...]string{
	FieldCode:         "TN VED kodi",
	FieldPrice:        "Tovar narxi",
	FieldCurrency:     "Valyuta",
	FieldWeight:       "Og'irligi (kg)",
	FieldCountry:      "Kelib chiqish mamlakati",
	FieldCertificate:  "ST-1 sertifikati bor",
	FieldDelivery:     "Yetkazib berish",
	FieldInsurance:    "Sug'urta",
	FieldEngineVolume: "Dvigatel hajmi (sm3)",
	FieldQuantity:     "Miqdori",
	FieldVehicleAge:   "Avtomobil yoshi",
	FieldSubmit:       ButtonSubmit,
}

// String returns a string representation of the app state.
func (s AppState) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateCalculating:
		return "Calculating"
	case StateResult:
		return "Result"
	case StateError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Label returns the field's caption.
func (f FieldID) Label() string {
	if f < 0 || int(f) >= len(fieldLabels) {
		return fmt.Sprintf("Field(%d)", f)
	}
	return fieldLabels[f]
}

// Next returns the field after f, wrapping around.
func (f FieldID) Next() FieldID {
	return FieldID((int(f) + 1) % FieldCount)
}

// Prev returns the field before f, wrapping around.
func (f FieldID) Prev() FieldID {
	return FieldID((int(f) + FieldCount - 1) % FieldCount)
}

// NewAdviceView converts trade-zone advice into display form.
func NewAdviceView(a tradezone.Advice) AdviceView {
	v := AdviceView{Message: a.Message, ShowCertificate: a.ShowCertificate}
	switch a.Status {
	case tradezone.StatusFreeTrade:
		v.Tone = ToneSuccess
	case tradezone.StatusUnknownCountry:
		v.Tone = ToneWarning
	case tradezone.StatusNone:
		v.Tone = ToneInfo
	}
	return v
}

// HeaderRate renders the rate line shown in the header.
func HeaderRate(formatted string) string {
	if formatted == "" {
		return ""
	}
	return "1 USD = " + formatted + " " + Currency
}
