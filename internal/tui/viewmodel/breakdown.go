package viewmodel

import (
	"github.com/Veraticus/customs/internal/format"
	"github.com/Veraticus/customs/internal/model"
)

// Labels used by the breakdown.
const (
	LabelCustomsValue = "Bojxona qiymati (TS)"
	LabelPayments     = "To'lovlar tafsiloti"
	LabelPaymentKind  = "To'lov turi"
	LabelRate         = "Stavka"
	LabelAmount       = "Summa"
	LabelTotal        = "Jami to'lovlar"
	LabelTotalUSD     = "USD da"
	Currency          = "so'm"
	noRate            = "-"
)

// Tone is the colour family of a badge or message.
type Tone int

// Tones.
const (
	ToneInfo Tone = iota
	ToneSuccess
	ToneWarning
	ToneError
)

// Badge labels the tariff regime of a result.
type Badge struct {
	Label string
	Tone  Tone
}

var dutyBadges = map[model.DutyRateType]Badge{
	model.DutyStandard:           {Label: "Standart tarif", Tone: ToneInfo},
	model.DutyFreeTrade:          {Label: "Erkin savdo (0%)", Tone: ToneSuccess},
	model.DutyCISWithCertificate: {Label: "MDH + ST-1 (0%)", Tone: ToneSuccess},
	model.DutyUnknownCountry:     {Label: "Noma'lum mamlakat (2x)", Tone: ToneWarning},
}

// BadgeFor returns the badge of a duty regime. Unknown regimes get the
// standard badge.
func BadgeFor(t model.DutyRateType) Badge {
	if b, ok := dutyBadges[t]; ok {
		return b
	}
	return dutyBadges[model.DutyStandard]
}

// PaymentRow is one formatted line of the payments table.
type PaymentRow struct {
	Label  string
	Rate   string
	Amount string
}

// BreakdownView is a calculation result with every value formatted and
// every backend string cleaned for the terminal.
type BreakdownView struct {
	Badge           Badge
	CustomsValueUZS string
	CustomsValueUSD string
	TotalUZS        string
	TotalUSD        string
	// EffectiveRate is empty when the backend sent none or zero.
	EffectiveRate string
	// ExchangeRate is the formatted so'm price of one dollar, or empty.
	ExchangeRate string
	Provenance   string
	Warnings     []string
	Payments     []PaymentRow
}

// NewBreakdownView formats result with money.
func NewBreakdownView(result *model.CalculationResult, money format.Money) BreakdownView {
	if result == nil {
		return BreakdownView{Badge: BadgeFor(model.DutyStandard)}
	}

	v := BreakdownView{
		Badge:           BadgeFor(result.DutyRateType),
		CustomsValueUZS: money.Format(result.CustomsValueUZS),
		CustomsValueUSD: money.Format(result.CustomsValueUSD),
		TotalUZS:        money.Format(result.TotalUZS),
		TotalUSD:        money.Format(result.TotalUSD),
		Provenance:      provenance(result),
	}

	for _, w := range result.Warnings {
		if w = format.CleanText(w); w != "" {
			v.Warnings = append(v.Warnings, w)
		}
	}

	for _, p := range result.Payments {
		v.Payments = append(v.Payments, PaymentRow{
			Label:  format.CleanText(p.Label()),
			Rate:   paymentRate(p, money),
			Amount: money.Format(p.Amount),
		})
	}

	if r := result.EffectiveRatePercent; r != nil && *r != 0 {
		v.EffectiveRate = format.FixedPercent(*r)
	}
	if r := result.ExchangeRate; r != nil && *r != 0 {
		v.ExchangeRate = money.Format(*r)
	}

	return v
}

// HasPayments reports whether the payments table is shown.
func (v BreakdownView) HasPayments() bool {
	return len(v.Payments) > 0
}

// HasWarnings reports whether the warnings block is shown.
func (v BreakdownView) HasWarnings() bool {
	return len(v.Warnings) > 0
}

func paymentRate(p model.Payment, money format.Money) string {
	if p.Rate == nil {
		return noRate
	}
	if p.IsPercent() {
		return format.Percent(*p.Rate)
	}
	return money.Format(*p.Rate)
}

func provenance(result *model.CalculationResult) string {
	if s := format.CleanText(result.SyncInfo); s != "" {
		return s
	}
	if s := format.CleanText(result.DataSource); s != "" {
		return "Ma'lumotlar " + s + " dan"
	}
	return ""
}
