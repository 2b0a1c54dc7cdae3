package model

// DutyRateType is the tariff regime the backend applied to a calculation.
type DutyRateType string

// Duty rate regimes reported by the calculator.
const (
	DutyStandard           DutyRateType = "standard"
	DutyFreeTrade          DutyRateType = "free_trade"
	DutyCISWithCertificate DutyRateType = "cis_with_certificate"
	DutyUnknownCountry     DutyRateType = "unknown_country"
)

// Rate types used by payment line items.
const (
	RateTypePercent = "percent"
	RateTypeFixed   = "fixed"
)

// CalculationRequest is the one-shot payload posted to the calculator.
type CalculationRequest struct {
	Quantity       *int    `json:"quantity,omitempty"`
	VehicleAge     *int    `json:"vehicle_age,omitempty"`
	EngineVolume   *int    `json:"engine_volume"`
	Code           string  `json:"code"`
	Currency       string  `json:"currency"`
	CountryOrigin  string  `json:"country_origin"`
	Price          float64 `json:"price"`
	Weight         float64 `json:"weight"`
	DeliveryCost   float64 `json:"delivery_cost"`
	InsuranceCost  float64 `json:"insurance_cost"`
	HasCertificate bool    `json:"has_certificate"`
}

// Payment is one line of the duty breakdown.
type Payment struct {
	Base     *float64 `json:"base,omitempty"`
	Rate     *float64 `json:"rate"`
	Name     string   `json:"name"`
	NameUZ   string   `json:"name_uz"`
	RateType string   `json:"rate_type"`
	Note     string   `json:"note,omitempty"`
	Amount   float64  `json:"amount"`
}

// Label returns the Uzbek name when present, falling back to the default name.
func (p Payment) Label() string {
	if p.NameUZ != "" {
		return p.NameUZ
	}
	return p.Name
}

// IsPercent reports whether the rate is a percentage of the customs value.
func (p Payment) IsPercent() bool {
	return p.RateType == RateTypePercent
}

// CalculationResult is the breakdown returned by the calculator.
type CalculationResult struct {
	Details              map[string]any `json:"details,omitempty"`
	EffectiveRatePercent *float64       `json:"effective_rate_percent,omitempty"`
	ExchangeRate         *float64       `json:"exchange_rate,omitempty"`
	DutyRateType         DutyRateType   `json:"duty_rate_type"`
	DataSource           string         `json:"data_source,omitempty"`
	SyncInfo             string         `json:"sync_info,omitempty"`
	Payments             []Payment      `json:"payments"`
	Warnings             []string       `json:"warnings,omitempty"`
	CustomsValueUZS      float64        `json:"customs_value_uzs"`
	CustomsValueUSD      float64        `json:"customs_value_usd"`
	TotalUZS             float64        `json:"total_uzs"`
	TotalUSD             float64        `json:"total_usd"`
}

// HasPayments reports whether the breakdown lists any payment line items.
func (r CalculationResult) HasPayments() bool {
	return len(r.Payments) > 0
}
