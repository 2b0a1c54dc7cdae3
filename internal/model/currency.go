package model

// CurrencyRate is the Central Bank rate of one currency against the sum.
type CurrencyRate struct {
	Code        string  `json:"code"`
	Name        string  `json:"name,omitempty"`
	Date        string  `json:"date,omitempty"`
	Rate        float64 `json:"rate"`
	RatePerUnit float64 `json:"rate_per_unit,omitempty"`
	Diff        float64 `json:"diff,omitempty"`
	Nominal     int     `json:"nominal,omitempty"`
}

// PerUnit returns the rate for a single unit of the currency.
func (r CurrencyRate) PerUnit() float64 {
	if r.RatePerUnit > 0 {
		return r.RatePerUnit
	}
	if r.Nominal > 1 {
		return r.Rate / float64(r.Nominal)
	}
	return r.Rate
}

// Currency is an entry of the full rates listing.
type Currency struct {
	Code    string  `json:"code"`
	Name    string  `json:"name,omitempty"`
	Date    string  `json:"date,omitempty"`
	RateUZS float64 `json:"rate_uzs"`
	Diff    float64 `json:"diff,omitempty"`
	Nominal int     `json:"nominal"`
}
