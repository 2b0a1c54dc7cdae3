// Package tradezone classifies origin countries against the CIS free-trade zone.
package tradezone

import (
	"slices"
	"strings"
)

// UnknownCountry is the sentinel code for goods of undeclared origin.
const UnknownCountry = "XX"

// Members are the CIS free-trade zone countries. Goods from these countries
// pay no import duty when an ST-1 certificate of origin is presented.
var Members = []string{"RU", "KZ", "KG", "TJ", "BY", "AM", "MD", "UA", "AZ", "GE"}

// Status is the trade regime that applies to an origin country.
type Status int

const (
	// StatusNone means the standard tariff applies and there is nothing to advise.
	StatusNone Status = iota
	// StatusFreeTrade means the country is a free-trade zone member.
	StatusFreeTrade
	// StatusUnknownCountry means the origin is undeclared and duty is doubled.
	StatusUnknownCountry
)

// Advisory messages shown next to the country field.
const (
	MessageFreeTrade      = "✅ Erkin savdo zonasi - ST-1 sertifikati bilan 0% boj"
	MessageUnknownCountry = "⚠️ Noma'lum mamlakat uchun 2x boj stavkasi qo'llanadi"
)

// Advice is what the form shows for a selected origin country.
type Advice struct {
	Message         string
	Status          Status
	ShowCertificate bool
}

// Normalize trims and upper-cases a country code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsMember reports whether code belongs to the free-trade zone.
func IsMember(code string) bool {
	return slices.Contains(Members, Normalize(code))
}

// Classify returns the advice for an origin country code.
func Classify(code string) Advice {
	code = Normalize(code)

	switch {
	case code == UnknownCountry:
		return Advice{Status: StatusUnknownCountry, Message: MessageUnknownCountry}
	case IsMember(code):
		return Advice{Status: StatusFreeTrade, Message: MessageFreeTrade, ShowCertificate: true}
	default:
		return Advice{Status: StatusNone}
	}
}

// String returns a short name for the status.
func (s Status) String() string {
	switch s {
	case StatusFreeTrade:
		return "free_trade"
	case StatusUnknownCountry:
		return "unknown_country"
	default:
		return "standard"
	}
}
