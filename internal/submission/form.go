// Package submission validates the calculator form and runs one calculation
// at a time against the backend.
package submission

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/tradezone"
	"github.com/shopspring/decimal"
)

// Messages shown when the form is rejected before sending.
const (
	MessageCodeRequired  = "TN VED kodini kiriting (kamida 2 raqam)"
	MessagePriceRequired = "Tovar narxini kiriting"
)

// DefaultCurrency is used when the currency field is empty.
const DefaultCurrency = "USD"

const minCodeLength = 2

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// Form holds the calculator fields exactly as typed.
type Form struct {
	Code           string
	Price          string
	Currency       string
	Weight         string
	Country        string
	Delivery       string
	Insurance      string
	EngineVolume   string
	Quantity       string
	VehicleAge     string
	HasCertificate bool
}

// ValidationError rejects a form before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate turns the form into a request. Numbers that do not parse count as
// zero, a zero weight counts as one kilogram, and a zero engine volume is
// left out.
func Validate(f Form) (model.CalculationRequest, error) {
	code := strings.TrimSpace(f.Code)
	if utf8.RuneCountInString(code) < minCodeLength {
		return model.CalculationRequest{}, &ValidationError{Field: "code", Message: MessageCodeRequired}
	}

	price := parseNumber(f.Price)
	if !price.IsPositive() {
		return model.CalculationRequest{}, &ValidationError{Field: "price", Message: MessagePriceRequired}
	}

	weight := parseNumber(f.Weight)
	if weight.IsZero() {
		weight = decimal.NewFromInt(1)
	}

	currency := strings.ToUpper(strings.TrimSpace(f.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	country := tradezone.Normalize(f.Country)
	if country == "" {
		country = tradezone.UnknownCountry
	}

	return model.CalculationRequest{
		Code:           code,
		Price:          price.InexactFloat64(),
		Currency:       currency,
		Weight:         weight.InexactFloat64(),
		CountryOrigin:  country,
		HasCertificate: f.HasCertificate,
		DeliveryCost:   parseNumber(f.Delivery).InexactFloat64(),
		InsuranceCost:  parseNumber(f.Insurance).InexactFloat64(),
		EngineVolume:   parseOptionalInt(f.EngineVolume),
		Quantity:       parseOptionalInt(f.Quantity),
		VehicleAge:     parseOptionalInt(f.VehicleAge),
	}, nil
}

// parseNumber reads the leading decimal number of s, ignoring trailing text.
func parseNumber(s string) decimal.Decimal {
	match := leadingFloat.FindString(strings.TrimSpace(s))
	if match == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseOptionalInt reads the leading integer of s; zero and garbage are nil.
func parseOptionalInt(s string) *int {
	match := leadingInt.FindString(strings.TrimSpace(s))
	if match == "" {
		return nil
	}
	d, err := decimal.NewFromString(match)
	if err != nil || d.IsZero() {
		return nil
	}
	n := int(d.IntPart())
	return &n
}
