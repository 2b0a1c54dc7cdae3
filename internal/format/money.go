// Package format turns backend values into display strings.
package format

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is the locale the calculator page was written for.
const DefaultLocale = "uz"

// maxFractionDigits caps displayed decimals for every monetary value.
const maxFractionDigits = 2

// Money formats amounts with locale-aware digit grouping.
type Money struct {
	printer *message.Printer
	tag     language.Tag
}

// NewMoney returns a formatter for the given locale.
func NewMoney(tag language.Tag) Money {
	return Money{printer: message.NewPrinter(tag), tag: tag}
}

// NewMoneyForLocale parses a BCP 47 locale name and returns a formatter for it.
func NewMoneyForLocale(locale string) (Money, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Money{}, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return NewMoney(tag), nil
}

// Tag returns the locale the formatter was built for.
func (m Money) Tag() language.Tag {
	return m.tag
}

// Format renders amount with grouping and at most two decimals.
func (m Money) Format(amount float64) string {
	if m.printer == nil {
		m = NewMoney(language.Und)
	}
	return m.printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(0),
		number.MaxFractionDigits(maxFractionDigits),
	))
}

// FormatPtr renders an optional amount, treating a missing value as zero.
func (m Money) FormatPtr(amount *float64) string {
	if amount == nil {
		return m.Format(0)
	}
	return m.Format(*amount)
}

// Percent renders a rate the way the backend sent it, e.g. "12%" or "0.5%".
func Percent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

// FixedPercent renders a percentage with exactly two decimals.
func FixedPercent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 2, 64) + "%"
}
