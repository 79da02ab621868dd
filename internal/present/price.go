package present

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// PriceFormatter renders prices in a locale and currency.
type PriceFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewPriceFormatter parses a BCP 47 locale ("it-IT") and an ISO 4217 code ("EUR").
func NewPriceFormatter(locale, code string) (*PriceFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	return &PriceFormatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// DefaultPriceFormatter formats euro amounts the Italian way.
func DefaultPriceFormatter() *PriceFormatter {
	return &PriceFormatter{printer: message.NewPrinter(language.Italian), unit: currency.EUR}
}

// Format returns e.g. "250.000,00 €". Missing, zero and non-finite prices
// render as PriceUnavailable.
func (f *PriceFormatter) Format(price *float64) string {
	if price == nil || *price == 0 || math.IsNaN(*price) || math.IsInf(*price, 0) {
		return PriceUnavailable
	}
	return f.Amount(*price)
}

// Amount formats a known amount.
func (f *PriceFormatter) Amount(v float64) string {
	return f.printer.Sprintf("%v %v",
		number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)),
		currency.Symbol(f.unit),
	)
}
