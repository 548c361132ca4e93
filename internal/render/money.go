package render

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultLocale = "en-IN"
	DefaultSymbol = "₹"
)

// Money formats whole currency amounts with locale digit grouping and a
// fixed currency symbol prefix.
type Money struct {
	printer *message.Printer
	symbol  string
}

func NewMoney(locale, symbol string) (*Money, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Money{printer: message.NewPrinter(tag), symbol: symbol}, nil
}

func (m *Money) Format(amount int64) string {
	if amount < 0 {
		return "-" + m.symbol + m.printer.Sprintf("%d", -amount)
	}
	return m.symbol + m.printer.Sprintf("%d", amount)
}
