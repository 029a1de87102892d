// Package money provides the amount and currency primitives shared by the
// statement extractors. Amounts are shopspring decimals; currency metadata
// (ISO-4217 code validation, minor units) comes from go-money.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	GBP = "GBP" // British Pound
	USD = "USD" // US Dollar
	EUR = "EUR" // Euro
	JPY = "JPY" // Japanese Yen (no decimal places)
)

var ErrInvalidAmount = errors.New("invalid amount")

// glyphs are stripped before parsing. Multi-rune symbols come first.
var glyphs = []string{"R$", "US$", "$", "€", "£", "¥", "₹", " "}

// ParseAmount parses an issuer-formatted amount such as "-3.50", "£1,234.56",
// "+20.00" or "(12.00)". Thousands separators are commas, the decimal mark a dot.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	for _, g := range glyphs {
		s = strings.ReplaceAll(s, g, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// NormalizeCurrency upper-cases and validates an ISO-4217 code.
func NormalizeCurrency(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || money.GetCurrency(code) == nil {
		return code, false
	}
	return code, true
}

// Fraction returns the number of minor-unit digits for a currency, 2 when the
// code is unknown.
func Fraction(code string) int {
	if c := money.GetCurrency(strings.ToUpper(code)); c != nil {
		return c.Fraction
	}
	return 2
}

// Format renders an amount fixed to the currency's minor units, e.g. "-3.50".
func Format(d decimal.Decimal, code string) string {
	return d.StringFixed(int32(Fraction(code)))
}

// FormatQuantity renders a quantity without forcing a scale.
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}

// Display returns the amount formatted for humans, e.g. "£3.50".
func Display(d decimal.Decimal, code string) string {
	c := money.GetCurrency(strings.ToUpper(code))
	if c == nil {
		return Format(d, code) + " " + code
	}
	minor := d.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, c.Code).Display()
}
