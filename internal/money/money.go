// Package money parses and formats wallet amounts.
//
// Amounts are kept as exact decimals; rounding to two places happens only
// when an amount is rendered for display.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Places is the number of fractional digits an entered amount may carry.
	Places = 2

	maxInputLen = 32
)

var (
	ErrNotANumber = errors.New("amount is not a number")
	ErrTooPrecise = errors.New("amount has more than two fractional digits")
	ErrOutOfRange = errors.New("amount is out of range")
	maxMagnitude  = decimal.New(1, 12)
)

// Parse reads a user-entered amount. Both "12.50" and "12,50" are accepted,
// as are surrounding spaces. Exponent notation is rejected, and so is any
// amount finer than 0.01 or at least 10^12 in magnitude.
func Parse(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrNotANumber
	}
	if len(s) > maxInputLen {
		return decimal.Zero, ErrOutOfRange
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrNotANumber
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}
	if !d.Equal(d.Round(Places)) {
		return decimal.Zero, ErrTooPrecise
	}
	if d.Abs().GreaterThanOrEqual(maxMagnitude) {
		return decimal.Zero, ErrOutOfRange
	}
	return d, nil
}

// MustParse is Parse for constants.
func MustParse(raw string) decimal.Decimal {
	d, err := Parse(raw)
	if err != nil {
		panic("money: bad constant " + raw)
	}
	return d
}

// Format renders an amount with two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent returns amount * rate, unrounded.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}
