// Package money converts between display amounts and the integer miliunits
// (thousandths of a currency unit) that the ledger persists.
package money

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// MiliunitsPerUnit is the number of stored units in one display unit.
const MiliunitsPerUnit = 1000

var (
	// ErrInvalidAmount indicates the input could not be read as a number.
	ErrInvalidAmount = errors.New("amount must be a number")
	// ErrAmountOutOfRange indicates a parsed amount outside the accepted bounds.
	ErrAmountOutOfRange = errors.New("amount must be between 0.0001 and 999999999")
)

var (
	minAmount = decimal.New(1, -4)
	maxAmount = decimal.NewFromInt(999_999_999)
	unitScale = decimal.NewFromInt(MiliunitsPerUnit)
)

// Parsed amounts are bounded before any arithmetic. Comparing decimals
// rescales them to a shared exponent, which costs time proportional to the
// exponent gap.
const (
	maxLiteralLen = 32
	maxExponent   = 20
)

// parseDecimal reads a numeric literal, refusing overlong literals and
// exponents outside ±maxExponent.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" || len(s) > maxLiteralLen {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if exp := d.Exponent(); exp < -maxExponent || exp > maxExponent {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ToMiliunits validates amount and converts it to miliunits, rounding half
// away from zero.
func ToMiliunits(amount decimal.Decimal) (int64, error) {
	if exp := amount.Exponent(); exp < -maxExponent || exp > maxExponent {
		return 0, ErrAmountOutOfRange
	}
	if amount.LessThan(minAmount) || amount.GreaterThan(maxAmount) {
		return 0, ErrAmountOutOfRange
	}
	return amount.Mul(unitScale).Round(0).IntPart(), nil
}

// FromMiliunits converts stored miliunits back to a display amount. The
// conversion is exact.
func FromMiliunits(units int64) decimal.Decimal {
	return decimal.New(units, -3)
}

// FormatCurrency renders amount as en-US dollars with two fraction digits,
// e.g. "$1,234.50" or "-$5.00".
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	fixed := rounded.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + "$" + fixed
	}
	return sign + "$" + humanize.Comma(n) + "." + frac
}

// FormatMiliunits formats a stored amount for display.
func FormatMiliunits(units int64) string {
	return FormatCurrency(FromMiliunits(units))
}

// ParseAmount reads a user-supplied amount. Everything except digits, dots and
// minus signs is dropped first, so "$1,234.50" parses as 1234.50.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	return parseDecimal(cleaned)
}
