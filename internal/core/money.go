// Package core holds the monthly ledger domain: the Month entity, its
// derived figures and mutators, the keyed store, and the shared amount and
// month-key validation every entry point goes through.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as plain JSON numbers, both in the ledger file and in
	// API responses.
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseAmount parses a non-negative monetary amount, rounding half-up to
// two decimal places. Rounding happens only here, at the input boundary;
// derived totals keep full precision until display.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", ErrValidation)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a valid dollar amount", ErrValidation, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}
	return d.Round(2), nil
}

// ParsePayment parses a payment amount, which must be strictly positive.
func ParsePayment(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: payment must be greater than zero", ErrValidation)
	}
	return d, nil
}

// FormatAmount renders an amount with exactly two fraction digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
