// Package ledger implements the budget computation core: virtual balances,
// debt ledger operations, aggregate balance resolution, and the paycheck
// distribution algorithm.
//
// Every function is pure: plain data in, plain data out, inputs never
// mutated. Persistence and presentation are the caller's problem.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when a money amount cannot be parsed
	// from user input. The operation carrying the amount is a no-op.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNegativeAmount is returned when a debt is created with a negative
	// amount. A negative debt would silently swap lender and borrower;
	// callers should swap the container names instead.
	ErrNegativeAmount = errors.New("debt amount must not be negative")
)

// Round2 rounds a money value to 2 decimal places (half away from zero).
// Applied after every additive operation that produces a stored value.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseAmount parses a user-entered money amount. Empty or non-numeric input
// is rejected with ErrInvalidAmount so the caller can treat the whole
// operation as a no-op rather than coercing to zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}
