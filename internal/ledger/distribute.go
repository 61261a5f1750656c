package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mlefebvre/enveloppe/internal/models"
)

var (
	// ErrPercentageSum is returned when the allocation percentages do not
	// sum to exactly 100. The distribution is refused entirely; no balance
	// changes apply.
	ErrPercentageSum = errors.New("allocation percentages must sum to exactly 100")

	// ErrAllocationMismatch is returned when the allocation table and the
	// pocket set do not match one-to-one. This is a configuration error,
	// never a silent default to zero.
	ErrAllocationMismatch = errors.New("allocation table does not match pocket set")
)

// Status of the fixed-charge coverage check. Informational only: a shortfall
// never blocks distribution, it is a signal for the caller.
type Status string

const (
	StatusCovered   Status = "covered"
	StatusShortfall Status = "shortfall"
)

// DistributeInput is the full state a paycheck distribution reads.
type DistributeInput struct {
	PrimaryName       string
	PrimaryRawBalance decimal.Decimal
	Debts             []models.Debt
	Income            decimal.Decimal
	FixedChargesTotal decimal.Decimal
	Pockets           []models.Container
	Allocations       models.AllocationTable
}

// DistributeResult is the all-or-nothing outcome of a paycheck distribution.
type DistributeResult struct {
	// NewPrimaryBalance is the primary account's new raw balance: the old
	// raw balance plus income minus the excess moved into pockets. Fixed
	// charges are never subtracted from stored state; they only gate how
	// much excess flows out.
	NewPrimaryBalance decimal.Decimal

	// Increments maps each pocket name to the amount added to it.
	Increments map[string]decimal.Decimal

	// NewPocketBalances maps each pocket name to its new raw balance.
	NewPocketBalances map[string]decimal.Decimal

	// TrueAvailable is the primary account's debt-adjusted balance before
	// the income landed.
	TrueAvailable decimal.Decimal

	// Excess is the amount distributed into pockets.
	Excess decimal.Decimal

	// Status reports whether the true available balance covered the fixed
	// charges; Shortfall carries the missing amount when it did not.
	Status    Status
	Shortfall decimal.Decimal
}

// ValidateAllocations checks that every pocket has a percentage entry and
// every entry maps to an existing pocket.
func ValidateAllocations(pockets []models.Container, table models.AllocationTable) error {
	if len(table) != len(pockets) {
		return fmt.Errorf("%w: %d entries for %d pockets", ErrAllocationMismatch, len(table), len(pockets))
	}
	for _, p := range pockets {
		if _, ok := table[p.Name]; !ok {
			return fmt.Errorf("%w: pocket %q has no entry", ErrAllocationMismatch, p.Name)
		}
	}
	return nil
}

// Distribute computes how a paycheck splits between the fixed-expense buffer
// kept on the primary account and the percentage-weighted pockets.
//
// The allocation table is a hard gate: the percentages must match the pocket
// set one-to-one and sum to exactly 100, otherwise the distribution is
// refused and no balances change. A fixed-charge shortfall does not block
// anything; it is reported through Status.
func Distribute(in DistributeInput) (DistributeResult, error) {
	if err := ValidateAllocations(in.Pockets, in.Allocations); err != nil {
		return DistributeResult{}, err
	}
	if sum := in.Allocations.Sum(); sum != 100 {
		return DistributeResult{}, fmt.Errorf("%w: got %d", ErrPercentageSum, sum)
	}

	trueAvailable := VirtualBalance(in.PrimaryName, in.PrimaryRawBalance, in.Debts)
	totalAvailable := trueAvailable.Add(in.Income)

	status := StatusCovered
	shortfall := decimal.Zero
	if deficit := in.FixedChargesTotal.Sub(trueAvailable); deficit.IsPositive() {
		status = StatusShortfall
		shortfall = Round2(deficit)
	}

	excess := totalAvailable.Sub(in.FixedChargesTotal)
	if excess.IsNegative() {
		excess = decimal.Zero
	}
	excess = Round2(excess)

	hundred := decimal.NewFromInt(100)
	increments := make(map[string]decimal.Decimal, len(in.Pockets))
	newBalances := make(map[string]decimal.Decimal, len(in.Pockets))
	for _, p := range in.Pockets {
		pct := decimal.NewFromInt(int64(in.Allocations[p.Name]))
		inc := Round2(excess.Mul(pct).Div(hundred))
		increments[p.Name] = inc
		newBalances[p.Name] = Round2(p.Balance.Add(inc))
	}

	return DistributeResult{
		NewPrimaryBalance: Round2(in.PrimaryRawBalance.Add(in.Income).Sub(excess)),
		Increments:        increments,
		NewPocketBalances: newBalances,
		TrueAvailable:     trueAvailable,
		Excess:            excess,
		Status:            status,
		Shortfall:         shortfall,
	}, nil
}
