package models

import "github.com/shopspring/decimal"

// Well-known container names from the default data set. The ledger functions
// take names as parameters and work over whatever container sets they are
// given; these constants are only the service-level wiring.
const (
	// PrimaryAccount is the account paychecks land on and debts are usually
	// drawn against.
	PrimaryAccount = "BNP"

	// AggregateAccount is the account whose displayed balance is always the
	// sum of all pocket balances. Its own stored balance is dead data for
	// display and the account is not directly editable.
	AggregateAccount = "Revolut"
)

// Container represents a named money holder.
//
// Two disjoint scopes exist: accounts (top-level holders) and pockets
// (sub-divisions of the aggregate account). A container lives in exactly one
// scope; names are unique within their scope.
type Container struct {
	// ID is the unique identifier for the container.
	ID string

	// Name is the display name, unique within the container's scope.
	// Debts reference containers by this name.
	Name string

	// Balance is the raw stored balance, unadjusted by debts. Always
	// rounded to 2 decimal places after any mutation.
	Balance decimal.Decimal
}

// FixedCharge is one named line item of the monthly fixed charges.
// The fixed-charge total used by the paycheck distribution is always derived
// by summing the line items, never stored separately.
type FixedCharge struct {
	Name   string
	Amount decimal.Decimal
}

// ChargesTotal sums the fixed charge line items, rounded to 2 decimals.
func ChargesTotal(charges []FixedCharge) decimal.Decimal {
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.Amount)
	}
	return total.Round(2)
}

// AllocationTable maps a pocket name to its integer percentage share of the
// paycheck excess. A distribution only runs when the entries sum to exactly
// 100 and the keys match the pocket set one-to-one.
type AllocationTable map[string]int

// Sum returns the total of all percentage entries.
func (t AllocationTable) Sum() int {
	sum := 0
	for _, pct := range t {
		sum += pct
	}
	return sum
}
