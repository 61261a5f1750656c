package models

import "github.com/shopspring/decimal"

// Snapshot is the full application state: everything the ledger functions
// consume and everything the storage layer persists. The service reads a
// snapshot, invokes a ledger function, and atomically replaces the snapshot
// with the result.
type Snapshot struct {
	Accounts     []Container
	Pockets      []Container
	Debts        []Debt
	Allocations  AllocationTable
	FixedCharges []FixedCharge
}

// Account returns the account with the given name, or false if absent.
func (s Snapshot) Account(name string) (Container, bool) {
	for _, a := range s.Accounts {
		if a.Name == name {
			return a, true
		}
	}
	return Container{}, false
}

// Pocket returns the pocket with the given name, or false if absent.
func (s Snapshot) Pocket(name string) (Container, bool) {
	for _, p := range s.Pockets {
		if p.Name == name {
			return p, true
		}
	}
	return Container{}, false
}

// DefaultSnapshot returns the built-in seed state. It is used to initialize
// an empty database and as the fallback when stored data cannot be read.
// IDs are fixed so the seed is reproducible across runs and tests.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Accounts: []Container{
			{ID: "acc-bnp", Name: PrimaryAccount, Balance: decimal.Zero},
			{ID: "acc-revolut", Name: AggregateAccount, Balance: decimal.Zero},
		},
		Pockets: []Container{
			{ID: "pocket-life", Name: "Life", Balance: decimal.Zero},
			{ID: "pocket-plaisirs", Name: "Plaisirs", Balance: decimal.Zero},
			{ID: "pocket-remboursement-papa", Name: "Remboursement Papa", Balance: decimal.Zero},
			{ID: "pocket-cadeaux", Name: "Cadeaux", Balance: decimal.Zero},
			{ID: "pocket-epargne", Name: "Épargne", Balance: decimal.Zero},
		},
		Debts: []Debt{},
		Allocations: AllocationTable{
			"Life":               25,
			"Plaisirs":           35,
			"Remboursement Papa": 25,
			"Cadeaux":            5,
			"Épargne":            10,
		},
		FixedCharges: []FixedCharge{
			{Name: "Voiture", Amount: decimal.NewFromInt(175)},
			{Name: "Basic-Fit", Amount: decimal.NewFromInt(35)},
			{Name: "Coiffeur", Amount: decimal.NewFromInt(10)},
			{Name: "Base", Amount: decimal.NewFromInt(16)},
		},
	}
}
