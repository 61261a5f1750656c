// Package service orchestrates the ledger core against the snapshot store:
// each operation loads a snapshot, runs the pure computation, and writes the
// result back. Persistence failures on write are logged and swallowed; the
// caller still gets the in-memory result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mlefebvre/enveloppe/internal/ledger"
	"github.com/mlefebvre/enveloppe/internal/models"
	"github.com/mlefebvre/enveloppe/internal/storage"
)

var (
	// ErrNotEditable is returned for direct balance edits on the aggregate
	// account, whose balance is derived from its pockets.
	ErrNotEditable = errors.New("account balance is derived and cannot be edited")

	// ErrUnknownContainer is returned when an operation names a container
	// that does not exist.
	ErrUnknownContainer = errors.New("unknown container")
)

// BudgetService exposes the budget operations over a snapshot store.
type BudgetService struct {
	store storage.Store
}

// NewBudgetService creates a BudgetService with the given storage backend.
func NewBudgetService(store storage.Store) *BudgetService {
	return &BudgetService{store: store}
}

// save writes the snapshot back, best effort. A failed write is logged and
// otherwise ignored: the operation already happened in memory and the result
// is returned regardless.
func (s *BudgetService) save(ctx context.Context, snap models.Snapshot) {
	if err := s.store.Save(ctx, snap); err != nil {
		slog.Error("Snapshot save failed", "error", err)
	}
}

// AccountView is an account with its debt-adjusted balance. For the aggregate
// account, Balance is the pocket sum, not the stored raw value.
type AccountView struct {
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Available decimal.Decimal `json:"available"`
	Editable  bool            `json:"editable"`
}

// PocketView is a pocket with its debt-adjusted balance and its percentage
// share of paycheck excess.
type PocketView struct {
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Available decimal.Decimal `json:"available"`
	Percent   int             `json:"percent"`
}

// Overview is the full display state: containers with virtual balances, net
// worth, and the fixed-charge coverage signal.
type Overview struct {
	Accounts          []AccountView        `json:"accounts"`
	Pockets           []PocketView         `json:"pockets"`
	NetWorth          decimal.Decimal      `json:"netWorth"`
	FixedCharges      []models.FixedCharge `json:"fixedCharges"`
	FixedChargesTotal decimal.Decimal      `json:"fixedChargesTotal"`
	ChargeStatus      ledger.Status        `json:"chargeStatus"`
	Shortfall         decimal.Decimal      `json:"shortfall"`
}

// Overview computes the display state from the current snapshot.
func (s *BudgetService) Overview(ctx context.Context) (*Overview, error) {
	snap := storage.LoadOrDefault(ctx, s.store)

	out := &Overview{
		FixedCharges:      snap.FixedCharges,
		FixedChargesTotal: models.ChargesTotal(snap.FixedCharges),
		ChargeStatus:      ledger.StatusCovered,
		Shortfall:         decimal.Zero,
	}

	for _, a := range snap.Accounts {
		view := AccountView{Name: a.Name, Balance: a.Balance, Editable: true}
		if a.Name == models.AggregateAccount {
			view.Balance = ledger.AggregateBalance(snap.Pockets)
			view.Editable = false
		}
		view.Available = ledger.VirtualBalance(a.Name, view.Balance, snap.Debts)
		out.Accounts = append(out.Accounts, view)
	}

	for _, p := range snap.Pockets {
		out.Pockets = append(out.Pockets, PocketView{
			Name:      p.Name,
			Balance:   p.Balance,
			Available: ledger.VirtualBalance(p.Name, p.Balance, snap.Debts),
			Percent:   snap.Allocations[p.Name],
		})
	}

	if primary, ok := snap.Account(models.PrimaryAccount); ok {
		out.NetWorth = ledger.NetWorth(primary.Balance, snap.Pockets)

		trueAvailable := ledger.VirtualBalance(primary.Name, primary.Balance, snap.Debts)
		if deficit := out.FixedChargesTotal.Sub(trueAvailable); deficit.IsPositive() {
			out.ChargeStatus = ledger.StatusShortfall
			out.Shortfall = ledger.Round2(deficit)
		}
	}

	return out, nil
}

// ListDebts returns the debt ledger, newest first.
func (s *BudgetService) ListDebts(ctx context.Context) ([]models.Debt, error) {
	snap := storage.LoadOrDefault(ctx, s.store)
	return snap.Debts, nil
}

// AddDebtRequest carries user input for a new debt. Amount arrives as the
// raw entered string so invalid input can be rejected as a no-op instead of
// being coerced to zero.
type AddDebtRequest struct {
	BorrowFrom string `json:"borrowFrom"`
	ToFund     string `json:"toFund"`
	Amount     string `json:"amount"`
	Note       string `json:"note"`
}

// AddDebt records a new debt and returns it.
func (s *BudgetService) AddDebt(ctx context.Context, req AddDebtRequest) (*models.Debt, error) {
	amount, err := ledger.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	snap := storage.LoadOrDefault(ctx, s.store)
	debts, err := ledger.AddDebt(snap.Debts, req.BorrowFrom, req.ToFund, amount, req.Note)
	if err != nil {
		return nil, err
	}
	snap.Debts = debts
	s.save(ctx, snap)

	debt := debts[0]
	slog.Info("Debt added",
		"id", debt.ID,
		"borrow_from", debt.BorrowFrom,
		"to_fund", debt.ToFund,
		"amount", debt.Amount,
	)
	return &debt, nil
}

// RemoveDebt deletes the debt with the given id. An absent id is a no-op.
func (s *BudgetService) RemoveDebt(ctx context.Context, id string) error {
	snap := storage.LoadOrDefault(ctx, s.store)
	snap.Debts = ledger.RemoveDebt(snap.Debts, id)
	s.save(ctx, snap)

	slog.Info("Debt removed", "id", id)
	return nil
}

// DistributeResponse reports how a paycheck was split.
type DistributeResponse struct {
	NewPrimaryBalance decimal.Decimal            `json:"newPrimaryBalance"`
	Increments        map[string]decimal.Decimal `json:"increments"`
	Excess            decimal.Decimal            `json:"excess"`
	Status            ledger.Status              `json:"status"`
	Shortfall         decimal.Decimal            `json:"shortfall"`
}

// Distribute runs the paycheck allocation: income lands on the primary
// account and the excess over fixed charges flows into the pockets by their
// percentage shares. The update is all-or-nothing; a bad allocation table
// refuses the whole operation.
func (s *BudgetService) Distribute(ctx context.Context, income string) (*DistributeResponse, error) {
	amount, err := ledger.ParseAmount(income)
	if err != nil {
		return nil, err
	}

	snap := storage.LoadOrDefault(ctx, s.store)
	primary, ok := snap.Account(models.PrimaryAccount)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContainer, models.PrimaryAccount)
	}

	res, err := ledger.Distribute(ledger.DistributeInput{
		PrimaryName:       primary.Name,
		PrimaryRawBalance: primary.Balance,
		Debts:             snap.Debts,
		Income:            amount,
		FixedChargesTotal: models.ChargesTotal(snap.FixedCharges),
		Pockets:           snap.Pockets,
		Allocations:       snap.Allocations,
	})
	if err != nil {
		slog.Warn("Distribution refused", "error", err)
		return nil, err
	}

	for i := range snap.Accounts {
		if snap.Accounts[i].Name == primary.Name {
			snap.Accounts[i].Balance = res.NewPrimaryBalance
		}
	}
	for i := range snap.Pockets {
		snap.Pockets[i].Balance = res.NewPocketBalances[snap.Pockets[i].Name]
	}
	s.save(ctx, snap)

	slog.Info("Paycheck distributed",
		"income", amount,
		"excess", res.Excess,
		"status", res.Status,
		"new_primary_balance", res.NewPrimaryBalance,
	)
	return &DistributeResponse{
		NewPrimaryBalance: res.NewPrimaryBalance,
		Increments:        res.Increments,
		Excess:            res.Excess,
		Status:            res.Status,
		Shortfall:         res.Shortfall,
	}, nil
}

// UpdateBalance sets a container's raw balance from user input. The aggregate
// account is rejected: its balance is a projection of the pockets and must
// never be written directly.
func (s *BudgetService) UpdateBalance(ctx context.Context, name, amount string) error {
	if name == models.AggregateAccount {
		return ErrNotEditable
	}
	balance, err := ledger.ParseAmount(amount)
	if err != nil {
		return err
	}
	balance = ledger.Round2(balance)

	snap := storage.LoadOrDefault(ctx, s.store)
	updated := false
	for i := range snap.Accounts {
		if snap.Accounts[i].Name == name {
			snap.Accounts[i].Balance = balance
			updated = true
		}
	}
	for i := range snap.Pockets {
		if snap.Pockets[i].Name == name {
			snap.Pockets[i].Balance = balance
			updated = true
		}
	}
	if !updated {
		return fmt.Errorf("%w: %s", ErrUnknownContainer, name)
	}
	s.save(ctx, snap)

	slog.Info("Balance updated", "container", name, "balance", balance)
	return nil
}

// GetAllocations returns the pocket percentage table.
func (s *BudgetService) GetAllocations(ctx context.Context) (models.AllocationTable, error) {
	snap := storage.LoadOrDefault(ctx, s.store)
	return snap.Allocations, nil
}

// SetAllocations replaces the percentage table. The table must map the
// pocket set one-to-one and sum to exactly 100; mismatches are configuration
// errors and nothing is stored.
func (s *BudgetService) SetAllocations(ctx context.Context, table models.AllocationTable) error {
	snap := storage.LoadOrDefault(ctx, s.store)
	if err := ledger.ValidateAllocations(snap.Pockets, table); err != nil {
		return err
	}
	if sum := table.Sum(); sum != 100 {
		return fmt.Errorf("%w: got %d", ledger.ErrPercentageSum, sum)
	}

	snap.Allocations = table
	s.save(ctx, snap)

	slog.Info("Allocations updated", "table", table)
	return nil
}
