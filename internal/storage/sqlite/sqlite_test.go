package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mlefebvre/enveloppe/internal/models"
	"github.com/mlefebvre/enveloppe/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "enveloppe-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("fresh database is seeded with defaults", func(t *testing.T) {
		snap, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if len(snap.Accounts) != 2 {
			t.Fatalf("got %d accounts, want 2", len(snap.Accounts))
		}
		if snap.Accounts[0].Name != models.PrimaryAccount {
			t.Errorf("first account = %q, want %q", snap.Accounts[0].Name, models.PrimaryAccount)
		}
		if snap.Accounts[1].Name != models.AggregateAccount {
			t.Errorf("second account = %q, want %q", snap.Accounts[1].Name, models.AggregateAccount)
		}

		if len(snap.Pockets) != 5 {
			t.Fatalf("got %d pockets, want 5", len(snap.Pockets))
		}
		if snap.Allocations.Sum() != 100 {
			t.Errorf("seed allocations sum to %d, want 100", snap.Allocations.Sum())
		}
		if snap.Allocations["Plaisirs"] != 35 {
			t.Errorf("Plaisirs percent = %d, want 35", snap.Allocations["Plaisirs"])
		}

		total := models.ChargesTotal(snap.FixedCharges)
		if !total.Equal(decimal.NewFromInt(236)) {
			t.Errorf("fixed charges total = %s, want 236", total)
		}
		if len(snap.Debts) != 0 {
			t.Errorf("seed has %d debts, want none", len(snap.Debts))
		}
	})

	t.Run("save and load round-trips the snapshot", func(t *testing.T) {
		snap := models.DefaultSnapshot()
		snap.Accounts[0].Balance = decimal.RequireFromString("1234.56")
		snap.Pockets[1].Balance = decimal.RequireFromString("78.90")
		snap.Debts = []models.Debt{
			{ID: "d2", Date: "2026-02-01", BorrowFrom: "BNP", ToFund: "Life", Amount: decimal.RequireFromString("20"), Note: "newer"},
			{ID: "d1", Date: "2026-01-01", BorrowFrom: "Life", ToFund: "Cadeaux", Amount: decimal.RequireFromString("5.50")},
		}

		if err := store.Save(ctx, snap); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if !got.Accounts[0].Balance.Equal(snap.Accounts[0].Balance) {
			t.Errorf("account balance = %s, want 1234.56", got.Accounts[0].Balance)
		}
		if !got.Pockets[1].Balance.Equal(snap.Pockets[1].Balance) {
			t.Errorf("pocket balance = %s, want 78.90", got.Pockets[1].Balance)
		}

		// Debt order (newest first) must survive persistence.
		if len(got.Debts) != 2 || got.Debts[0].ID != "d2" || got.Debts[1].ID != "d1" {
			t.Errorf("debt order not preserved: %+v", got.Debts)
		}
		if got.Debts[0].Note != "newer" {
			t.Errorf("debt note = %q, want %q", got.Debts[0].Note, "newer")
		}
		if !got.Debts[1].Amount.Equal(decimal.RequireFromString("5.50")) {
			t.Errorf("debt amount = %s, want 5.50", got.Debts[1].Amount)
		}
	})

	t.Run("save replaces the previous snapshot entirely", func(t *testing.T) {
		snap := models.DefaultSnapshot()
		if err := store.Save(ctx, snap); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(got.Debts) != 0 {
			t.Errorf("old debts survived a full replace: %+v", got.Debts)
		}
	})
}

func TestLoadOrDefaultFallsBackOnCorruptData(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Corrupt a balance behind the store's back.
	if _, err := store.db.ExecContext(ctx,
		"UPDATE accounts SET balance = 'not-a-number' WHERE name = ?", models.PrimaryAccount,
	); err != nil {
		t.Fatalf("failed to corrupt row: %v", err)
	}

	if _, err := store.Load(ctx); err == nil {
		t.Fatal("Load should fail on a corrupt balance")
	}

	snap := storage.LoadOrDefault(ctx, store)
	if len(snap.Pockets) != 5 || snap.Allocations.Sum() != 100 {
		t.Errorf("fallback snapshot is not the default seed: %+v", snap)
	}
}
