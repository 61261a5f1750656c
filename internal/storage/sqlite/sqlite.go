// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mlefebvre/enveloppe/internal/models"
	"github.com/mlefebvre/enveloppe/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories, runs migrations, and seeds the default
// snapshot when the database is empty.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.seedIfEmpty(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// seedIfEmpty writes the default snapshot into a database with no accounts.
func (s *SQLiteStore) seedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.Save(ctx, models.DefaultSnapshot())
}

// Save atomically replaces the stored snapshot. The whole write happens in
// one transaction so a failed save leaves the previous snapshot intact.
func (s *SQLiteStore) Save(ctx context.Context, snap models.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"accounts", "pockets", "debts", "allocations", "fixed_charges"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, a := range snap.Accounts {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO accounts (id, name, balance, position) VALUES (?, ?, ?, ?)",
			a.ID, a.Name, a.Balance.String(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert account: %w", err)
		}
	}

	for i, p := range snap.Pockets {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO pockets (id, name, balance, position) VALUES (?, ?, ?, ?)",
			p.ID, p.Name, p.Balance.String(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert pocket: %w", err)
		}
	}

	for i, d := range snap.Debts {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO debts (id, date, borrow_from, to_fund, amount, note, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
			d.ID, d.Date, d.BorrowFrom, d.ToFund, d.Amount.String(), d.Note, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}
	}

	for pocket, pct := range snap.Allocations {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO allocations (pocket, percent) VALUES (?, ?)",
			pocket, pct,
		)
		if err != nil {
			return fmt.Errorf("failed to insert allocation: %w", err)
		}
	}

	for i, c := range snap.FixedCharges {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO fixed_charges (name, amount, position) VALUES (?, ?, ?)",
			c.Name, c.Amount.String(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert fixed charge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Load reads the full snapshot. Any row that cannot be decoded (a corrupt
// amount, for instance) surfaces as an error so the caller can fall back to
// the default snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot

	accounts, err := s.loadContainers(ctx, "accounts")
	if err != nil {
		return snap, err
	}
	pockets, err := s.loadContainers(ctx, "pockets")
	if err != nil {
		return snap, err
	}
	snap.Accounts = accounts
	snap.Pockets = pockets

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, borrow_from, to_fund, amount, note FROM debts ORDER BY position",
	)
	if err != nil {
		return snap, fmt.Errorf("failed to get debts: %w", err)
	}
	defer rows.Close()

	snap.Debts = []models.Debt{}
	for rows.Next() {
		var d models.Debt
		var amount string
		if err := rows.Scan(&d.ID, &d.Date, &d.BorrowFrom, &d.ToFund, &amount, &d.Note); err != nil {
			return snap, fmt.Errorf("failed to scan debt: %w", err)
		}
		if d.Amount, err = decimal.NewFromString(amount); err != nil {
			return snap, fmt.Errorf("corrupt debt amount %q: %w", amount, err)
		}
		snap.Debts = append(snap.Debts, d)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("failed to iterate debts: %w", err)
	}

	allocRows, err := s.db.QueryContext(ctx, "SELECT pocket, percent FROM allocations")
	if err != nil {
		return snap, fmt.Errorf("failed to get allocations: %w", err)
	}
	defer allocRows.Close()

	snap.Allocations = models.AllocationTable{}
	for allocRows.Next() {
		var pocket string
		var pct int
		if err := allocRows.Scan(&pocket, &pct); err != nil {
			return snap, fmt.Errorf("failed to scan allocation: %w", err)
		}
		snap.Allocations[pocket] = pct
	}
	if err := allocRows.Err(); err != nil {
		return snap, fmt.Errorf("failed to iterate allocations: %w", err)
	}

	chargeRows, err := s.db.QueryContext(ctx,
		"SELECT name, amount FROM fixed_charges ORDER BY position",
	)
	if err != nil {
		return snap, fmt.Errorf("failed to get fixed charges: %w", err)
	}
	defer chargeRows.Close()

	for chargeRows.Next() {
		var c models.FixedCharge
		var amount string
		if err := chargeRows.Scan(&c.Name, &amount); err != nil {
			return snap, fmt.Errorf("failed to scan fixed charge: %w", err)
		}
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return snap, fmt.Errorf("corrupt charge amount %q: %w", amount, err)
		}
		snap.FixedCharges = append(snap.FixedCharges, c)
	}
	if err := chargeRows.Err(); err != nil {
		return snap, fmt.Errorf("failed to iterate fixed charges: %w", err)
	}

	return snap, nil
}

func (s *SQLiteStore) loadContainers(ctx context.Context, table string) ([]models.Container, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, balance FROM "+table+" ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", table, err)
	}
	defer rows.Close()

	var containers []models.Container
	for rows.Next() {
		var c models.Container
		var balance string
		if err := rows.Scan(&c.ID, &c.Name, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		if c.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("corrupt balance %q in %s: %w", balance, table, err)
		}
		containers = append(containers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	return containers, nil
}
