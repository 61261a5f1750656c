// Package storage provides abstractions for persistent snapshot storage.
package storage

import (
	"context"
	"log/slog"

	"github.com/mlefebvre/enveloppe/internal/models"
)

// Store defines the interface for snapshot persistence.
// This abstraction allows swapping storage backends (SQLite, a flat file,
// etc.) without changing the service layer.
type Store interface {
	// Load reads the full snapshot. A fresh backend seeds itself with
	// models.DefaultSnapshot and returns that.
	Load(ctx context.Context) (models.Snapshot, error)

	// Save atomically replaces the stored snapshot.
	Save(ctx context.Context, snap models.Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}

// LoadOrDefault reads the snapshot and falls back to the built-in defaults
// when the stored data cannot be read. Corrupt data must never crash the
// application; it degrades to the seed state.
func LoadOrDefault(ctx context.Context, s Store) models.Snapshot {
	snap, err := s.Load(ctx)
	if err != nil {
		slog.Warn("Snapshot load failed, using defaults", "error", err)
		return models.DefaultSnapshot()
	}
	return snap
}
