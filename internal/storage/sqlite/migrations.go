package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are stored as decimal strings; position columns preserve display
// order (debts are newest first).
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    balance TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pockets (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    balance TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS debts (
    id TEXT PRIMARY KEY,
    date TEXT NOT NULL,
    borrow_from TEXT NOT NULL,
    to_fund TEXT NOT NULL,
    amount TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS allocations (
    pocket TEXT PRIMARY KEY,
    percent INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fixed_charges (
    name TEXT PRIMARY KEY,
    amount TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_debts_position ON debts(position);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
