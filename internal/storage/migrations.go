package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS orders (
					id TEXT PRIMARY KEY,
					receipt_number TEXT UNIQUE,
					tag_number TEXT,
					client_id TEXT,
					branch_id TEXT,
					status TEXT NOT NULL,
					discount_type TEXT NOT NULL DEFAULT 'NONE',
					discount_percent TEXT NOT NULL DEFAULT '0',
					discount_amount TEXT NOT NULL DEFAULT '0',
					expedite_type TEXT NOT NULL DEFAULT 'STANDARD',
					expedite_surcharge TEXT NOT NULL DEFAULT '0',
					final_amount TEXT NOT NULL DEFAULT '0',
					prepayment_amount TEXT NOT NULL DEFAULT '0',
					balance_amount TEXT NOT NULL DEFAULT '0',
					created_at DATETIME NOT NULL,
					expected_completion_at DATETIME,
					notes TEXT
				)`,
				`CREATE INDEX idx_orders_status ON orders(status)`,
				`CREATE INDEX idx_orders_client ON orders(client_id)`,
				`CREATE INDEX idx_orders_receipt ON orders(receipt_number)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("migration 1 failed: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Order line items",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS order_items (
					id TEXT PRIMARY KEY,
					order_id TEXT NOT NULL,
					category_code TEXT NOT NULL,
					name TEXT NOT NULL,
					quantity TEXT NOT NULL,
					unit TEXT NOT NULL,
					base_price TEXT NOT NULL,
					modifiers TEXT,
					final_unit_price TEXT NOT NULL DEFAULT '0',
					final_total TEXT NOT NULL DEFAULT '0',
					position INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_order_items_order ON order_items(order_id)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("migration 2 failed: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Modifier reference catalog",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS modifiers (
					code TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					kind TEXT NOT NULL,
					value TEXT NOT NULL,
					categories TEXT NOT NULL,
					synced_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("migration 3 failed: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_versions (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		description TEXT
	)`); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		slog.Info("Applying migration",
			"version", m.Version,
			"description", m.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return err
		}

		if _, err := tx.Exec(
			`INSERT INTO schema_versions (version, description) VALUES (?, ?)`,
			m.Version, m.Description,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("schema version %d does not match expected %d", final, ExpectedSchemaVersion)
	}
	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_versions`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
