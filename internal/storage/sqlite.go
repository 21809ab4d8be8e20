// Package storage provides the local SQLite persistence layer: the order
// cache and the modifier reference catalog.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
	"github.com/bilosnizhka/bilosnizhka/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTransaction) SaveOrder(ctx context.Context, order *model.Order) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOrder(order); err != nil {
		return err
	}
	return t.storage.saveOrderTx(ctx, t.tx, order)
}

func (t *sqliteTransaction) SaveModifiers(ctx context.Context, modifiers []model.PriceModifier) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateModifiers(modifiers); err != nil {
		return err
	}
	return t.storage.saveModifiersTx(ctx, t.tx, modifiers)
}

// ClearModifiers empties the modifier catalog ahead of a per-item restage.
func (t *sqliteTransaction) ClearModifiers(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return clearModifiersTx(ctx, t.tx)
}

// SaveModifier stages one catalog modifier. Callers that want progress
// reporting stage the catalog one modifier at a time.
func (t *sqliteTransaction) SaveModifier(ctx context.Context, modifier model.PriceModifier) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateModifier(&modifier, 0); err != nil {
		return err
	}
	return insertModifierTx(ctx, t.tx, &modifier)
}
