package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bilosnizhka/bilosnizhka/internal/common"
	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// SaveModifiers replaces the cached modifier reference catalog.
func (s *SQLiteStorage) SaveModifiers(ctx context.Context, modifiers []model.PriceModifier) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateModifiers(modifiers); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveModifiersTx(ctx, tx, modifiers); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStorage) saveModifiersTx(ctx context.Context, tx *sql.Tx, modifiers []model.PriceModifier) error {
	if err := clearModifiersTx(ctx, tx); err != nil {
		return err
	}
	for i := range modifiers {
		if err := insertModifierTx(ctx, tx, &modifiers[i]); err != nil {
			return err
		}
	}
	return nil
}

func clearModifiersTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM modifiers`); err != nil {
		return fmt.Errorf("failed to clear modifier catalog: %w", err)
	}
	return nil
}

func insertModifierTx(ctx context.Context, tx *sql.Tx, m *model.PriceModifier) error {
	categoriesJSON, err := json.Marshal(m.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories for %s: %w", m.Code, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO modifiers (code, name, kind, value, categories)
		VALUES (?, ?, ?, ?, ?)`,
		m.Code, m.Name, string(m.Kind), m.Value.String(), string(categoriesJSON),
	); err != nil {
		return fmt.Errorf("failed to save modifier %s: %w", m.Code, err)
	}
	return nil
}

// GetModifiers returns the cached modifier catalog.
func (s *SQLiteStorage) GetModifiers(ctx context.Context) ([]model.PriceModifier, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, kind, value, categories FROM modifiers ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query modifiers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var modifiers []model.PriceModifier
	for rows.Next() {
		m, err := scanModifier(rows)
		if err != nil {
			return nil, err
		}
		modifiers = append(modifiers, *m)
	}
	return modifiers, rows.Err()
}

// GetModifierByCode returns one catalog modifier.
func (s *SQLiteStorage) GetModifierByCode(ctx context.Context, code string) (*model.PriceModifier, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(code, "code"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT code, name, kind, value, categories FROM modifiers WHERE code = ?`, code)
	m, err := scanModifier(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func scanModifier(row rowScanner) (*model.PriceModifier, error) {
	var m model.PriceModifier
	var kind, value, categoriesJSON string

	if err := row.Scan(&m.Code, &m.Name, &kind, &value, &categoriesJSON); err != nil {
		return nil, err
	}

	m.Kind = model.ModifierKind(kind)
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: modifier %s value %q", common.ErrDatabaseCorrupted, m.Code, value)
	}
	m.Value = d

	if err := json.Unmarshal([]byte(categoriesJSON), &m.Categories); err != nil {
		return nil, fmt.Errorf("%w: modifier %s categories: %v", common.ErrDatabaseCorrupted, m.Code, err)
	}
	return &m, nil
}
