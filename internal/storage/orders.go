package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bilosnizhka/bilosnizhka/internal/common"
	"github.com/bilosnizhka/bilosnizhka/internal/model"
	"github.com/bilosnizhka/bilosnizhka/internal/service"
)

// Monetary columns are stored as decimal strings to avoid float drift
// between save and the consistency recomputation.

// SaveOrder upserts an order and its line items in one transaction.
func (s *SQLiteStorage) SaveOrder(ctx context.Context, order *model.Order) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOrder(order); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveOrderTx(ctx, tx, order); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStorage) saveOrderTx(ctx context.Context, tx *sql.Tx, order *model.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, receipt_number, tag_number, client_id, branch_id, status,
			discount_type, discount_percent, discount_amount,
			expedite_type, expedite_surcharge,
			final_amount, prepayment_amount, balance_amount,
			created_at, expected_completion_at, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			receipt_number = excluded.receipt_number,
			tag_number = excluded.tag_number,
			client_id = excluded.client_id,
			branch_id = excluded.branch_id,
			status = excluded.status,
			discount_type = excluded.discount_type,
			discount_percent = excluded.discount_percent,
			discount_amount = excluded.discount_amount,
			expedite_type = excluded.expedite_type,
			expedite_surcharge = excluded.expedite_surcharge,
			final_amount = excluded.final_amount,
			prepayment_amount = excluded.prepayment_amount,
			balance_amount = excluded.balance_amount,
			expected_completion_at = excluded.expected_completion_at,
			notes = excluded.notes`,
		order.ID, order.ReceiptNumber, order.TagNumber, order.ClientID, order.BranchID, string(order.Status),
		string(order.DiscountType), order.DiscountPercent.String(), order.DiscountAmount.String(),
		string(order.ExpediteType), order.ExpediteSurcharge.String(),
		order.FinalAmount.String(), order.PrepaymentAmount.String(), order.BalanceAmount.String(),
		order.CreatedAt, nullableTime(order.ExpectedCompletionAt), order.Notes,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: receipt number %s", common.ErrDuplicateEntry, order.ReceiptNumber)
		}
		return fmt.Errorf("failed to save order: %w", err)
	}

	// Replace the item set wholesale; positions preserve intake order.
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, order.ID); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		modifiersJSON, err := json.Marshal(item.Modifiers)
		if err != nil {
			return fmt.Errorf("failed to marshal modifiers for item %s: %w", item.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, category_code, name, quantity, unit,
				base_price, modifiers, final_unit_price, final_total, position
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, order.ID, item.CategoryCode, item.Name, item.Quantity.String(), string(item.Unit),
			item.BasePrice.String(), string(modifiersJSON),
			item.FinalUnitPrice.String(), item.FinalTotal.String(), i,
		); err != nil {
			return fmt.Errorf("failed to save item %s: %w", item.ID, err)
		}
	}

	return nil
}

// GetOrder loads one order with its line items.
func (s *SQLiteStorage) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getOrderWhere(ctx, "id = ?", id)
}

// GetOrderByReceiptNumber loads one order by its receipt number.
func (s *SQLiteStorage) GetOrderByReceiptNumber(ctx context.Context, receiptNumber string) (*model.Order, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(receiptNumber, "receiptNumber"); err != nil {
		return nil, err
	}
	return s.getOrderWhere(ctx, "receipt_number = ?", receiptNumber)
}

func (s *SQLiteStorage) getOrderWhere(ctx context.Context, where string, arg any) (*model.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, receipt_number, tag_number, client_id, branch_id, status,
			discount_type, discount_percent, discount_amount,
			expedite_type, expedite_surcharge,
			final_amount, prepayment_amount, balance_amount,
			created_at, expected_completion_at, notes
		FROM orders WHERE `+where, arg)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	items, err := s.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// GetOrders lists orders matching the filter, newest first.
func (s *SQLiteStorage) GetOrders(ctx context.Context, filter service.OrderFilter) ([]model.Order, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, receipt_number, tag_number, client_id, branch_id, status,
			discount_type, discount_percent, discount_amount,
			expedite_type, expedite_surcharge,
			final_amount, prepayment_amount, balance_amount,
			created_at, expected_completion_at, notes
		FROM orders WHERE 1=1`
	var args []any

	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, string(*filter.Status))
	}
	if filter.BranchID != "" {
		query += " AND branch_id = ?"
		args = append(args, filter.BranchID)
	}
	if filter.ClientID != "" {
		query += " AND client_id = ?"
		args = append(args, filter.ClientID)
	}
	if filter.StartDate != nil {
		query += " AND created_at >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND created_at <= ?"
		args = append(args, *filter.EndDate)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// The single SQLite connection is held while the cursor is open, so it
	// must be released before the per-order item queries can run.
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("failed to close order cursor: %w", err)
	}

	for i := range orders {
		items, err := s.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// UpdateOrderStatus validates and applies a status transition.
func (s *SQLiteStorage) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	warning, err := model.Transition(order.Status, status)
	if err != nil {
		return err
	}
	if warning != "" {
		common.LogInfo(warning, common.Fields{"order_id": id})
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteOrder removes an order and its items.
func (s *SQLiteStorage) DeleteOrder(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return tx.Commit()
}

func (s *SQLiteStorage) loadItems(ctx context.Context, orderID string) ([]model.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_code, name, quantity, unit, base_price,
			modifiers, final_unit_price, final_total
		FROM order_items WHERE order_id = ? ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.LineItem
	for rows.Next() {
		var item model.LineItem
		var quantity, basePrice, finalUnit, finalTotal string
		var unit string
		var modifiersJSON sql.NullString

		if err := rows.Scan(&item.ID, &item.CategoryCode, &item.Name, &quantity, &unit,
			&basePrice, &modifiersJSON, &finalUnit, &finalTotal); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		item.Unit = model.UnitOfMeasure(unit)
		if item.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("%w: item %s quantity %q", common.ErrDatabaseCorrupted, item.ID, quantity)
		}
		if item.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
			return nil, fmt.Errorf("%w: item %s base price %q", common.ErrDatabaseCorrupted, item.ID, basePrice)
		}
		if item.FinalUnitPrice, err = decimal.NewFromString(finalUnit); err != nil {
			return nil, fmt.Errorf("%w: item %s final unit price %q", common.ErrDatabaseCorrupted, item.ID, finalUnit)
		}
		if item.FinalTotal, err = decimal.NewFromString(finalTotal); err != nil {
			return nil, fmt.Errorf("%w: item %s final total %q", common.ErrDatabaseCorrupted, item.ID, finalTotal)
		}
		if modifiersJSON.Valid && modifiersJSON.String != "" {
			if err := json.Unmarshal([]byte(modifiersJSON.String), &item.Modifiers); err != nil {
				return nil, fmt.Errorf("%w: item %s modifiers: %v", common.ErrDatabaseCorrupted, item.ID, err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var order model.Order
	var status, discountType, expediteType string
	var discountPercent, discountAmount, surcharge, final, prepayment, balance string
	var receiptNumber, tagNumber, clientID, branchID, notes sql.NullString
	var expectedAt sql.NullTime

	err := row.Scan(&order.ID, &receiptNumber, &tagNumber, &clientID, &branchID, &status,
		&discountType, &discountPercent, &discountAmount,
		&expediteType, &surcharge,
		&final, &prepayment, &balance,
		&order.CreatedAt, &expectedAt, &notes)
	if err != nil {
		return nil, err
	}

	order.ReceiptNumber = receiptNumber.String
	order.TagNumber = tagNumber.String
	order.ClientID = clientID.String
	order.BranchID = branchID.String
	order.Notes = notes.String
	order.Status = model.OrderStatus(status)
	order.DiscountType = model.DiscountType(discountType)
	order.ExpediteType = model.ExpediteType(expediteType)
	if expectedAt.Valid {
		order.ExpectedCompletionAt = expectedAt.Time
	}

	for _, pair := range []struct {
		dst *decimal.Decimal
		src string
		col string
	}{
		{&order.DiscountPercent, discountPercent, "discount_percent"},
		{&order.DiscountAmount, discountAmount, "discount_amount"},
		{&order.ExpediteSurcharge, surcharge, "expedite_surcharge"},
		{&order.FinalAmount, final, "final_amount"},
		{&order.PrepaymentAmount, prepayment, "prepayment_amount"},
		{&order.BalanceAmount, balance, "balance_amount"},
	} {
		d, err := decimal.NewFromString(pair.src)
		if err != nil {
			return nil, fmt.Errorf("%w: order %s column %s value %q", common.ErrDatabaseCorrupted, order.ID, pair.col, pair.src)
		}
		*pair.dst = d
	}

	return &order, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
