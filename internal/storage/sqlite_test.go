package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilosnizhka/bilosnizhka/internal/common"
	"github.com/bilosnizhka/bilosnizhka/internal/model"
	"github.com/bilosnizhka/bilosnizhka/internal/service"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testOrder(id, receipt string) *model.Order {
	created := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	return &model.Order{
		ID:            id,
		ReceiptNumber: receipt,
		TagNumber:     "A1B2C3D4",
		ClientID:      "cl-1",
		BranchID:      "br-1",
		Status:        model.StatusNew,
		Items: []model.LineItem{
			{
				ID:           id + "-item-1",
				CategoryCode: "чистка одягу",
				Name:         "Пальто",
				Quantity:     d("1"),
				Unit:         model.UnitPiece,
				BasePrice:    d("500"),
				Modifiers: []model.PriceModifier{
					{Code: "hand_clean", Name: "Ручна чистка", Kind: model.ModifierPercentage, Value: d("20"), Categories: []string{"чистка одягу"}},
				},
				FinalUnitPrice: d("600"),
				FinalTotal:     d("600"),
			},
			{
				ID:           id + "-item-2",
				CategoryCode: "чистка килимів",
				Name:         "Килим",
				Quantity:     d("2.5"),
				Unit:         model.UnitSquareM,
				BasePrice:    d("120"),
				FinalUnitPrice: d("120"),
				FinalTotal:     d("300"),
			},
		},
		DiscountType:         model.DiscountEvercard,
		DiscountPercent:      d("10"),
		DiscountAmount:       d("90"),
		ExpediteType:         model.ExpediteStandard,
		ExpediteSurcharge:    decimal.Zero,
		FinalAmount:          d("810"),
		PrepaymentAmount:     d("100"),
		BalanceAmount:        d("710"),
		CreatedAt:            created,
		ExpectedCompletionAt: created.AddDate(0, 0, 2),
		Notes:                "без домішок",
	}
}

func TestSQLiteStorage_SaveAndGetOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	saved := testOrder("ord-1", "KV-250401-0001")
	require.NoError(t, store.SaveOrder(ctx, saved))

	got, err := store.GetOrder(ctx, "ord-1")
	require.NoError(t, err)

	assert.Equal(t, saved.ReceiptNumber, got.ReceiptNumber)
	assert.Equal(t, saved.Status, got.Status)
	assert.Equal(t, model.DiscountEvercard, got.DiscountType)
	assert.True(t, got.FinalAmount.Equal(d("810")), "monetary values survive exactly")
	assert.True(t, got.BalanceAmount.Equal(d("710")))
	assert.Equal(t, saved.ExpectedCompletionAt.Unix(), got.ExpectedCompletionAt.Unix())

	require.Len(t, got.Items, 2)
	assert.Equal(t, "ord-1-item-1", got.Items[0].ID, "items come back in intake order")
	assert.True(t, got.Items[1].Quantity.Equal(d("2.5")))
	require.Len(t, got.Items[0].Modifiers, 1)
	assert.Equal(t, "hand_clean", got.Items[0].Modifiers[0].Code)
	assert.True(t, got.Items[0].Modifiers[0].Value.Equal(d("20")))
}

func TestSQLiteStorage_SaveOrder_UpsertReplacesItems(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	order := testOrder("ord-1", "KV-250401-0001")
	require.NoError(t, store.SaveOrder(ctx, order))

	order.Items = order.Items[:1]
	order.Status = model.StatusInProgress
	require.NoError(t, store.SaveOrder(ctx, order))

	got, err := store.GetOrder(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Len(t, got.Items, 1, "the item set is replaced wholesale")
}

func TestSQLiteStorage_SaveOrder_DuplicateReceiptNumber(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOrder(ctx, testOrder("ord-1", "KV-250401-0001")))

	err := store.SaveOrder(ctx, testOrder("ord-2", "KV-250401-0001"))
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestSQLiteStorage_GetOrderByReceiptNumber(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOrder(ctx, testOrder("ord-1", "KV-250401-0001")))

	got, err := store.GetOrderByReceiptNumber(ctx, "KV-250401-0001")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", got.ID)

	_, err = store.GetOrderByReceiptNumber(ctx, "KV-250401-9999")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_GetOrders_FilterAndOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first := testOrder("ord-1", "KV-250401-0001")
	second := testOrder("ord-2", "KV-250402-0001")
	second.CreatedAt = first.CreatedAt.AddDate(0, 0, 1)
	second.Status = model.StatusCompleted
	third := testOrder("ord-3", "KV-250403-0001")
	third.CreatedAt = first.CreatedAt.AddDate(0, 0, 2)
	require.NoError(t, store.SaveOrder(ctx, first))
	require.NoError(t, store.SaveOrder(ctx, second))
	require.NoError(t, store.SaveOrder(ctx, third))

	all, err := store.GetOrders(ctx, service.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ord-3", all[0].ID, "newest first")
	for _, o := range all {
		assert.Len(t, o.Items, 2, "every listed order carries its items")
	}

	completed := model.StatusCompleted
	filtered, err := store.GetOrders(ctx, service.OrderFilter{Status: &completed})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "ord-2", filtered[0].ID)
}

func TestSQLiteStorage_GetOrders_FollowedByWrites(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOrder(ctx, testOrder("ord-1", "KV-250401-0001")))
	require.NoError(t, store.SaveOrder(ctx, testOrder("ord-2", "KV-250401-0002")))

	// Listing must fully release the connection; a write straight after a
	// multi-row read would otherwise starve on the single-connection pool.
	orders, err := store.GetOrders(ctx, service.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	require.NoError(t, store.SaveOrder(ctx, testOrder("ord-3", "KV-250401-0003")))

	orders, err = store.GetOrders(ctx, service.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestSQLiteStorage_UpdateOrderStatus(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOrder(ctx, testOrder("ord-1", "KV-250401-0001")))

	require.NoError(t, store.UpdateOrderStatus(ctx, "ord-1", model.StatusInProgress))

	got, err := store.GetOrder(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func TestSQLiteStorage_UpdateOrderStatus_RejectsBadTransition(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOrder(ctx, testOrder("ord-1", "KV-250401-0001")))

	err := store.UpdateOrderStatus(ctx, "ord-1", model.StatusDelivered)
	var terr *model.TransitionError
	require.ErrorAs(t, err, &terr)

	got, err := store.GetOrder(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusNew, got.Status, "a rejected transition leaves the status untouched")
}

func TestSQLiteStorage_DeleteOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOrder(ctx, testOrder("ord-1", "KV-250401-0001")))
	require.NoError(t, store.DeleteOrder(ctx, "ord-1"))

	_, err := store.GetOrder(ctx, "ord-1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, store.DeleteOrder(ctx, "ord-1"), common.ErrNotFound)
}

func TestSQLiteStorage_ModifierCatalog(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	catalog := []model.PriceModifier{
		{Code: "urgent_fee", Name: "Доплата", Kind: model.ModifierFixedAmount, Value: d("50"), Categories: []string{model.CategoryAll}},
		{Code: "hand_clean", Name: "Ручна чистка", Kind: model.ModifierPercentage, Value: d("20"), Categories: []string{"чистка одягу"}},
	}
	require.NoError(t, store.SaveModifiers(ctx, catalog))

	got, err := store.GetModifiers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hand_clean", got[0].Code, "catalog lists by code")

	m, err := store.GetModifierByCode(ctx, "urgent_fee")
	require.NoError(t, err)
	assert.True(t, m.AppliesToAll())
	assert.True(t, m.Value.Equal(d("50")))

	_, err = store.GetModifierByCode(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_SaveModifiers_ReplacesCatalog(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first := []model.PriceModifier{
		{Code: "old", Name: "Старий", Kind: model.ModifierPercentage, Value: d("5"), Categories: []string{model.CategoryAll}},
	}
	require.NoError(t, store.SaveModifiers(ctx, first))

	second := []model.PriceModifier{
		{Code: "new", Name: "Новий", Kind: model.ModifierPercentage, Value: d("7"), Categories: []string{model.CategoryAll}},
	}
	require.NoError(t, store.SaveModifiers(ctx, second))

	got, err := store.GetModifiers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Code)
}

func TestSQLiteStorage_Transaction_ModifierStaging(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveModifiers(ctx, []model.PriceModifier{
		{Code: "old", Name: "Старий", Kind: model.ModifierPercentage, Value: d("5"), Categories: []string{model.CategoryAll}},
	}))

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.ClearModifiers(ctx))
	require.NoError(t, tx.SaveModifier(ctx, model.PriceModifier{
		Code: "hand_clean", Name: "Ручна чистка", Kind: model.ModifierPercentage, Value: d("20"), Categories: []string{"чистка одягу"},
	}))
	require.NoError(t, tx.SaveModifier(ctx, model.PriceModifier{
		Code: "urgent_fee", Name: "Доплата", Kind: model.ModifierFixedAmount, Value: d("50"), Categories: []string{model.CategoryAll},
	}))
	require.NoError(t, tx.Commit())

	got, err := store.GetModifiers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hand_clean", got[0].Code)
	assert.Equal(t, "urgent_fee", got[1].Code)

	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	err = tx.SaveModifier(ctx, model.PriceModifier{Name: "безкодовий"})
	assert.ErrorIs(t, err, ErrInvalidModifier)
	require.NoError(t, tx.Rollback())
}

func TestSQLiteStorage_Transaction(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SaveOrder(ctx, testOrder("ord-1", "KV-250401-0001")))
	require.NoError(t, tx.Rollback())

	_, err = store.GetOrder(ctx, "ord-1")
	assert.ErrorIs(t, err, common.ErrNotFound, "a rolled-back save leaves no trace")

	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SaveOrder(ctx, testOrder("ord-1", "KV-250401-0001")))
	require.NoError(t, tx.Commit())

	got, err := store.GetOrder(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "KV-250401-0001", got.ReceiptNumber)
}

func TestSQLiteStorage_Migrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)

	require.NoError(t, store.Migrate(context.Background()))
}

func TestSQLiteStorage_SaveOrder_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveOrder(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.SaveOrder(ctx, &model.Order{Status: model.StatusNew}), ErrInvalidOrder)
	assert.ErrorIs(t, store.SaveOrder(ctx, &model.Order{ID: "x"}), ErrInvalidOrder)
}
