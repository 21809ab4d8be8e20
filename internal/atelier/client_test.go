package atelier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilosnizhka/bilosnizhka/internal/common"
	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestClient_GetModifiers_BareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/modifiers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"code": "hand_clean", "name": "Ручна чистка", "kind": "PERCENTAGE", "value": 20, "applicableCategories": ["чистка одягу"]},
			{"code": "urgent_fee", "name": "Доплата", "kind": "FIXED_AMOUNT", "value": 50, "applicableCategories": "all"}
		]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	modifiers, err := client.GetModifiers(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, modifiers, 2)

	assert.Equal(t, "hand_clean", modifiers[0].Code)
	assert.Equal(t, model.ModifierPercentage, modifiers[0].Kind)
	assert.Equal(t, "20", modifiers[0].Value.String())
	assert.Equal(t, []string{"чистка одягу"}, modifiers[0].Categories)

	assert.True(t, modifiers[1].AppliesToAll(), `the "all" sentinel decodes to the universal allow-list`)
}

func TestClient_GetModifiers_Envelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"modifiers": [
			{"code": "leather_care", "name": "Догляд за шкірою", "kind": "MULTIPLIER", "value": 1.5, "applicableCategories": ["чистка шкіри"]}
		]}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	modifiers, err := client.GetModifiers(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, modifiers, 1)
	assert.Equal(t, model.ModifierMultiplier, modifiers[0].Kind)
}

func TestClient_GetModifiers_CategoryFilterPassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "чистка одягу", r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	modifiers, err := client.GetModifiers(context.Background(), "чистка одягу")
	require.NoError(t, err)
	assert.Empty(t, modifiers)
}

func TestClient_GetModifiers_BadShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"code": "", "name": "", "kind": "GIFT", "applicableCategories": []}]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.GetModifiers(context.Background(), "")
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Len(t, shapeErr.Fields, 4, "every invalid field is reported")
}

func TestClient_GetOrder_NotFound(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/modifiers" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrOrderNotFound)
	assert.Equal(t, 1, calls, "404 is not retried")
}

func TestClient_GetOrder_MapsRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/modifiers" {
			_, _ = w.Write([]byte(`[{"code": "hand_clean", "name": "Ручна чистка", "kind": "PERCENTAGE", "value": 20, "applicableCategories": "all"}]`))
			return
		}
		assert.Equal(t, "/v1/orders/ord-1", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": "ord-1",
			"receiptNumber": "KV-250401-0007",
			"clientId": "cl-1",
			"branchLocationId": "br-1",
			"status": "NEW",
			"discountType": "EVERCARD",
			"discountPercent": 10,
			"discountAmount": 60,
			"expediteType": "STANDARD",
			"finalAmount": 540,
			"prepaymentAmount": 100,
			"balanceAmount": 440,
			"createdDate": "2025-04-01T10:00:00Z",
			"expectedCompletionDate": "2025-04-03T10:00:00Z",
			"items": [
				{"id": "item-1", "categoryCode": "чистка одягу", "name": "Пальто",
				 "quantity": 1, "basePrice": 500, "appliedModifierCodes": ["hand_clean"],
				 "finalUnitPrice": 600, "finalLineTotal": 600}
			]
		}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	order, err := client.GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.Equal(t, "KV-250401-0007", order.ReceiptNumber)
	assert.Equal(t, model.StatusNew, order.Status)
	assert.Equal(t, model.DiscountEvercard, order.DiscountType)
	assert.Equal(t, "540", order.FinalAmount.String())
	require.Len(t, order.Items, 1)
	require.Len(t, order.Items[0].Modifiers, 1)
	assert.Equal(t, "Ручна чистка", order.Items[0].Modifiers[0].Name,
		"applied codes resolve to full catalog records")
	assert.Equal(t, 2025, order.CreatedAt.Year())
}

func TestClient_GetClientPhone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/clients/cl-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "cl-1", "phone": "+380501234567"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	phone, err := client.GetClientPhone(context.Background(), "cl-1")
	require.NoError(t, err)
	assert.Equal(t, "+380501234567", phone)
}

func TestDecodeModifierPayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLen int
		wantErr bool
	}{
		{"bare array", `[{"code": "a"}]`, 1, false},
		{"envelope", `{"modifiers": [{"code": "a"}, {"code": "b"}]}`, 2, false},
		{"leading whitespace before array", "\n\t [] ", 0, false},
		{"empty body", "", 0, true},
		{"malformed json", `{"modifiers": [`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := decodeModifierPayload([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrAPIDecode)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.wantLen)
		})
	}
}

func TestCategoryList_RejectsUnknownSentinel(t *testing.T) {
	var c categoryList
	err := c.UnmarshalJSON([]byte(`"some"`))
	assert.Error(t, err)

	err = c.UnmarshalJSON([]byte(`"all"`))
	require.NoError(t, err)
	assert.Equal(t, categoryList{"all"}, c)
}
