// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// OrderFilter defines filtering options for order queries.
type OrderFilter struct {
	Status    *model.OrderStatus
	BranchID  string
	ClientID  string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Storage defines the contract for the local persistence layer. It caches
// orders and the modifier reference catalog so quoting and consistency
// checks work between syncs with the remote API.
type Storage interface {
	// Order operations
	SaveOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	GetOrderByReceiptNumber(ctx context.Context, receiptNumber string) (*model.Order, error)
	GetOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error
	DeleteOrder(ctx context.Context, id string) error

	// Modifier catalog operations
	SaveModifiers(ctx context.Context, modifiers []model.PriceModifier) error
	GetModifiers(ctx context.Context) ([]model.PriceModifier, error)
	GetModifierByCode(ctx context.Context, code string) (*model.PriceModifier, error)

	// Transaction support
	BeginTx(ctx context.Context) (Transaction, error)

	Close() error
}

// Transaction wraps a storage transaction. The modifier catalog can be
// replaced in one batch or staged one modifier at a time (ClearModifiers
// followed by SaveModifier per record) when the caller reports progress.
type Transaction interface {
	SaveOrder(ctx context.Context, order *model.Order) error
	SaveModifiers(ctx context.Context, modifiers []model.PriceModifier) error
	ClearModifiers(ctx context.Context) error
	SaveModifier(ctx context.Context, modifier model.PriceModifier) error
	Commit() error
	Rollback() error
}

// AtelierClient is the boundary to the remote pricing/order/client API.
type AtelierClient interface {
	GetModifiers(ctx context.Context, categoryCode string) ([]model.PriceModifier, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	SaveOrder(ctx context.Context, order *model.Order) error
	GetClientPhone(ctx context.Context, clientID string) (string, error)
}

// RetryOptions configures retry behavior for remote operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
