package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrEmptySlice      = errors.New("slice cannot be empty")
	ErrInvalidOrder    = errors.New("invalid order")
	ErrInvalidModifier = errors.New("invalid modifier")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateOrder validates an order before persisting it.
func validateOrder(order *model.Order) error {
	if order == nil {
		return fmt.Errorf("%w: order", ErrNilParameter)
	}
	if order.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidOrder)
	}
	if order.Status == "" {
		return fmt.Errorf("%w: missing status", ErrInvalidOrder)
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			return fmt.Errorf("%w: item at index %d missing ID", ErrInvalidOrder, i)
		}
	}
	return nil
}

// validateModifiers validates a slice of catalog modifiers.
func validateModifiers(modifiers []model.PriceModifier) error {
	if modifiers == nil {
		return fmt.Errorf("%w: modifiers", ErrNilParameter)
	}
	if len(modifiers) == 0 {
		return fmt.Errorf("%w: modifiers", ErrEmptySlice)
	}
	for i := range modifiers {
		if err := validateModifier(&modifiers[i], i); err != nil {
			return err
		}
	}
	return nil
}

// validateModifier validates one catalog modifier before persisting it.
func validateModifier(m *model.PriceModifier, index int) error {
	if m.Code == "" {
		return fmt.Errorf("%w: modifier at index %d missing code", ErrInvalidModifier, index)
	}
	if m.Kind == "" {
		return fmt.Errorf("%w: modifier %s missing kind", ErrInvalidModifier, m.Code)
	}
	return nil
}
