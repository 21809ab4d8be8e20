// Package model defines the core domain models used throughout the application.
package model

import "github.com/shopspring/decimal"

// ModifierKind describes how a price modifier adjusts the running price.
type ModifierKind string

// Modifier kind constants.
const (
	ModifierPercentage  ModifierKind = "PERCENTAGE"
	ModifierFixedAmount ModifierKind = "FIXED_AMOUNT"
	ModifierMultiplier  ModifierKind = "MULTIPLIER"
)

// CategoryAll is the allow-list sentinel for modifiers applicable to every
// service category.
const CategoryAll = "all"

// PriceModifier is a named price adjustment attached to a line item. The
// currency amount each application yields is reported per step in the
// calculation breakdown, not stored here.
type PriceModifier struct {
	Code       string
	Name       string
	Kind       ModifierKind
	Value      decimal.Decimal
	Categories []string // explicit category codes, or the single entry CategoryAll
}

// AppliesToAll reports whether the modifier carries the "all" sentinel.
func (m *PriceModifier) AppliesToAll() bool {
	for _, c := range m.Categories {
		if c == CategoryAll {
			return true
		}
	}
	return false
}

// AppliesTo reports whether the modifier's allow-list includes the category.
// Category codes are compared case-sensitively.
func (m *PriceModifier) AppliesTo(categoryCode string) bool {
	if m.AppliesToAll() {
		return true
	}
	for _, c := range m.Categories {
		if c == categoryCode {
			return true
		}
	}
	return false
}
