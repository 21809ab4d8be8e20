package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// Quantity bounds and the modifier cap come from the intake rules: fractional
// quantities down to 0.01 (weighed items) and at most 20 modifiers per item.
var (
	minQuantity  = decimal.NewFromFloat(0.01)
	maxQuantity  = decimal.NewFromInt(1000)
	maxModifiers = 20
)

// FieldError is one input-shape finding. Severity distinguishes hard errors,
// which block confirmation, from warnings, which never do.
type FieldError struct {
	Field    string
	Message  string
	Severity Severity
}

// Severity of a field-level finding.
type Severity string

// Severity levels.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// InputResult accumulates every field-level finding from one pass.
type InputResult struct {
	IsValid bool
	Errors  []FieldError
}

// HardErrors returns only the findings that block confirmation.
func (r InputResult) HardErrors() []FieldError {
	var hard []FieldError
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			hard = append(hard, e)
		}
	}
	return hard
}

// ValidateOrderInput checks the order's field shape: item names and prices
// are hard requirements, a missing client phone is only a warning. All
// findings are accumulated; nothing is thrown.
func ValidateOrderInput(order *model.Order, clientPhone string) InputResult {
	var errs []FieldError

	for i := range order.Items {
		item := &order.Items[i]
		prefix := fmt.Sprintf("items[%d]", i)

		if item.Name == "" {
			errs = append(errs, FieldError{
				Field:    prefix + ".name",
				Message:  "item name is required",
				Severity: SeverityError,
			})
		}
		if item.BasePrice.Sign() <= 0 {
			errs = append(errs, FieldError{
				Field:    prefix + ".basePrice",
				Message:  "item base price must be greater than zero",
				Severity: SeverityError,
			})
		}
		if item.Quantity.LessThan(minQuantity) || item.Quantity.GreaterThan(maxQuantity) {
			errs = append(errs, FieldError{
				Field:    prefix + ".quantity",
				Message:  fmt.Sprintf("quantity must be between %s and %s", minQuantity, maxQuantity),
				Severity: SeverityError,
			})
		}
		if len(item.Modifiers) > maxModifiers {
			errs = append(errs, FieldError{
				Field:    prefix + ".modifiers",
				Message:  fmt.Sprintf("at most %d modifiers per item", maxModifiers),
				Severity: SeverityError,
			})
		}
	}

	if clientPhone == "" {
		errs = append(errs, FieldError{
			Field:    "client.phone",
			Message:  "client phone is missing",
			Severity: SeverityWarning,
		})
	}

	result := InputResult{Errors: errs}
	result.IsValid = len(result.HardErrors()) == 0
	return result
}
