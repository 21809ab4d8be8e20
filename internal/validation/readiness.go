package validation

import (
	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// Requirement names one readiness checklist entry.
type Requirement string

// Readiness requirements, in checklist order.
const (
	RequireClient         Requirement = "client is not selected"
	RequireItems          Requirement = "order has no items"
	RequireBranch         Requirement = "branch location is not set"
	RequireValidTotal     Requirement = "final amount must be greater than zero"
	RequireReceiptNumber  Requirement = "receipt number is missing or malformed"
	RequireCompletionDate Requirement = "expected completion date is not set"
)

// Readiness is the gate's accumulated decision.
type Readiness struct {
	IsReady             bool
	MissingRequirements []Requirement
}

// Gate is the fixed, ordered checklist an order must pass before it can be
// completed. Every missing requirement is reported, not just the first, so
// the operator sees the full checklist at once.
type Gate struct{}

// NewGate creates a new readiness gate.
func NewGate() *Gate {
	return &Gate{}
}

// Evaluate runs all six checks in order and accumulates the failures.
func (g *Gate) Evaluate(order *model.Order) Readiness {
	var missing []Requirement

	if order.ClientID == "" {
		missing = append(missing, RequireClient)
	}
	if len(order.Items) == 0 {
		missing = append(missing, RequireItems)
	}
	if order.BranchID == "" {
		missing = append(missing, RequireBranch)
	}
	if order.FinalAmount.Sign() <= 0 {
		missing = append(missing, RequireValidTotal)
	}
	if !model.ValidateReceiptNumber(order.ReceiptNumber) {
		missing = append(missing, RequireReceiptNumber)
	}
	if order.ExpectedCompletionAt.IsZero() {
		missing = append(missing, RequireCompletionDate)
	}

	return Readiness{
		IsReady:             len(missing) == 0,
		MissingRequirements: missing,
	}
}
