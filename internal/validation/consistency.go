// Package validation implements the financial consistency validator, the
// order readiness gate, and the confirmation decision that composes them.
package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// Tolerance absorbs rounding drift when comparing stored totals against
// recomputed ones: 0.01 currency unit.
var Tolerance = decimal.NewFromFloat(0.01)

// Issue is one validation finding.
type Issue struct {
	Code    string
	Message string
}

// Issue codes. Data codes indicate the persisted order and the recomputed
// truth have diverged; business codes indicate recoverable rule breaches.
const (
	CodeItemsTotalMismatch = "ITEMS_TOTAL_MISMATCH"
	CodeLineTotalMismatch  = "LINE_TOTAL_MISMATCH"
	CodeBalanceMismatch    = "BALANCE_MISMATCH"

	CodePrepaymentExceedsTotal = "PREPAYMENT_EXCEEDS_TOTAL"
	CodeExpediteWithoutFee     = "EXPEDITE_WITHOUT_SURCHARGE"
	CodeCompletionBeforeIntake = "COMPLETION_BEFORE_INTAKE"
)

// ConsistencyResult separates data-integrity findings from business-rule
// findings; the two have different remedies.
type ConsistencyResult struct {
	IsConsistent           bool
	DataInconsistencies    []Issue
	BusinessRuleViolations []Issue
}

// ConsistencyValidator recomputes an order's aggregate totals and compares
// them against the stored values. It never mutates the order and is safe to
// run repeatedly.
type ConsistencyValidator struct{}

// NewConsistencyValidator creates a new consistency validator.
func NewConsistencyValidator() *ConsistencyValidator {
	return &ConsistencyValidator{}
}

// Check runs every consistency check independently and accumulates all
// findings; nothing short-circuits, so simultaneous failures all surface.
func (v *ConsistencyValidator) Check(order *model.Order) ConsistencyResult {
	var result ConsistencyResult

	// Stored discount/surcharge basis implied by the order's own totals.
	storedBasis := order.FinalAmount.Add(order.DiscountAmount).Sub(order.ExpediteSurcharge)
	itemsTotal := order.ItemsTotal()
	if itemsTotal.Sub(storedBasis).Abs().GreaterThan(Tolerance) {
		result.DataInconsistencies = append(result.DataInconsistencies, Issue{
			Code: CodeItemsTotalMismatch,
			Message: fmt.Sprintf("recomputed items total %s does not match stored basis %s",
				itemsTotal.StringFixed(2), storedBasis.StringFixed(2)),
		})
	}

	for i := range order.Items {
		item := &order.Items[i]
		expected := item.FinalUnitPrice.Mul(item.Quantity).Round(2)
		if item.FinalTotal.Sub(expected).Abs().GreaterThan(Tolerance) {
			result.DataInconsistencies = append(result.DataInconsistencies, Issue{
				Code: CodeLineTotalMismatch,
				Message: fmt.Sprintf("item %s: stored total %s does not match unit price %s x quantity %s",
					item.ID, item.FinalTotal.StringFixed(2), item.FinalUnitPrice.StringFixed(2), item.Quantity.String()),
			})
		}
	}

	expectedBalance := order.FinalAmount.Sub(order.PrepaymentAmount)
	if order.BalanceAmount.Sub(expectedBalance).Abs().GreaterThan(Tolerance) {
		result.DataInconsistencies = append(result.DataInconsistencies, Issue{
			Code: CodeBalanceMismatch,
			Message: fmt.Sprintf("stored balance %s does not match final %s minus prepayment %s",
				order.BalanceAmount.StringFixed(2), order.FinalAmount.StringFixed(2), order.PrepaymentAmount.StringFixed(2)),
		})
	}

	if order.PrepaymentAmount.GreaterThan(order.FinalAmount) {
		result.BusinessRuleViolations = append(result.BusinessRuleViolations, Issue{
			Code: CodePrepaymentExceedsTotal,
			Message: fmt.Sprintf("prepayment %s exceeds final amount %s",
				order.PrepaymentAmount.StringFixed(2), order.FinalAmount.StringFixed(2)),
		})
	}

	if order.ExpediteType != model.ExpediteStandard && order.ExpediteSurcharge.Sign() <= 0 {
		result.BusinessRuleViolations = append(result.BusinessRuleViolations, Issue{
			Code:    CodeExpediteWithoutFee,
			Message: "a non-standard expedite tier must carry a positive surcharge",
		})
	}

	if !order.ExpectedCompletionAt.IsZero() && !order.CreatedAt.IsZero() &&
		!order.ExpectedCompletionAt.After(order.CreatedAt) {
		result.BusinessRuleViolations = append(result.BusinessRuleViolations, Issue{
			Code: CodeCompletionBeforeIntake,
			Message: fmt.Sprintf("expected completion %s is not after intake %s",
				order.ExpectedCompletionAt.Format("2006-01-02"), order.CreatedAt.Format("2006-01-02")),
		})
	}

	result.IsConsistent = len(result.DataInconsistencies) == 0 && len(result.BusinessRuleViolations) == 0
	return result
}
