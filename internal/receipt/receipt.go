// Package receipt assembles the confirmation receipt from an order's
// financial summary and the calculator's breakdown steps. The steps are
// consumed verbatim; the receipt never re-derives pricing.
package receipt

import (
	"time"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// Line is one item on the receipt together with its audit trail.
type Line struct {
	Name         string
	CategoryCode string
	Quantity     string
	Unit         string
	FinalTotal   string
	Steps        []model.BreakdownStep
}

// Receipt is the full document handed to the rendering layer.
type Receipt struct {
	ReceiptNumber        string
	TagNumber            string
	ClientID             string
	BranchID             string
	CreatedAt            time.Time
	ExpectedCompletionAt time.Time
	Lines                []Line
	Summary              model.FinancialSummary
}

// Build assembles a receipt. Breakdown steps are taken from the calculator
// output keyed by item ID; items without a recorded breakdown still appear,
// just without steps.
func Build(order *model.Order, summary model.FinancialSummary, breakdowns map[string][]model.BreakdownStep) Receipt {
	r := Receipt{
		ReceiptNumber:        order.ReceiptNumber,
		TagNumber:            order.TagNumber,
		ClientID:             order.ClientID,
		BranchID:             order.BranchID,
		CreatedAt:            order.CreatedAt,
		ExpectedCompletionAt: order.ExpectedCompletionAt,
		Summary:              summary,
	}

	for i := range order.Items {
		item := &order.Items[i]
		r.Lines = append(r.Lines, Line{
			Name:         item.Name,
			CategoryCode: item.CategoryCode,
			Quantity:     item.Quantity.String(),
			Unit:         string(item.Unit),
			FinalTotal:   item.FinalTotal.StringFixed(2),
			Steps:        breakdowns[item.ID],
		})
	}

	return r
}
