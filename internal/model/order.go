package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the aggregate the intake wizard builds up and persists through
// the remote API. The stored financial fields are what the consistency
// validator compares against a fresh recomputation.
type Order struct {
	ID            string
	ReceiptNumber string
	TagNumber     string
	ClientID      string
	BranchID      string
	Status        OrderStatus
	Items         []LineItem

	DiscountType      DiscountType
	DiscountPercent   decimal.Decimal
	DiscountAmount    decimal.Decimal
	ExpediteType      ExpediteType
	ExpediteSurcharge decimal.Decimal

	FinalAmount      decimal.Decimal
	PrepaymentAmount decimal.Decimal
	BalanceAmount    decimal.Decimal

	CreatedAt            time.Time
	ExpectedCompletionAt time.Time
	Notes                string
}

// ItemsTotal sums the stored line totals. This is the discount/surcharge
// basis the consistency validator recomputes.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].FinalTotal)
	}
	return total
}

// FinancialSummary is the aggregate money view of an order, produced by the
// calculator and consumed by the receipt layer.
type FinancialSummary struct {
	Subtotal          decimal.Decimal
	DiscountType      DiscountType
	DiscountPercent   decimal.Decimal
	DiscountAmount    decimal.Decimal
	ExpediteType      ExpediteType
	ExpediteSurcharge decimal.Decimal
	FinalAmount       decimal.Decimal
	PrepaymentAmount  decimal.Decimal
	BalanceAmount     decimal.Decimal
}
