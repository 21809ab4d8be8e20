package model

import "github.com/shopspring/decimal"

// BreakdownStep is one entry of the price calculation audit trail. The
// confirmation receipt reproduces these steps verbatim, so they are a
// required output of the calculator, not incidental logging.
type BreakdownStep struct {
	Step            int
	StepName        string
	PriceBefore     decimal.Decimal
	PriceAfter      decimal.Decimal
	PriceDifference decimal.Decimal
	ModifierCode    string
}

// LineItemPrice is the result of pricing a single line item.
type LineItemPrice struct {
	BaseTotal      decimal.Decimal
	ModifiersTotal decimal.Decimal
	FinalUnitPrice decimal.Decimal
	FinalTotal     decimal.Decimal
	Steps          []BreakdownStep
}
