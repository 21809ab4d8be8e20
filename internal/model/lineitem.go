package model

import "github.com/shopspring/decimal"

// UnitOfMeasure identifies how a line item's quantity is counted.
type UnitOfMeasure string

// Unit of measure constants.
const (
	UnitPiece    UnitOfMeasure = "PIECE"
	UnitKilogram UnitOfMeasure = "KILOGRAM"
	UnitPair     UnitOfMeasure = "PAIR"
	UnitSquareM  UnitOfMeasure = "SQUARE_METER"
)

// LineItem represents one physical item in an order.
// FinalUnitPrice and FinalTotal are outputs of the price calculation;
// FinalTotal is always FinalUnitPrice * Quantity rounded to 2 decimals.
type LineItem struct {
	ID           string
	CategoryCode string
	Name         string
	Quantity     decimal.Decimal
	Unit         UnitOfMeasure
	BasePrice    decimal.Decimal
	Modifiers    []PriceModifier

	FinalUnitPrice decimal.Decimal
	FinalTotal     decimal.Decimal
}

// BaseTotal returns the pre-modifier line total (base price times quantity).
func (li *LineItem) BaseTotal() decimal.Decimal {
	return li.BasePrice.Mul(li.Quantity)
}

// ModifierCodes returns the codes of the applied modifiers in request order.
func (li *LineItem) ModifierCodes() []string {
	codes := make([]string, 0, len(li.Modifiers))
	for _, m := range li.Modifiers {
		codes = append(codes, m.Code)
	}
	return codes
}
