package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// Calculator computes line-item prices and order financial summaries. It is
// pure: every method takes its full input and returns a new result.
type Calculator struct{}

// NewCalculator creates a new price calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// ComputeLineItem prices one line item. Modifiers are applied sequentially
// in request order against the running unit price, so percentage and
// multiplier modifiers compound. Intermediate precision is kept unrounded;
// only reported values are rounded to 2 decimals.
func (c *Calculator) ComputeLineItem(baseUnitPrice, quantity decimal.Decimal, modifiers []model.PriceModifier) (model.LineItemPrice, error) {
	if baseUnitPrice.IsNegative() {
		return model.LineItemPrice{}, fmt.Errorf("base unit price cannot be negative: %s", baseUnitPrice)
	}
	if quantity.IsNegative() {
		return model.LineItemPrice{}, fmt.Errorf("quantity cannot be negative: %s", quantity)
	}

	current := baseUnitPrice
	steps := make([]model.BreakdownStep, 0, len(modifiers))

	for i, m := range modifiers {
		before := current
		var amount decimal.Decimal

		switch m.Kind {
		case model.ModifierPercentage:
			amount = current.Mul(m.Value).Div(hundred)
			current = current.Add(amount)
		case model.ModifierFixedAmount:
			amount = m.Value
			current = current.Add(amount)
		case model.ModifierMultiplier:
			amount = current.Mul(m.Value.Sub(decimal.NewFromInt(1)))
			current = current.Mul(m.Value)
		default:
			return model.LineItemPrice{}, fmt.Errorf("unknown modifier kind %q for %s", m.Kind, m.Code)
		}

		steps = append(steps, model.BreakdownStep{
			Step:            i + 1,
			StepName:        m.Name,
			PriceBefore:     before.Round(2),
			PriceAfter:      current.Round(2),
			PriceDifference: amount.Round(2),
			ModifierCode:    m.Code,
		})
	}

	finalUnit := current.Round(2)
	return model.LineItemPrice{
		BaseTotal:      baseUnitPrice.Mul(quantity).Round(2),
		ModifiersTotal: current.Sub(baseUnitPrice).Mul(quantity).Round(2),
		FinalUnitPrice: finalUnit,
		FinalTotal:     finalUnit.Mul(quantity).Round(2),
		Steps:          steps,
	}, nil
}

// ComputeOrderSummary composes the order-level financial summary from priced
// line items: subtotal, discount over the discountable portion, expedite
// surcharge over the full subtotal, final amount, and balance. The surcharge
// is never itself discounted or discount-exempt.
func (c *Calculator) ComputeOrderSummary(items []model.LineItem, discount model.DiscountSelection, expedite model.ExpediteType, prepayment decimal.Decimal) (model.FinancialSummary, error) {
	if !expedite.IsValid() {
		return model.FinancialSummary{}, fmt.Errorf("unknown expedite tier %q", expedite)
	}

	percentage, err := ResolvePercentage(discount)
	if err != nil {
		return model.FinancialSummary{}, err
	}

	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].FinalTotal)
	}

	partition := PartitionExcluded(items, ExcludedCategoryPatterns)
	discountable := decimal.Zero
	for i := range partition.Discountable {
		discountable = discountable.Add(partition.Discountable[i].FinalTotal)
	}

	discountAmount := decimal.Zero
	if discount.Type != model.DiscountNone {
		discountAmount = ComputeDiscount(discountable, percentage)
	}

	surcharge := subtotal.Mul(expedite.SurchargePercent()).Div(hundred).Round(2)
	finalAmount := subtotal.Sub(discountAmount).Add(surcharge)

	return model.FinancialSummary{
		Subtotal:          subtotal.Round(2),
		DiscountType:      discount.Type,
		DiscountPercent:   percentage,
		DiscountAmount:    discountAmount,
		ExpediteType:      expedite,
		ExpediteSurcharge: surcharge,
		FinalAmount:       finalAmount.Round(2),
		PrepaymentAmount:  prepayment.Round(2),
		BalanceAmount:     finalAmount.Sub(prepayment).Round(2),
	}, nil
}
