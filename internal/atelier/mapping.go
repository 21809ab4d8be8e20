package atelier

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

func mapModifier(rec modifierRecord) model.PriceModifier {
	return model.PriceModifier{
		Code:       rec.Code,
		Name:       rec.Name,
		Kind:       model.ModifierKind(rec.Kind),
		Value:      decimal.NewFromFloat(rec.Value),
		Categories: []string(rec.ApplicableCategories),
	}
}

func mapOrder(rec orderRecord, catalog map[string]model.PriceModifier) (*model.Order, error) {
	order := &model.Order{
		ID:                rec.ID,
		ReceiptNumber:     rec.ReceiptNumber,
		TagNumber:         rec.TagNumber,
		ClientID:          rec.ClientID,
		BranchID:          rec.BranchID,
		Status:            model.OrderStatus(rec.Status),
		DiscountType:      model.DiscountType(rec.DiscountType),
		DiscountPercent:   decimal.NewFromFloat(rec.DiscountPercent),
		DiscountAmount:    decimal.NewFromFloat(rec.DiscountAmount),
		ExpediteType:      model.ExpediteType(rec.ExpediteType),
		ExpediteSurcharge: decimal.NewFromFloat(rec.ExpediteSurchargeAmount),
		FinalAmount:       decimal.NewFromFloat(rec.FinalAmount),
		PrepaymentAmount:  decimal.NewFromFloat(rec.PrepaymentAmount),
		BalanceAmount:     decimal.NewFromFloat(rec.BalanceAmount),
		Notes:             rec.Notes,
	}
	if order.DiscountType == "" {
		order.DiscountType = model.DiscountNone
	}
	if order.ExpediteType == "" {
		order.ExpediteType = model.ExpediteStandard
	}

	if rec.CreatedDate != "" {
		t, err := time.Parse(time.RFC3339, rec.CreatedDate)
		if err != nil {
			return nil, fmt.Errorf("order %s: bad createdDate %q: %w", rec.ID, rec.CreatedDate, err)
		}
		order.CreatedAt = t
	}
	if rec.ExpectedCompletionDate != "" {
		t, err := time.Parse(time.RFC3339, rec.ExpectedCompletionDate)
		if err != nil {
			return nil, fmt.Errorf("order %s: bad expectedCompletionDate %q: %w", rec.ID, rec.ExpectedCompletionDate, err)
		}
		order.ExpectedCompletionAt = t
	}

	for _, ir := range rec.Items {
		item := model.LineItem{
			ID:             ir.ID,
			CategoryCode:   ir.CategoryCode,
			Name:           ir.Name,
			Quantity:       decimal.NewFromFloat(ir.Quantity),
			Unit:           model.UnitOfMeasure(ir.Unit),
			BasePrice:      decimal.NewFromFloat(ir.BasePrice),
			FinalUnitPrice: decimal.NewFromFloat(ir.FinalUnitPrice),
			FinalTotal:     decimal.NewFromFloat(ir.FinalLineTotal),
		}
		// Applied modifier codes are resolved against the catalog so the
		// item carries full modifier records, not bare codes.
		for _, code := range ir.AppliedModifierCodes {
			if m, ok := catalog[code]; ok {
				item.Modifiers = append(item.Modifiers, m)
			} else {
				item.Modifiers = append(item.Modifiers, model.PriceModifier{Code: code})
			}
		}
		order.Items = append(order.Items, item)
	}

	return order, nil
}

func mapOrderRecord(order *model.Order) orderRecord {
	rec := orderRecord{
		ID:                      order.ID,
		ReceiptNumber:           order.ReceiptNumber,
		TagNumber:               order.TagNumber,
		ClientID:                order.ClientID,
		BranchID:                order.BranchID,
		Status:                  string(order.Status),
		DiscountType:            string(order.DiscountType),
		DiscountPercent:         order.DiscountPercent.InexactFloat64(),
		DiscountAmount:          order.DiscountAmount.InexactFloat64(),
		ExpediteType:            string(order.ExpediteType),
		ExpediteSurchargeAmount: order.ExpediteSurcharge.InexactFloat64(),
		FinalAmount:             order.FinalAmount.InexactFloat64(),
		PrepaymentAmount:        order.PrepaymentAmount.InexactFloat64(),
		BalanceAmount:           order.BalanceAmount.InexactFloat64(),
		Notes:                   order.Notes,
	}
	if !order.CreatedAt.IsZero() {
		rec.CreatedDate = order.CreatedAt.Format(time.RFC3339)
	}
	if !order.ExpectedCompletionAt.IsZero() {
		rec.ExpectedCompletionDate = order.ExpectedCompletionAt.Format(time.RFC3339)
	}

	for i := range order.Items {
		item := &order.Items[i]
		rec.Items = append(rec.Items, lineItemRecord{
			ID:                   item.ID,
			CategoryCode:         item.CategoryCode,
			Name:                 item.Name,
			Quantity:             item.Quantity.InexactFloat64(),
			Unit:                 string(item.Unit),
			BasePrice:            item.BasePrice.InexactFloat64(),
			AppliedModifierCodes: item.ModifierCodes(),
			FinalUnitPrice:       item.FinalUnitPrice.InexactFloat64(),
			FinalLineTotal:       item.FinalTotal.InexactFloat64(),
		})
	}
	return rec
}
