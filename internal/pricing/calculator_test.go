package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCalculator_ComputeLineItem(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name          string
		basePrice     string
		quantity      string
		modifiers     []model.PriceModifier
		wantUnitPrice string
		wantTotal     string
		wantSteps     int
	}{
		{
			name:          "no modifiers",
			basePrice:     "150",
			quantity:      "1",
			wantUnitPrice: "150.00",
			wantTotal:     "150.00",
		},
		{
			name:      "single percentage modifier doubles up with quantity",
			basePrice: "100",
			quantity:  "2",
			modifiers: []model.PriceModifier{
				{Code: "hand_clean", Name: "Ручна чистка", Kind: model.ModifierPercentage, Value: d("10")},
			},
			wantUnitPrice: "110.00",
			wantTotal:     "220.00",
			wantSteps:     1,
		},
		{
			name:      "percentage modifiers compound against the running price",
			basePrice: "100",
			quantity:  "1",
			modifiers: []model.PriceModifier{
				{Code: "a", Kind: model.ModifierPercentage, Value: d("10")},
				{Code: "b", Kind: model.ModifierPercentage, Value: d("10")},
			},
			wantUnitPrice: "121.00",
			wantTotal:     "121.00",
			wantSteps:     2,
		},
		{
			name:      "two multipliers compound multiplicatively",
			basePrice: "80",
			quantity:  "1",
			modifiers: []model.PriceModifier{
				{Code: "m1", Kind: model.ModifierMultiplier, Value: d("1.5")},
				{Code: "m2", Kind: model.ModifierMultiplier, Value: d("2")},
			},
			wantUnitPrice: "240.00",
			wantTotal:     "240.00",
			wantSteps:     2,
		},
		{
			name:      "fixed amount then percentage sees the raised base",
			basePrice: "200",
			quantity:  "1",
			modifiers: []model.PriceModifier{
				{Code: "fee", Kind: model.ModifierFixedAmount, Value: d("50")},
				{Code: "pct", Kind: model.ModifierPercentage, Value: d("20")},
			},
			wantUnitPrice: "300.00",
			wantTotal:     "300.00",
			wantSteps:     2,
		},
		{
			name:      "negative percentage reduces the price",
			basePrice: "100",
			quantity:  "1",
			modifiers: []model.PriceModifier{
				{Code: "child", Kind: model.ModifierPercentage, Value: d("-30")},
			},
			wantUnitPrice: "70.00",
			wantTotal:     "70.00",
			wantSteps:     1,
		},
		{
			name:      "intermediate precision is not rounded away",
			basePrice: "10.05",
			quantity:  "3",
			modifiers: []model.PriceModifier{
				{Code: "a", Kind: model.ModifierPercentage, Value: d("3")},
				{Code: "b", Kind: model.ModifierPercentage, Value: d("3")},
			},
			// 10.05 * 1.03 * 1.03 = 10.662045 -> 10.66; 10.66 * 3 = 31.98
			wantUnitPrice: "10.66",
			wantTotal:     "31.98",
			wantSteps:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.ComputeLineItem(d(tt.basePrice), d(tt.quantity), tt.modifiers)
			require.NoError(t, err)

			assert.Equal(t, tt.wantUnitPrice, got.FinalUnitPrice.StringFixed(2))
			assert.Equal(t, tt.wantTotal, got.FinalTotal.StringFixed(2))
			assert.Len(t, got.Steps, tt.wantSteps)
		})
	}
}

func TestCalculator_ComputeLineItem_AuditTrail(t *testing.T) {
	calc := NewCalculator()

	modifiers := []model.PriceModifier{
		{Code: "hand_clean", Name: "Ручна чистка", Kind: model.ModifierPercentage, Value: d("20")},
		{Code: "express_fee", Name: "Доплата", Kind: model.ModifierFixedAmount, Value: d("40")},
	}

	got, err := calc.ComputeLineItem(d("100"), d("1"), modifiers)
	require.NoError(t, err)
	require.Len(t, got.Steps, 2)

	first := got.Steps[0]
	assert.Equal(t, 1, first.Step)
	assert.Equal(t, "Ручна чистка", first.StepName)
	assert.Equal(t, "hand_clean", first.ModifierCode)
	assert.Equal(t, "100.00", first.PriceBefore.StringFixed(2))
	assert.Equal(t, "120.00", first.PriceAfter.StringFixed(2))
	assert.Equal(t, "20.00", first.PriceDifference.StringFixed(2))

	second := got.Steps[1]
	assert.Equal(t, 2, second.Step)
	assert.Equal(t, "express_fee", second.ModifierCode)
	assert.Equal(t, "120.00", second.PriceBefore.StringFixed(2))
	assert.Equal(t, "160.00", second.PriceAfter.StringFixed(2))
	assert.Equal(t, "40.00", second.PriceDifference.StringFixed(2))
}

func TestCalculator_ComputeLineItem_Errors(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.ComputeLineItem(d("-1"), d("1"), nil)
	assert.Error(t, err)

	_, err = calc.ComputeLineItem(d("10"), d("-2"), nil)
	assert.Error(t, err)

	_, err = calc.ComputeLineItem(d("10"), d("1"), []model.PriceModifier{
		{Code: "weird", Kind: "UNKNOWN", Value: d("5")},
	})
	assert.Error(t, err)
}

func TestCalculator_ComputeOrderSummary(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name          string
		items         []model.LineItem
		discount      model.DiscountSelection
		expedite      model.ExpediteType
		prepayment    string
		wantSubtotal  string
		wantDiscount  string
		wantSurcharge string
		wantFinal     string
		wantBalance   string
	}{
		{
			name: "evercard skips excluded pressing category",
			items: []model.LineItem{
				{CategoryCode: "чистка одягу", FinalTotal: d("800")},
				{CategoryCode: "прасування сорочок", FinalTotal: d("200")},
			},
			discount:      model.DiscountSelection{Type: model.DiscountEvercard},
			expedite:      model.ExpediteStandard,
			prepayment:    "0",
			wantSubtotal:  "1000.00",
			wantDiscount:  "80.00",
			wantSurcharge: "0.00",
			wantFinal:     "920.00",
			wantBalance:   "920.00",
		},
		{
			name: "express 24h doubles the subtotal",
			items: []model.LineItem{
				{CategoryCode: "чистка одягу", FinalTotal: d("500")},
			},
			discount:      model.DiscountSelection{Type: model.DiscountNone},
			expedite:      model.ExpediteExpress24,
			prepayment:    "0",
			wantSubtotal:  "500.00",
			wantDiscount:  "0.00",
			wantSurcharge: "500.00",
			wantFinal:     "1000.00",
			wantBalance:   "1000.00",
		},
		{
			name: "surcharge applies to the full subtotal, not the discounted one",
			items: []model.LineItem{
				{CategoryCode: "чистка одягу", FinalTotal: d("1000")},
			},
			discount:      model.DiscountSelection{Type: model.DiscountEvercard},
			expedite:      model.ExpediteExpress48,
			prepayment:    "300",
			wantSubtotal:  "1000.00",
			wantDiscount:  "100.00",
			wantSurcharge: "500.00",
			wantFinal:     "1400.00",
			wantBalance:   "1100.00",
		},
		{
			name: "all items excluded yields zero discount",
			items: []model.LineItem{
				{CategoryCode: "прання білизни", FinalTotal: d("400")},
				{CategoryCode: "фарбування текстилю", FinalTotal: d("100")},
			},
			discount:      model.DiscountSelection{Type: model.DiscountMilitary},
			expedite:      model.ExpediteStandard,
			prepayment:    "0",
			wantSubtotal:  "500.00",
			wantDiscount:  "0.00",
			wantSurcharge: "0.00",
			wantFinal:     "500.00",
			wantBalance:   "500.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.ComputeOrderSummary(tt.items, tt.discount, tt.expedite, d(tt.prepayment))
			require.NoError(t, err)

			assert.Equal(t, tt.wantSubtotal, got.Subtotal.StringFixed(2))
			assert.Equal(t, tt.wantDiscount, got.DiscountAmount.StringFixed(2))
			assert.Equal(t, tt.wantSurcharge, got.ExpediteSurcharge.StringFixed(2))
			assert.Equal(t, tt.wantFinal, got.FinalAmount.StringFixed(2))
			assert.Equal(t, tt.wantBalance, got.BalanceAmount.StringFixed(2))
		})
	}
}

func TestCalculator_ComputeOrderSummary_InvalidInputs(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.ComputeOrderSummary(nil, model.DiscountSelection{Type: model.DiscountNone}, "OVERNIGHT", decimal.Zero)
	assert.Error(t, err)

	over := d("150")
	_, err = calc.ComputeOrderSummary(nil, model.DiscountSelection{
		Type:             model.DiscountCustom,
		CustomPercentage: &over,
	}, model.ExpediteStandard, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidPercentage)
}
