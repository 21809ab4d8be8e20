package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// ErrInvalidPercentage rejects custom discount percentages outside 0-100.
var ErrInvalidPercentage = errors.New("discount percentage must be between 0 and 100")

// ExcludedCategoryPatterns lists the service-category substrings no discount
// applies to: pressing, laundering, and textile dyeing. Matching is a
// case-insensitive substring test against the category code.
var ExcludedCategoryPatterns = []string{"прасування", "прання", "фарбування"}

var hundred = decimal.NewFromInt(100)

// ResolvePercentage returns the discount percentage for a selection. Fixed
// types carry their own percentage; DiscountCustom takes the caller-supplied
// value, validated 0-100 inclusive, never clamped.
func ResolvePercentage(selection model.DiscountSelection) (decimal.Decimal, error) {
	if selection.Type == model.DiscountCustom {
		if selection.CustomPercentage == nil {
			return decimal.Zero, fmt.Errorf("%w: custom discount requires a percentage", ErrInvalidPercentage)
		}
		p := *selection.CustomPercentage
		if p.IsNegative() || p.GreaterThan(hundred) {
			return decimal.Zero, fmt.Errorf("%w: got %s", ErrInvalidPercentage, p.String())
		}
		return p, nil
	}

	p, ok := selection.Type.FixedPercentage()
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown discount type %q", selection.Type)
	}
	return p, nil
}

// Partition splits line items into discountable and excluded sets by
// matching category codes against the excluded patterns.
type Partition struct {
	Discountable []model.LineItem
	Excluded     []model.LineItem
}

// PartitionExcluded splits line items by excluded-category substring match.
func PartitionExcluded(items []model.LineItem, excludedPatterns []string) Partition {
	var p Partition
	for _, item := range items {
		if categoryExcluded(item.CategoryCode, excludedPatterns) {
			p.Excluded = append(p.Excluded, item)
		} else {
			p.Discountable = append(p.Discountable, item)
		}
	}
	return p
}

func categoryExcluded(categoryCode string, patterns []string) bool {
	category := strings.ToLower(categoryCode)
	for _, pattern := range patterns {
		if strings.Contains(category, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// ComputeDiscount returns the discount amount over the discountable amount,
// rounded half away from zero to 2 decimals. A zero discountable amount
// yields a zero discount regardless of percentage.
func ComputeDiscount(discountableAmount, percentage decimal.Decimal) decimal.Decimal {
	if discountableAmount.IsZero() {
		return decimal.Zero
	}
	return discountableAmount.Mul(percentage).Div(hundred).Round(2)
}
