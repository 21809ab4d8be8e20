package model

import "github.com/shopspring/decimal"

// DiscountType identifies the discount program applied to a whole order.
type DiscountType string

// Discount type constants.
const (
	DiscountNone        DiscountType = "NONE"
	DiscountEvercard    DiscountType = "EVERCARD"
	DiscountSocialMedia DiscountType = "SOCIAL_MEDIA"
	DiscountMilitary    DiscountType = "MILITARY"
	DiscountCustom      DiscountType = "CUSTOM"
)

// fixedDiscountPercentages maps each non-custom discount type to its
// percentage. DiscountCustom takes a caller-supplied percentage instead.
var fixedDiscountPercentages = map[DiscountType]int64{
	DiscountNone:        0,
	DiscountEvercard:    10,
	DiscountSocialMedia: 5,
	DiscountMilitary:    10,
}

// FixedPercentage returns the type's fixed percentage and whether the type
// has one. DiscountCustom returns false.
func (d DiscountType) FixedPercentage() (decimal.Decimal, bool) {
	p, ok := fixedDiscountPercentages[d]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(p), true
}

// IsValid reports whether the discount type is one of the known values.
func (d DiscountType) IsValid() bool {
	if d == DiscountCustom {
		return true
	}
	_, ok := fixedDiscountPercentages[d]
	return ok
}

// Description returns the operator-facing label for the discount type.
func (d DiscountType) Description() string {
	switch d {
	case DiscountNone:
		return "Без знижки"
	case DiscountEvercard:
		return "Еверкард (10%)"
	case DiscountSocialMedia:
		return "Соцмережі (5%)"
	case DiscountMilitary:
		return "ЗСУ (10%)"
	case DiscountCustom:
		return "Індивідуальна знижка"
	default:
		return string(d)
	}
}

// DiscountSelection is the order-scoped discount choice. CustomPercentage is
// consulted only when Type is DiscountCustom.
type DiscountSelection struct {
	Type             DiscountType
	CustomPercentage *decimal.Decimal
}
