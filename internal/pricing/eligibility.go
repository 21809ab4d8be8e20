// Package pricing implements the order pricing engine: modifier eligibility,
// discount policy, and the breakdown calculator.
package pricing

import (
	"fmt"

	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// Eligibility decides whether a named price modifier may be applied to a
// given service category, based on the modifier reference catalog.
type Eligibility struct {
	catalog map[string]model.PriceModifier
}

// NewEligibility builds an eligibility checker over the modifier catalog.
func NewEligibility(modifiers []model.PriceModifier) *Eligibility {
	catalog := make(map[string]model.PriceModifier, len(modifiers))
	for _, m := range modifiers {
		catalog[m.Code] = m
	}
	return &Eligibility{catalog: catalog}
}

// IsEligible reports whether the modifier's category allow-list includes the
// category. Unknown modifier codes are not eligible for any category.
func (e *Eligibility) IsEligible(modifierCode, categoryCode string) bool {
	m, ok := e.catalog[modifierCode]
	if !ok {
		return false
	}
	return m.AppliesTo(categoryCode)
}

// Rejection explains why a requested modifier was not applied.
type Rejection struct {
	Code   string
	Reason string
}

// FilterResult partitions requested modifier codes into applicable modifiers
// and rejections. No code is silently dropped.
type FilterResult struct {
	Applicable []model.PriceModifier
	Rejected   []Rejection
}

// Filter resolves the requested modifier codes against the catalog for one
// category, preserving request order. This is a filtering operation, not a
// hard validation: unknown and ineligible codes land in Rejected.
func (e *Eligibility) Filter(modifierCodes []string, categoryCode string) FilterResult {
	var result FilterResult
	for _, code := range modifierCodes {
		m, ok := e.catalog[code]
		if !ok {
			result.Rejected = append(result.Rejected, Rejection{
				Code:   code,
				Reason: fmt.Sprintf("%s is not a known modifier", code),
			})
			continue
		}
		if !m.AppliesTo(categoryCode) {
			result.Rejected = append(result.Rejected, Rejection{
				Code:   code,
				Reason: fmt.Sprintf("%s is not applicable to category %s", code, categoryCode),
			})
			continue
		}
		result.Applicable = append(result.Applicable, m)
	}
	return result
}
