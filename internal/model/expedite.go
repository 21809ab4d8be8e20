package model

import "github.com/shopspring/decimal"

// ExpediteType is the turnaround-time class for a whole order.
type ExpediteType string

// Expedite tier constants.
const (
	ExpediteStandard  ExpediteType = "STANDARD"
	ExpediteExpress48 ExpediteType = "EXPRESS_48H"
	ExpediteExpress24 ExpediteType = "EXPRESS_24H"
)

// SurchargePercent returns the tier's surcharge percentage over the order
// subtotal. Unknown tiers behave as standard.
func (e ExpediteType) SurchargePercent() decimal.Decimal {
	switch e {
	case ExpediteExpress48:
		return decimal.NewFromInt(50)
	case ExpediteExpress24:
		return decimal.NewFromInt(100)
	default:
		return decimal.Zero
	}
}

// IsValid reports whether the tier is one of the known values.
func (e ExpediteType) IsValid() bool {
	switch e {
	case ExpediteStandard, ExpediteExpress48, ExpediteExpress24:
		return true
	}
	return false
}

// TurnaroundDays returns the number of days the tier forces, or 0 for the
// standard tier where the item mix decides.
func (e ExpediteType) TurnaroundDays() int {
	switch e {
	case ExpediteExpress48:
		return 2
	case ExpediteExpress24:
		return 1
	default:
		return 0
	}
}
