// Package atelier implements the client for the remote pricing/order/client
// API. Raw numeric DTOs are decoded and validated once at this boundary and
// mapped to domain types; nothing downstream re-inspects response shapes.
package atelier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// categoryList is the modifier allow-list field: either the string "all" or
// an explicit array of category codes.
type categoryList []string

func (c *categoryList) UnmarshalJSON(data []byte) error {
	var all string
	if err := json.Unmarshal(data, &all); err == nil {
		if all != "all" {
			return fmt.Errorf("unexpected category sentinel %q", all)
		}
		*c = categoryList{"all"}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("applicableCategories must be \"all\" or an array: %w", err)
	}
	*c = categoryList(list)
	return nil
}

// modifierRecord is the modifier reference record as served by the API.
type modifierRecord struct {
	Code                 string       `json:"code" validate:"required"`
	Name                 string       `json:"name" validate:"required"`
	Kind                 string       `json:"kind" validate:"required,oneof=PERCENTAGE FIXED_AMOUNT MULTIPLIER"`
	Value                float64      `json:"value"`
	ApplicableCategories categoryList `json:"applicableCategories" validate:"required,min=1"`
}

// modifierEnvelope is the wrapped variant of the modifier listing response.
type modifierEnvelope struct {
	Modifiers []modifierRecord `json:"modifiers"`
}

// lineItemRecord is one order item as served by the API.
type lineItemRecord struct {
	ID                   string   `json:"id"`
	CategoryCode         string   `json:"categoryCode" validate:"required"`
	Name                 string   `json:"name"`
	Quantity             float64  `json:"quantity" validate:"gte=0"`
	Unit                 string   `json:"unit"`
	BasePrice            float64  `json:"basePrice" validate:"gte=0"`
	AppliedModifierCodes []string `json:"appliedModifierCodes"`
	FinalUnitPrice       float64  `json:"finalUnitPrice"`
	FinalLineTotal       float64  `json:"finalLineTotal"`
}

// orderRecord is the persisted order as served by the API.
type orderRecord struct {
	ID                      string           `json:"id" validate:"required"`
	ReceiptNumber           string           `json:"receiptNumber"`
	TagNumber               string           `json:"tagNumber"`
	ClientID                string           `json:"clientId"`
	BranchID                string           `json:"branchLocationId"`
	Status                  string           `json:"status" validate:"required"`
	Items                   []lineItemRecord `json:"items" validate:"dive"`
	DiscountType            string           `json:"discountType"`
	DiscountPercent         float64          `json:"discountPercent"`
	DiscountAmount          float64          `json:"discountAmount"`
	ExpediteType            string           `json:"expediteType"`
	ExpediteSurchargeAmount float64          `json:"expediteSurchargeAmount"`
	FinalAmount             float64          `json:"finalAmount"`
	PrepaymentAmount        float64          `json:"prepaymentAmount"`
	BalanceAmount           float64          `json:"balanceAmount"`
	CreatedDate             string           `json:"createdDate"`
	ExpectedCompletionDate  string           `json:"expectedCompletionDate"`
	Notes                   string           `json:"notes"`
}

// clientRecord is the client lookup response; only the fields the wizard
// consumes are decoded.
type clientRecord struct {
	ID    string `json:"id" validate:"required"`
	Phone string `json:"phone"`
}

// ShapeError reports accumulated field-level problems with an API payload.
// The caller may retry after the upstream data is corrected.
type ShapeError struct {
	Fields []string
}

func (e *ShapeError) Error() string {
	return "invalid payload: " + strings.Join(e.Fields, "; ")
}

// checkShape runs struct validation and converts the findings into one
// accumulated ShapeError.
func checkShape(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	fields := []string{err.Error()}
	if errors.As(err, &verrs) {
		fields = fields[:0]
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return &ShapeError{Fields: fields}
}
