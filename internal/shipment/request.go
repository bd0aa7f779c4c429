package shipment

import (
	"fmt"
	"strings"
)

// Request is the JSON body of a prediction request. Pointer fields tell
// an absent field apart from a zero value.
type Request struct {
	WarehouseBlock    *WarehouseBlock `json:"warehouse_block"`
	Mode              *Mode           `json:"mode_of_shipment"`
	CustomerCareCalls *int            `json:"customer_care_calls"`
	CustomerRating    *int            `json:"customer_rating"`
	CostOfProduct     *float64        `json:"cost_of_the_product"`
	PriorPurchases    *int            `json:"prior_purchases"`
	Importance        *Importance     `json:"product_importance"`
	Gender            *Gender         `json:"gender"`
	DiscountOffered   *int            `json:"discount_offered"`
	WeightInGms       *int            `json:"weight_in_gms"`
}

// Input checks that all ten fields are present and returns the validated
// Input. Every absent field is named in the error.
func (r Request) Input() (Input, error) {
	var missing []string
	check := func(present bool, field string) {
		if !present {
			missing = append(missing, field)
		}
	}
	check(r.WarehouseBlock != nil, FieldWarehouseBlock)
	check(r.Mode != nil, FieldMode)
	check(r.CustomerCareCalls != nil, FieldCustomerCareCalls)
	check(r.CustomerRating != nil, FieldCustomerRating)
	check(r.CostOfProduct != nil, FieldCostOfProduct)
	check(r.PriorPurchases != nil, FieldPriorPurchases)
	check(r.Importance != nil, FieldImportance)
	check(r.Gender != nil, FieldGender)
	check(r.DiscountOffered != nil, FieldDiscountOffered)
	check(r.WeightInGms != nil, FieldWeightInGms)
	if len(missing) > 0 {
		return Input{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	in := Input{
		WarehouseBlock:    *r.WarehouseBlock,
		Mode:              *r.Mode,
		CustomerCareCalls: *r.CustomerCareCalls,
		CustomerRating:    *r.CustomerRating,
		CostOfProduct:     *r.CostOfProduct,
		PriorPurchases:    *r.PriorPurchases,
		Importance:        *r.Importance,
		Gender:            *r.Gender,
		DiscountOffered:   *r.DiscountOffered,
		WeightInGms:       *r.WeightInGms,
	}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}
