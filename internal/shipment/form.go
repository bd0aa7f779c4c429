package shipment

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Form field names used by the prediction page.
const (
	FieldWarehouseBlock    = "warehouse_block"
	FieldMode              = "mode_of_shipment"
	FieldCustomerCareCalls = "customer_care_calls"
	FieldCustomerRating    = "customer_rating"
	FieldCostOfProduct     = "cost_of_the_product"
	FieldPriorPurchases    = "prior_purchases"
	FieldImportance        = "product_importance"
	FieldGender            = "gender"
	FieldDiscountOffered   = "discount_offered"
	FieldWeightInGms       = "weight_in_gms"
)

// ParseForm builds an Input from submitted form values and validates it.
// All ten fields are required.
func ParseForm(values url.Values) (Input, error) {
	var (
		in  Input
		err error
	)

	in.WarehouseBlock = WarehouseBlock(strings.TrimSpace(values.Get(FieldWarehouseBlock)))
	in.Mode = Mode(strings.TrimSpace(values.Get(FieldMode)))
	in.Importance = Importance(strings.TrimSpace(values.Get(FieldImportance)))
	in.Gender = Gender(strings.TrimSpace(values.Get(FieldGender)))

	ints := []struct {
		field string
		dst   *int
	}{
		{FieldCustomerCareCalls, &in.CustomerCareCalls},
		{FieldCustomerRating, &in.CustomerRating},
		{FieldPriorPurchases, &in.PriorPurchases},
		{FieldDiscountOffered, &in.DiscountOffered},
		{FieldWeightInGms, &in.WeightInGms},
	}
	for _, f := range ints {
		if *f.dst, err = requiredInt(values, f.field); err != nil {
			return Input{}, err
		}
	}

	raw := strings.TrimSpace(values.Get(FieldCostOfProduct))
	if raw == "" {
		return Input{}, fmt.Errorf("field %s: %w", FieldCostOfProduct, ErrMissingField)
	}
	if in.CostOfProduct, err = strconv.ParseFloat(raw, 64); err != nil {
		return Input{}, fmt.Errorf("field %s: invalid number %q", FieldCostOfProduct, raw)
	}

	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

// Values renders the input back into form values, used to refill the form.
func (in Input) Values() url.Values {
	v := url.Values{}
	v.Set(FieldWarehouseBlock, string(in.WarehouseBlock))
	v.Set(FieldMode, string(in.Mode))
	v.Set(FieldCustomerCareCalls, strconv.Itoa(in.CustomerCareCalls))
	v.Set(FieldCustomerRating, strconv.Itoa(in.CustomerRating))
	v.Set(FieldCostOfProduct, strconv.FormatFloat(in.CostOfProduct, 'f', -1, 64))
	v.Set(FieldPriorPurchases, strconv.Itoa(in.PriorPurchases))
	v.Set(FieldImportance, string(in.Importance))
	v.Set(FieldGender, string(in.Gender))
	v.Set(FieldDiscountOffered, strconv.Itoa(in.DiscountOffered))
	v.Set(FieldWeightInGms, strconv.Itoa(in.WeightInGms))
	return v
}

func requiredInt(values url.Values, field string) (int, error) {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return 0, fmt.Errorf("field %s: %w", field, ErrMissingField)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("field %s: invalid integer %q", field, raw)
	}
	return n, nil
}
