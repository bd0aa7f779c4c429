// Package features turns a shipment into the numeric row the delivery
// classifier was trained on: encoding, the cost-to-weight feature and
// alignment against the trained column schema.
package features

import (
	"fmt"
	"strconv"

	"shipment-predictor/internal/shipment"
)

// Column names as produced by the training pipeline.
const (
	ColID                = "ID"
	ColCustomerCareCalls = "Customer_care_calls"
	ColCustomerRating    = "Customer_rating"
	ColCostOfProduct     = "Cost_of_the_Product"
	ColPriorPurchases    = "Prior_purchases"
	ColImportance        = "Product_importance"
	ColGender            = "Gender"
	ColDiscountOffered   = "Discount_offered"
	ColWeightInGms       = "Weight_in_gms"
	ColCostToWeight      = "Cost_to_Weight_ratio"

	prefixWarehouseBlock = "Warehouse_block"
	prefixMode           = "Mode_of_Shipment"
)

var importanceRank = map[shipment.Importance]int{
	shipment.ImportanceLow:    0,
	shipment.ImportanceMedium: 1,
	shipment.ImportanceHigh:   2,
}

var genderCode = map[shipment.Gender]int{
	shipment.GenderMale:   0,
	shipment.GenderFemale: 1,
}

type Column struct {
	Name  string
	Value float64
}

// Vector is a single encoded row. Its shape depends on the categories
// selected: only the chosen one-hot columns are present.
type Vector []Column

// Get returns the value of the named column and whether it exists.
func (v Vector) Get(name string) (float64, bool) {
	for _, c := range v {
		if c.Name == name {
			return c.Value, true
		}
	}
	return 0, false
}

func (v Vector) Names() []string {
	names := make([]string, len(v))
	for i, c := range v {
		names[i] = c.Name
	}
	return names
}

// CostToWeight returns cost/weight rounded to 4 decimal places. The
// quotient is rounded on its exact binary value with ties to even, so a
// quotient stored just below a decimal midpoint rounds down.
// Weight is positive for any validated input.
func CostToWeight(cost float64, weightGms int) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(cost/float64(weightGms), 'f', 4, 64), 64)
	return v
}

// WarehouseColumn returns the one-hot column name for a warehouse block.
func WarehouseColumn(b shipment.WarehouseBlock) string {
	return prefixWarehouseBlock + "_" + string(b)
}

// ModeColumn returns the one-hot column name for a shipment mode.
func ModeColumn(m shipment.Mode) string {
	return prefixMode + "_" + string(m)
}

// Encode builds the feature vector for one shipment. Categorical values
// outside their domain fail with shipment.ErrInvalidCategory.
func Encode(in shipment.Input) (Vector, error) {
	if err := in.ValidateCategories(); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if in.WeightInGms <= 0 {
		return nil, fmt.Errorf("encode: weight must be positive, got %d: %w", in.WeightInGms, shipment.ErrOutOfRange)
	}

	return Vector{
		{ColID, 0},
		{ColCustomerCareCalls, float64(in.CustomerCareCalls)},
		{ColCustomerRating, float64(in.CustomerRating)},
		{ColCostOfProduct, in.CostOfProduct},
		{ColPriorPurchases, float64(in.PriorPurchases)},
		{ColImportance, float64(importanceRank[in.Importance])},
		{ColGender, float64(genderCode[in.Gender])},
		{ColDiscountOffered, float64(in.DiscountOffered)},
		{ColWeightInGms, float64(in.WeightInGms)},
		{ColCostToWeight, CostToWeight(in.CostOfProduct, in.WeightInGms)},
		{WarehouseColumn(in.WarehouseBlock), 1},
		{ModeColumn(in.Mode), 1},
	}, nil
}

// AllColumns returns every column Encode can produce, in encoding order,
// with one-hot columns for every category. Useful as a default schema.
func AllColumns() []string {
	cols := []string{
		ColID, ColCustomerCareCalls, ColCustomerRating, ColCostOfProduct,
		ColPriorPurchases, ColImportance, ColGender, ColDiscountOffered,
		ColWeightInGms, ColCostToWeight,
	}
	for _, b := range shipment.WarehouseBlocks {
		cols = append(cols, WarehouseColumn(b))
	}
	for _, m := range shipment.Modes {
		cols = append(cols, ModeColumn(m))
	}
	return cols
}
