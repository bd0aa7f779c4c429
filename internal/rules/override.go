// Package rules holds the business rules applied on top of the delivery
// classifier's verdict.
package rules

import "shipment-predictor/internal/shipment"

// Class values shown to the user.
const (
	Delayed = 0
	OnTime  = 1
)

// Trigger names a rule that forces a delayed verdict.
type Trigger string

const (
	LowImportance Trigger = "low_importance"
	PoorRating    Trigger = "poor_rating"
	HighDiscount  Trigger = "high_discount"
	HeavyWeight   Trigger = "heavy_weight"
	RoadShipment  Trigger = "road_shipment"
)

// AllTriggers lists every rule in evaluation order.
var AllTriggers = []Trigger{LowImportance, PoorRating, HighDiscount, HeavyWeight, RoadShipment}

const (
	maxPoorRating   = 2
	minHighDiscount = 50
	maxNormalWeight = 6000
)

// Triggers returns the rules that fire for in, in evaluation order.
func Triggers(in shipment.Input) []Trigger {
	var out []Trigger
	if in.Importance == shipment.ImportanceLow {
		out = append(out, LowImportance)
	}
	if in.CustomerRating <= maxPoorRating {
		out = append(out, PoorRating)
	}
	if in.DiscountOffered >= minHighDiscount {
		out = append(out, HighDiscount)
	}
	if in.WeightInGms > maxNormalWeight {
		out = append(out, HeavyWeight)
	}
	if in.Mode == shipment.ModeRoad {
		out = append(out, RoadShipment)
	}
	return out
}

// Triggered reports whether any rule fires for in.
func Triggered(in shipment.Input) bool {
	return len(Triggers(in)) > 0
}

// Decide maps the trigger state and the model's on-time probability to
// the final class and displayed on-time probability. A triggered shipment
// is delayed with the probability inverted; otherwise it is on time with
// the probability unchanged. The model's own class is not consulted.
func Decide(triggered bool, prob float64) (class int, probOnTime float64) {
	if triggered {
		return Delayed, 1 - prob
	}
	return OnTime, prob
}

// Apply is Decide driven by the rules evaluated on in.
func Apply(in shipment.Input, prob float64) (class int, probOnTime float64) {
	return Decide(Triggered(in), prob)
}
