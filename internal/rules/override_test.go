package rules

import (
	"testing"

	"shipment-predictor/internal/shipment"

	"github.com/stretchr/testify/assert"
)

// quiet returns an input that triggers no rule.
func quiet() shipment.Input {
	in := shipment.Default()
	in.Importance = shipment.ImportanceHigh
	in.CustomerRating = 5
	in.DiscountOffered = 10
	in.WeightInGms = 2500
	in.Mode = shipment.ModeFlight
	return in
}

func TestTriggers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*shipment.Input)
		want   []Trigger
	}{
		{"none", func(*shipment.Input) {}, nil},
		{"low importance", func(in *shipment.Input) { in.Importance = shipment.ImportanceLow }, []Trigger{LowImportance}},
		{"medium importance", func(in *shipment.Input) { in.Importance = shipment.ImportanceMedium }, nil},
		{"rating 2", func(in *shipment.Input) { in.CustomerRating = 2 }, []Trigger{PoorRating}},
		{"rating 3", func(in *shipment.Input) { in.CustomerRating = 3 }, nil},
		{"discount 50", func(in *shipment.Input) { in.DiscountOffered = 50 }, []Trigger{HighDiscount}},
		{"discount 49", func(in *shipment.Input) { in.DiscountOffered = 49 }, nil},
		{"weight 6000", func(in *shipment.Input) { in.WeightInGms = 6000 }, nil},
		{"weight 6001", func(in *shipment.Input) { in.WeightInGms = 6001 }, []Trigger{HeavyWeight}},
		{"road", func(in *shipment.Input) { in.Mode = shipment.ModeRoad }, []Trigger{RoadShipment}},
		{"ship", func(in *shipment.Input) { in.Mode = shipment.ModeShip }, nil},
		{"all", func(in *shipment.Input) {
			in.Importance = shipment.ImportanceLow
			in.CustomerRating = 1
			in.DiscountOffered = 80
			in.WeightInGms = 8000
			in.Mode = shipment.ModeRoad
		}, AllTriggers},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := quiet()
			tc.mutate(&in)
			assert.Equal(t, tc.want, Triggers(in))
			assert.Equal(t, len(tc.want) > 0, Triggered(in))
		})
	}
}

func TestDecide(t *testing.T) {
	for _, p := range []float64{0, 0.2, 0.5, 0.8, 1} {
		class, prob := Decide(true, p)
		assert.Equal(t, Delayed, class)
		assert.InDelta(t, 1-p, prob, 1e-12)

		class, prob = Decide(false, p)
		assert.Equal(t, OnTime, class)
		assert.Equal(t, p, prob)
	}
}

func TestApply_UntriggeredAlwaysOnTime(t *testing.T) {
	// A low model probability does not produce a delayed verdict unless a
	// rule fires.
	class, prob := Apply(quiet(), 0.1)
	assert.Equal(t, OnTime, class)
	assert.Equal(t, 0.1, prob)
}

func TestApply_LowImportance(t *testing.T) {
	in := quiet()
	in.Importance = shipment.ImportanceLow

	class, prob := Apply(in, 0.7)
	assert.Equal(t, Delayed, class)
	assert.InDelta(t, 0.3, prob, 1e-12)
}
