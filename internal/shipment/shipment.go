// Package shipment defines the raw shipment attributes collected by the
// prediction form and the categorical domains they are drawn from.
package shipment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCategory is returned when a categorical field holds a value
	// outside its enumerated domain.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrOutOfRange is returned when a numeric field falls outside the
	// range the form allows.
	ErrOutOfRange = errors.New("value out of range")
	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing required field")
)

type WarehouseBlock string

const (
	BlockA WarehouseBlock = "A"
	BlockB WarehouseBlock = "B"
	BlockC WarehouseBlock = "C"
	BlockD WarehouseBlock = "D"
	BlockF WarehouseBlock = "F"
)

// WarehouseBlocks lists the blocks in form order.
var WarehouseBlocks = []WarehouseBlock{BlockA, BlockB, BlockC, BlockD, BlockF}

type Mode string

const (
	ModeShip   Mode = "Ship"
	ModeFlight Mode = "Flight"
	ModeRoad   Mode = "Road"
)

var Modes = []Mode{ModeShip, ModeFlight, ModeRoad}

type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

var Importances = []Importance{ImportanceLow, ImportanceMedium, ImportanceHigh}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

var Genders = []Gender{GenderMale, GenderFemale}

// Input is one shipment as entered on the form. It is built per request
// and never mutated.
type Input struct {
	WarehouseBlock    WarehouseBlock `json:"warehouse_block"`
	Mode              Mode           `json:"mode_of_shipment"`
	CustomerCareCalls int            `json:"customer_care_calls"`
	CustomerRating    int            `json:"customer_rating"`
	CostOfProduct     float64        `json:"cost_of_the_product"`
	PriorPurchases    int            `json:"prior_purchases"`
	Importance        Importance     `json:"product_importance"`
	Gender            Gender         `json:"gender"`
	DiscountOffered   int            `json:"discount_offered"`
	WeightInGms       int            `json:"weight_in_gms"`
}

// Default returns the values the form starts with.
func Default() Input {
	return Input{
		WarehouseBlock:    BlockA,
		Mode:              ModeShip,
		CustomerCareCalls: 3,
		CustomerRating:    3,
		CostOfProduct:     1000,
		PriorPurchases:    2,
		Importance:        ImportanceLow,
		Gender:            GenderMale,
		DiscountOffered:   10,
		WeightInGms:       2500,
	}
}

// Field ranges, inclusive.
const (
	MinCareCalls      = 1
	MaxCareCalls      = 10
	MinRating         = 1
	MaxRating         = 5
	MinCost           = 50
	MaxCost           = 5000
	MinPriorPurchases = 1
	MaxPriorPurchases = 10
	MinDiscount       = 0
	MaxDiscount       = 80
	MinWeight         = 100
	MaxWeight         = 8000
)

func (b WarehouseBlock) Valid() bool { return contains(WarehouseBlocks, b) }
func (m Mode) Valid() bool           { return contains(Modes, m) }
func (i Importance) Valid() bool     { return contains(Importances, i) }
func (g Gender) Valid() bool         { return contains(Genders, g) }

// ValidateCategories checks every categorical field against its domain.
func (in Input) ValidateCategories() error {
	if !in.WarehouseBlock.Valid() {
		return fmt.Errorf("warehouse block %q: %w", in.WarehouseBlock, ErrInvalidCategory)
	}
	if !in.Mode.Valid() {
		return fmt.Errorf("mode of shipment %q: %w", in.Mode, ErrInvalidCategory)
	}
	if !in.Importance.Valid() {
		return fmt.Errorf("product importance %q: %w", in.Importance, ErrInvalidCategory)
	}
	if !in.Gender.Valid() {
		return fmt.Errorf("gender %q: %w", in.Gender, ErrInvalidCategory)
	}
	return nil
}

// Validate checks categories and numeric ranges.
func (in Input) Validate() error {
	if err := in.ValidateCategories(); err != nil {
		return err
	}

	checks := []struct {
		name     string
		v        float64
		min, max float64
	}{
		{"customer care calls", float64(in.CustomerCareCalls), MinCareCalls, MaxCareCalls},
		{"customer rating", float64(in.CustomerRating), MinRating, MaxRating},
		{"cost of product", in.CostOfProduct, MinCost, MaxCost},
		{"prior purchases", float64(in.PriorPurchases), MinPriorPurchases, MaxPriorPurchases},
		{"discount offered", float64(in.DiscountOffered), MinDiscount, MaxDiscount},
		{"weight in grams", float64(in.WeightInGms), MinWeight, MaxWeight},
	}
	for _, c := range checks {
		// NaN fails both comparisons, so test the in-range case.
		if !(c.v >= c.min && c.v <= c.max) {
			return fmt.Errorf("%s must be between %g and %g, got %g: %w", c.name, c.min, c.max, c.v, ErrOutOfRange)
		}
	}
	return nil
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
