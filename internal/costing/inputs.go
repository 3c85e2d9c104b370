package costing

import "math"

// SolidsFraction is the dissolved-solids share of raw palm sugar.
const SolidsFraction = 0.917

// MaxMarginRate caps TargetFOBMarginRate so FOB price stays finite.
const MaxMarginRate = 0.95

// Sizes lists the supported bottle sizes in ml, ascending.
var Sizes = []int{150, 250}

// Inputs holds the adjustable production-cost and pricing assumptions.
// Rate fields are fractions, RetailSharePercent is a percentage.
type Inputs struct {
	BrixTarget          float64
	DensityGPerMl       float64
	SugarPriceTHBPerKg  float64
	PectinPriceTHBPerKg float64
	PectinRate          float64
	OEMProcessingCost   float64
	BottleCapCost       float64
	LabelCost           float64
	SealCost            float64
	CartonAlloc         float64
	DocsLabAlloc        float64
	LossRate            float64
	FXBufferRate        float64
	TargetFOBMarginRate float64
	FreightCost         float64
	InsuranceCost       float64
	RetailSharePercent  float64

	// MSRPBySize maps bottle size (ml) to suggested retail price in THB.
	MSRPBySize map[int]float64
}

// Clone returns a deep copy so callers can edit a snapshot without touching the original.
func (in Inputs) Clone() Inputs {
	out := in
	out.MSRPBySize = make(map[int]float64, len(in.MSRPBySize))
	for size, price := range in.MSRPBySize {
		out.MSRPBySize[size] = price
	}
	return out
}

// MSRP returns the suggested retail price for size, or 0 when none is configured.
func (in Inputs) MSRP(size int) float64 {
	if in.MSRPBySize == nil {
		return 0
	}
	return in.MSRPBySize[size]
}

// EffectiveMarginRate is TargetFOBMarginRate clamped to [0, MaxMarginRate].
func (in Inputs) EffectiveMarginRate() float64 {
	m := in.TargetFOBMarginRate
	if math.IsNaN(m) || m < 0 {
		return 0
	}
	if m > MaxMarginRate {
		return MaxMarginRate
	}
	return m
}
