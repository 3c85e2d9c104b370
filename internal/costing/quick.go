package costing

// sugarKgPer250ml is the raw sugar needed for one 250 ml bottle in the flat model.
const sugarKgPer250ml = 0.2537

// QuickInputs are the flat per-bottle assumptions of the quick estimate.
type QuickInputs struct {
	RawMatCostPerKg       float64
	OEMCost               float64
	PackagingCost         float64
	DocCost               float64
	BoxCost               float64
	WholesalePriceFOB     float64
	ShippingInsuranceCost float64
	SuggestedRetailPrice  float64
}

// QuickResult is the output of QuickEstimate.
type QuickResult struct {
	Size              int
	RawMatCostBottle  float64
	TotalFOBCost      float64
	ProducerProfit    float64
	ProducerMargin    float64
	PartnerLandedCost float64
	PartnerProfit     float64
	PartnerMargin     float64
}

// QuickEstimate prices a bottle from flat per-bottle costs and a fixed FOB price.
// Raw material usage scales linearly with size from the 250 ml reference.
func QuickEstimate(in QuickInputs, size int) QuickResult {
	rawMat := in.RawMatCostPerKg * sugarKgPer250ml * float64(size) / 250.0
	total := rawMat + in.OEMCost + in.PackagingCost + in.DocCost + in.BoxCost

	producerProfit := in.WholesalePriceFOB - total
	landed := in.WholesalePriceFOB + in.ShippingInsuranceCost
	partnerProfit := in.SuggestedRetailPrice - landed

	return QuickResult{
		Size:              size,
		RawMatCostBottle:  rawMat,
		TotalFOBCost:      total,
		ProducerProfit:    producerProfit,
		ProducerMargin:    marginPercent(producerProfit, in.WholesalePriceFOB),
		PartnerLandedCost: landed,
		PartnerProfit:     partnerProfit,
		PartnerMargin:     marginPercent(partnerProfit, in.SuggestedRetailPrice),
	}
}
