package costing

// Items is the itemized per-bottle cost breakdown in THB.
type Items struct {
	Sugar        float64
	Pectin       float64
	OEM          float64
	Packaging    float64
	Carton       float64
	DocsLab      float64
	LossFXBuffer float64
}

// Base is the FOB cost before loss and FX buffers.
func (it Items) Base() float64 {
	return it.Sugar + it.Pectin + it.OEM + it.Packaging + it.Carton + it.DocsLab
}

// Breakdown contains the full cost, price and profit picture for one bottle size.
type Breakdown struct {
	Size           int
	FOBCost        float64
	FOBPrice       float64
	ProducerProfit float64
	ProducerMargin float64
	CIF            float64
	NetToPartner   float64
	PartnerProfit  float64
	PartnerMargin  float64
	Items          Items
}

// Derive computes the cost breakdown of one bottle of the given size in ml.
func Derive(in Inputs, size int) Breakdown {
	sugar := SugarCost(in, size)

	netWeightKg := in.DensityGPerMl * float64(size) / 1000.0
	pectin := in.PectinPriceTHBPerKg * in.PectinRate * netWeightKg

	items := Items{
		Sugar:     sugar,
		Pectin:    pectin,
		OEM:       in.OEMProcessingCost,
		Packaging: in.BottleCapCost + in.LabelCost + in.SealCost,
		Carton:    in.CartonAlloc,
		DocsLab:   in.DocsLabAlloc,
	}

	base := items.Base()
	fobCost := LoadedCost(in, base)
	items.LossFXBuffer = fobCost - base

	fobPrice, producerProfit, producerMargin := Price(in, fobCost)

	cif := fobPrice + in.FreightCost + in.InsuranceCost
	netToPartner := in.MSRP(size) * (1.0 - in.RetailSharePercent/100.0)
	partnerProfit := netToPartner - cif

	return Breakdown{
		Size:           size,
		FOBCost:        fobCost,
		FOBPrice:       fobPrice,
		ProducerProfit: producerProfit,
		ProducerMargin: producerMargin,
		CIF:            cif,
		NetToPartner:   netToPartner,
		PartnerProfit:  partnerProfit,
		PartnerMargin:  marginPercent(partnerProfit, netToPartner),
		Items:          items,
	}
}

// DeriveAll computes one Breakdown per supported size.
func DeriveAll(in Inputs) []Breakdown {
	out := make([]Breakdown, 0, len(Sizes))
	for _, size := range Sizes {
		out = append(out, Derive(in, size))
	}
	return out
}

// SugarCost is the raw palm sugar cost of one bottle after dilution to the brix target.
// It returns 0 when brix, density or size would make the bottle yield undefined.
func SugarCost(in Inputs, size int) float64 {
	if in.BrixTarget <= 0 || in.DensityGPerMl <= 0 || size <= 0 {
		return 0
	}
	water := (SolidsFraction*100.0)/in.BrixTarget - 1.0
	bottlesPerKg := ((1.0 + water) * 1000.0) / (in.DensityGPerMl * float64(size))
	if bottlesPerKg <= 0 {
		return 0
	}
	return in.SugarPriceTHBPerKg / bottlesPerKg
}

// LoadedCost applies the loss and FX buffers to a base FOB cost.
func LoadedCost(in Inputs, base float64) float64 {
	return base * (1.0 + in.LossRate) * (1.0 + in.FXBufferRate)
}

// Price marks fobCost up to the target FOB margin and returns price, profit and margin percent.
func Price(in Inputs, fobCost float64) (price, profit, margin float64) {
	price = fobCost / (1.0 - in.EffectiveMarginRate())
	profit = price - fobCost
	return price, profit, marginPercent(profit, price)
}

func marginPercent(profit, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return profit / revenue * 100.0
}
