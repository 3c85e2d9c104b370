package charts

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldentaan/taan/internal/costing"
)

func sampleInputs() costing.Inputs {
	return costing.Inputs{
		BrixTarget:          70,
		DensityGPerMl:       1.33,
		SugarPriceTHBPerKg:  220,
		PectinPriceTHBPerKg: 1200,
		PectinRate:          0.005,
		OEMProcessingCost:   10,
		BottleCapCost:       5,
		LabelCost:           1.5,
		SealCost:            0.5,
		CartonAlloc:         1.75,
		DocsLabAlloc:        2.5,
		LossRate:            0.03,
		FXBufferRate:        0.02,
		TargetFOBMarginRate: 0.25,
		FreightCost:         12,
		InsuranceCost:       2,
		RetailSharePercent:  35,
		MSRPBySize:          map[int]float64{150: 159, 250: 220},
	}
}

func TestDonut_PercentagesSumTo100(t *testing.T) {
	b := costing.Derive(sampleInputs(), 250)
	spec := Donut(b)

	data, ok := spec.Data.Values.([]Datum)
	require.True(t, ok)
	require.Len(t, data, 7)

	total := 0.0
	for _, d := range Percentages(data) {
		total += d.Value
	}
	assert.InDelta(t, 100.0, total, 1e-9)
	assert.Equal(t, "arc", spec.Mark.Type)
	assert.Equal(t, "value", spec.Encoding["theta"].Field)
}

func TestPercentages_AllZero(t *testing.T) {
	out := Percentages([]Datum{{Category: "a"}, {Category: "b"}})
	for _, d := range out {
		assert.Zero(t, d.Value)
	}
}

func TestBar_SortedDescending(t *testing.T) {
	b := costing.Derive(sampleInputs(), 150)
	data, ok := Bar(b).Data.Values.([]Datum)
	require.True(t, ok)

	for i := 1; i < len(data); i++ {
		assert.GreaterOrEqual(t, data[i-1].Value, data[i].Value)
	}
	assert.Equal(t, "Palm sugar", data[0].Category)
}

func TestBar_DoesNotReorderDonut(t *testing.T) {
	b := costing.Derive(sampleInputs(), 150)
	_ = Bar(b)
	donut := Donut(b).Data.Values.([]Datum)
	assert.Equal(t, "Palm sugar", donut[0].Category)
	assert.Equal(t, "Loss & FX buffer", donut[len(donut)-1].Category)
}

func TestProject_FirstVolumeMatchesBreakdown(t *testing.T) {
	in := sampleInputs()
	b := costing.Derive(in, 250)
	points := Project(in, 250)

	require.Len(t, points, 3)
	assert.Equal(t, 1000, points[0].Volume)
	assert.InDelta(t, b.FOBCost, points[0].UnitCost, 1e-9)
	assert.InDelta(t, b.ProducerProfit, points[0].UnitProfit, 1e-9)
	assert.InDelta(t, b.ProducerProfit*1000, points[0].ProducerProfit, 1e-6)
}

func TestProject_FullVolumeUsesReducedCosts(t *testing.T) {
	in := sampleInputs()
	b := costing.Derive(in, 250)
	points := Project(in, 250)

	items := b.Items
	items.OEM = 7.5
	items.DocsLab = 1.25
	want := costing.LoadedCost(in, items.Base())
	assert.InDelta(t, want, points[2].UnitCost, 1e-9)

	items.OEM = 8.75
	items.DocsLab = 1.875
	assert.InDelta(t, costing.LoadedCost(in, items.Base()), points[1].UnitCost, 1e-9)
}

func TestProject_ProfitNonDecreasingWithVolume(t *testing.T) {
	for _, margin := range []float64{0.05, 0.25, 0.6} {
		in := sampleInputs()
		in.TargetFOBMarginRate = margin
		for _, size := range costing.Sizes {
			points := Project(in, size)
			for i := 1; i < len(points); i++ {
				assert.GreaterOrEqual(t, points[i].ProducerProfit, points[i-1].ProducerProfit,
					"margin %v size %d volume %d", margin, size, points[i].Volume)
				assert.LessOrEqual(t, points[i].UnitCost, points[i-1].UnitCost)
			}
		}
	}
}

func TestBuildAll_EncodesVegaLite(t *testing.T) {
	in := sampleInputs()
	sets := BuildAll(in, costing.DeriveAll(in))
	require.Len(t, sets, 2)

	raw, err := json.Marshal(sets[1])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.EqualValues(t, 250, decoded["size"])

	breakeven := decoded["breakeven"].(map[string]any)
	assert.Equal(t, schemaURL, breakeven["$schema"])
	values := breakeven["data"].(map[string]any)["values"].([]any)
	assert.Len(t, values, 3)
	assert.Contains(t, values[0], "producerProfit")
}
