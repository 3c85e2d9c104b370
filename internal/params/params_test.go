package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldentaan/taan/internal/costing"
)

func TestLoad_EmbeddedCatalogue(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	params := c.Params()
	assert.Len(t, params, 19)

	for _, size := range costing.Sizes {
		_, ok := c.Lookup(MSRPKey(size))
		assert.True(t, ok, "missing MSRP param for %d ml", size)
	}

	margin, ok := c.Lookup("target_fob_margin_rate")
	require.True(t, ok)
	assert.Less(t, margin.Bounds.Max, costing.MaxMarginRate)
}

func TestDefaults_CoverEveryField(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	in := c.Defaults()
	assert.Equal(t, 70.0, in.BrixTarget)
	assert.Equal(t, 0.25, in.TargetFOBMarginRate)
	assert.Equal(t, 35.0, in.RetailSharePercent)
	assert.Equal(t, map[int]float64{150: 159, 250: 220}, in.MSRPBySize)

	for _, p := range c.Params() {
		v, ok := Get(in, p.Key)
		require.True(t, ok, p.Key)
		assert.Equal(t, p.Default, v, p.Key)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "duplicate key",
			yaml: `
groups:
  - key: a
    params:
      - {key: label_cost, bounds: {min: 0, max: 5}, default: 1}
      - {key: label_cost, bounds: {min: 0, max: 5}, default: 1}
`,
		},
		{
			name: "default out of range",
			yaml: `
groups:
  - key: a
    params:
      - {key: label_cost, bounds: {min: 0, max: 5}, default: 9}
`,
		},
		{
			name: "unknown field",
			yaml: `
groups:
  - key: a
    params:
      - {key: bottle_color, bounds: {min: 0, max: 5}, default: 1}
`,
		},
		{
			name: "inverted bounds",
			yaml: `
groups:
  - key: a
    params:
      - {key: label_cost, bounds: {min: 5, max: 0}, default: 1}
`,
		},
		{name: "malformed", yaml: "groups: [oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSetGet_MSRP(t *testing.T) {
	var in costing.Inputs
	require.True(t, Set(&in, "msrp_500", 399))

	v, ok := Get(in, "msrp_500")
	require.True(t, ok)
	assert.Equal(t, 399.0, v)
	assert.Equal(t, 399.0, in.MSRP(500))

	assert.False(t, Set(&in, "msrp_abc", 1))
	assert.False(t, Set(&in, "nope", 1))
}

func TestApply_ClampsAndFlags(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	base := c.Defaults()

	in, form := c.Apply(base, map[string]string{
		"sugar_price_thb_per_kg": "999",
		"oem_processing_cost":    "12.5",
		"label_cost":             "abc",
	})

	assert.Equal(t, 300.0, in.SugarPriceTHBPerKg)
	assert.Equal(t, 12.5, in.OEMProcessingCost)
	assert.Equal(t, 1.5, in.LabelCost)
	assert.ElementsMatch(t, []string{"sugar_price_thb_per_kg", "label_cost"}, form.AdjustedKeys())

	assert.Equal(t, 220.0, base.SugarPriceTHBPerKg, "base must not change")

	require.Len(t, form.Groups, 3)
	for _, f := range form.Groups[0].Fields {
		if f.Key == "sugar_price_thb_per_kg" {
			assert.Equal(t, "300", f.Draft)
			assert.Equal(t, 300.0, f.Value)
		}
	}
}

func TestApplyValues_MarginCappedByBounds(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	in, form := c.ApplyValues(c.Defaults(), map[string]float64{"target_fob_margin_rate": 1, "msrp_250": 250})

	assert.Equal(t, 0.6, in.TargetFOBMarginRate)
	assert.Equal(t, 250.0, in.MSRP(250))
	assert.Equal(t, []string{"target_fob_margin_rate"}, form.AdjustedKeys())
}
