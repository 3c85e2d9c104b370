// Package params holds the catalogue of adjustable calculator assumptions
// and maps catalogue keys onto costing.Inputs fields.
package params

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goldentaan/taan/internal/costing"
	"github.com/goldentaan/taan/internal/inputctl"
)

//go:embed catalogue.yaml
var catalogueYAML []byte

const msrpPrefix = "msrp_"

// Param describes one adjustable assumption.
type Param struct {
	Key     string          `yaml:"key" json:"key"`
	Label   string          `yaml:"label" json:"label"`
	Unit    string          `yaml:"unit" json:"unit"`
	Bounds  inputctl.Bounds `yaml:"bounds" json:"bounds"`
	Default float64         `yaml:"default" json:"default"`
}

// Group is a titled set of params shown together.
type Group struct {
	Key    string  `yaml:"key" json:"key"`
	Title  string  `yaml:"title" json:"title"`
	Params []Param `yaml:"params" json:"params"`
}

// Catalogue is the validated list of assumption groups.
type Catalogue struct {
	Groups []Group `yaml:"groups" json:"groups"`

	index map[string]Param
}

// Load parses the embedded catalogue.
func Load() (*Catalogue, error) {
	return Parse(catalogueYAML)
}

// Parse decodes and validates a YAML catalogue.
func Parse(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode params catalogue: %w", err)
	}

	c.index = make(map[string]Param)
	probe := costing.Inputs{MSRPBySize: map[int]float64{}}
	for _, g := range c.Groups {
		for _, p := range g.Params {
			if _, dup := c.index[p.Key]; dup {
				return nil, fmt.Errorf("param %q declared twice", p.Key)
			}
			if p.Bounds.Min > p.Bounds.Max {
				return nil, fmt.Errorf("param %q: min %v above max %v", p.Key, p.Bounds.Min, p.Bounds.Max)
			}
			if !p.Bounds.Contains(p.Default) {
				return nil, fmt.Errorf("param %q: default %v outside [%v, %v]", p.Key, p.Default, p.Bounds.Min, p.Bounds.Max)
			}
			if !Set(&probe, p.Key, p.Default) {
				return nil, fmt.Errorf("param %q has no matching input field", p.Key)
			}
			c.index[p.Key] = p
		}
	}

	return &c, nil
}

// Lookup returns the param registered under key.
func (c *Catalogue) Lookup(key string) (Param, bool) {
	p, ok := c.index[key]
	return p, ok
}

// Params returns every param in display order.
func (c *Catalogue) Params() []Param {
	out := make([]Param, 0, len(c.index))
	for _, g := range c.Groups {
		out = append(out, g.Params...)
	}
	return out
}

// Defaults builds Inputs from the catalogue defaults.
func (c *Catalogue) Defaults() costing.Inputs {
	in := costing.Inputs{MSRPBySize: make(map[int]float64)}
	for _, p := range c.Params() {
		Set(&in, p.Key, p.Default)
	}
	return in
}

var scalars = map[string]func(*costing.Inputs) *float64{
	"brix_target":             func(in *costing.Inputs) *float64 { return &in.BrixTarget },
	"density_g_per_ml":        func(in *costing.Inputs) *float64 { return &in.DensityGPerMl },
	"sugar_price_thb_per_kg":  func(in *costing.Inputs) *float64 { return &in.SugarPriceTHBPerKg },
	"pectin_price_thb_per_kg": func(in *costing.Inputs) *float64 { return &in.PectinPriceTHBPerKg },
	"pectin_rate":             func(in *costing.Inputs) *float64 { return &in.PectinRate },
	"oem_processing_cost":     func(in *costing.Inputs) *float64 { return &in.OEMProcessingCost },
	"bottle_cap_cost":         func(in *costing.Inputs) *float64 { return &in.BottleCapCost },
	"label_cost":              func(in *costing.Inputs) *float64 { return &in.LabelCost },
	"seal_cost":               func(in *costing.Inputs) *float64 { return &in.SealCost },
	"carton_alloc":            func(in *costing.Inputs) *float64 { return &in.CartonAlloc },
	"docs_lab_alloc":          func(in *costing.Inputs) *float64 { return &in.DocsLabAlloc },
	"loss_rate":               func(in *costing.Inputs) *float64 { return &in.LossRate },
	"fx_buffer_rate":          func(in *costing.Inputs) *float64 { return &in.FXBufferRate },
	"target_fob_margin_rate":  func(in *costing.Inputs) *float64 { return &in.TargetFOBMarginRate },
	"freight_cost":            func(in *costing.Inputs) *float64 { return &in.FreightCost },
	"insurance_cost":          func(in *costing.Inputs) *float64 { return &in.InsuranceCost },
	"retail_share_percent":    func(in *costing.Inputs) *float64 { return &in.RetailSharePercent },
}

// Get reads the field behind key.
func Get(in costing.Inputs, key string) (float64, bool) {
	if size, ok := msrpSize(key); ok {
		v, ok := in.MSRPBySize[size]
		return v, ok
	}
	field, ok := scalars[key]
	if !ok {
		return 0, false
	}
	return *field(&in), true
}

// Set writes v into the field behind key. It reports false for unknown keys.
func Set(in *costing.Inputs, key string, v float64) bool {
	if size, ok := msrpSize(key); ok {
		if in.MSRPBySize == nil {
			in.MSRPBySize = make(map[int]float64)
		}
		in.MSRPBySize[size] = v
		return true
	}
	field, ok := scalars[key]
	if !ok {
		return false
	}
	*field(in) = v
	return true
}

// MSRPKey is the catalogue key of the MSRP for size.
func MSRPKey(size int) string {
	return msrpPrefix + strconv.Itoa(size)
}

func msrpSize(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, msrpPrefix)
	if !ok {
		return 0, false
	}
	size, err := strconv.Atoi(rest)
	if err != nil || size <= 0 {
		return 0, false
	}
	return size, true
}
