// Package charts turns cost breakdowns into declarative Vega-Lite chart specs.
// The specs carry data and encodings only; rendering is left to the browser.
package charts

import (
	"fmt"
	"sort"

	"github.com/goldentaan/taan/internal/costing"
)

const schemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// Datum is one labelled value of a category chart.
type Datum struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Mark describes the Vega-Lite mark of a chart.
type Mark struct {
	Type        string `json:"type"`
	InnerRadius int    `json:"innerRadius,omitempty"`
	Point       bool   `json:"point,omitempty"`
	Tooltip     bool   `json:"tooltip,omitempty"`
}

// Channel is a single encoding channel.
type Channel struct {
	Field string `json:"field"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	Sort  string `json:"sort,omitempty"`
}

// Data wraps inline chart values.
type Data struct {
	Values any `json:"values"`
}

// Spec is a Vega-Lite top-level chart description.
type Spec struct {
	Schema   string             `json:"$schema"`
	Title    string             `json:"title,omitempty"`
	Mark     Mark               `json:"mark"`
	Data     Data               `json:"data"`
	Encoding map[string]Channel `json:"encoding"`
}

// Set groups the three charts drawn for one bottle size.
type Set struct {
	Size      int  `json:"size"`
	Donut     Spec `json:"donut"`
	Bar       Spec `json:"bar"`
	Breakeven Spec `json:"breakeven"`
}

// Build returns the donut, bar and breakeven charts for b.
func Build(in costing.Inputs, b costing.Breakdown) Set {
	return Set{
		Size:      b.Size,
		Donut:     Donut(b),
		Bar:       Bar(b),
		Breakeven: Breakeven(in, b.Size),
	}
}

// BuildAll returns one Set per breakdown, in the same order.
func BuildAll(in costing.Inputs, breakdowns []costing.Breakdown) []Set {
	sets := make([]Set, 0, len(breakdowns))
	for _, b := range breakdowns {
		sets = append(sets, Build(in, b))
	}
	return sets
}

// Items lists the cost items of b in display order.
func Items(b costing.Breakdown) []Datum {
	return []Datum{
		{Category: "Palm sugar", Value: b.Items.Sugar},
		{Category: "Pectin", Value: b.Items.Pectin},
		{Category: "OEM processing", Value: b.Items.OEM},
		{Category: "Packaging", Value: b.Items.Packaging},
		{Category: "Carton", Value: b.Items.Carton},
		{Category: "Docs & lab", Value: b.Items.DocsLab},
		{Category: "Loss & FX buffer", Value: b.Items.LossFXBuffer},
	}
}

// Donut describes the share of each cost item in the FOB cost.
// Values are absolute; the renderer normalizes the arcs.
func Donut(b costing.Breakdown) Spec {
	return Spec{
		Schema: schemaURL,
		Title:  fmt.Sprintf("FOB cost share, %d ml", b.Size),
		Mark:   Mark{Type: "arc", InnerRadius: 50, Tooltip: true},
		Data:   Data{Values: Items(b)},
		Encoding: map[string]Channel{
			"theta": {Field: "value", Type: "quantitative"},
			"color": {Field: "category", Type: "nominal", Title: "Cost item"},
		},
	}
}

// Bar describes each cost item in THB, largest first.
func Bar(b costing.Breakdown) Spec {
	items := Items(b)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Value > items[j].Value })

	return Spec{
		Schema: schemaURL,
		Title:  fmt.Sprintf("Cost structure per bottle (THB), %d ml", b.Size),
		Mark:   Mark{Type: "bar", Tooltip: true},
		Data:   Data{Values: items},
		Encoding: map[string]Channel{
			"y": {Field: "category", Type: "nominal", Title: "Cost item", Sort: "-x"},
			"x": {Field: "value", Type: "quantitative", Title: "THB"},
		},
	}
}

// Percentages normalizes values to shares of 100. An all-zero input yields all zeros.
func Percentages(data []Datum) []Datum {
	total := 0.0
	for _, d := range data {
		total += d.Value
	}

	out := make([]Datum, len(data))
	for i, d := range data {
		out[i] = Datum{Category: d.Category}
		if total > 0 {
			out[i].Value = d.Value / total * 100.0
		}
	}
	return out
}
