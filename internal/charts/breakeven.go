package charts

import (
	"fmt"

	"github.com/goldentaan/taan/internal/costing"
)

// Volumes are the production runs projected on the breakeven curve.
var Volumes = []int{1000, 3000, 5000}

const (
	baseVolume = 1000
	fullVolume = 5000

	// Cost factors reached at fullVolume; interpolated linearly from 1 at baseVolume.
	oemScaleAtFull     = 0.75
	docsLabScaleAtFull = 0.5
)

// Point is one volume on the breakeven curve.
type Point struct {
	Volume         int     `json:"volume"`
	UnitCost       float64 `json:"unitCost"`
	UnitProfit     float64 `json:"unitProfit"`
	ProducerProfit float64 `json:"producerProfit"`
}

// Project recomputes the producer's FOB economics at each of Volumes,
// with OEM and docs/lab costs falling linearly as the run grows.
// ProducerProfit is the profit of the whole run.
func Project(in costing.Inputs, size int) []Point {
	b := costing.Derive(in, size)

	points := make([]Point, 0, len(Volumes))
	for _, v := range Volumes {
		t := float64(v-baseVolume) / float64(fullVolume-baseVolume)

		items := b.Items
		items.OEM = in.OEMProcessingCost * lerp(1, oemScaleAtFull, t)
		items.DocsLab = in.DocsLabAlloc * lerp(1, docsLabScaleAtFull, t)

		cost := costing.LoadedCost(in, items.Base())
		_, profit, _ := costing.Price(in, cost)

		points = append(points, Point{
			Volume:         v,
			UnitCost:       cost,
			UnitProfit:     profit,
			ProducerProfit: profit * float64(v),
		})
	}
	return points
}

// Breakeven describes producer profit per production run as a line chart.
func Breakeven(in costing.Inputs, size int) Spec {
	return Spec{
		Schema: schemaURL,
		Title:  fmt.Sprintf("Producer profit by production volume, %d ml", size),
		Mark:   Mark{Type: "line", Point: true, Tooltip: true},
		Data:   Data{Values: Project(in, size)},
		Encoding: map[string]Channel{
			"x": {Field: "volume", Type: "quantitative", Title: "Bottles per run"},
			"y": {Field: "producerProfit", Type: "quantitative", Title: "Producer profit (THB)"},
		},
	}
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
