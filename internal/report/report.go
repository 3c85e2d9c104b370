// Package report renders the executive summary of a calculator run.
package report

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/goldentaan/taan/internal/costing"
)

var summaryTmpl = template.Must(template.New("summary").Funcs(Funcs).Parse(
	`Golden TAAN palm sugar syrup: export economics
{{range .}}
{{.Size}} ml bottle
  FOB cost:        {{thb .FOBCost}}
  FOB price:       {{thb .FOBPrice}}
  Producer profit: {{thb .ProducerProfit}} ({{pct .ProducerMargin}} margin)
  Partner CIF:     {{thb .CIF}}
  Partner net:     {{thb .NetToPartner}}
  Partner profit:  {{thb .PartnerProfit}} ({{pct .PartnerMargin}} margin)
  Largest cost:    {{largest .}}
{{end}}`))

// Funcs are the template helpers shared by the summary and the HTML views.
var Funcs = template.FuncMap{
	"thb":     THB,
	"pct":     Percent,
	"largest": largestItem,
}

// THB formats an amount in baht with two decimals.
func THB(v float64) string {
	return Round2(v).StringFixed(2) + " THB"
}

// Percent formats a percentage with two decimals.
func Percent(v float64) string {
	return Round2(v).StringFixed(2) + "%"
}

// Round2 rounds v half away from zero to two decimals.
func Round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Summary renders the plain-text executive summary for breakdowns.
func Summary(breakdowns []costing.Breakdown) (string, error) {
	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, breakdowns); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}

func largestItem(b costing.Breakdown) string {
	items := []struct {
		name  string
		value float64
	}{
		{"palm sugar", b.Items.Sugar},
		{"pectin", b.Items.Pectin},
		{"OEM processing", b.Items.OEM},
		{"packaging", b.Items.Packaging},
		{"carton", b.Items.Carton},
		{"docs & lab", b.Items.DocsLab},
		{"loss & FX buffer", b.Items.LossFXBuffer},
	}

	best := items[0]
	for _, it := range items[1:] {
		if it.value > best.value {
			best = it
		}
	}
	if b.FOBCost <= 0 {
		return best.name
	}
	return fmt.Sprintf("%s, %s of FOB cost", best.name, Percent(best.value/b.FOBCost*100))
}
