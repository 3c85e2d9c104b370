package main

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/goldentaan/taan/internal/charts"
	"github.com/goldentaan/taan/internal/costing"
	"github.com/goldentaan/taan/internal/params"
	"github.com/goldentaan/taan/internal/report"
)

type homeViewData struct {
	baseViewData
	Form       params.Form
	Adjusted   []params.Field
	Results    []costing.Breakdown
	ChartsJSON template.JS
	Summary    string
	Partners   []partner
}

// calculation is one synchronous recomputation for a request's inputs.
type calculation struct {
	Inputs     costing.Inputs
	Form       params.Form
	Breakdowns []costing.Breakdown
	Charts     []charts.Set
	Summary    string
}

// calculate layers drafts over the stored defaults and derives every size.
func (s *server) calculate(ctx context.Context, drafts map[string]string) (calculation, error) {
	defaults, err := s.loadAssumptions(ctx)
	if err != nil {
		return calculation{}, err
	}

	in, form := s.catalogue.Apply(defaults, drafts)
	breakdowns := costing.DeriveAll(in)

	summary, err := report.Summary(breakdowns)
	if err != nil {
		return calculation{}, err
	}

	return calculation{
		Inputs:     in,
		Form:       form,
		Breakdowns: breakdowns,
		Charts:     charts.BuildAll(in, breakdowns),
		Summary:    summary,
	}, nil
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderCalculator(w, r, nil)
}

func (s *server) handleCalculatorSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.renderCalculator(w, r, formDrafts(r, s.catalogue))
}

func (s *server) renderCalculator(w http.ResponseWriter, r *http.Request, drafts map[string]string) {
	calc, err := s.calculate(r.Context(), drafts)
	if err != nil {
		s.logger.Error().Err(err).Msg("calculate breakdown")
		http.Error(w, "failed to calculate costs", http.StatusInternalServerError)
		return
	}

	chartsJSON, err := json.Marshal(calc.Charts)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode charts")
		http.Error(w, "failed to encode charts", http.StatusInternalServerError)
		return
	}

	partners, err := s.listPartners(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list partners")
		http.Error(w, "failed to load partners", http.StatusInternalServerError)
		return
	}

	adjusted := calc.Form.Adjusted()
	data := homeViewData{
		baseViewData: baseViewData{IsAdmin: isAuthenticated(r, s.auth)},
		Form:         calc.Form,
		Adjusted:     adjusted,
		Results:      calc.Breakdowns,
		ChartsJSON:   template.JS(chartsJSON),
		Summary:      calc.Summary,
		Partners:     partners,
	}
	if len(adjusted) > 0 {
		data.ErrorMessage = fmt.Sprintf("%d value(s) were outside the allowed range and have been adjusted.", len(adjusted))
	}

	s.renderTemplate(w, "home.html", data)
}

// handleSummaryText returns the executive summary as plain text.
// Query parameters named after catalogue keys override the stored defaults.
func (s *server) handleSummaryText(w http.ResponseWriter, r *http.Request) {
	drafts := make(map[string]string)
	query := r.URL.Query()
	for _, p := range s.catalogue.Params() {
		if v := query.Get(p.Key); v != "" {
			drafts[p.Key] = v
		}
	}

	calc, err := s.calculate(r.Context(), drafts)
	if err != nil {
		s.logger.Error().Err(err).Msg("calculate summary")
		http.Error(w, "failed to calculate costs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(calc.Summary))
}
