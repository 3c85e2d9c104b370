package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goldentaan/taan/internal/costing"
	"github.com/goldentaan/taan/internal/params"
)

type assumptionsViewData struct {
	baseViewData
	Form params.Form
}

// loadAssumptions returns the stored default inputs layered over the catalogue defaults.
func (s *server) loadAssumptions(ctx context.Context) (costing.Inputs, error) {
	in := s.catalogue.Defaults()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM assumptions`)
	if err != nil {
		return costing.Inputs{}, fmt.Errorf("query assumptions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return costing.Inputs{}, fmt.Errorf("scan assumption: %w", err)
		}
		if _, ok := s.catalogue.Lookup(key); !ok {
			s.logger.Debug().Str("key", key).Msg("ignoring stored assumption not in catalogue")
			continue
		}
		params.Set(&in, key, value)
	}

	if err := rows.Err(); err != nil {
		return costing.Inputs{}, fmt.Errorf("iterate assumptions: %w", err)
	}

	return in, nil
}

// saveAssumptions stores every catalogue value of in.
func (s *server) saveAssumptions(ctx context.Context, in costing.Inputs) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assumptions transaction: %w", err)
	}

	for _, p := range s.catalogue.Params() {
		value, _ := params.Get(in, p.Key)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO assumptions (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				updated_at = CURRENT_TIMESTAMP
		`, p.Key, value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert assumption %s: %w", p.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assumptions: %w", err)
	}
	return nil
}

func (s *server) handleAdminAssumptionsForm(w http.ResponseWriter, r *http.Request) {
	in, err := s.loadAssumptions(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load assumptions")
		http.Error(w, "failed to load assumptions", http.StatusInternalServerError)
		return
	}

	_, form := s.catalogue.Apply(in, nil)
	s.renderTemplate(w, "admin_assumptions.html", assumptionsViewData{
		baseViewData: baseViewData{IsAdmin: true},
		Form:         form,
	})
}

func (s *server) handleAdminAssumptionsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	current, err := s.loadAssumptions(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load assumptions")
		http.Error(w, "failed to load assumptions", http.StatusInternalServerError)
		return
	}

	in, validationErr := parseAssumptionsForm(r, s.catalogue, current)
	if validationErr != nil {
		_, form := s.catalogue.Apply(current, formDrafts(r, s.catalogue))
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "admin_assumptions.html", assumptionsViewData{
			baseViewData: baseViewData{ErrorMessage: validationErr.Error(), IsAdmin: true},
			Form:         form,
		})
		return
	}

	if err := s.saveAssumptions(r.Context(), in); err != nil {
		s.logger.Error().Err(err).Msg("save assumptions")
		http.Error(w, "failed to save assumptions", http.StatusInternalServerError)
		return
	}
	s.logger.Info().Str("request_id", requestIDFrom(r.Context())).Msg("default assumptions updated")

	_, form := s.catalogue.Apply(in, nil)
	s.renderTemplate(w, "admin_assumptions.html", assumptionsViewData{
		baseViewData: baseViewData{SuccessMessage: "Assumptions saved.", IsAdmin: true},
		Form:         form,
	})
}

// parseAssumptionsForm validates admin edits strictly: unlike the public calculator,
// out-of-range values are rejected instead of clamped.
func parseAssumptionsForm(r *http.Request, catalogue *params.Catalogue, current costing.Inputs) (costing.Inputs, error) {
	in := current.Clone()
	for _, p := range catalogue.Params() {
		raw := strings.TrimSpace(r.FormValue(p.Key))
		if raw == "" {
			continue
		}
		value, err := parseBoundedFloat(raw, p)
		if err != nil {
			return current, err
		}
		params.Set(&in, p.Key, value)
	}
	return in, nil
}

func parseBoundedFloat(raw string, p params.Param) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", p.Label)
	}
	if !p.Bounds.Contains(value) {
		return 0, fmt.Errorf("%s must be between %v and %v", p.Label, p.Bounds.Min, p.Bounds.Max)
	}
	return value, nil
}

// formDrafts collects the submitted text of every catalogue field present in the form.
func formDrafts(r *http.Request, catalogue *params.Catalogue) map[string]string {
	drafts := make(map[string]string)
	for _, p := range catalogue.Params() {
		if vals, ok := r.Form[p.Key]; ok && len(vals) > 0 {
			drafts[p.Key] = vals[0]
		}
	}
	return drafts
}
