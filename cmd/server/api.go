package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/goldentaan/taan/internal/charts"
	"github.com/goldentaan/taan/internal/costing"
	"github.com/goldentaan/taan/internal/inputctl"
	"github.com/goldentaan/taan/internal/params"
)

const maxBodyBytes = 64 << 10

type apiError struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

type apiField struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Unit    string          `json:"unit"`
	Bounds  inputctl.Bounds `json:"bounds"`
	Default float64         `json:"default"`
	Value   float64         `json:"value"`
}

type apiGroup struct {
	Key    string     `json:"key"`
	Title  string     `json:"title"`
	Fields []apiField `json:"fields"`
}

type apiParametersResponse struct {
	Groups []apiGroup `json:"groups"`
	Sizes  []int      `json:"sizes"`
}

type apiBreakdownRequest struct {
	Values map[string]float64 `json:"values"`
}

type apiCostItems struct {
	Sugar        float64 `json:"sugar"`
	Pectin       float64 `json:"pectin"`
	OEM          float64 `json:"oem"`
	Packaging    float64 `json:"packaging"`
	Carton       float64 `json:"carton"`
	DocsLab      float64 `json:"docsLab"`
	LossFXBuffer float64 `json:"lossFxBuffer"`
}

type apiBreakdown struct {
	Size           int          `json:"size"`
	FOBCost        float64      `json:"fobCost"`
	FOBPrice       float64      `json:"fobPrice"`
	ProducerProfit float64      `json:"producerProfit"`
	ProducerMargin float64      `json:"producerMargin"`
	CIF            float64      `json:"cif"`
	NetToPartner   float64      `json:"netToPartner"`
	PartnerProfit  float64      `json:"partnerProfit"`
	PartnerMargin  float64      `json:"partnerMargin"`
	CostBreakdown  apiCostItems `json:"costBreakdown"`
}

type apiBreakdownResponse struct {
	Values     map[string]float64 `json:"values"`
	Adjusted   []string           `json:"adjusted"`
	Breakdowns []apiBreakdown     `json:"breakdowns"`
	Charts     []charts.Set       `json:"charts"`
	Summary    string             `json:"summary"`
}

type apiQuickRequest struct {
	Size                  int     `json:"size"`
	RawMatCostPerKg       float64 `json:"rawMatCostKg"`
	OEMCost               float64 `json:"oemCost"`
	PackagingCost         float64 `json:"packagingCost"`
	DocCost               float64 `json:"docCost"`
	BoxCost               float64 `json:"boxCost"`
	WholesalePriceFOB     float64 `json:"wholesalePriceFOB"`
	ShippingInsuranceCost float64 `json:"shippingInsuranceCost"`
	SuggestedRetailPrice  float64 `json:"suggestedRetailPrice"`
}

type apiQuickResponse struct {
	Size              int     `json:"size"`
	RawMatCostBottle  float64 `json:"rawMatCostBottle"`
	TotalFOBCost      float64 `json:"totalFobCost"`
	ProducerProfit    float64 `json:"producerProfit"`
	ProducerMargin    float64 `json:"producerMargin"`
	PartnerLandedCost float64 `json:"partnerLandedCost"`
	PartnerProfit     float64 `json:"partnerProfit"`
	PartnerMargin     float64 `json:"partnerMargin"`
}

func (s *server) handleAPIParameters(w http.ResponseWriter, r *http.Request) {
	in, err := s.loadAssumptions(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load assumptions")
		s.writeAPIError(w, r, http.StatusInternalServerError, "failed to load assumptions")
		return
	}

	_, form := s.catalogue.Apply(in, nil)
	resp := apiParametersResponse{Sizes: costing.Sizes}
	for _, g := range form.Groups {
		group := apiGroup{Key: g.Key, Title: g.Title}
		for _, f := range g.Fields {
			group.Fields = append(group.Fields, apiField{
				Key:     f.Key,
				Label:   f.Label,
				Unit:    f.Unit,
				Bounds:  f.Bounds,
				Default: f.Default,
				Value:   f.Value,
			})
		}
		resp.Groups = append(resp.Groups, group)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleAPIBreakdown(w http.ResponseWriter, r *http.Request) {
	var req apiBreakdownRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeAPIError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	drafts := make(map[string]string, len(req.Values))
	for k, v := range req.Values {
		drafts[k] = inputctl.Format(v)
	}

	calc, err := s.calculate(r.Context(), drafts)
	if err != nil {
		s.logger.Error().Err(err).Msg("calculate breakdown")
		s.writeAPIError(w, r, http.StatusInternalServerError, "failed to calculate costs")
		return
	}

	resp := apiBreakdownResponse{
		Values:     make(map[string]float64),
		Adjusted:   calc.Form.AdjustedKeys(),
		Breakdowns: make([]apiBreakdown, 0, len(calc.Breakdowns)),
		Charts:     calc.Charts,
		Summary:    calc.Summary,
	}
	for _, p := range s.catalogue.Params() {
		resp.Values[p.Key], _ = params.Get(calc.Inputs, p.Key)
	}
	for _, b := range calc.Breakdowns {
		resp.Breakdowns = append(resp.Breakdowns, toAPIBreakdown(b))
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleAPIQuickEstimate(w http.ResponseWriter, r *http.Request) {
	var req apiQuickRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeAPIError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Size == 0 {
		req.Size = 250
	}
	if req.Size < 0 {
		s.writeAPIError(w, r, http.StatusBadRequest, "size must be positive")
		return
	}

	res := costing.QuickEstimate(costing.QuickInputs{
		RawMatCostPerKg:       req.RawMatCostPerKg,
		OEMCost:               req.OEMCost,
		PackagingCost:         req.PackagingCost,
		DocCost:               req.DocCost,
		BoxCost:               req.BoxCost,
		WholesalePriceFOB:     req.WholesalePriceFOB,
		ShippingInsuranceCost: req.ShippingInsuranceCost,
		SuggestedRetailPrice:  req.SuggestedRetailPrice,
	}, req.Size)

	s.writeJSON(w, http.StatusOK, apiQuickResponse(res))
}

func toAPIBreakdown(b costing.Breakdown) apiBreakdown {
	return apiBreakdown{
		Size:           b.Size,
		FOBCost:        b.FOBCost,
		FOBPrice:       b.FOBPrice,
		ProducerProfit: b.ProducerProfit,
		ProducerMargin: b.ProducerMargin,
		CIF:            b.CIF,
		NetToPartner:   b.NetToPartner,
		PartnerProfit:  b.PartnerProfit,
		PartnerMargin:  b.PartnerMargin,
		CostBreakdown:  apiCostItems(b.Items),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode JSON response")
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *server) writeAPIError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, status, apiError{Error: msg, RequestID: requestIDFrom(r.Context())})
}
