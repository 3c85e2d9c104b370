package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldentaan/taan/internal/db"
	"github.com/goldentaan/taan/internal/migrations"
	"github.com/goldentaan/taan/internal/params"
	"github.com/goldentaan/taan/internal/seed"
)

const (
	testAdminEmail    = "admin@goldentaan.test"
	testAdminPassword = "s3cret"
)

func newTestServer(t *testing.T) (*server, http.Handler) {
	t.Helper()
	ctx := context.Background()

	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "server-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(ctx, database))

	catalogue, err := params.Load()
	require.NoError(t, err)

	_, err = seed.Run(ctx, database, seed.Config{
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
		Catalogue:     catalogue,
		Partners:      seed.DefaultPartners,
	})
	require.NoError(t, err)

	srv := &server{
		auth:         newAuthService(database, "test-secret"),
		db:           database,
		catalogue:    catalogue,
		logger:       zerolog.Nop(),
		templatesDir: "../../web/templates",
	}
	return srv, srv.routes("../../web/static")
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func postForm(h http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func adminCookie(srv *server) *http.Cookie {
	return &http.Cookie{Name: sessionCookieName, Value: srv.auth.createSessionValue(testAdminEmail)}
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t)

	rr := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok\n", rr.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	_, h := newTestServer(t)

	rr := get(h, "/healthz")
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestHomeRendersCalculatorAndPartners(t *testing.T) {
	_, h := newTestServer(t)

	rr := get(h, "/")
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	for _, want := range []string{
		"150 ml bottle",
		"250 ml bottle",
		`id="chart-data"`,
		"vega-lite",
		"Mae Klong Syrup Works",
		"Executive summary",
		`name="sugar_price_thb_per_kg"`,
	} {
		assert.Contains(t, body, want)
	}
	assert.NotContains(t, body, "outside the allowed range")
}

func TestCalculatorSubmitClampsOutOfRangeValues(t *testing.T) {
	_, h := newTestServer(t)

	form := url.Values{}
	form.Set("sugar_price_thb_per_kg", "999")
	form.Set("oem_processing_cost", "12")

	rr := postForm(h, "/calculator", form)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, "1 value(s) were outside the allowed range")
	assert.Contains(t, body, `name="sugar_price_thb_per_kg" value="300"`)
	assert.Contains(t, body, `name="oem_processing_cost" value="12"`)
}

func TestSummaryTextUsesQueryOverrides(t *testing.T) {
	_, h := newTestServer(t)

	base := get(h, "/summary.txt")
	require.Equal(t, http.StatusOK, base.Code)
	assert.Contains(t, base.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, base.Body.String(), "150 ml bottle")
	assert.Contains(t, base.Body.String(), "250 ml bottle")

	cheaper := get(h, "/summary.txt?freight_cost=5")
	require.Equal(t, http.StatusOK, cheaper.Code)
	assert.NotEqual(t, base.Body.String(), cheaper.Body.String())
}

func TestAdminAssumptionsRequiresLogin(t *testing.T) {
	_, h := newTestServer(t)

	rr := get(h, "/admin/assumptions")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	forged := &http.Cookie{Name: sessionCookieName, Value: "YWRtaW4.deadbeef"}
	rr = get(h, "/admin/assumptions", forged)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestAdminAssumptionsSaveAndReload(t *testing.T) {
	srv, h := newTestServer(t)
	cookie := adminCookie(srv)

	rr := get(h, "/admin/assumptions", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="sugar_price_thb_per_kg" value="220"`)

	form := url.Values{}
	form.Set("sugar_price_thb_per_kg", "250")
	form.Set("msrp_250", "240")
	rr = postForm(h, "/admin/assumptions", form, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Assumptions saved.")

	in, err := srv.loadAssumptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250.0, in.SugarPriceTHBPerKg)
	assert.Equal(t, 240.0, in.MSRP(250))
	assert.Equal(t, 10.0, in.OEMProcessingCost)
}

func TestAdminAssumptionsRejectsOutOfRange(t *testing.T) {
	srv, h := newTestServer(t)
	cookie := adminCookie(srv)

	form := url.Values{}
	form.Set("sugar_price_thb_per_kg", "999")
	rr := postForm(h, "/admin/assumptions", form, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Palm sugar price must be between 150 and 300")

	form.Set("sugar_price_thb_per_kg", "abc")
	rr = postForm(h, "/admin/assumptions", form, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Palm sugar price must be numeric")

	in, err := srv.loadAssumptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 220.0, in.SugarPriceTHBPerKg)
}

func TestLoginFlow(t *testing.T) {
	_, h := newTestServer(t)

	form := url.Values{}
	form.Set("email", testAdminEmail)
	form.Set("password", "wrong")
	rr := postForm(h, "/login", form)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid credentials")

	form.Set("password", testAdminPassword)
	rr = postForm(h, "/login", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/admin/assumptions", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionCookieName, cookies[0].Name)

	rr = get(h, "/admin/assumptions", cookies[0])
	assert.Equal(t, http.StatusOK, rr.Code)
}
