package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/onecent-fusion/backend/internal/db"
	"github.com/onecent-fusion/backend/internal/migrations"
	"github.com/onecent-fusion/backend/internal/seed"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "server-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := seed.Run(database); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	srv := &server{db: database}
	return srv.router([]string{"http://localhost:5173"})
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v (body: %s)", err, rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestHandler(t), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCalculateDefaultScenario(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestHandler(t), http.MethodPost, "/api/lcoe/calculate", "{}")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		CalculatedLCOE float64 `json:"calculated_lcoe"`
		TargetLCOE     float64 `json:"target_lcoe"`
		Breakdown      struct {
			CapitalContribution float64            `json:"capital_contribution"`
			TotalLCOE           float64            `json:"total_lcoe"`
			SubsystemCapital    map[string]float64 `json:"subsystem_capital"`
		} `json:"breakdown"`
		Feasibility struct {
			OverallStatus string `json:"overall_status"`
		} `json:"feasibility"`
		TotalCapexAbs float64 `json:"total_capex_abs"`
	}
	decodeBody(t, rec, &resp)

	if resp.TargetLCOE != 10 {
		t.Fatalf("target_lcoe = %v, want the default 10", resp.TargetLCOE)
	}
	if resp.CalculatedLCOE <= 0 {
		t.Fatalf("calculated_lcoe = %v, want a positive value", resp.CalculatedLCOE)
	}
	if resp.CalculatedLCOE != resp.Breakdown.TotalLCOE {
		t.Fatalf("calculated_lcoe %v disagrees with breakdown total %v", resp.CalculatedLCOE, resp.Breakdown.TotalLCOE)
	}
	if resp.TotalCapexAbs <= 0 {
		t.Fatalf("total_capex_abs = %v, want a positive value", resp.TotalCapexAbs)
	}
	if resp.Feasibility.OverallStatus == "" {
		t.Fatalf("feasibility report missing overall status")
	}

	// D-T + MCF disables He3 supply, direct conversion, and the driver.
	for _, account := range []string{"22.6", "22.1.9", "22.1.8"} {
		if _, ok := resp.Breakdown.SubsystemCapital[account]; ok {
			t.Fatalf("account %s should be disabled in the default scenario", account)
		}
	}
	if _, ok := resp.Breakdown.SubsystemCapital["22.1.3"]; !ok {
		t.Fatalf("magnets missing from capital attribution")
	}
}

func TestCalculateWithOverridesUsesOnlyThoseSubsystems(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	full := doRequest(t, handler, http.MethodPost, "/api/lcoe/calculate", "{}")
	slim := doRequest(t, handler, http.MethodPost, "/api/lcoe/calculate", `{
		"subsystems": [
			{"account": "22.1.3", "absolute_capital_cost": 800, "absolute_fixed_om": 20},
			{"account": "23", "absolute_capital_cost": 400, "absolute_fixed_om": 12, "variable_om": 0.5}
		]
	}`)
	if full.Code != http.StatusOK || slim.Code != http.StatusOK {
		t.Fatalf("status = %d / %d, want 200 (body: %s)", full.Code, slim.Code, slim.Body.String())
	}

	var fullResp, slimResp struct {
		CalculatedLCOE float64 `json:"calculated_lcoe"`
		Breakdown      struct {
			SubsystemCapital map[string]float64 `json:"subsystem_capital"`
		} `json:"breakdown"`
	}
	decodeBody(t, full, &fullResp)
	decodeBody(t, slim, &slimResp)

	if len(slimResp.Breakdown.SubsystemCapital) != 2 {
		t.Fatalf("expected 2 attributed accounts, got %v", slimResp.Breakdown.SubsystemCapital)
	}
	if slimResp.CalculatedLCOE >= fullResp.CalculatedLCOE {
		t.Fatalf("two-subsystem plant should be cheaper: %v vs %v", slimResp.CalculatedLCOE, fullResp.CalculatedLCOE)
	}
}

func TestCalculateRejectsBadInput(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"wacc out of range", `{"financial_params": {"wacc": 0.5}}`},
		{"capacity factor too low", `{"financial_params": {"capacity_factor": 0.2}}`},
		{"q_eng at break-even", `{"financial_params": {"q_eng": 1.0}}`},
		{"unknown fuel", `{"fuel_type": "muon-catalyzed"}`},
		{"unknown confinement", `{"confinement_type": "gravitational"}`},
		{"target out of range", `{"target_lcoe": 500}`},
		{"malformed json", `{"target_lcoe": `},
	}
	for _, c := range cases {
		rec := doRequest(t, handler, http.MethodPost, "/api/lcoe/calculate", c.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400 (body: %s)", c.name, rec.Code, rec.Body.String())
		}
	}
}

func TestSolveForQEng(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestHandler(t), http.MethodPost, "/api/solver/solve-for/q_eng", `{"target_lcoe": 30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var res struct {
		Parameter     string   `json:"parameter"`
		RequiredValue *float64 `json:"required_value"`
		Explanation   string   `json:"explanation"`
	}
	decodeBody(t, rec, &res)

	if res.Parameter != "q_eng" {
		t.Fatalf("parameter = %q, want q_eng", res.Parameter)
	}
	if res.Explanation == "" {
		t.Fatalf("expected an explanation")
	}
}

func TestSolveForUnknownParameter(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestHandler(t), http.MethodPost, "/api/solver/solve-for/construction_time", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSolveAllReturnsEveryParameter(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestHandler(t), http.MethodPost, "/api/solver/solve-all", `{"target_lcoe": 30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		TargetLCOE float64                    `json:"target_lcoe"`
		Solutions  map[string]json.RawMessage `json:"solutions"`
	}
	decodeBody(t, rec, &resp)

	if resp.TargetLCOE != 30 {
		t.Fatalf("target_lcoe = %v, want 30", resp.TargetLCOE)
	}
	for _, parameter := range solveParameters {
		if _, ok := resp.Solutions[parameter]; !ok {
			t.Fatalf("missing solution for %s (got %v)", parameter, resp.Solutions)
		}
	}
	if len(resp.Solutions) != len(solveParameters) {
		t.Fatalf("expected %d solutions, got %d", len(solveParameters), len(resp.Solutions))
	}
}

func TestDefaultsEndpoint(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestHandler(t), http.MethodGet, "/api/lcoe/defaults?fuel_type=D-T&confinement_type=MCF", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Subsystems []struct {
			Account  string `json:"account"`
			Required bool   `json:"required"`
			Disabled bool   `json:"disabled"`
		} `json:"subsystems"`
		FuelType string `json:"fuel_type"`
	}
	decodeBody(t, rec, &resp)

	if resp.FuelType != "D-T" {
		t.Fatalf("fuel_type = %q, want D-T", resp.FuelType)
	}
	if len(resp.Subsystems) != len(seed.DefaultCatalog()) {
		t.Fatalf("expected %d subsystems, got %d", len(seed.DefaultCatalog()), len(resp.Subsystems))
	}

	flags := make(map[string]struct{ required, disabled bool }, len(resp.Subsystems))
	for _, s := range resp.Subsystems {
		flags[s.Account] = struct{ required, disabled bool }{s.Required, s.Disabled}
	}
	if !flags["22.5"].required {
		t.Fatalf("tritium plant should be required for D-T")
	}
	if !flags["22.6"].disabled {
		t.Fatalf("He3 supply should be disabled for D-T")
	}
	if !flags["22.1.3"].required {
		t.Fatalf("magnets should be required for MCF")
	}
}

func TestDefaultsEndpointRejectsUnknownFuel(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestHandler(t), http.MethodGet, "/api/lcoe/defaults?fuel_type=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestFuelConstraintEndpoints(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/lcoe/fuel/D-T/constraints", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var fc struct {
		FuelType           string   `json:"fuel_type"`
		RequiredSubsystems []string `json:"required_subsystems"`
		CFModifier         float64  `json:"cf_modifier"`
	}
	decodeBody(t, rec, &fc)
	if fc.FuelType != "D-T" || fc.CFModifier != 0.95 || len(fc.RequiredSubsystems) != 2 {
		t.Fatalf("unexpected D-T constraints: %+v", fc)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/lcoe/fuel/unknown/constraints", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/lcoe/fuel-types", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var list struct {
		FuelTypes []json.RawMessage `json:"fuel_types"`
	}
	decodeBody(t, rec, &list)
	if len(list.FuelTypes) != 3 {
		t.Fatalf("expected 3 fuel types, got %d", len(list.FuelTypes))
	}
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want the allowed origin echoed", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want no header for a disallowed origin", got)
	}
}
