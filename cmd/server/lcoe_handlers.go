package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/onecent-fusion/backend/internal/catalog"
	"github.com/onecent-fusion/backend/internal/feasibility"
	"github.com/onecent-fusion/backend/internal/lcoe"
)

const (
	defaultTargetLCOE = 10.0
	minTargetLCOE     = 1.0
	maxTargetLCOE     = 100.0
)

// financialParamsInput carries optional overrides of the default financial
// scenario. Pointer fields distinguish "not provided" from an explicit zero.
type financialParamsInput struct {
	WACC             *float64 `json:"wacc"`
	Lifetime         *int     `json:"lifetime"`
	CapacityFactor   *float64 `json:"capacity_factor"`
	CapacityMW       *float64 `json:"capacity_mw"`
	ConstructionTime *int     `json:"construction_time"`
	QEng             *float64 `json:"q_eng"`
}

// resolve merges the overrides over the defaults and validates the ranges the
// core assumes but does not re-check.
func (in *financialParamsInput) resolve() (lcoe.FinancialParams, error) {
	p := lcoe.DefaultFinancialParams()
	if in == nil {
		return p, nil
	}

	if in.WACC != nil {
		p.WACC = *in.WACC
	}
	if in.Lifetime != nil {
		p.Lifetime = *in.Lifetime
	}
	if in.CapacityFactor != nil {
		p.CapacityFactor = *in.CapacityFactor
	}
	if in.CapacityMW != nil {
		p.CapacityMW = *in.CapacityMW
	}
	if in.ConstructionTime != nil {
		p.ConstructionTime = *in.ConstructionTime
	}
	if in.QEng != nil {
		p.QEng = *in.QEng
	}

	switch {
	case p.WACC < 0.01 || p.WACC > 0.25:
		return p, fmt.Errorf("wacc must be between 0.01 and 0.25")
	case p.Lifetime < 10 || p.Lifetime > 60:
		return p, fmt.Errorf("lifetime must be between 10 and 60 years")
	case p.CapacityFactor < 0.5 || p.CapacityFactor > 1.0:
		return p, fmt.Errorf("capacity_factor must be between 0.5 and 1.0")
	case p.CapacityMW < 100 || p.CapacityMW > 5000:
		return p, fmt.Errorf("capacity_mw must be between 100 and 5000")
	case p.ConstructionTime < 2 || p.ConstructionTime > 15:
		return p, fmt.Errorf("construction_time must be between 2 and 15 years")
	case p.QEng <= 1.0 || p.QEng > 50.0:
		return p, fmt.Errorf("q_eng must be greater than 1 and at most 50")
	}

	return p, nil
}

type scenarioRequest struct {
	TargetLCOE      *float64              `json:"target_lcoe"`
	FuelType        lcoe.FuelType         `json:"fuel_type"`
	ConfinementType lcoe.ConfinementType  `json:"confinement_type"`
	Subsystems      []catalog.Override    `json:"subsystems"`
	FinancialParams *financialParamsInput `json:"financial_params"`
}

// scenario is a fully-resolved request: validated parameters and the
// constraint-annotated subsystem list the core operates on.
type scenario struct {
	targetLCOE  float64
	fuel        lcoe.FuelType
	confinement lcoe.ConfinementType
	params      lcoe.FinancialParams
	subsystems  []lcoe.Subsystem
}

func decodeScenarioRequest(r *http.Request) (scenarioRequest, error) {
	req := scenarioRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("invalid JSON body")
	}
	return req, nil
}

// resolveScenario validates the request, loads the catalog, merges overrides,
// and stamps required/disabled flags. The core trusts those flags and the
// validated ranges from here on.
func (s *server) resolveScenario(req scenarioRequest) (scenario, error) {
	sc := scenario{
		targetLCOE:  defaultTargetLCOE,
		fuel:        lcoe.FuelDT,
		confinement: lcoe.ConfinementMCF,
	}

	if req.TargetLCOE != nil {
		sc.targetLCOE = *req.TargetLCOE
	}
	if sc.targetLCOE < minTargetLCOE || sc.targetLCOE > maxTargetLCOE {
		return sc, fmt.Errorf("target_lcoe must be between %g and %g", minTargetLCOE, maxTargetLCOE)
	}

	if req.FuelType != "" {
		sc.fuel = req.FuelType
	}
	if _, ok := lcoe.FuelConstraintsFor(sc.fuel); !ok {
		return sc, fmt.Errorf("unknown fuel_type %q", sc.fuel)
	}

	if req.ConfinementType != "" {
		sc.confinement = req.ConfinementType
	}
	if _, ok := lcoe.ConfinementConstraintsFor(sc.confinement); !ok {
		return sc, fmt.Errorf("unknown confinement_type %q", sc.confinement)
	}

	params, err := req.FinancialParams.resolve()
	if err != nil {
		return sc, err
	}
	sc.params = params

	defaults, err := catalog.Load(s.db)
	if err != nil {
		return sc, fmt.Errorf("load subsystem catalog: %w", err)
	}
	merged := catalog.Merge(defaults, req.Subsystems)
	sc.subsystems = lcoe.ApplyConstraints(merged, sc.fuel, sc.confinement)

	return sc, nil
}

type calculateResponse struct {
	CalculatedLCOE  float64            `json:"calculated_lcoe"`
	TargetLCOE      float64            `json:"target_lcoe"`
	Breakdown       lcoe.Breakdown     `json:"breakdown"`
	Feasibility     feasibility.Report `json:"feasibility"`
	TotalCapexAbs   float64            `json:"total_capex_abs"`   // $M
	TotalCapexPerKW float64            `json:"total_capex_per_kw"` // $/kW
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeScenarioRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sc, err := s.resolveScenario(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	breakdown := lcoe.Calculate(sc.subsystems, sc.params, sc.fuel, sc.confinement)

	var capexAbs, capexPerKW float64
	for _, sub := range sc.subsystems {
		if sub.Disabled {
			continue
		}
		capexAbs += sub.CapitalCost
		capexPerKW += sub.CapitalCostPerKW(sc.params.CapacityMW)
	}

	report := feasibility.Analyze(
		breakdown.TotalLCOE,
		sc.targetLCOE,
		sc.subsystems,
		sc.params.CapacityFactor,
		sc.params.WACC,
		sc.fuel,
	)

	writeJSON(w, http.StatusOK, calculateResponse{
		CalculatedLCOE:  breakdown.TotalLCOE,
		TargetLCOE:      sc.targetLCOE,
		Breakdown:       breakdown,
		Feasibility:     report,
		TotalCapexAbs:   roundTo(capexAbs, 1),
		TotalCapexPerKW: roundTo(capexPerKW, 0),
	})
}

func (s *server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	fuel := lcoe.FuelDT
	if raw := r.URL.Query().Get("fuel_type"); raw != "" {
		fuel = lcoe.FuelType(raw)
	}
	if _, ok := lcoe.FuelConstraintsFor(fuel); !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown fuel_type %q", fuel))
		return
	}

	confinement := lcoe.ConfinementMCF
	if raw := r.URL.Query().Get("confinement_type"); raw != "" {
		confinement = lcoe.ConfinementType(raw)
	}
	if _, ok := lcoe.ConfinementConstraintsFor(confinement); !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown confinement_type %q", confinement))
		return
	}

	subsystems, err := catalog.Load(s.db)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load subsystem catalog")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"subsystems":       lcoe.ApplyConstraints(subsystems, fuel, confinement),
		"financial_params": lcoe.DefaultFinancialParams(),
		"fuel_type":        fuel,
		"confinement_type": confinement,
	})
}

func (s *server) handleFuelTypes(w http.ResponseWriter, r *http.Request) {
	fuelTypes := make([]map[string]any, 0, len(lcoe.FuelTypes()))
	for _, ft := range lcoe.FuelTypes() {
		fc, _ := lcoe.FuelConstraintsFor(ft)
		fuelTypes = append(fuelTypes, map[string]any{
			"id":          ft,
			"name":        ft,
			"constraints": fc,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"fuel_types": fuelTypes})
}

func (s *server) handleConfinementTypes(w http.ResponseWriter, r *http.Request) {
	confinementTypes := make([]map[string]any, 0, len(lcoe.ConfinementTypes()))
	for _, ct := range lcoe.ConfinementTypes() {
		cc, _ := lcoe.ConfinementConstraintsFor(ct)
		confinementTypes = append(confinementTypes, map[string]any{
			"id":          ct,
			"name":        ct,
			"constraints": cc,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"confinement_types": confinementTypes})
}

func (s *server) handleFuelConstraints(w http.ResponseWriter, r *http.Request) {
	fuel := lcoe.FuelType(chi.URLParam(r, "fuelType"))
	fc, ok := lcoe.FuelConstraintsFor(fuel)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown fuel_type %q", fuel))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fuel_type":           fuel,
		"required_subsystems": fc.RequiredSubsystems,
		"disabled_subsystems": fc.DisabledSubsystems,
		"cf_modifier":         fc.CFModifier,
		"regulatory_modifier": fc.RegulatoryModifier,
		"description":         fc.Description,
	})
}

func (s *server) handleConfinementConstraints(w http.ResponseWriter, r *http.Request) {
	confinement := lcoe.ConfinementType(chi.URLParam(r, "confinementType"))
	cc, ok := lcoe.ConfinementConstraintsFor(confinement)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown confinement_type %q", confinement))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"confinement_type":    confinement,
		"required_subsystems": cc.RequiredSubsystems,
		"disabled_subsystems": cc.DisabledSubsystems,
		"description":         cc.Description,
	})
}
