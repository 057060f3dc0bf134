package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/onecent-fusion/backend/internal/lcoe"
	"github.com/onecent-fusion/backend/internal/solver"
)

type solveFunc func(float64, []lcoe.Subsystem, lcoe.FinancialParams, lcoe.FuelType) solver.Result

// solveParameters fixes the order solve-all reports results in.
var solveParameters = []string{"capex", "capacity_factor", "wacc", "fixed_om", "lifetime", "q_eng"}

var solvers = map[string]solveFunc{
	"capex":           solver.ForCapex,
	"capacity_factor": solver.ForCapacityFactor,
	"wacc":            solver.ForWACC,
	"fixed_om":        solver.ForFixedOM,
	"lifetime":        solver.ForLifetime,
	"q_eng":           solver.ForQEng,
}

func (s *server) handleSolveFor(w http.ResponseWriter, r *http.Request) {
	parameter := chi.URLParam(r, "parameter")
	solve, ok := solvers[parameter]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown parameter %q", parameter))
		return
	}

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

	writeJSON(w, http.StatusOK, solve(sc.targetLCOE, sc.subsystems, sc.params, sc.fuel))
}

func (s *server) handleSolveAll(w http.ResponseWriter, r *http.Request) {
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

	solutions := make(map[string]solver.Result, len(solveParameters))
	for _, parameter := range solveParameters {
		solutions[parameter] = solvers[parameter](sc.targetLCOE, sc.subsystems, sc.params, sc.fuel)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"target_lcoe": sc.targetLCOE,
		"solutions":   solutions,
	})
}
