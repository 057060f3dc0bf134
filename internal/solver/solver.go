// Package solver inverts the forward LCOE model: each ForX function solves the
// LCOE equation for one parameter, holding the others fixed, to answer "what
// value of X hits the target". Capex, capacity factor, and fixed O&M invert in
// closed form; WACC and lifetime enter only through the nonlinear CRF term and
// are solved by bounded bisection; Q_eng is a rational-equation inversion.
package solver

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/onecent-fusion/backend/internal/lcoe"
)

// Result is the outcome of one inverse solve. Infeasibility is represented as
// data, never as an error: RequiredValue carries a sentinel (0, +Inf, or a
// clamped bound) and Explanation says why.
type Result struct {
	Parameter     string             `json:"parameter"`
	RequiredValue float64            `json:"required_value"`
	Feasible      bool               `json:"feasible"`
	Explanation   string             `json:"explanation"`
	Diagnostics   map[string]float64 `json:"diagnostics"`
}

// MarshalJSON renders a non-finite required value as null, since encoding/json
// rejects Inf and NaN outright.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	out := struct {
		alias
		RequiredValue *float64 `json:"required_value"`
	}{alias: alias(r)}
	if !math.IsInf(r.RequiredValue, 0) && !math.IsNaN(r.RequiredValue) {
		out.RequiredValue = &r.RequiredValue
	}
	return json.Marshal(out)
}

// totals are the Q-scaled cost aggregates over the active subsystem set that
// every solver works from. Per-kW capex carries the regulatory markup;
// absolute figures do not (they are compared against user-entered costs).
type totals struct {
	capexPerKW   float64 // $/kW, regulatory-adjusted
	fixedOMPerKW float64 // $/kW-yr
	variableOM   float64 // $/MWh
	capexAbs     float64 // $M
	fixedOMAbs   float64 // $M/yr
	energyPerKW  float64 // MWh per kW-year
	crf          float64
	fuel         lcoe.FuelConstraints
}

func aggregate(subsystems []lcoe.Subsystem, params lcoe.FinancialParams, fuel lcoe.FuelType) totals {
	fc, ok := lcoe.FuelConstraintsFor(fuel)
	if !ok {
		fc = lcoe.FuelConstraints{CFModifier: 1.0, RegulatoryModifier: 1.0}
	}

	t := totals{
		crf:  lcoe.CRF(params.WACC, params.Lifetime),
		fuel: fc,
	}
	t.energyPerKW = params.CapacityFactor * fc.CFModifier * lcoe.HoursPerYear / 1000

	for _, s := range subsystems {
		if s.Disabled {
			continue
		}
		mult := lcoe.QMultiplier(s.Account, params.QEng)
		t.capexPerKW += s.CapitalCostPerKW(params.CapacityMW) * mult
		t.fixedOMPerKW += s.FixedOMPerKW(params.CapacityMW) * mult
		t.capexAbs += s.CapitalCost * mult
		t.fixedOMAbs += s.FixedOM * mult
		t.variableOM += s.VariableOM
	}
	t.capexPerKW *= fc.RegulatoryModifier

	return t
}

// lcoeAt evaluates the forward LCOE from pre-aggregated totals with an
// alternative CRF, for the bisection solvers.
func (t totals) lcoeAt(crf float64) float64 {
	return (crf*t.capexPerKW+t.fixedOMPerKW)/t.energyPerKW + t.variableOM
}

// ForCapex solves for the maximum total capital cost ($M, absolute) that still
// hits the target LCOE.
func ForCapex(targetLCOE float64, subsystems []lcoe.Subsystem, params lcoe.FinancialParams, fuel lcoe.FuelType) Result {
	t := aggregate(subsystems, params, fuel)

	// Invert target = (CRF*capex + fixedOM)/energy + varOM for capex, then
	// strip the regulatory markup to get back to entered costs.
	maxCapexWithReg := ((targetLCOE-t.variableOM)*t.energyPerKW - t.fixedOMPerKW) / t.crf
	maxCapexPerKW := maxCapexWithReg / t.fuel.RegulatoryModifier
	maxCapexAbs := maxCapexPerKW * params.CapacityMW * 1000 / 1e6

	feasible := maxCapexAbs > 0 && maxCapexAbs >= t.capexAbs*minCostCutFraction

	var explanation string
	switch {
	case maxCapexAbs <= 0:
		explanation = fmt.Sprintf("Impossible: O&M alone exceeds target LCOE of $%g/MWh", targetLCOE)
	case maxCapexPerKW < 500:
		explanation = fmt.Sprintf("To hit $%g/MWh, total CapEx must be <= $%.0fM ($%.0f/kW) - very aggressive",
			targetLCOE, maxCapexAbs, maxCapexPerKW)
	default:
		explanation = fmt.Sprintf("To hit $%g/MWh, total CapEx must be <= $%.0fM ($%.0f/kW)",
			targetLCOE, maxCapexAbs, maxCapexPerKW)
	}

	return Result{
		Parameter:     "capex",
		RequiredValue: math.Round(maxCapexAbs),
		Feasible:      feasible,
		Explanation:   explanation,
		Diagnostics: map[string]float64{
			"current_capex_abs":    math.Round(t.capexAbs),
			"current_capex_per_kw": math.Round(t.capexPerKW),
			"max_capex_per_kw":     math.Round(maxCapexPerKW),
			"reduction_needed_abs": math.Round(t.capexAbs - maxCapexAbs),
		},
	}
}

// ForCapacityFactor solves for the capacity factor required to hit the target
// LCOE. No positive capacity factor can close the gap when variable O&M alone
// meets or exceeds the target, so that case fails fast.
func ForCapacityFactor(targetLCOE float64, subsystems []lcoe.Subsystem, params lcoe.FinancialParams, fuel lcoe.FuelType) Result {
	t := aggregate(subsystems, params, fuel)

	denominator := (targetLCOE - t.variableOM) * lcoe.HoursPerYear / 1000
	if denominator <= 0 {
		return Result{
			Parameter:     "capacity_factor",
			RequiredValue: math.Inf(1),
			Feasible:      false,
			Explanation:   fmt.Sprintf("Impossible: Variable O&M ($%g/MWh) exceeds target LCOE", t.variableOM),
			Diagnostics:   map[string]float64{},
		}
	}

	// The solve yields the effective CF; divide out the fuel derate to get the
	// user-facing value.
	requiredCF := (t.crf*t.capexPerKW + t.fixedOMPerKW) / denominator / t.fuel.CFModifier

	feasible := requiredCF >= minFeasibleCF && requiredCF <= maxFeasibleCF

	var explanation string
	switch {
	case requiredCF > 1.0:
		explanation = fmt.Sprintf("Need %.0f%% CF (impossible - max is 100%%)", requiredCF*100)
	case requiredCF > 0.95:
		explanation = fmt.Sprintf("Need %.1f%% CF (very aggressive - best plants achieve ~95%%)", requiredCF*100)
	case requiredCF < minFeasibleCF:
		explanation = fmt.Sprintf("Need only %.0f%% CF (easily achievable)", requiredCF*100)
	default:
		explanation = fmt.Sprintf("Need %.1f%% CF to hit $%g/MWh", requiredCF*100, targetLCOE)
	}

	return Result{
		Parameter:     "capacity_factor",
		RequiredValue: roundTo(requiredCF, 3),
		Feasible:      feasible,
		Explanation:   explanation,
		Diagnostics:   map[string]float64{"current_cf": params.CapacityFactor},
	}
}

// ForFixedOM solves for the maximum total fixed O&M ($M/yr, absolute) that
// still hits the target LCOE.
func ForFixedOM(targetLCOE float64, subsystems []lcoe.Subsystem, params lcoe.FinancialParams, fuel lcoe.FuelType) Result {
	t := aggregate(subsystems, params, fuel)

	maxFixedOMPerKW := (targetLCOE-t.variableOM)*t.energyPerKW - t.crf*t.capexPerKW
	maxFixedOMAbs := maxFixedOMPerKW * params.CapacityMW * 1000 / 1e6

	feasible := maxFixedOMAbs > 0 && maxFixedOMAbs >= t.fixedOMAbs*minCostCutFraction

	var explanation string
	switch {
	case maxFixedOMAbs <= 0:
		explanation = fmt.Sprintf("Impossible: Capital costs alone exceed target LCOE of $%g/MWh", targetLCOE)
	case maxFixedOMPerKW < 20:
		explanation = fmt.Sprintf("Fixed O&M must be < $%.0fM/yr ($%.0f/kW-yr) - very aggressive",
			maxFixedOMAbs, maxFixedOMPerKW)
	default:
		explanation = fmt.Sprintf("Fixed O&M must be < $%.0fM/yr ($%.0f/kW-yr) to hit $%g/MWh",
			maxFixedOMAbs, maxFixedOMPerKW, targetLCOE)
	}

	return Result{
		Parameter:     "fixed_om",
		RequiredValue: math.Round(maxFixedOMAbs),
		Feasible:      feasible,
		Explanation:   explanation,
		Diagnostics: map[string]float64{
			"current_fixed_om_abs":    math.Round(t.fixedOMAbs),
			"current_fixed_om_per_kw": math.Round(t.fixedOMPerKW),
			"max_fixed_om_per_kw":     math.Round(maxFixedOMPerKW),
		},
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
