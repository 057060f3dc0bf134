package solver

import (
	"fmt"
	"math"

	"github.com/onecent-fusion/backend/internal/lcoe"
)

// ForQEng solves for the engineering gain required to hit the target LCOE.
//
// Costs split into a bucket that scales with Q (reactor island, drivers,
// turbine) and a fixed bucket. With A the LCOE headroom after variable O&M,
// C_q and C_nq the annualized cost rates of the two buckets, the forward
// relation A = C_nq + C_q*Q/(Q-1) inverts to R = (A-C_nq)/C_q and Q = R/(R-1).
//
// Edge cases, in precedence order: fixed costs alone over budget (A <= C_nq)
// is infeasible no matter the gain; an empty scaling bucket means any gain
// works; R <= 1 would need a negative or undefined Q.
func ForQEng(targetLCOE float64, subsystems []lcoe.Subsystem, params lcoe.FinancialParams, fuel lcoe.FuelType) Result {
	fc, ok := lcoe.FuelConstraintsFor(fuel)
	if !ok {
		fc = lcoe.FuelConstraints{CFModifier: 1.0, RegulatoryModifier: 1.0}
	}

	effectiveCF := params.CapacityFactor * fc.CFModifier
	crf := lcoe.CRF(params.WACC, params.Lifetime)
	energyPerKW := effectiveCF * lcoe.HoursPerYear / 1000

	var capexQ, capexFixed, omQ, omFixed, variableOM float64
	for _, s := range subsystems {
		if s.Disabled {
			continue
		}
		variableOM += s.VariableOM
		capitalPerKW := s.CapitalCostPerKW(params.CapacityMW)
		fixedOMPerKW := s.FixedOMPerKW(params.CapacityMW)
		if lcoe.QScales(s.Account) {
			capexQ += capitalPerKW
			omQ += fixedOMPerKW
		} else {
			capexFixed += capitalPerKW
			omFixed += fixedOMPerKW
		}
	}

	cQ := crf*capexQ*fc.RegulatoryModifier + omQ
	cNQ := crf*capexFixed*fc.RegulatoryModifier + omFixed
	headroom := (targetLCOE - variableOM) * energyPerKW

	if headroom <= cNQ {
		return Result{
			Parameter:     "q_eng",
			RequiredValue: math.Inf(1),
			Feasible:      false,
			Explanation:   fmt.Sprintf("Impossible: non-Q costs alone exceed target $%g/MWh", targetLCOE),
			Diagnostics:   map[string]float64{"current_q_eng": params.QEng},
		}
	}
	if cQ <= 0 {
		return Result{
			Parameter:     "q_eng",
			RequiredValue: minFeasibleQEng,
			Feasible:      true,
			Explanation:   "No Q-scaling costs active - any Q_eng achieves target",
			Diagnostics:   map[string]float64{"current_q_eng": params.QEng},
		}
	}

	r := (headroom - cNQ) / cQ // R = Q/(Q-1)
	if r <= 1 {
		return Result{
			Parameter:     "q_eng",
			RequiredValue: math.Inf(1),
			Feasible:      false,
			Explanation:   fmt.Sprintf("Impossible: Q-scaling costs too high for target $%g/MWh", targetLCOE),
			Diagnostics:   map[string]float64{"current_q_eng": params.QEng},
		}
	}

	required := r / (r - 1)
	feasible := required >= minFeasibleQEng && required <= maxFeasibleQEng

	var explanation string
	switch {
	case required < minFeasibleQEng:
		explanation = fmt.Sprintf("Need Q_eng = %.1f (below physical minimum ~1.5)", required)
	case required > maxFeasibleQEng:
		explanation = "Need Q_eng > 50 - easily achievable"
	case required > 20:
		explanation = fmt.Sprintf("Need Q_eng >= %.1f (achievable for mature designs)", required)
	case required > 5:
		explanation = fmt.Sprintf("Need Q_eng >= %.1f (%.0f%% recirculated)", required, 100/required)
	default:
		explanation = fmt.Sprintf("Need Q_eng >= %.1f (high recirculating power, %.0f%% recirculated)", required, 100/required)
	}

	return Result{
		Parameter:     "q_eng",
		RequiredValue: roundTo(required, 1),
		Feasible:      feasible,
		Explanation:   explanation,
		Diagnostics: map[string]float64{
			"current_q_eng":     params.QEng,
			"plant_size_factor": roundTo(required/(required-1), 2),
		},
	}
}
