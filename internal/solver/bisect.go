package solver

import (
	"fmt"
	"math"

	"github.com/onecent-fusion/backend/internal/lcoe"
)

// bisection is a bounded root finder for a monotone function. The loop never
// runs more than maxIter rounds; if the tolerance is not met by then, the last
// midpoint is accepted as the answer (a documented approximation, not a
// failure). Callers must ensure the target is bracketed by [lo, hi].
type bisection struct {
	lo, hi     float64
	tolerance  float64
	maxIter    int
	increasing bool // whether f is increasing over [lo, hi]
	integer    bool // restrict midpoints to integers (floor)
}

func (b bisection) solve(f func(float64) float64, target float64) float64 {
	lo, hi := b.lo, b.hi
	mid := lo
	for i := 0; i < b.maxIter; i++ {
		mid = (lo + hi) / 2
		if b.integer {
			mid = math.Floor(mid)
		}
		v := f(mid)
		if math.Abs(v-target) < b.tolerance {
			break
		}
		if (v > target) == b.increasing {
			hi = mid
		} else {
			lo = mid
		}
	}
	return mid
}

// ForWACC solves for the discount rate required to hit the target LCOE. CRF is
// nonlinear in the rate, so this bisects over [1%, 25%]; LCOE is strictly
// increasing in WACC, which makes the bracket checks one-sided: a target below
// the 1% evaluation is unreachable, a target above the 25% evaluation is not
// binding at all.
func ForWACC(targetLCOE float64, subsystems []lcoe.Subsystem, params lcoe.FinancialParams, fuel lcoe.FuelType) Result {
	t := aggregate(subsystems, params, fuel)

	lcoeAt := func(wacc float64) float64 {
		return t.lcoeAt(lcoe.CRF(wacc, params.Lifetime))
	}

	lcoeAtFloor := lcoeAt(minSearchWACC)
	lcoeAtCeiling := lcoeAt(maxSearchWACC)

	if lcoeAtFloor > targetLCOE {
		return Result{
			Parameter:     "wacc",
			RequiredValue: 0,
			Feasible:      false,
			Explanation: fmt.Sprintf("Even at 1%% WACC, LCOE is $%.1f/MWh (above $%g/MWh target)",
				lcoeAtFloor, targetLCOE),
			Diagnostics: map[string]float64{"current_wacc": params.WACC},
		}
	}
	if lcoeAtCeiling < targetLCOE {
		return Result{
			Parameter:     "wacc",
			RequiredValue: maxSearchWACC,
			Feasible:      true,
			Explanation:   "Target achievable even at 25% WACC",
			Diagnostics:   map[string]float64{"current_wacc": params.WACC},
		}
	}

	required := bisection{
		lo:         minSearchWACC,
		hi:         maxSearchWACC,
		tolerance:  waccTolerance,
		maxIter:    waccIterations,
		increasing: true,
	}.solve(lcoeAt, targetLCOE)

	feasible := required >= minFeasibleWACC

	var explanation string
	switch {
	case required < minFeasibleWACC:
		explanation = fmt.Sprintf("Need %.1f%% WACC (below typical project finance rates)", required*100)
	case required < 0.06:
		explanation = fmt.Sprintf("Need %.1f%% WACC (requires favorable financing)", required*100)
	default:
		explanation = fmt.Sprintf("Need %.1f%% WACC to hit $%g/MWh", required*100, targetLCOE)
	}

	return Result{
		Parameter:     "wacc",
		RequiredValue: roundTo(required, 3),
		Feasible:      feasible,
		Explanation:   explanation,
		Diagnostics:   map[string]float64{"current_wacc": params.WACC},
	}
}

// ForLifetime solves for the plant lifetime (whole years) required to hit the
// target LCOE. LCOE is strictly decreasing in lifetime, so the bracket checks
// run in the opposite direction from the WACC solver: if 60 years still misses
// the target it is unreachable, if 10 years already beats it the target is not
// binding.
func ForLifetime(targetLCOE float64, subsystems []lcoe.Subsystem, params lcoe.FinancialParams, fuel lcoe.FuelType) Result {
	t := aggregate(subsystems, params, fuel)

	lcoeAt := func(lifetime float64) float64 {
		return t.lcoeAt(lcoe.CRF(params.WACC, int(lifetime)))
	}

	lcoeAtCeiling := lcoeAt(maxLifetime)
	lcoeAtFloor := lcoeAt(minLifetime)

	if lcoeAtCeiling > targetLCOE {
		return Result{
			Parameter:     "lifetime",
			RequiredValue: maxLifetime,
			Feasible:      false,
			Explanation: fmt.Sprintf("Even at 60-year lifetime, LCOE is $%.1f/MWh (above $%g/MWh target)",
				lcoeAtCeiling, targetLCOE),
			Diagnostics: map[string]float64{"current_lifetime": float64(params.Lifetime)},
		}
	}
	if lcoeAtFloor < targetLCOE {
		return Result{
			Parameter:     "lifetime",
			RequiredValue: minLifetime,
			Feasible:      true,
			Explanation:   "Target achievable even with 10-year lifetime",
			Diagnostics:   map[string]float64{"current_lifetime": float64(params.Lifetime)},
		}
	}

	required := bisection{
		lo:        minLifetime,
		hi:        maxLifetime,
		tolerance: lifetimeTolerance,
		maxIter:   lifetimeIterations,
		integer:   true,
		// LCOE decreases with lifetime.
	}.solve(lcoeAt, targetLCOE)

	years := int(required)
	feasible := years <= maxFeasibleLifetime

	var explanation string
	switch {
	case years > maxFeasibleLifetime:
		explanation = fmt.Sprintf("Need %d-year lifetime (beyond typical plant life)", years)
	case years > 40:
		explanation = fmt.Sprintf("Need %d-year lifetime (achievable with life extension)", years)
	default:
		explanation = fmt.Sprintf("Need %d-year lifetime to hit $%g/MWh", years, targetLCOE)
	}

	return Result{
		Parameter:     "lifetime",
		RequiredValue: float64(years),
		Feasible:      feasible,
		Explanation:   explanation,
		Diagnostics:   map[string]float64{"current_lifetime": float64(params.Lifetime)},
	}
}
