package solver

// Feasibility thresholds. These are economic policy judgments, not physics;
// they are collected here so they can be revised without touching the math.
const (
	// A solved capex or fixed O&M below this fraction of the current value is
	// flagged as too aggressive a cut to be credible.
	minCostCutFraction = 0.3

	// WACC search interval and the floor below which financing is considered
	// unobtainable (under typical sovereign borrowing rates).
	minSearchWACC   = 0.01
	maxSearchWACC   = 0.25
	minFeasibleWACC = 0.03

	// Capacity factor window considered achievable for a power plant.
	minFeasibleCF = 0.5
	maxFeasibleCF = 0.98

	// Lifetime search interval and the ceiling of typical plant life.
	minLifetime         = 10
	maxLifetime         = 60
	maxFeasibleLifetime = 50

	// Engineering gain window: 1.5 is treated as the physical break-even
	// minimum, 50 as the upper bound of credible designs.
	minFeasibleQEng = 1.5
	maxFeasibleQEng = 50.0

	// Bisection budgets.
	waccIterations     = 50
	waccTolerance      = 0.01 // $/MWh
	lifetimeIterations = 20
	lifetimeTolerance  = 0.1 // $/MWh
)
