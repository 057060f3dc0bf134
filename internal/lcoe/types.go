package lcoe

// Subsystem is one cost line-item of the plant, keyed by its FCC-style account
// code. Costs are absolute for the whole plant; the per-kW helpers spread them
// over the installed capacity. Required and Disabled are derived from the
// current fuel/confinement selection, never intrinsic to the subsystem.
type Subsystem struct {
	Account       string  `json:"account"`
	Name          string  `json:"name"`
	CapitalCost   float64 `json:"absolute_capital_cost"` // $M
	FixedOM       float64 `json:"absolute_fixed_om"`     // $M/yr
	VariableOM    float64 `json:"variable_om"`           // $/MWh
	TRL           int     `json:"trl"`
	LearningRatio float64 `json:"learning_ratio"` // cost over raw materials cost, >= 1
	Required      bool    `json:"required"`
	Disabled      bool    `json:"disabled"`
	Description   string  `json:"description,omitempty"`
}

// CapitalCostPerKW converts the absolute capital cost to $/kW of installed
// capacity. Returns 0 for non-positive capacity rather than dividing by zero.
func (s Subsystem) CapitalCostPerKW(capacityMW float64) float64 {
	if capacityMW <= 0 {
		return 0
	}
	return s.CapitalCost * 1e6 / (capacityMW * 1000)
}

// FixedOMPerKW converts the absolute fixed O&M to $/kW-yr.
func (s Subsystem) FixedOMPerKW(capacityMW float64) float64 {
	if capacityMW <= 0 {
		return 0
	}
	return s.FixedOM * 1e6 / (capacityMW * 1000)
}

// LearningPotential buckets the learning ratio into a coarse category, from
// commodity hardware ("limited") to high-tech systems ("massive").
func (s Subsystem) LearningPotential() string {
	switch {
	case s.LearningRatio <= 2:
		return "limited"
	case s.LearningRatio <= 5:
		return "some"
	case s.LearningRatio <= 10:
		return "significant"
	default:
		return "massive"
	}
}

// FinancialParams is one financial scenario for the plant.
type FinancialParams struct {
	WACC             float64 `json:"wacc"`              // 0.01–0.25
	Lifetime         int     `json:"lifetime"`          // years, 10–60
	CapacityFactor   float64 `json:"capacity_factor"`   // 0.5–1.0
	CapacityMW       float64 `json:"capacity_mw"`       // 100–5000
	ConstructionTime int     `json:"construction_time"` // years, informational
	QEng             float64 `json:"q_eng"`             // P_gross / P_recirc, >1
}

// DefaultFinancialParams returns the baseline scenario.
func DefaultFinancialParams() FinancialParams {
	return FinancialParams{
		WACC:             0.08,
		Lifetime:         40,
		CapacityFactor:   0.90,
		CapacityMW:       1000,
		ConstructionTime: 5,
		QEng:             10.0,
	}
}

// Breakdown is the output of a forward LCOE calculation. The four component
// contributions sum to TotalLCOE; the per-subsystem maps attribute the capital
// and O&M components to the active account codes.
type Breakdown struct {
	CapitalContribution    float64            `json:"capital_contribution"`     // $/MWh
	FixedOMContribution    float64            `json:"fixed_om_contribution"`    // $/MWh
	VariableOMContribution float64            `json:"variable_om_contribution"` // $/MWh
	FuelContribution       float64            `json:"fuel_contribution"`        // $/MWh, always 0 for fusion
	TotalLCOE              float64            `json:"total_lcoe"`               // $/MWh
	SubsystemCapital       map[string]float64 `json:"subsystem_capital"`
	SubsystemOM            map[string]float64 `json:"subsystem_om"`
}
