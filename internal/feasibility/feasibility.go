// Package feasibility produces the advisory report attached to LCOE results:
// pass/warning/fail checks against hard-coded realism thresholds, independent
// of the LCOE math itself.
package feasibility

import (
	"fmt"
	"strings"

	"github.com/onecent-fusion/backend/internal/lcoe"
)

// Check is the outcome of a single realism check.
type Check struct {
	Category string `json:"category"`
	Status   string `json:"status"` // "pass", "warning", "fail"
	Message  string `json:"message"`
	Details  string `json:"details,omitempty"`
}

// Report aggregates the individual checks and the LCOE traffic light.
type Report struct {
	OverallStatus string  `json:"overall_status"` // "green", "yellow", "red"
	LCOEStatus    string  `json:"lcoe_status"`
	LCOEMessage   string  `json:"lcoe_message"`
	Checks        []Check `json:"checks"`
}

// Status classifies a calculated LCOE against the target: green at or under
// target, yellow within 50% over, red beyond that.
func Status(calculated, target float64) (string, string) {
	if target <= 0 {
		return "red", fmt.Sprintf("Gap: $%.2f/MWh (no positive target set)", calculated)
	}
	ratio := calculated / target
	gap := calculated - target
	switch {
	case ratio <= 1.0:
		return "green", fmt.Sprintf("Target achieved: $%.2f/MWh <= $%.2f/MWh", calculated, target)
	case ratio <= 1.5:
		return "yellow", fmt.Sprintf("Close: $%.2f/MWh ($%.2f/MWh gap, %.0f%% over target)", calculated, gap, (ratio-1)*100)
	default:
		return "red", fmt.Sprintf("Gap: $%.2f/MWh ($%.2f/MWh above target, %.0f%% over)", calculated, gap, (ratio-1)*100)
	}
}

func checkTRL(subsystems []lcoe.Subsystem) Check {
	var lowTRL []string
	for _, s := range subsystems {
		if !s.Disabled && s.TRL < 5 {
			lowTRL = append(lowTRL, s.Name)
		}
	}

	switch {
	case len(lowTRL) == 0:
		return Check{
			Category: "Technology Readiness",
			Status:   "pass",
			Message:  "All active subsystems at TRL 5+",
		}
	case len(lowTRL) <= 2:
		return Check{
			Category: "Technology Readiness",
			Status:   "warning",
			Message:  fmt.Sprintf("%d subsystem(s) at low TRL: %s", len(lowTRL), strings.Join(lowTRL, ", ")),
			Details:  "Low TRL components may require significant R&D investment",
		}
	default:
		return Check{
			Category: "Technology Readiness",
			Status:   "fail",
			Message:  fmt.Sprintf("Many low-TRL subsystems: %s", strings.Join(lowTRL, ", ")),
			Details:  "High technology risk - multiple unproven components",
		}
	}
}

func checkCostRealism(subsystems []lcoe.Subsystem) Check {
	// A high learning ratio on an immature subsystem means today's cost should
	// still be far above the materials floor; a low entered cost is optimistic.
	var optimistic []string
	for _, s := range subsystems {
		if !s.Disabled && s.LearningRatio > 8 && s.TRL < 6 {
			optimistic = append(optimistic, s.Name)
		}
	}

	switch {
	case len(optimistic) == 0:
		return Check{
			Category: "Cost Realism",
			Status:   "pass",
			Message:  "Cost assumptions consistent with technology maturity",
		}
	case len(optimistic) <= 2:
		return Check{
			Category: "Cost Realism",
			Status:   "warning",
			Message:  fmt.Sprintf("Optimistic costs for: %s", strings.Join(optimistic, ", ")),
			Details:  "High learning ratio + low TRL suggests significant cost learning required",
		}
	default:
		return Check{
			Category: "Cost Realism",
			Status:   "fail",
			Message:  "Multiple subsystems have optimistic cost assumptions",
			Details:  "Consider using higher initial costs for low-TRL, high-learning-ratio systems",
		}
	}
}

func checkCapacityFactor(cf float64, fuel lcoe.FuelType) Check {
	maxRealistic := 0.95
	if fuel == lcoe.FuelDT {
		maxRealistic = 0.92 // neutron damage limits
	}

	switch {
	case cf <= maxRealistic:
		return Check{
			Category: "Capacity Factor",
			Status:   "pass",
			Message:  fmt.Sprintf("%.0f%% CF is achievable for %s", cf*100, fuel),
		}
	case cf <= 0.98:
		return Check{
			Category: "Capacity Factor",
			Status:   "warning",
			Message:  fmt.Sprintf("%.0f%% CF is aggressive for %s", cf*100, fuel),
			Details:  fmt.Sprintf("Best existing plants achieve ~%.0f%%", maxRealistic*100),
		}
	default:
		return Check{
			Category: "Capacity Factor",
			Status:   "fail",
			Message:  fmt.Sprintf("%.0f%% CF is unrealistic", cf*100),
			Details:  "No power plant operates at >98% capacity factor long-term",
		}
	}
}

func checkWACC(wacc float64) Check {
	switch {
	case wacc >= 0.06:
		return Check{
			Category: "Financing",
			Status:   "pass",
			Message:  fmt.Sprintf("%.1f%% WACC is achievable", wacc*100),
		}
	case wacc >= 0.04:
		return Check{
			Category: "Financing",
			Status:   "warning",
			Message:  fmt.Sprintf("%.1f%% WACC requires favorable financing", wacc*100),
			Details:  "May need government backing or concessional finance",
		}
	default:
		return Check{
			Category: "Financing",
			Status:   "fail",
			Message:  fmt.Sprintf("%.1f%% WACC is unrealistic", wacc*100),
			Details:  "Below sovereign borrowing rates in most countries",
		}
	}
}

// Analyze runs every realism check and rolls the statuses up: any fail makes
// the report red, any warning makes it yellow, otherwise green.
func Analyze(calculatedLCOE, targetLCOE float64, subsystems []lcoe.Subsystem, capacityFactor, wacc float64, fuel lcoe.FuelType) Report {
	lcoeStatus, lcoeMessage := Status(calculatedLCOE, targetLCOE)

	checks := []Check{
		checkTRL(subsystems),
		checkCostRealism(subsystems),
		checkCapacityFactor(capacityFactor, fuel),
		checkWACC(wacc),
	}

	overall := "green"
	if lcoeStatus == "yellow" {
		overall = "yellow"
	}
	if lcoeStatus == "red" {
		overall = "red"
	}
	for _, c := range checks {
		if c.Status == "warning" && overall == "green" {
			overall = "yellow"
		}
		if c.Status == "fail" {
			overall = "red"
		}
	}

	return Report{
		OverallStatus: overall,
		LCOEStatus:    lcoeStatus,
		LCOEMessage:   lcoeMessage,
		Checks:        checks,
	}
}
