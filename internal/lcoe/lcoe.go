package lcoe

import "math"

// HoursPerYear converts capacity factor to full-power hours.
const HoursPerYear = 8760

// Accounts whose physical size grows with recirculating power: the reactor
// island, drivers, and the turbine. Balance of plant, site structures, and
// fuel supply do not scale with Q_eng.
var qScalingAccounts = map[string]bool{
	"22.1.1": true, // first wall & blanket
	"22.1.2": true, // neutron shielding
	"22.1.3": true, // magnets
	"22.1.4": true, // auxiliary heating & current drive
	"22.1.8": true, // laser / pellet driver
	"22.1.9": true, // direct energy conversion
	"22.2":   true, // primary heat transfer
	"22.5":   true, // tritium plant
	"23":     true, // turbine plant
}

// QScales reports whether an account's cost scales with engineering gain.
func QScales(account string) bool {
	return qScalingAccounts[account]
}

// QMultiplier returns the gross-plant oversizing factor Q/(Q-1) for accounts
// that scale with engineering gain, and 1 otherwise. Q_eng <= 1 means the
// plant recirculates more power than it produces, so the multiplier diverges.
func QMultiplier(account string, qEng float64) float64 {
	if !qScalingAccounts[account] {
		return 1.0
	}
	if qEng <= 1 {
		return math.Inf(1)
	}
	return qEng / (qEng - 1)
}

// CRF is the capital recovery factor: the constant annual payment, per unit of
// capital, that amortizes the principal over the lifetime at the given rate.
//
//	CRF = wacc * (1+wacc)^n / ((1+wacc)^n - 1)
//
// At wacc <= 0 this degenerates to simple payback, 1/n.
func CRF(wacc float64, lifetime int) float64 {
	if wacc <= 0 {
		return 1 / float64(lifetime)
	}
	growth := math.Pow(1+wacc, float64(lifetime))
	return wacc * growth / (growth - 1)
}

// Calculate computes the levelized cost of electricity in $/MWh for the
// non-disabled subsystems, plus a per-account attribution of the capital and
// O&M components.
//
// Capital and fixed O&M of Q-scaling accounts are multiplied by Q/(Q-1);
// variable O&M never is. The fuel's regulatory markup applies to capital —
// both to the total and to each subsystem's attributed share, so the
// attribution map sums to the capital component. Monetary outputs are rounded
// to 2 decimals as a presentation convention.
func Calculate(subsystems []Subsystem, params FinancialParams, fuel FuelType, confinement ConfinementType) Breakdown {
	fc, ok := FuelConstraintsFor(fuel)
	if !ok {
		fc = FuelConstraints{CFModifier: 1.0, RegulatoryModifier: 1.0}
	}
	_ = confinement // confinement affects the annotation pass only, not the math

	effectiveCF := params.CapacityFactor * fc.CFModifier
	crf := CRF(params.WACC, params.Lifetime)
	energyPerKW := effectiveCF * HoursPerYear / 1000 // MWh per kW-year

	var totalCapexPerKW, totalFixedOMPerKW, totalVariableOM float64
	subsystemCapital := make(map[string]float64)
	subsystemOM := make(map[string]float64)

	for _, s := range subsystems {
		if s.Disabled {
			continue
		}

		mult := QMultiplier(s.Account, params.QEng)
		capitalPerKW := s.CapitalCostPerKW(params.CapacityMW) * mult
		fixedOMPerKW := s.FixedOMPerKW(params.CapacityMW) * mult

		totalCapexPerKW += capitalPerKW
		totalFixedOMPerKW += fixedOMPerKW
		totalVariableOM += s.VariableOM

		subsystemCapital[s.Account] = round2(crf * capitalPerKW * fc.RegulatoryModifier / energyPerKW)
		subsystemOM[s.Account] = round2(fixedOMPerKW/energyPerKW + s.VariableOM)
	}

	totalCapexPerKW *= fc.RegulatoryModifier

	capital := crf * totalCapexPerKW / energyPerKW
	fixedOM := totalFixedOMPerKW / energyPerKW
	variableOM := totalVariableOM
	fuelCost := 0.0 // fusion fuel cost is negligible

	total := capital + fixedOM + variableOM + fuelCost

	return Breakdown{
		CapitalContribution:    round2(capital),
		FixedOMContribution:    round2(fixedOM),
		VariableOMContribution: round2(variableOM),
		FuelContribution:       round2(fuelCost),
		TotalLCOE:              round2(total),
		SubsystemCapital:       subsystemCapital,
		SubsystemOM:            subsystemOM,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
