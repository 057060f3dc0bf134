package lcoe

// FuelType selects the fusion fuel cycle.
type FuelType string

const (
	FuelDT   FuelType = "D-T"
	FuelDHe3 FuelType = "D-He3"
	FuelPB11 FuelType = "p-B11"
)

// ConfinementType selects the confinement approach.
type ConfinementType string

const (
	ConfinementMCF ConfinementType = "MCF"
	ConfinementICF ConfinementType = "ICF"
)

// FuelConstraints are the consequences of a fuel choice: which accounts become
// mandatory or impossible, plus derates on capacity factor and a regulatory
// markup on capital cost.
type FuelConstraints struct {
	RequiredSubsystems []string `json:"required_subsystems"`
	DisabledSubsystems []string `json:"disabled_subsystems"`
	CFModifier         float64  `json:"cf_modifier"`
	RegulatoryModifier float64  `json:"regulatory_modifier"`
	Description        string   `json:"description"`
}

// ConfinementConstraints are the account consequences of a confinement choice.
type ConfinementConstraints struct {
	RequiredSubsystems []string `json:"required_subsystems"`
	DisabledSubsystems []string `json:"disabled_subsystems"`
	Description        string   `json:"description"`
}

// Invariant: for any entry, the required and disabled sets are disjoint.
var fuelConstraints = map[FuelType]FuelConstraints{
	FuelDT: {
		RequiredSubsystems: []string{"22.5", "23"},
		DisabledSubsystems: []string{"22.1.9", "22.6"},
		CFModifier:         0.95,
		RegulatoryModifier: 1.20,
		Description: "D-T fusion requires tritium breeding and thermal conversion. " +
			"High neutron flux causes material damage (-5% CF) and requires " +
			"additional regulatory compliance (+20% costs).",
	},
	FuelDHe3: {
		RequiredSubsystems: []string{"22.6", "23"},
		DisabledSubsystems: []string{"22.5"},
		CFModifier:         0.98,
		RegulatoryModifier: 1.10,
		Description: "D-He3 fusion produces fewer neutrons, reducing material damage " +
			"and regulatory burden. Requires He3 production infrastructure.",
	},
	FuelPB11: {
		RequiredSubsystems: []string{"22.1.9"},
		DisabledSubsystems: []string{"22.5", "22.6", "23", "22.1.2"},
		CFModifier:         1.0,
		RegulatoryModifier: 1.0,
		Description: "p-B11 is aneutronic, enabling direct energy conversion. " +
			"No tritium handling, He3 production, or neutron shielding needed. " +
			"Minimal regulatory burden, but requires much higher plasma temperatures.",
	},
}

var confinementConstraints = map[ConfinementType]ConfinementConstraints{
	ConfinementMCF: {
		RequiredSubsystems: []string{"22.1.3"},
		DisabledSubsystems: []string{"22.1.8"},
		Description: "Magnetic confinement (tokamak, stellarator, etc.) uses " +
			"superconducting magnets to confine plasma.",
	},
	ConfinementICF: {
		RequiredSubsystems: []string{"22.1.8"},
		DisabledSubsystems: []string{"22.1.3"},
		Description: "Inertial confinement uses lasers or other drivers to " +
			"compress and heat fuel pellets.",
	},
}

// FuelConstraintsFor returns the constraint record for a fuel type.
func FuelConstraintsFor(ft FuelType) (FuelConstraints, bool) {
	fc, ok := fuelConstraints[ft]
	return fc, ok
}

// ConfinementConstraintsFor returns the constraint record for a confinement type.
func ConfinementConstraintsFor(ct ConfinementType) (ConfinementConstraints, bool) {
	cc, ok := confinementConstraints[ct]
	return cc, ok
}

// FuelTypes lists the supported fuel cycles in a stable order.
func FuelTypes() []FuelType {
	return []FuelType{FuelDT, FuelDHe3, FuelPB11}
}

// ConfinementTypes lists the supported confinement approaches in a stable order.
func ConfinementTypes() []ConfinementType {
	return []ConfinementType{ConfinementMCF, ConfinementICF}
}

// ApplyConstraints stamps Required/Disabled on every subsystem from the union
// of the fuel and confinement constraint sets. It returns new subsystem values;
// the input slice is never mutated, so a shared catalog can be annotated per
// request without cross-request leakage.
func ApplyConstraints(subsystems []Subsystem, ft FuelType, ct ConfinementType) []Subsystem {
	fc, _ := FuelConstraintsFor(ft)
	cc, _ := ConfinementConstraintsFor(ct)

	required := make(map[string]bool)
	disabled := make(map[string]bool)
	for _, account := range fc.RequiredSubsystems {
		required[account] = true
	}
	for _, account := range cc.RequiredSubsystems {
		required[account] = true
	}
	for _, account := range fc.DisabledSubsystems {
		disabled[account] = true
	}
	for _, account := range cc.DisabledSubsystems {
		disabled[account] = true
	}

	annotated := make([]Subsystem, len(subsystems))
	for i, s := range subsystems {
		s.Required = required[s.Account]
		s.Disabled = disabled[s.Account]
		annotated[i] = s
	}
	return annotated
}
