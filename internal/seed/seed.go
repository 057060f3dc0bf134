// Package seed populates the subsystem catalog with the default plant cost
// breakdown. Seeding is idempotent: existing accounts are never overwritten,
// so operator edits to the catalog survive restarts.
package seed

import (
	"database/sql"
	"fmt"

	"github.com/onecent-fusion/backend/internal/lcoe"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// defaultCatalog is the baseline cost breakdown, one row per FCC-style
// account. Costs are $M (capital), $M/yr (fixed O&M), and $/MWh (variable).
var defaultCatalog = []lcoe.Subsystem{
	{Account: "21", Name: "Structures & site", CapitalCost: 450, FixedOM: 8, TRL: 9, LearningRatio: 1.3,
		Description: "Buildings, site works, and improvements"},
	{Account: "22.1.1", Name: "First wall & blanket", CapitalCost: 600, FixedOM: 25, TRL: 4, LearningRatio: 8.0,
		Description: "Plasma-facing components and breeding blanket"},
	{Account: "22.1.2", Name: "Neutron shielding", CapitalCost: 200, FixedOM: 5, TRL: 6, LearningRatio: 4.0,
		Description: "Neutron shield protecting coils and structures"},
	{Account: "22.1.3", Name: "Magnets", CapitalCost: 800, FixedOM: 20, TRL: 6, LearningRatio: 12.0,
		Description: "Superconducting magnet systems"},
	{Account: "22.1.4", Name: "Auxiliary heating & current drive", CapitalCost: 350, FixedOM: 15, TRL: 5, LearningRatio: 10.0,
		Description: "RF and neutral beam heating systems"},
	{Account: "22.1.8", Name: "Laser / pellet driver", CapitalCost: 900, FixedOM: 30, TRL: 4, LearningRatio: 15.0,
		Description: "Driver and target systems for inertial confinement"},
	{Account: "22.1.9", Name: "Direct energy conversion", CapitalCost: 450, FixedOM: 12, TRL: 3, LearningRatio: 14.0,
		Description: "Direct electrostatic conversion of charged-particle energy"},
	{Account: "22.2", Name: "Primary heat transfer", CapitalCost: 250, FixedOM: 8, TRL: 7, LearningRatio: 3.0,
		Description: "Primary coolant loops and heat exchangers"},
	{Account: "22.5", Name: "Tritium plant", CapitalCost: 500, FixedOM: 15, TRL: 5, LearningRatio: 10.0,
		Description: "Tritium breeding, extraction, and handling"},
	{Account: "22.6", Name: "He3 supply", CapitalCost: 400, FixedOM: 20, TRL: 2, LearningRatio: 6.0,
		Description: "Helium-3 production and procurement infrastructure"},
	{Account: "23", Name: "Turbine plant", CapitalCost: 400, FixedOM: 12, VariableOM: 0.5, TRL: 9, LearningRatio: 2.0,
		Description: "Steam turbine and generator equipment"},
	{Account: "24-26", Name: "Balance of plant", CapitalCost: 350, FixedOM: 10, VariableOM: 0.3, TRL: 9, LearningRatio: 1.5,
		Description: "Electric plant, heat rejection, and miscellaneous equipment"},
}

// DefaultCatalog returns a copy of the baseline cost breakdown.
func DefaultCatalog() []lcoe.Subsystem {
	out := make([]lcoe.Subsystem, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, s := range defaultCatalog {
		if err := ensureSubsystem(tx, s, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSubsystem(tx *sql.Tx, s lcoe.Subsystem, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM subsystems WHERE account = ? LIMIT 1)`, s.Account).Scan(&exists); err != nil {
		return fmt.Errorf("check subsystem %s existence: %w", s.Account, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO subsystems (account, name, capital_cost, fixed_om, variable_om, trl, learning_ratio, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.Account, s.Name, s.CapitalCost, s.FixedOM, s.VariableOM, s.TRL, s.LearningRatio, s.Description); err != nil {
		return fmt.Errorf("insert subsystem %s: %w", s.Account, err)
	}
	stats.Inserts++
	return nil
}
