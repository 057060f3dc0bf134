// Package catalog reads the default subsystem catalog from the database and
// merges caller-supplied cost overrides onto it.
package catalog

import (
	"database/sql"
	"fmt"

	"github.com/onecent-fusion/backend/internal/lcoe"
)

// Override is the caller-editable subset of a subsystem: costs only, keyed by
// account. Everything else comes from the catalog row.
type Override struct {
	Account     string  `json:"account"`
	CapitalCost float64 `json:"absolute_capital_cost"`
	FixedOM     float64 `json:"absolute_fixed_om"`
	VariableOM  float64 `json:"variable_om"`
}

// Load returns every catalog subsystem ordered by account code. Required and
// Disabled are left unset; the constraint annotation pass derives them per
// request.
func Load(db *sql.DB) ([]lcoe.Subsystem, error) {
	rows, err := db.Query(`
		SELECT account, name, capital_cost, fixed_om, variable_om, trl, learning_ratio, COALESCE(description, '')
		FROM subsystems
		ORDER BY account
	`)
	if err != nil {
		return nil, fmt.Errorf("query subsystems: %w", err)
	}
	defer rows.Close()

	subsystems := make([]lcoe.Subsystem, 0)
	for rows.Next() {
		var s lcoe.Subsystem
		if err := rows.Scan(&s.Account, &s.Name, &s.CapitalCost, &s.FixedOM, &s.VariableOM, &s.TRL, &s.LearningRatio, &s.Description); err != nil {
			return nil, fmt.Errorf("scan subsystem: %w", err)
		}
		subsystems = append(subsystems, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subsystems: %w", err)
	}

	return subsystems, nil
}

// Merge applies cost overrides to the defaults. With no overrides the full
// catalog is returned; otherwise only the overridden accounts survive, in
// override order, and accounts unknown to the catalog are dropped.
func Merge(defaults []lcoe.Subsystem, overrides []Override) []lcoe.Subsystem {
	if len(overrides) == 0 {
		return defaults
	}

	byAccount := make(map[string]lcoe.Subsystem, len(defaults))
	for _, s := range defaults {
		byAccount[s.Account] = s
	}

	merged := make([]lcoe.Subsystem, 0, len(overrides))
	for _, o := range overrides {
		base, ok := byAccount[o.Account]
		if !ok {
			continue
		}
		base.CapitalCost = o.CapitalCost
		base.FixedOM = o.FixedOM
		base.VariableOM = o.VariableOM
		merged = append(merged, base)
	}
	return merged
}
