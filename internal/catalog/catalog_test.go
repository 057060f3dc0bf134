package catalog

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/onecent-fusion/backend/internal/db"
	"github.com/onecent-fusion/backend/internal/lcoe"
	"github.com/onecent-fusion/backend/internal/migrations"
	"github.com/onecent-fusion/backend/internal/seed"
)

func TestLoadReturnsSeededCatalog(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "catalog-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := seed.Run(database); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	subsystems, err := Load(database)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	if len(subsystems) != len(seed.DefaultCatalog()) {
		t.Fatalf("expected %d subsystems, got %d", len(seed.DefaultCatalog()), len(subsystems))
	}
	if !sort.SliceIsSorted(subsystems, func(i, j int) bool {
		return subsystems[i].Account < subsystems[j].Account
	}) {
		t.Fatalf("expected subsystems ordered by account code")
	}

	var magnets *lcoe.Subsystem
	for i := range subsystems {
		if subsystems[i].Account == "22.1.3" {
			magnets = &subsystems[i]
		}
		if subsystems[i].Required || subsystems[i].Disabled {
			t.Fatalf("catalog rows must come back unconstrained: %+v", subsystems[i])
		}
	}
	if magnets == nil {
		t.Fatalf("magnet systems missing from catalog")
	}
	if magnets.CapitalCost != 800 || magnets.TRL != 6 {
		t.Fatalf("unexpected magnet row: %+v", magnets)
	}
}

func TestMergeWithoutOverridesReturnsDefaults(t *testing.T) {
	t.Parallel()

	defaults := seed.DefaultCatalog()
	merged := Merge(defaults, nil)

	if len(merged) != len(defaults) {
		t.Fatalf("expected full catalog back, got %d of %d", len(merged), len(defaults))
	}
}

func TestMergeKeepsOnlyOverriddenAccounts(t *testing.T) {
	t.Parallel()

	defaults := seed.DefaultCatalog()
	merged := Merge(defaults, []Override{
		{Account: "23", CapitalCost: 999, FixedOM: 5, VariableOM: 1.1},
		{Account: "22.1.3", CapitalCost: 700, FixedOM: 18},
	})

	if len(merged) != 2 {
		t.Fatalf("expected 2 subsystems, got %d", len(merged))
	}

	// Override order is preserved.
	if merged[0].Account != "23" || merged[1].Account != "22.1.3" {
		t.Fatalf("unexpected order: %s, %s", merged[0].Account, merged[1].Account)
	}

	// Costs come from the override, everything else from the catalog row.
	if merged[0].CapitalCost != 999 || merged[0].VariableOM != 1.1 {
		t.Fatalf("override costs not applied: %+v", merged[0])
	}
	if merged[0].Name == "" || merged[0].TRL == 0 {
		t.Fatalf("catalog fields lost in merge: %+v", merged[0])
	}
	if merged[1].CapitalCost != 700 || merged[1].TRL != 6 {
		t.Fatalf("unexpected magnet row after merge: %+v", merged[1])
	}
}

func TestMergeDropsUnknownAccounts(t *testing.T) {
	t.Parallel()

	merged := Merge(seed.DefaultCatalog(), []Override{
		{Account: "99.9", CapitalCost: 100},
		{Account: "23", CapitalCost: 400},
	})

	if len(merged) != 1 {
		t.Fatalf("expected the unknown account to be dropped, got %d rows", len(merged))
	}
	if merged[0].Account != "23" {
		t.Fatalf("unexpected account %s", merged[0].Account)
	}
}
