package steward

import (
	"testing"

	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/epidemic"
)

const testPopulation = 1_000_000

func snap(day int, infected, economy, morale float64, regions ...epidemic.RegionStats) engine.Snapshot {
	return engine.Snapshot{
		Day: day,
		Global: epidemic.GlobalStats{
			TotalPopulation: testPopulation,
			Infected:        infected,
			Economy:         economy,
			Morale:          morale,
		},
		Regions: regions,
	}
}

// series builds one snapshot per infected count with fixed scores.
func series(economy, morale float64, infected ...float64) []engine.Snapshot {
	out := make([]engine.Snapshot, len(infected))
	for i, n := range infected {
		out[i] = snap(i+1, n, economy, morale)
	}
	return out
}

func TestTriageCrisisLevels(t *testing.T) {
	tests := []struct {
		name    string
		history []engine.Snapshot
		want    CrisisLevel
	}{
		{"empty", nil, CrisisHealthy},
		{"quiet", series(80, 80, 500, 500, 500, 500), CrisisHealthy},
		{"widespread", series(80, 80, 60_000), CrisisCritical},
		{"broke", series(25, 80, 100), CrisisCritical},
		{"demoralized", series(80, 29, 100), CrisisCritical},
		{"spreading", series(80, 80, 20_000, 20_000), CrisisWarning},
		{"doubling", series(80, 80, 100, 100, 100, 200), CrisisWarning},
		{"struggling economy", series(40, 80, 100), CrisisWarning},
		{"present", series(80, 80, 2_000, 2_000), CrisisWatch},
		{"creeping", series(80, 80, 100, 110), CrisisWatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Triage(tt.history).CrisisLevel; got != tt.want {
				t.Errorf("CrisisLevel = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTriageGrowth(t *testing.T) {
	h := Triage(series(80, 80, 100, 120, 150, 200, 400))
	// Compared with three days earlier: 400 / 120.
	if !approx(h.Growth, 400.0/120.0) {
		t.Errorf("Growth = %v", h.Growth)
	}

	h = Triage(series(80, 80, 0, 0, 0, 10))
	if h.Growth != maxGrowth {
		t.Errorf("Growth from zero = %v, want cap %v", h.Growth, maxGrowth)
	}

	h = Triage(series(80, 80, 0, 0))
	if h.Growth != 1 {
		t.Errorf("Growth with no infection = %v, want 1", h.Growth)
	}
}

func TestTriagePointsAtRegions(t *testing.T) {
	regions := []epidemic.RegionStats{
		{Population: 1000, Infected: 10, Economy: 70, Morale: 20},
		{Population: 1000, Infected: 90, Economy: 60, Morale: 50},
		{Population: 1000, Infected: 30, Economy: 15, Morale: 60},
	}
	h := Triage([]engine.Snapshot{snap(4, 130, 48, 43, regions...)})
	if h.Day != 4 {
		t.Errorf("Day = %d", h.Day)
	}
	if h.WorstRegion != 1 || h.PoorestRegion != 2 || h.SaddestRegion != 0 {
		t.Errorf("worst=%d poorest=%d saddest=%d", h.WorstRegion, h.PoorestRegion, h.SaddestRegion)
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
