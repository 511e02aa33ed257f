package engine

import (
	"testing"

	"github.com/talgya/contagion/internal/entropy"
	"github.com/talgya/contagion/internal/epidemic"
)

func twoRegions() []*epidemic.Region {
	src := epidemic.NewRegion("Source", 1_000_000, 10_000, epidemic.DifficultyNormal)
	dst := epidemic.NewRegion("Destination", 1_000_000, 0, epidemic.DifficultyNormal)
	return []*epidemic.Region{src, dst}
}

func TestSpreadIsNonConserving(t *testing.T) {
	regions := twoRegions()
	// Pair (0,1): flight roll 0 triggers, size roll 0.5 exports
	// floor(10000 * 0.002 * 0.5) = 10. Pair (1,0) is skipped, I=0.
	sim := NewSimulation(regions, epidemic.DifficultyNormal, entropy.Fixed(0, 0.5))
	sim.SimulateInternationalSpread()

	if regions[1].E != 10 || regions[1].S != 999_990 {
		t.Errorf("destination E=%v S=%v, want 10 and 999990", regions[1].E, regions[1].S)
	}
	if regions[0].I != 10_000 {
		t.Errorf("source I changed to %v; exports must not be subtracted", regions[0].I)
	}
}

func TestSpreadRespectsFlightProbability(t *testing.T) {
	regions := twoRegions()
	sim := NewSimulation(regions, epidemic.DifficultyNormal, entropy.Fixed(0.15))
	sim.SimulateInternationalSpread()
	if regions[1].E != 0 {
		t.Errorf("roll at the flight probability must not export, E=%v", regions[1].E)
	}
}

func TestSpreadBlockedByClosedAirports(t *testing.T) {
	tests := []struct {
		name   string
		closed int
	}{
		{"source closed", 0},
		{"destination closed", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regions := twoRegions()
			regions[tt.closed].ApplyDecision(epidemic.DecisionCloseAirports, true)
			sim := NewSimulation(regions, epidemic.DifficultyNormal, entropy.Fixed(0, 0.9))
			sim.SimulateInternationalSpread()
			if regions[1].E != 0 {
				t.Errorf("infections crossed closed airports: E=%v", regions[1].E)
			}
		})
	}
}

func TestSpreadZeroExportSkipped(t *testing.T) {
	regions := twoRegions()
	regions[0].I = 100 // floor(100 * 0.002 * 0.99) = 0
	sim := NewSimulation(regions, epidemic.DifficultyNormal, entropy.Fixed(0, 0.99))
	sim.SimulateInternationalSpread()
	if regions[1].E != 0 {
		t.Errorf("E=%v, want 0", regions[1].E)
	}
}

func TestSimulationStepAdvancesEveryRegion(t *testing.T) {
	regions := []*epidemic.Region{
		epidemic.NewRegion("A", 1_000_000, 150, epidemic.DifficultyNormal),
		epidemic.NewRegion("B", 1_000_000, 150, epidemic.DifficultyNormal),
	}
	// Rolls of 0.99 never trigger a flight.
	sim := NewSimulation(regions, epidemic.DifficultyNormal, entropy.Fixed(0.99))
	sim.Step()
	for _, r := range regions {
		if r.Deaths != 4.5 {
			t.Errorf("%s deaths = %v, want 4.5", r.Name, r.Deaths)
		}
	}
	if g := sim.GlobalStats(); g.Deaths != 9 || g.TotalPopulation != 2_000_000 {
		t.Errorf("global stats = %+v", g)
	}
}
