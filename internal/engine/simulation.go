// Simulation ties the regions together and runs them each day.

package engine

import (
	"math"

	"github.com/talgya/contagion/internal/entropy"
	"github.com/talgya/contagion/internal/epidemic"
)

// GlobalStats aggregates every region of a session.
type GlobalStats = epidemic.GlobalStats

// Simulation owns the fixed region list and the cross-region spread model.
type Simulation struct {
	Regions []*epidemic.Region

	FlightProbability float64 // Chance per ordered pair per day of an infected flight
	ExportRate        float64 // Share of source I that one flight can seed

	rng entropy.Source
}

// NewSimulation creates a Simulation over regions with the spread
// parameters of difficulty d.
func NewSimulation(regions []*epidemic.Region, d epidemic.Difficulty, rng entropy.Source) *Simulation {
	p := epidemic.ProfileFor(d)
	return &Simulation{
		Regions:           regions,
		FlightProbability: p.FlightProbability,
		ExportRate:        p.InfectionExportRate,
		rng:               rng,
	}
}

// Step advances every region one day, then rolls international spread.
// Regions never read each other's state while stepping.
func (s *Simulation) Step() {
	for _, r := range s.Regions {
		r.Step(1)
	}
	s.SimulateInternationalSpread()
}

// SimulateInternationalSpread rolls one flight per ordered pair of regions
// whose airports are open. Exported infections are not removed from the
// source: only the destination's S→E transfer happens.
func (s *Simulation) SimulateInternationalSpread() {
	for i, src := range s.Regions {
		if !src.CanExport() {
			continue
		}
		for j, dst := range s.Regions {
			if i == j || !dst.AirportsOpen {
				continue
			}
			if s.rng.Float64() >= s.FlightProbability {
				continue
			}
			export := math.Floor(src.I * s.ExportRate * s.rng.Float64())
			if export > 0 {
				dst.ReceiveImportedInfections(export)
			}
		}
	}
}

// GlobalStats sums all regions.
func (s *Simulation) GlobalStats() GlobalStats {
	return epidemic.Aggregate(s.Regions)
}

// RegionStats captures every region in order.
func (s *Simulation) RegionStats() []epidemic.RegionStats {
	out := make([]epidemic.RegionStats, len(s.Regions))
	for i, r := range s.Regions {
		out[i] = r.Stats()
	}
	return out
}
