package steward

import (
	"github.com/talgya/contagion/internal/engine"
)

// CrisisLevel grades how urgently the world needs a hand.
type CrisisLevel string

const (
	CrisisCritical CrisisLevel = "CRITICAL"
	CrisisWarning  CrisisLevel = "WARNING"
	CrisisWatch    CrisisLevel = "WATCH"
	CrisisHealthy  CrisisLevel = "HEALTHY"
)

const (
	trendWindow = 3
	maxGrowth   = 10.0

	criticalFraction = 0.05
	criticalScore    = 30
	warningFraction  = 0.01
	warningGrowth    = 1.5
	warningScore     = 45
	watchFraction    = 0.001
)

// Health holds the diagnostic signals derived from a session's history.
// Deterministic and cheap, computed before every decision.
type Health struct {
	Day              int         `json:"day"`
	InfectedFraction float64     `json:"infected_fraction"`
	Growth           float64     `json:"growth"` // infected now over infected trendWindow days ago
	DeathRate        float64     `json:"death_rate"`
	Economy          float64     `json:"economy"`
	Morale           float64     `json:"morale"`
	WorstRegion      int         `json:"worst_region"`   // highest infected fraction
	PoorestRegion    int         `json:"poorest_region"` // lowest economy
	SaddestRegion    int         `json:"saddest_region"` // lowest morale
	CrisisLevel      CrisisLevel `json:"crisis_level"`
}

// Triage computes Health from the latest snapshots. An empty history is
// reported as healthy with no regions to point at.
func Triage(history []engine.Snapshot) *Health {
	h := &Health{CrisisLevel: CrisisHealthy, Growth: 1}
	if len(history) == 0 {
		return h
	}

	last := history[len(history)-1]
	g := last.Global
	h.Day = last.Day
	h.InfectedFraction = g.InfectedFraction()
	h.DeathRate = g.DeathRate()
	h.Economy = g.Economy
	h.Morale = g.Morale

	// Growth over the trend window. A zero base that has started spreading
	// is capped rather than infinite so the value stays encodable.
	older := history[max(0, len(history)-1-trendWindow)]
	switch {
	case older.Global.Infected > 0:
		h.Growth = min(g.Infected/older.Global.Infected, maxGrowth)
	case g.Infected > 0:
		h.Growth = maxGrowth
	}

	worst, poorest, saddest := -1.0, 101.0, 101.0
	for i, r := range last.Regions {
		frac := 0.0
		if r.Population > 0 {
			frac = r.Infected / float64(r.Population)
		}
		if frac > worst {
			worst, h.WorstRegion = frac, i
		}
		if r.Economy < poorest {
			poorest, h.PoorestRegion = r.Economy, i
		}
		if r.Morale < saddest {
			saddest, h.SaddestRegion = r.Morale, i
		}
	}

	switch {
	case h.InfectedFraction > criticalFraction:
		h.CrisisLevel = CrisisCritical
	case h.Economy < criticalScore || h.Morale < criticalScore:
		h.CrisisLevel = CrisisCritical
	case h.InfectedFraction > warningFraction || h.Growth > warningGrowth:
		h.CrisisLevel = CrisisWarning
	case h.Economy < warningScore || h.Morale < warningScore:
		h.CrisisLevel = CrisisWarning
	case h.InfectedFraction > watchFraction || h.Growth > 1:
		h.CrisisLevel = CrisisWatch
	}

	return h
}
