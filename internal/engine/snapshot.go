package engine

import "github.com/talgya/contagion/internal/epidemic"

// Snapshot is the immutable record of one day.
type Snapshot struct {
	Day     int                    `json:"day"`
	Global  GlobalStats            `json:"global"`
	Regions []epidemic.RegionStats `json:"regions"`
}

func (s *Simulation) snapshot(day int) Snapshot {
	return Snapshot{
		Day:     day,
		Global:  s.GlobalStats(),
		Regions: s.RegionStats(),
	}
}

// Severity buckets an infected fraction for display.
type Severity uint8

const (
	SeverityMinimal Severity = iota
	SeverityLow
	SeverityModerate
	SeverityHigh
	SeveritySevere
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityMinimal:
		return "minimal"
	case SeverityLow:
		return "low"
	case SeverityModerate:
		return "moderate"
	case SeverityHigh:
		return "high"
	case SeveritySevere:
		return "severe"
	default:
		return "critical"
	}
}

// SeverityOf maps an infected fraction to its band: below 0.1%, 0.5%, 1%,
// 3%, 5%, or above.
func SeverityOf(fraction float64) Severity {
	switch {
	case fraction < 0.001:
		return SeverityMinimal
	case fraction < 0.005:
		return SeverityLow
	case fraction < 0.01:
		return SeverityModerate
	case fraction < 0.03:
		return SeverityHigh
	case fraction < 0.05:
		return SeveritySevere
	default:
		return SeverityCritical
	}
}
