package epidemic

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty selects the parameter tables used for a whole session.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyExpert Difficulty = "expert"
)

// ErrUnknownDifficulty is returned by ParseDifficulty for unrecognized names.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty maps a case-insensitive name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyNormal, "":
		return DifficultyNormal, nil
	case DifficultyExpert:
		return DifficultyExpert, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// Difficulties lists every supported difficulty in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyExpert}
}

// Rates holds the epidemiological base rates of a region.
type Rates struct {
	Beta  float64 // transmission
	Sigma float64 // incubation (1 / incubation period)
	Gamma float64 // recovery
	Mu    float64 // baseline mortality
}

// Profile is the full per-difficulty parameterization.
type Profile struct {
	Rates Rates

	InitialEconomy       float64
	InitialMorale        float64
	HospitalCapacityRate float64 // beds per inhabitant

	FlightProbability   float64
	InfectionExportRate float64

	CostEconomyMultiplier float64
	CostMoraleMultiplier  float64
	EventProbabilityScale float64

	VaccinationRate    float64
	MaxDecisionsPerDay int
}

// ProfileFor returns the parameter profile for d. Unknown values fall back to normal.
func ProfileFor(d Difficulty) Profile {
	switch d {
	case DifficultyEasy:
		return Profile{
			Rates:                 Rates{Beta: 0.3, Sigma: 1 / 5.1, Gamma: 1.0 / 10, Mu: 0.02},
			InitialEconomy:        90,
			InitialMorale:         85,
			HospitalCapacityRate:  0.01,
			FlightProbability:     0.1,
			InfectionExportRate:   0.001,
			CostEconomyMultiplier: 0.7,
			CostMoraleMultiplier:  0.7,
			EventProbabilityScale: 0.7,
			VaccinationRate:       0.01,
			MaxDecisionsPerDay:    3,
		}
	case DifficultyExpert:
		return Profile{
			Rates:                 Rates{Beta: 0.7, Sigma: 1.0 / 4, Gamma: 1.0 / 12, Mu: 0.05},
			InitialEconomy:        70,
			InitialMorale:         65,
			HospitalCapacityRate:  0.005,
			FlightProbability:     0.2,
			InfectionExportRate:   0.003,
			CostEconomyMultiplier: 1.5,
			CostMoraleMultiplier:  1.3,
			EventProbabilityScale: 1.3,
			VaccinationRate:       0.005,
			MaxDecisionsPerDay:    1,
		}
	default:
		return Profile{
			Rates:                 Rates{Beta: 0.5, Sigma: 1 / 5.1, Gamma: 1.0 / 10, Mu: 0.03},
			InitialEconomy:        80,
			InitialMorale:         75,
			HospitalCapacityRate:  0.008,
			FlightProbability:     0.15,
			InfectionExportRate:   0.002,
			CostEconomyMultiplier: 1,
			CostMoraleMultiplier:  1,
			EventProbabilityScale: 1,
			VaccinationRate:       0.007,
			MaxDecisionsPerDay:    2,
		}
	}
}
