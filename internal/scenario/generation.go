// Procedural worlds from layered simplex noise. Regions sit on a ring in
// noise space; one layer sets population density, another sets how hard the
// outbreak has already hit.

package scenario

import (
	"fmt"
	"math"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/contagion/internal/entropy"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Regions       int     // Number of regions (2–64)
	Seed          int64   // Random seed (0 = random)
	MinPopulation int     // Smallest region population
	MaxPopulation int     // Largest region population
	SeedFraction  float64 // Mean share of each population infected at start
}

// DefaultGenConfig returns a world comparable in scale to BuiltIn.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Regions:       5,
		Seed:          0,
		MinPopulation: 500_000,
		MaxPopulation: 5_000_000,
		SeedFraction:  0.0001,
	}
}

// Validate reports the first problem with cfg.
func (cfg GenConfig) Validate() error {
	if cfg.Regions < 2 || cfg.Regions > 64 {
		return fmt.Errorf("regions must be between 2 and 64, got %d", cfg.Regions)
	}
	if cfg.MinPopulation <= 0 || cfg.MaxPopulation < cfg.MinPopulation {
		return fmt.Errorf("invalid population range [%d, %d]", cfg.MinPopulation, cfg.MaxPopulation)
	}
	if cfg.SeedFraction < 0 || cfg.SeedFraction > 0.5 {
		return fmt.Errorf("seed fraction must be within [0, 0.5], got %g", cfg.SeedFraction)
	}
	return nil
}

// Generate creates the region list for cfg. Equal non-zero seeds always
// produce the same world.
func Generate(cfg GenConfig) ([]RegionConfig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int64()
	}

	popNoise := opensimplex.NewNormalized(seed)
	hitNoise := opensimplex.NewNormalized(seed + 1)
	names := generateNames(entropy.NewSeeded(seed), cfg.Regions)

	const ringRadius = 4.0
	span := float64(cfg.MaxPopulation - cfg.MinPopulation)

	out := make([]RegionConfig, cfg.Regions)
	for i := range out {
		angle := 2 * math.Pi * float64(i) / float64(cfg.Regions)
		x := math.Cos(angle) * ringRadius
		y := math.Sin(angle) * ringRadius

		density := octaveNoise(popNoise, x, y, 3, 0.5, 0.5)
		pop := cfg.MinPopulation + int(density*span)

		// 0.5x to 1.5x the mean seed fraction.
		hit := octaveNoise(hitNoise, x, y, 2, 0.5, 0.5)
		infected := int(float64(pop) * cfg.SeedFraction * (0.5 + hit))
		if cfg.SeedFraction > 0 {
			infected = max(1, infected)
		}

		out[i] = RegionConfig{Name: names[i], Population: pop, InitialInfected: infected}
	}
	return out, nil
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// generateNames produces distinct region names by combining syllables.
func generateNames(rng entropy.Source, count int) []string {
	prefixes := []string{
		"North", "South", "East", "West", "Upper", "Lower", "Greater",
		"Outer", "Inner", "Central", "High", "Far", "Old", "New",
	}
	suffixes := []string{
		"land", "reach", "march", "shore", "vale", "coast", "mark",
		"fold", "moor", "ridge", "haven", "field", "isles", "wold",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)

	for len(names) < count {
		name := prefixes[rng.IntN(len(prefixes))] + suffixes[rng.IntN(len(suffixes))]
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}

	return names
}
