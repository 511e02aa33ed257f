// Package scenario describes the regions a session starts with: the built-in
// three-continent world or a procedurally generated one.
package scenario

import (
	"errors"
	"fmt"
)

// RegionConfig is the starting state of one region.
type RegionConfig struct {
	Name            string `json:"name" mapstructure:"name"`
	Population      int    `json:"population" mapstructure:"population"`
	InitialInfected int    `json:"initial_infected" mapstructure:"initial_infected"`
}

var ErrNoRegions = errors.New("scenario has no regions")

// BuiltIn returns the default three-continent world.
func BuiltIn() []RegionConfig {
	return []RegionConfig{
		{Name: "América", Population: 1_000_000, InitialInfected: 150},
		{Name: "Europa-África", Population: 1_800_000, InitialInfected: 200},
		{Name: "Asia-Oceanía", Population: 4_500_000, InitialInfected: 300},
	}
}

// Validate checks that configs describe a playable world. Initial infected
// counts above the population are allowed; the region clamps them.
func Validate(configs []RegionConfig) error {
	if len(configs) == 0 {
		return ErrNoRegions
	}
	for i, c := range configs {
		if c.Name == "" {
			return fmt.Errorf("region %d: name is required", i)
		}
		if c.Population <= 0 {
			return fmt.Errorf("region %q: population must be positive, got %d", c.Name, c.Population)
		}
		if c.InitialInfected < 0 {
			return fmt.Errorf("region %q: initial infected must not be negative, got %d", c.Name, c.InitialInfected)
		}
	}
	return nil
}
