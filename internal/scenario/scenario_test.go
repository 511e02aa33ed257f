package scenario

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuiltIn(t *testing.T) {
	regions := BuiltIn()
	if len(regions) != 3 {
		t.Fatalf("got %d regions", len(regions))
	}
	if regions[2].Population != 4_500_000 || regions[2].InitialInfected != 300 {
		t.Errorf("unexpected third region: %+v", regions[2])
	}
	if err := Validate(regions); err != nil {
		t.Errorf("built-in world invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		configs []RegionConfig
		wantErr bool
	}{
		{"empty", nil, true},
		{"missing name", []RegionConfig{{Population: 10}}, true},
		{"zero population", []RegionConfig{{Name: "A"}}, true},
		{"negative infected", []RegionConfig{{Name: "A", Population: 10, InitialInfected: -1}}, true},
		{"infected above population", []RegionConfig{{Name: "A", Population: 10, InitialInfected: 50}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.configs); (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if err := Validate(nil); !errors.Is(err, ErrNoRegions) {
		t.Errorf("empty world err = %v, want ErrNoRegions", err)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 42

	a, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different worlds:\n%v\n%v", a, b)
	}
}

func TestGenerateRespectsBounds(t *testing.T) {
	cfg := GenConfig{Regions: 12, Seed: 7, MinPopulation: 100_000, MaxPopulation: 200_000, SeedFraction: 0.001}
	regions, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(regions) != 12 {
		t.Fatalf("got %d regions", len(regions))
	}
	names := make(map[string]bool)
	for _, r := range regions {
		if r.Population < cfg.MinPopulation || r.Population > cfg.MaxPopulation {
			t.Errorf("%s population %d out of range", r.Name, r.Population)
		}
		if r.InitialInfected < 1 || r.InitialInfected > r.Population {
			t.Errorf("%s initial infected %d", r.Name, r.InitialInfected)
		}
		if names[r.Name] {
			t.Errorf("duplicate name %s", r.Name)
		}
		names[r.Name] = true
	}
	if err := Validate(regions); err != nil {
		t.Errorf("generated world invalid: %v", err)
	}
}

func TestGenConfigValidate(t *testing.T) {
	bad := []GenConfig{
		{Regions: 1, MinPopulation: 1, MaxPopulation: 2},
		{Regions: 65, MinPopulation: 1, MaxPopulation: 2},
		{Regions: 3, MinPopulation: 0, MaxPopulation: 2},
		{Regions: 3, MinPopulation: 5, MaxPopulation: 2},
		{Regions: 3, MinPopulation: 1, MaxPopulation: 2, SeedFraction: 0.9},
	}
	for _, cfg := range bad {
		if _, err := Generate(cfg); err == nil {
			t.Errorf("Generate(%+v) accepted an invalid config", cfg)
		}
	}
}
