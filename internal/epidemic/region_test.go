package epidemic

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewRegionNormalDifficulty(t *testing.T) {
	r := NewRegion("America", 1_000_000, 150, DifficultyNormal)

	if r.S != 999_850 || r.I != 150 || r.E != 0 || r.R != 0 || r.Deaths != 0 {
		t.Fatalf("unexpected compartments: S=%v E=%v I=%v R=%v D=%v", r.S, r.E, r.I, r.R, r.Deaths)
	}
	if r.HospitalCapacity != 8000 {
		t.Errorf("HospitalCapacity = %v, want 8000", r.HospitalCapacity)
	}
	if r.Economy != 80 || r.Morale != 75 {
		t.Errorf("Economy/Morale = %v/%v, want 80/75", r.Economy, r.Morale)
	}
	if !r.AirportsOpen || !r.SchoolsOpen || r.MaskMandate || r.Quarantine {
		t.Errorf("unexpected initial policy flags: %+v", r.Stats())
	}
}

func TestNewRegionClampsInitialInfected(t *testing.T) {
	r := NewRegion("Tiny", 100, 500, DifficultyEasy)
	if r.S != 0 || r.I != 100 {
		t.Fatalf("S=%v I=%v, want 0 and 100", r.S, r.I)
	}
}

func TestStepSingleDayArithmetic(t *testing.T) {
	r := NewRegion("America", 1_000_000, 150, DifficultyNormal)
	r.Step(1)

	infection := 0.5 * 999_850 * 150 / 1_000_000
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"susceptible", r.S, 999_850 - infection},
		{"exposed", r.E, infection},
		{"infected", r.I, 150 - 19.5},
		{"recovered", r.R, 15},
		{"deaths", r.Deaths, 4.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !approxEqual(tt.got, tt.want, math.Abs(tt.want)*1e-6) {
				t.Errorf("%s = %.9f, want %.9f", tt.name, tt.got, tt.want)
			}
		})
	}
	if !approxEqual(infection, 74.98875, 1e-9) {
		t.Errorf("infection flow = %v, want 74.98875", infection)
	}
}

func TestStepFlowDirection(t *testing.T) {
	r := NewRegion("Europe", 1_800_000, 200, DifficultyExpert)
	s0, e0 := r.S, r.E
	r.Step(1)
	if r.S > s0 {
		t.Errorf("susceptibles grew: %v -> %v", s0, r.S)
	}
	if r.E < e0 {
		t.Errorf("exposed shrank: %v -> %v", e0, r.E)
	}
}

func TestStepHospitalOverloadAmplifiesMortality(t *testing.T) {
	r := NewRegion("Overloaded", 1_000_000, 0, DifficultyNormal)
	r.S = 0
	r.I = 16_000 // twice the 8000 capacity
	r.Step(1)

	// mu_eff = 0.03 * (1 + (16000-8000)/8000) = 0.06
	want := 0.06 * 16_000
	if !approxEqual(r.Deaths, want, 1e-9) {
		t.Errorf("Deaths = %v, want %v", r.Deaths, want)
	}
}

func TestStepEmptyRegionDoesNotDivideByZero(t *testing.T) {
	r := NewRegion("Empty", 0, 0, DifficultyNormal)
	r.Step(1)
	for _, v := range []float64{r.S, r.E, r.I, r.R, r.Deaths} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite compartment after step: %+v", r.Stats())
		}
	}
}

func TestStepClampingInvariants(t *testing.T) {
	r := NewRegion("Stress", 500_000, 50_000, DifficultyExpert)
	r.SetVaccinationRate(0.9)
	r.ApplyEvent(EffectNewVariant, 3)
	r.EconomyModifier = 1.8
	r.MoraleModifier = 0.2

	for day := 0; day < 200; day++ {
		r.Step(1)
		if r.S < 0 || r.E < 0 || r.I < 0 || r.R < 0 {
			t.Fatalf("day %d: negative compartment %+v", day, r.Stats())
		}
		if r.Economy < 0 || r.Economy > 100 || r.Morale < 0 || r.Morale > 100 {
			t.Fatalf("day %d: economy/morale out of range: %v/%v", day, r.Economy, r.Morale)
		}
	}
}

func TestStepModifiersDecayTowardNeutral(t *testing.T) {
	r := NewRegion("Decay", 1000, 0, DifficultyNormal)
	r.EconomyModifier = 0.5
	r.MoraleModifier = 1.5
	r.Step(1)

	if !approxEqual(r.EconomyModifier, 0.5+0.5*ModifierDecayRate, 1e-12) {
		t.Errorf("EconomyModifier = %v", r.EconomyModifier)
	}
	if !approxEqual(r.MoraleModifier, 1.5-0.5*ModifierDecayRate, 1e-12) {
		t.Errorf("MoraleModifier = %v", r.MoraleModifier)
	}
	for i := 0; i < 1000; i++ {
		r.Step(1)
	}
	if r.EconomyModifier <= 0 || !approxEqual(r.EconomyModifier, 1, 1e-6) {
		t.Errorf("EconomyModifier did not converge to 1: %v", r.EconomyModifier)
	}
}

func TestStepDoesNotDecayPersistentModifiers(t *testing.T) {
	r := NewRegion("Persistent", 1000, 10, DifficultyNormal)
	r.BetaModifier = 0.3
	r.GammaModifier = 1.2
	r.MuModifier = 0.7
	r.Step(1)
	if r.BetaModifier != 0.3 || r.GammaModifier != 1.2 || r.MuModifier != 0.7 {
		t.Errorf("persistent modifiers changed: %+v", r.Stats())
	}
}

func TestReceiveImportedInfections(t *testing.T) {
	tests := []struct {
		name  string
		s     float64
		n     float64
		wantS float64
		wantE float64
	}{
		{"partial", 100, 30, 70, 30},
		{"more than susceptibles", 100, 250, 0, 100},
		{"zero", 100, 0, 100, 0},
		{"negative ignored", 100, -5, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Region{S: tt.s}
			r.ReceiveImportedInfections(tt.n)
			if r.S != tt.wantS || r.E != tt.wantE {
				t.Errorf("S=%v E=%v, want S=%v E=%v", r.S, r.E, tt.wantS, tt.wantE)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range Difficulties() {
		got, err := ParseDifficulty(string(d))
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %q, %v", d, got, err)
		}
	}
	if got, _ := ParseDifficulty("EXPERT "); got != DifficultyExpert {
		t.Errorf("ParseDifficulty is not case-insensitive: %q", got)
	}
	if _, err := ParseDifficulty("nightmare"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}
