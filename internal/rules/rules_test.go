package rules

import (
	"testing"

	"github.com/talgya/contagion/internal/epidemic"
)

func TestPredicateEval(t *testing.T) {
	calm := epidemic.NewRegion("Calm", 1000, 0, epidemic.DifficultyNormal)
	locked := epidemic.NewRegion("Locked", 1000, 0, epidemic.DifficultyNormal)
	locked.ApplyDecision(epidemic.DecisionQuarantine, true)

	ctx := Context{
		Day:     30,
		Stats:   epidemic.GlobalStats{Economy: 45, Morale: 60, Infected: 1200},
		Regions: []*epidemic.Region{calm, locked},
	}

	tests := []struct {
		name string
		p    Predicate
		want bool
	}{
		{"day reached", DayAtLeast(30), true},
		{"day not reached", DayAtLeast(31), false},
		{"economy below", EconomyBelow(50), true},
		{"economy below is strict", EconomyBelow(45), false},
		{"economy above", EconomyAbove(40), true},
		{"economy above is strict", EconomyAbove(45), false},
		{"morale below", MoraleBelow(50), false},
		{"infected above", InfectedAbove(1000), true},
		{"infected above is strict", InfectedAbove(1200), false},
		{"quarantine somewhere", RegionFlag(epidemic.FlagQuarantine), true},
		{"masks nowhere", RegionFlag(epidemic.FlagMaskMandate), false},
		{"one region not quarantined", RegionWithout(epidemic.FlagQuarantine), true},
		{"unknown kind", Predicate{Kind: Kind(99)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Eval(ctx); got != tt.want {
				t.Errorf("%s: Eval = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestSetEval(t *testing.T) {
	ctx := Context{Day: 45, Stats: epidemic.GlobalStats{Economy: 80}}

	if !(Set{}).Eval(ctx) {
		t.Error("empty set must hold")
	}
	if !(Set{DayAtLeast(45), EconomyAbove(50)}).Eval(ctx) {
		t.Error("expected both predicates to hold")
	}
	if (Set{DayAtLeast(45), EconomyBelow(50)}).Eval(ctx) {
		t.Error("conjunction must fail when one predicate fails")
	}
}

func TestSetString(t *testing.T) {
	s := Set{DayAtLeast(30), InfectedAbove(1000)}
	if got, want := s.String(), "day >= 30, infected > 1000"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := (Set{}).String(); got != "none" {
		t.Errorf("empty String() = %q", got)
	}
	if got := RegionFlag(epidemic.FlagSchoolsClosed).String(); got != "any region schools_closed" {
		t.Errorf("flag String() = %q", got)
	}
}

func TestRegionWithoutAllCovered(t *testing.T) {
	a := epidemic.NewRegion("A", 1000, 0, epidemic.DifficultyNormal)
	b := epidemic.NewRegion("B", 1000, 0, epidemic.DifficultyNormal)
	ctx := Context{Regions: []*epidemic.Region{a, b}}
	p := RegionWithout(epidemic.FlagAirportsClosed)

	if !p.Eval(ctx) {
		t.Fatal("open airports not detected")
	}
	a.ApplyDecision(epidemic.DecisionCloseAirports, true)
	if !p.Eval(ctx) {
		t.Error("one open region should still satisfy the predicate")
	}
	b.ApplyDecision(epidemic.DecisionCloseAirports, true)
	if p.Eval(ctx) {
		t.Error("predicate holds with airports closed everywhere")
	}
	if got := p.String(); got != "some region without airports_closed" {
		t.Errorf("String() = %q", got)
	}
}
