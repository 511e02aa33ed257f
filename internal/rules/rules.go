// Package rules evaluates the eligibility requirements attached to
// interventions and events.
package rules

import (
	"fmt"
	"strings"

	"github.com/talgya/contagion/internal/epidemic"
)

// Kind selects which quantity a predicate tests.
type Kind uint8

const (
	KindDayAtLeast Kind = iota
	KindEconomyBelow
	KindEconomyAbove
	KindMoraleBelow
	KindInfectedAbove
	KindRegionFlag
	KindRegionWithoutFlag
)

// Predicate is a single requirement. Threshold is ignored for the two flag
// kinds and Flag is ignored for every other kind.
type Predicate struct {
	Kind      Kind
	Threshold float64
	Flag      epidemic.Flag
}

// DayAtLeast holds from day n onward.
func DayAtLeast(n int) Predicate {
	return Predicate{Kind: KindDayAtLeast, Threshold: float64(n)}
}

// EconomyBelow holds while the global economy is strictly below x.
func EconomyBelow(x float64) Predicate {
	return Predicate{Kind: KindEconomyBelow, Threshold: x}
}

// EconomyAbove holds while the global economy is strictly above x.
func EconomyAbove(x float64) Predicate {
	return Predicate{Kind: KindEconomyAbove, Threshold: x}
}

// MoraleBelow holds while global morale is strictly below x.
func MoraleBelow(x float64) Predicate {
	return Predicate{Kind: KindMoraleBelow, Threshold: x}
}

// InfectedAbove holds while the global infected count exceeds n.
func InfectedAbove(n float64) Predicate {
	return Predicate{Kind: KindInfectedAbove, Threshold: n}
}

// RegionFlag holds while at least one region has policy f in force.
func RegionFlag(f epidemic.Flag) Predicate {
	return Predicate{Kind: KindRegionFlag, Flag: f}
}

// RegionWithout holds while at least one region does not have policy f.
func RegionWithout(f epidemic.Flag) Predicate {
	return Predicate{Kind: KindRegionWithoutFlag, Flag: f}
}

// Context is the world state a predicate is evaluated against. Regions is
// only read.
type Context struct {
	Day     int
	Stats   epidemic.GlobalStats
	Regions []*epidemic.Region
}

// Eval reports whether p holds in ctx.
func (p Predicate) Eval(ctx Context) bool {
	switch p.Kind {
	case KindDayAtLeast:
		return float64(ctx.Day) >= p.Threshold
	case KindEconomyBelow:
		return ctx.Stats.Economy < p.Threshold
	case KindEconomyAbove:
		return ctx.Stats.Economy > p.Threshold
	case KindMoraleBelow:
		return ctx.Stats.Morale < p.Threshold
	case KindInfectedAbove:
		return ctx.Stats.Infected > p.Threshold
	case KindRegionFlag:
		return epidemic.AnyRegion(ctx.Regions, p.Flag)
	case KindRegionWithoutFlag:
		return epidemic.AnyRegionWithout(ctx.Regions, p.Flag)
	default:
		return false
	}
}

func (p Predicate) String() string {
	switch p.Kind {
	case KindDayAtLeast:
		return fmt.Sprintf("day >= %g", p.Threshold)
	case KindEconomyBelow:
		return fmt.Sprintf("economy < %g", p.Threshold)
	case KindEconomyAbove:
		return fmt.Sprintf("economy > %g", p.Threshold)
	case KindMoraleBelow:
		return fmt.Sprintf("morale < %g", p.Threshold)
	case KindInfectedAbove:
		return fmt.Sprintf("infected > %g", p.Threshold)
	case KindRegionFlag:
		return "any region " + p.Flag.String()
	case KindRegionWithoutFlag:
		return "some region without " + p.Flag.String()
	default:
		return "unknown"
	}
}

// Set is a conjunction of predicates. The empty set always holds.
type Set []Predicate

// Eval reports whether every predicate in s holds.
func (s Set) Eval(ctx Context) bool {
	for _, p := range s {
		if !p.Eval(ctx) {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	if len(s) == 0 {
		return "none"
	}
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
