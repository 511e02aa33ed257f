package events

import (
	"log/slog"
	"sort"

	"github.com/talgya/contagion/internal/entropy"
	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/rules"
)

// SuppressionDays is how long an event stays silent after it fires.
const SuppressionDays = 30

// RecentWindow is the default look-back for Recent.
const RecentWindow = 7

// Record is one fired event. Region is set for single-region effects.
type Record struct {
	Day    int    `json:"day"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region *int   `json:"region,omitempty"`
}

// Registry rolls the catalog once per day and applies whatever fires.
type Registry struct {
	defs     []Definition
	rng      entropy.Source
	lastFire map[string]int
	history  []Record
}

// NewRegistry builds a registry over the built-in catalog with probabilities
// scaled for difficulty d.
func NewRegistry(d epidemic.Difficulty, rng entropy.Source) *Registry {
	scale := epidemic.ProfileFor(d).EventProbabilityScale
	defs := Catalog()
	for i := range defs {
		defs[i].Probability *= scale
	}
	return NewCustomRegistry(defs, rng)
}

// NewCustomRegistry builds a registry over defs, used exactly as given.
func NewCustomRegistry(defs []Definition, rng entropy.Source) *Registry {
	own := make([]Definition, len(defs))
	copy(own, defs)
	return &Registry{
		defs:     own,
		rng:      rng,
		lastFire: make(map[string]int),
	}
}

// Definitions returns the registry's (scaled) definitions.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

func (r *Registry) suppressed(id string, day int) bool {
	last, ok := r.lastFire[id]
	return ok && day-last < SuppressionDays
}

// Check rolls every eligible event for day. Each entry is an independent
// Bernoulli trial, so several can fire on the same day. Entries whose
// requirements fail or that fired within the suppression window consume no
// randomness.
func (r *Registry) Check(day int, regions []*epidemic.Region, stats epidemic.GlobalStats) []Record {
	ctx := rules.Context{Day: day, Stats: stats, Regions: regions}

	var fired []Record
	for _, def := range r.defs {
		if !def.Requirements.Eval(ctx) {
			continue
		}
		if r.suppressed(def.ID, day) {
			continue
		}
		if r.rng.Float64() >= def.Probability {
			continue
		}

		rec := Record{Day: day, ID: def.ID, Name: def.Name}
		if target, ok := r.apply(def, regions); ok {
			rec.Region = &target
		}
		r.lastFire[def.ID] = day
		r.history = append(r.history, rec)
		fired = append(fired, rec)

		slog.Info("event triggered", "day", day, "event", def.ID, "region", regionLabel(rec.Region, regions))
	}
	return fired
}

// apply mutates the affected regions. For single-region effects it returns
// the chosen index.
func (r *Registry) apply(def Definition, regions []*epidemic.Region) (int, bool) {
	if !def.Effect.Local() {
		for _, reg := range regions {
			reg.ApplyEvent(def.Effect, def.Intensity)
		}
		return 0, false
	}
	if len(regions) == 0 {
		return 0, false
	}

	idx := r.rng.IntN(len(regions))
	intensity := def.Intensity
	if def.Effect == epidemic.EffectLocalOutbreak {
		intensity *= 2
	}
	regions[idx].ApplyEvent(def.Effect, intensity)
	return idx, true
}

func regionLabel(idx *int, regions []*epidemic.Region) string {
	if idx == nil {
		return "all"
	}
	return regions[*idx].Name
}

// History returns every fired event in firing order.
func (r *Registry) History() []Record {
	out := make([]Record, len(r.history))
	copy(out, r.history)
	return out
}

// Recent returns events with day-window < Day <= day, newest first.
func (r *Registry) Recent(day, window int) []Record {
	var out []Record
	for _, rec := range r.history {
		if rec.Day <= day && day-rec.Day < window {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	return out
}
