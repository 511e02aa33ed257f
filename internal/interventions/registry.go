package interventions

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/contagion/internal/entropy"
	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/rules"
)

// MaxOffered caps how many interventions are offered on a single day.
const MaxOffered = 3

// neverUsed is the last-used day of an intervention that was never applied.
const neverUsed = -999

var (
	ErrUnknownIntervention = errors.New("unknown intervention")
	ErrQuotaExhausted      = errors.New("daily decision quota exhausted")
	ErrOnCooldown          = errors.New("intervention on cooldown")
	ErrTargetRequired      = errors.New("intervention requires a target region")
	ErrInvalidRegion       = errors.New("invalid region index")
	ErrNoEffect            = errors.New("policy already in force")
)

// Record is one applied intervention. Target is nil for global entries.
type Record struct {
	Day    int    `json:"day"`
	ID     string `json:"id"`
	Target *int   `json:"target,omitempty"`
}

// Registry is the per-session intervention state: difficulty-scaled costs,
// cooldowns, the daily quota and the application history. It never retains
// the region slice passed to its methods.
type Registry struct {
	defs     []Definition
	byID     map[string]int
	profile  epidemic.Profile
	rng      entropy.Source
	lastUsed map[string]int

	day       int
	usedToday int
	history   []Record
}

// NewRegistry builds a registry whose costs are scaled for difficulty d.
func NewRegistry(d epidemic.Difficulty, rng entropy.Source) *Registry {
	p := epidemic.ProfileFor(d)
	defs := Catalog()
	byID := make(map[string]int, len(defs))
	for i := range defs {
		defs[i].CostEconomy *= p.CostEconomyMultiplier
		defs[i].CostMorale *= p.CostMoraleMultiplier
		byID[defs[i].ID] = i
	}
	return &Registry{
		defs:     defs,
		byID:     byID,
		profile:  p,
		rng:      rng,
		lastUsed: make(map[string]int),
	}
}

// Lookup returns the difficulty-scaled definition for id.
func (r *Registry) Lookup(id string) (Definition, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Definitions returns every difficulty-scaled definition in catalog order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// NewDay resets the daily quota. It must run once per advanced day before
// Available is queried for that day.
func (r *Registry) NewDay(day int) {
	r.day = day
	r.usedToday = 0
}

// Day is the registry's current day.
func (r *Registry) Day() int { return r.day }

// Remaining is how many more interventions may be applied today.
func (r *Registry) Remaining() int {
	return max(0, r.profile.MaxDecisionsPerDay-r.usedToday)
}

// LastUsed returns the day id was last applied, or -999 if never.
func (r *Registry) LastUsed(id string) int {
	if d, ok := r.lastUsed[id]; ok {
		return d
	}
	return neverUsed
}

func (r *Registry) ready(def Definition, day int) bool {
	return day-r.LastUsed(def.ID) >= def.Cooldown
}

// Available returns up to MaxOffered eligible interventions for day, sampled
// without replacement with weight priority². It returns nil once the daily
// quota is used up.
func (r *Registry) Available(day int, regions []*epidemic.Region, stats epidemic.GlobalStats) []Definition {
	if r.Remaining() == 0 {
		return nil
	}

	ctx := rules.Context{Day: day, Stats: stats, Regions: regions}
	var eligible []Definition
	for _, def := range r.defs {
		if r.ready(def, day) && def.Requirements.Eval(ctx) {
			eligible = append(eligible, def)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	if critical(stats) {
		var urgent []Definition
		for _, def := range eligible {
			if def.Priority >= 2 {
				urgent = append(urgent, def)
			}
		}
		if len(urgent) > 0 {
			eligible = urgent
		}
	}

	return weightedSample(eligible, MaxOffered, r.rng)
}

func critical(stats epidemic.GlobalStats) bool {
	return stats.InfectedFraction() > 0.05 || stats.Economy < 30 || stats.Morale < 30
}

// weightedSample draws up to k entries without replacement. Each round picks
// from the live prefix pool[:n] in proportion to priority² and swaps the
// chosen entry past the end of the prefix.
func weightedSample(defs []Definition, k int, rng entropy.Source) []Definition {
	pool := make([]Definition, len(defs))
	copy(pool, defs)

	n := len(pool)
	out := make([]Definition, 0, min(k, n))
	for len(out) < k && n > 0 {
		total := 0.0
		for _, d := range pool[:n] {
			total += weight(d)
		}

		pick := n - 1
		x := rng.Float64() * total
		for i, d := range pool[:n] {
			x -= weight(d)
			if x < 0 {
				pick = i
				break
			}
		}

		out = append(out, pool[pick])
		pool[pick], pool[n-1] = pool[n-1], pool[pick]
		n--
	}
	return out
}

func weight(d Definition) float64 {
	return float64(d.Priority * d.Priority)
}

// Apply applies intervention id to regions[*target] for regional entries or
// to every region otherwise. Costs are charged only to regions whose state
// changes; if none would change it returns ErrNoEffect. On error nothing is
// mutated.
func (r *Registry) Apply(id string, regions []*epidemic.Region, target *int) error {
	def, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownIntervention, id)
	}
	if r.Remaining() == 0 {
		return ErrQuotaExhausted
	}
	if !r.ready(def, r.day) {
		return fmt.Errorf("%w: %s ready on day %d", ErrOnCooldown, id, r.LastUsed(id)+def.Cooldown)
	}

	affected := regions
	var recTarget *int
	if def.Regional {
		if target == nil {
			return fmt.Errorf("%w: %s", ErrTargetRequired, id)
		}
		idx := *target
		if idx < 0 || idx >= len(regions) {
			return fmt.Errorf("%w: %d", ErrInvalidRegion, idx)
		}
		affected = regions[idx : idx+1]
		recTarget = &idx
	}

	var changed []*epidemic.Region
	for _, reg := range affected {
		if def.Effect.changes(reg) {
			changed = append(changed, reg)
		}
	}
	if len(changed) == 0 {
		return fmt.Errorf("%w: %s", ErrNoEffect, id)
	}

	r.lastUsed[id] = r.day
	r.usedToday++
	r.history = append(r.history, Record{Day: r.day, ID: id, Target: recTarget})

	// Regions already in the requested state pay nothing.
	for _, reg := range changed {
		reg.AdjustEconomy(-def.CostEconomy)
		reg.AdjustMorale(-def.CostMorale)
		def.Effect.apply(reg, r.profile)
	}

	slog.Debug("intervention applied", "id", id, "day", r.day, "regions", len(changed), "remaining", r.Remaining())
	return nil
}

// History returns applied interventions in order.
func (r *Registry) History() []Record {
	out := make([]Record, len(r.history))
	copy(out, r.history)
	return out
}
