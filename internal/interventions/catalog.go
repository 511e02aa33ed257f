// Package interventions holds the catalog of player actions and the
// per-session registry that offers, rate-limits and applies them.
package interventions

import (
	"fmt"

	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/rules"
)

// EffectKind selects how an intervention mutates a region.
type EffectKind uint8

const (
	// EffectDecision forwards to Region.ApplyDecision.
	EffectDecision EffectKind = iota
	// EffectVaccination starts vaccination at the difficulty's rate.
	EffectVaccination
	// EffectBetaFactor multiplies the transmission modifier once.
	EffectBetaFactor
	// EffectMuFactor multiplies the mortality modifier once.
	EffectMuFactor
	// EffectEconomyBoost adds to the economy score.
	EffectEconomyBoost
	// EffectMoraleBoost adds to the morale score.
	EffectMoraleBoost
)

// Effect is the typed payload of an intervention. Only the fields relevant
// to Kind are read.
type Effect struct {
	Kind     EffectKind
	Decision epidemic.DecisionKind
	Active   bool
	Factor   float64
	Amount   float64
}

// changes reports whether applying e would alter r. Only policy toggles can
// be no-ops.
func (e Effect) changes(r *epidemic.Region) bool {
	if e.Kind != EffectDecision {
		return true
	}
	return r.Changes(e.Decision, e.Active)
}

func (e Effect) apply(r *epidemic.Region, p epidemic.Profile) {
	switch e.Kind {
	case EffectDecision:
		r.ApplyDecision(e.Decision, e.Active)
	case EffectVaccination:
		r.SetVaccinationRate(p.VaccinationRate)
	case EffectBetaFactor:
		r.BetaModifier *= e.Factor
	case EffectMuFactor:
		r.MuModifier *= e.Factor
	case EffectEconomyBoost:
		r.AdjustEconomy(e.Amount)
	case EffectMoraleBoost:
		r.AdjustMorale(e.Amount)
	default:
		panic(fmt.Sprintf("interventions: unhandled effect kind %d", e.Kind))
	}
}

// Definition is an immutable catalog entry. Costs are the base values before
// difficulty scaling.
type Definition struct {
	ID           string
	Name         string
	Description  string
	CostEconomy  float64
	CostMorale   float64
	Cooldown     int
	Priority     int
	Requirements rules.Set
	Regional     bool
	Effect       Effect
}

func decision(kind epidemic.DecisionKind, active bool) Effect {
	return Effect{Kind: EffectDecision, Decision: kind, Active: active}
}

var catalog = []Definition{
	{
		ID: "close_schools", Name: "Close Schools",
		Description: "Close schools and universities to cut transmission",
		CostEconomy: 5, CostMorale: 3, Cooldown: 7, Priority: 1,
		Requirements: rules.Set{rules.RegionWithout(epidemic.FlagSchoolsClosed)},
		Effect:       decision(epidemic.DecisionCloseSchools, true),
	},
	{
		ID: "mask_mandate", Name: "Mask Mandate",
		Description: "Require masks in public spaces",
		CostEconomy: 1, CostMorale: 2, Cooldown: 14, Priority: 1,
		Requirements: rules.Set{rules.RegionWithout(epidemic.FlagMaskMandate)},
		Effect:       decision(epidemic.DecisionMaskMandate, true),
	},
	{
		ID: "quarantine", Name: "Full Quarantine",
		Description: "Impose a full quarantine, drastically reducing contagion",
		CostEconomy: 20, CostMorale: 15, Cooldown: 21, Priority: 3,
		Requirements: rules.Set{rules.RegionWithout(epidemic.FlagQuarantine)},
		Effect:       decision(epidemic.DecisionQuarantine, true),
	},
	{
		ID: "close_airports", Name: "Close Airports",
		Description: "Shut airports to stop international spread",
		CostEconomy: 10, CostMorale: 5, Cooldown: 14, Priority: 2,
		Requirements: rules.Set{rules.RegionWithout(epidemic.FlagAirportsClosed)},
		Effect:       decision(epidemic.DecisionCloseAirports, true),
	},
	{
		ID: "invest_hospitals", Name: "Invest in Hospitals",
		Description: "Expand hospital capacity to reduce mortality",
		CostEconomy: 8, CostMorale: 0, Cooldown: 30, Priority: 2,
		Regional: true,
		Effect:   decision(epidemic.DecisionInvestHospitals, true),
	},
	{
		ID: "vaccination_campaign", Name: "Vaccination Campaign",
		Description: "Launch a mass vaccination programme",
		CostEconomy: 15, CostMorale: 0, Cooldown: 60, Priority: 3,
		Requirements: rules.Set{rules.DayAtLeast(30)},
		Effect:       Effect{Kind: EffectVaccination},
	},
	{
		ID: "communication_campaign", Name: "Communication Campaign",
		Description: "Lift public morale with an information campaign",
		CostEconomy: 3, CostMorale: 0, Cooldown: 14, Priority: 1,
		Effect: decision(epidemic.DecisionCommunicationCampaign, true),
	},
	{
		ID: "transport_control", Name: "Transport Control",
		Description: "Restrict domestic transport to slow contagion",
		CostEconomy: 12, CostMorale: 8, Cooldown: 10, Priority: 2,
		Effect: Effect{Kind: EffectBetaFactor, Factor: 0.85},
	},
	{
		ID: "medicine_distribution", Name: "Medicine Distribution",
		Description: "Distribute medicine to lower mortality",
		CostEconomy: 5, CostMorale: 0, Cooldown: 21, Priority: 2,
		Regional: true,
		Effect:   Effect{Kind: EffectMuFactor, Factor: 0.7},
	},
	{
		ID: "border_control", Name: "Strict Border Control",
		Description: "Tighten border checks",
		CostEconomy: 7, CostMorale: 4, Cooldown: 14, Priority: 1,
		Effect: Effect{Kind: EffectBetaFactor, Factor: 0.9},
	},
	{
		ID: "economic_stimulus", Name: "Economic Stimulus",
		Description: "Inject public spending into a struggling economy",
		CostEconomy: 0, CostMorale: 2, Cooldown: 20, Priority: 2,
		Requirements: rules.Set{rules.EconomyBelow(50)},
		Regional:     true,
		Effect:       Effect{Kind: EffectEconomyBoost, Amount: 15},
	},
	{
		ID: "mental_health_support", Name: "Mental Health Support",
		Description: "Fund counselling and support lines",
		CostEconomy: 4, CostMorale: 0, Cooldown: 20, Priority: 2,
		Requirements: rules.Set{rules.MoraleBelow(50)},
		Regional:     true,
		Effect:       Effect{Kind: EffectMoraleBoost, Amount: 12},
	},
	{
		ID: "lift_quarantine", Name: "Lift Quarantine",
		Description: "End quarantine in every region that has one",
		Cooldown: 7, Priority: 2,
		Requirements: rules.Set{rules.RegionFlag(epidemic.FlagQuarantine)},
		Effect:       decision(epidemic.DecisionQuarantine, false),
	},
	{
		ID: "reopen_schools", Name: "Reopen Schools",
		Description: "Reopen closed schools and universities",
		Cooldown: 7, Priority: 1,
		Requirements: rules.Set{rules.RegionFlag(epidemic.FlagSchoolsClosed)},
		Effect:       decision(epidemic.DecisionCloseSchools, false),
	},
	{
		ID: "reopen_airports", Name: "Reopen Airports",
		Description: "Resume international flights",
		Cooldown: 7, Priority: 1,
		Requirements: rules.Set{rules.RegionFlag(epidemic.FlagAirportsClosed)},
		Effect:       decision(epidemic.DecisionCloseAirports, false),
	},
	{
		ID: "end_mask_mandate", Name: "End Mask Mandate",
		Description: "Drop the public mask requirement",
		Cooldown: 7, Priority: 1,
		Requirements: rules.Set{rules.RegionFlag(epidemic.FlagMaskMandate)},
		Effect:       decision(epidemic.DecisionMaskMandate, false),
	},
}

// Catalog returns a copy of the base catalog.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// IDs lists every catalog id in catalog order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, d := range catalog {
		ids[i] = d.ID
	}
	return ids
}
