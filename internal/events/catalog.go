// Package events rolls the random world events that perturb a session and
// keeps the record of what fired.
package events

import (
	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/rules"
)

// Definition is an immutable catalog entry. Probability is the base daily
// chance before difficulty scaling.
type Definition struct {
	ID           string
	Name         string
	Description  string
	Probability  float64
	Effect       epidemic.EffectKind
	Intensity    float64
	Requirements rules.Set
}

var catalog = []Definition{
	{
		ID:           "new_variant",
		Name:         "New Variant Detected",
		Description:  "A more contagious variant of the virus has been identified",
		Probability:  0.15,
		Effect:       epidemic.EffectNewVariant,
		Intensity:    1,
		Requirements: rules.Set{rules.DayAtLeast(30), rules.InfectedAbove(1000)},
	},
	{
		ID:           "international_aid",
		Name:         "International Aid",
		Description:  "International organisations send medical supplies",
		Probability:  0.12,
		Effect:       epidemic.EffectInternationalAid,
		Intensity:    1,
		Requirements: rules.Set{rules.DayAtLeast(20)},
	},
	{
		ID:           "global_recession",
		Name:         "Global Recession",
		Description:  "The world economy enters a recession",
		Probability:  0.08,
		Effect:       epidemic.EffectRecession,
		Intensity:    1,
		Requirements: rules.Set{rules.DayAtLeast(40)},
	},
	{
		ID:           "fake_news_campaign",
		Name:         "Disinformation Campaign",
		Description:  "False stories about vaccines and treatments spread",
		Probability:  0.10,
		Effect:       epidemic.EffectFakeNews,
		Intensity:    1,
		Requirements: rules.Set{rules.DayAtLeast(15)},
	},
	{
		ID:           "local_outbreak",
		Name:         "Local Outbreak",
		Description:  "A large outbreak erupts in one region",
		Probability:  0.18,
		Effect:       epidemic.EffectLocalOutbreak,
		Intensity:    1,
		Requirements: rules.Set{rules.InfectedAbove(500)},
	},
	{
		ID:           "mass_flight",
		Name:         "Infected Flight",
		Description:  "A flight full of infected passengers lands",
		Probability:  0.12,
		Effect:       epidemic.EffectMassFlight,
		Intensity:    1,
		Requirements: rules.Set{rules.DayAtLeast(10)},
	},
	{
		ID:           "medical_breakthrough",
		Name:         "Medical Breakthrough",
		Description:  "A more effective treatment is discovered",
		Probability:  0.10,
		Effect:       epidemic.EffectMedicalBreakthrough,
		Intensity:    1,
		Requirements: rules.Set{rules.DayAtLeast(60)},
	},
	{
		ID:           "social_unrest",
		Name:         "Social Unrest",
		Description:  "People protest against the restrictions",
		Probability:  0.14,
		Effect:       epidemic.EffectSocialUnrest,
		Intensity:    1,
		Requirements: rules.Set{rules.MoraleBelow(40)},
	},
	{
		ID:           "vaccine_resistance",
		Name:         "Vaccine Hesitancy",
		Description:  "Public resistance to vaccination grows",
		Probability:  0.11,
		Effect:       epidemic.EffectVaccineResistance,
		Intensity:    1,
		Requirements: rules.Set{rules.DayAtLeast(30)},
	},
	{
		ID:           "hospital_overflow",
		Name:         "Hospital Collapse",
		Description:  "Hospitals in one region are completely saturated",
		Probability:  0.13,
		Effect:       epidemic.EffectHospitalOverflow,
		Intensity:    1,
		Requirements: rules.Set{rules.InfectedAbove(10000)},
	},
	{
		ID:          "successful_containment",
		Name:        "Successful Containment",
		Description: "Containment measures show strong results",
		Probability: 0.09,
		Effect:      epidemic.EffectSuccessfulContainment,
		Intensity:   1,
		Requirements: rules.Set{
			rules.DayAtLeast(45),
			rules.RegionFlag(epidemic.FlagQuarantine),
		},
	},
	{
		ID:           "supply_shortage",
		Name:         "Supply Shortage",
		Description:  "Critical shortage of medical equipment and medicine",
		Probability:  0.12,
		Effect:       epidemic.EffectSupplyShortage,
		Intensity:    1,
		Requirements: rules.Set{rules.DayAtLeast(25)},
	},
}

// Catalog returns a copy of the base catalog.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}
