package epidemic

import "fmt"

// EffectKind identifies the one-shot mutation an event applies to a region.
type EffectKind uint8

const (
	EffectNewVariant EffectKind = iota
	EffectInternationalAid
	EffectRecession
	EffectFakeNews
	EffectLocalOutbreak
	EffectMassFlight
	EffectMedicalBreakthrough
	EffectSocialUnrest
	EffectVaccineResistance
	EffectHospitalOverflow
	EffectSuccessfulContainment
	EffectSupplyShortage

	effectKindCount
)

var effectNames = [effectKindCount]string{
	EffectNewVariant:            "new_variant",
	EffectInternationalAid:      "international_aid",
	EffectRecession:             "recession",
	EffectFakeNews:              "fake_news",
	EffectLocalOutbreak:         "local_outbreak",
	EffectMassFlight:            "mass_flight",
	EffectMedicalBreakthrough:   "medical_breakthrough",
	EffectSocialUnrest:          "social_unrest",
	EffectVaccineResistance:     "vaccine_resistance",
	EffectHospitalOverflow:      "hospital_overflow",
	EffectSuccessfulContainment: "successful_containment",
	EffectSupplyShortage:        "supply_shortage",
}

func (k EffectKind) String() string {
	if k < effectKindCount {
		return effectNames[k]
	}
	return "unknown"
}

// Local reports whether the effect targets a single region instead of all.
func (k EffectKind) Local() bool {
	switch k {
	case EffectLocalOutbreak, EffectMassFlight, EffectHospitalOverflow:
		return true
	default:
		return false
	}
}

// ParseEffectKind maps a snake_case name back to its EffectKind.
func ParseEffectKind(s string) (EffectKind, error) {
	for k, name := range effectNames {
		if name == s {
			return EffectKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown effect kind %q", s)
}

// ApplyEvent applies an event effect of the given intensity. Effects are
// one-shot; nothing reverses them automatically.
func (r *Region) ApplyEvent(kind EffectKind, intensity float64) {
	switch kind {
	case EffectNewVariant:
		r.BetaModifier *= 1 + 0.3*intensity

	case EffectInternationalAid:
		r.HospitalCapacity *= 1 + 0.2*intensity

	case EffectRecession:
		r.EconomyModifier *= 1 - 0.2*intensity

	case EffectFakeNews:
		r.MoraleModifier *= 1 - 0.15*intensity
		r.VaccinationRate *= 1 - 0.3*intensity

	case EffectLocalOutbreak:
		n := float64(int(float64(r.Population) * 0.001 * intensity))
		r.ReceiveImportedInfections(n)

	case EffectMassFlight:
		n := float64(int(float64(r.Population) * 0.0005 * intensity))
		r.ReceiveImportedInfections(n)

	case EffectMedicalBreakthrough:
		r.GammaModifier *= 1 + 0.2*intensity
		r.MuModifier *= 1 - 0.3*intensity

	case EffectSocialUnrest:
		r.Morale = clampScore(r.Morale * (1 - 0.2*intensity))
		r.Economy = clampScore(r.Economy * (1 - 0.1*intensity))
		if r.Quarantine {
			r.BetaModifier *= 1 + 0.3*intensity
		}

	case EffectVaccineResistance:
		r.VaccinationRate *= 1 - 0.5*intensity
		r.Morale = clampScore(r.Morale * (1 - 0.1*intensity))

	case EffectHospitalOverflow:
		r.HospitalCapacity *= 1 - 0.3*intensity
		r.MuModifier *= 1 + 0.5*intensity

	case EffectSuccessfulContainment:
		r.BetaModifier *= 1 - 0.3*intensity
		r.Morale = clampScore(r.Morale * (1 + 0.15*intensity))

	case EffectSupplyShortage:
		r.MuModifier *= 1 + 0.2*intensity
		r.HospitalCapacity *= 1 - 0.2*intensity
		r.Economy = clampScore(r.Economy * (1 - 0.08*intensity))

	default:
		panic(fmt.Sprintf("epidemic: unhandled effect kind %d", kind))
	}
}
