package epidemic

// DecisionKind is a policy a region can enact.
type DecisionKind uint8

const (
	DecisionCloseSchools DecisionKind = iota
	DecisionMaskMandate
	DecisionQuarantine
	DecisionCloseAirports
	DecisionInvestHospitals
	DecisionCommunicationCampaign
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionCloseSchools:
		return "close_schools"
	case DecisionMaskMandate:
		return "mask_mandate"
	case DecisionQuarantine:
		return "quarantine"
	case DecisionCloseAirports:
		return "close_airports"
	case DecisionInvestHospitals:
		return "invest_hospitals"
	case DecisionCommunicationCampaign:
		return "communication_campaign"
	default:
		return "unknown"
	}
}

// Multiplicative factors for each policy. Toggle-off divides by the same
// constant that toggle-on multiplied by.
const (
	schoolsBetaFactor    = 0.8
	schoolsEconomyFactor = 0.95

	masksBetaFactor   = 0.7
	masksMoraleFactor = 0.98

	quarantineBetaFactor    = 0.3
	quarantineEconomyFactor = 0.7
	quarantineMoraleFactor  = 0.8

	airportsEconomyFactor = 0.9

	hospitalsCapacityFactor = 1.2
	hospitalsEconomyFactor  = 0.95

	campaignMoraleFactor  = 1.1
	campaignEconomyFactor = 0.99
)

// ApplyDecision enacts (active=true) or lifts (active=false) a policy.
//
// Boolean policies are idempotent: asking for the state the region is already
// in is a no-op, so every lift divides out exactly one earlier enactment.
// Hospital investment and communication campaigns are one-shot and ignore
// active=false.
func (r *Region) ApplyDecision(kind DecisionKind, active bool) {
	switch kind {
	case DecisionCloseSchools:
		if r.SchoolsOpen != active {
			return
		}
		r.SchoolsOpen = !active
		if active {
			r.BetaModifier *= schoolsBetaFactor
			r.EconomyModifier *= schoolsEconomyFactor
		} else {
			r.BetaModifier /= schoolsBetaFactor
			r.EconomyModifier /= schoolsEconomyFactor
		}

	case DecisionMaskMandate:
		if r.MaskMandate == active {
			return
		}
		r.MaskMandate = active
		if active {
			r.BetaModifier *= masksBetaFactor
			r.MoraleModifier *= masksMoraleFactor
		} else {
			r.BetaModifier /= masksBetaFactor
			r.MoraleModifier /= masksMoraleFactor
		}

	case DecisionQuarantine:
		if r.Quarantine == active {
			return
		}
		r.Quarantine = active
		if active {
			r.BetaModifier *= quarantineBetaFactor
			r.EconomyModifier *= quarantineEconomyFactor
			r.MoraleModifier *= quarantineMoraleFactor
		} else {
			r.BetaModifier /= quarantineBetaFactor
			r.EconomyModifier /= quarantineEconomyFactor
			r.MoraleModifier /= quarantineMoraleFactor
		}

	case DecisionCloseAirports:
		if r.AirportsOpen != active {
			return
		}
		r.AirportsOpen = !active
		if active {
			r.EconomyModifier *= airportsEconomyFactor
		} else {
			r.EconomyModifier /= airportsEconomyFactor
		}

	case DecisionInvestHospitals:
		if active {
			r.HospitalCapacity *= hospitalsCapacityFactor
			r.EconomyModifier *= hospitalsEconomyFactor
		}

	case DecisionCommunicationCampaign:
		if active {
			r.MoraleModifier *= campaignMoraleFactor
			r.EconomyModifier *= campaignEconomyFactor
		}
	}
}

// SetVaccinationRate starts (or replaces) a vaccination programme.
func (r *Region) SetVaccinationRate(rate float64) {
	r.VaccinationRate = max(0, rate)
}

// Flag is a policy state a region can be queried for.
type Flag uint8

const (
	FlagQuarantine Flag = iota
	FlagMaskMandate
	FlagSchoolsClosed
	FlagAirportsClosed
)

func (f Flag) String() string {
	switch f {
	case FlagQuarantine:
		return "quarantine"
	case FlagMaskMandate:
		return "mask_mandate"
	case FlagSchoolsClosed:
		return "schools_closed"
	case FlagAirportsClosed:
		return "airports_closed"
	default:
		return "unknown"
	}
}

// Flag returns the policy state a toggle decision sets. One-shot decisions
// have no flag.
func (k DecisionKind) Flag() (Flag, bool) {
	switch k {
	case DecisionCloseSchools:
		return FlagSchoolsClosed, true
	case DecisionMaskMandate:
		return FlagMaskMandate, true
	case DecisionQuarantine:
		return FlagQuarantine, true
	case DecisionCloseAirports:
		return FlagAirportsClosed, true
	default:
		return 0, false
	}
}

// Changes reports whether ApplyDecision(kind, active) would alter r.
func (r *Region) Changes(kind DecisionKind, active bool) bool {
	f, ok := kind.Flag()
	if !ok {
		return active
	}
	return r.HasFlag(f) != active
}

// HasFlag reports whether the region currently has policy f in force.
func (r *Region) HasFlag(f Flag) bool {
	switch f {
	case FlagQuarantine:
		return r.Quarantine
	case FlagMaskMandate:
		return r.MaskMandate
	case FlagSchoolsClosed:
		return !r.SchoolsOpen
	case FlagAirportsClosed:
		return !r.AirportsOpen
	default:
		return false
	}
}
