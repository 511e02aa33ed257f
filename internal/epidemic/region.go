// Package epidemic models one region's compartmental outbreak state and its
// daily integration step.
package epidemic

// ModifierDecayRate is the fraction of the distance to 1.0 that the transient
// economy and morale modifiers recover every step.
const ModifierDecayRate = 0.02

// Region is one simulated population unit with its own epidemic and
// socioeconomic state. Population never changes after creation.
type Region struct {
	Name       string
	Population int

	// Compartments. Deaths is cumulative and only ever grows.
	S, E, I, R float64
	Deaths     float64

	Rates Rates

	// Persistent modifiers, changed only by decisions and events.
	BetaModifier  float64
	GammaModifier float64
	MuModifier    float64

	// Transient modifiers, decaying toward 1.0 every step.
	EconomyModifier float64
	MoraleModifier  float64

	Economy float64 // 0–100
	Morale  float64 // 0–100

	AirportsOpen bool
	SchoolsOpen  bool
	MaskMandate  bool
	Quarantine   bool

	VaccinationRate  float64 // fraction of S moved to R per step
	HospitalCapacity float64
}

// NewRegion creates a region at the start of a session.
func NewRegion(name string, population, initialInfected int, d Difficulty) *Region {
	if population < 0 {
		population = 0
	}
	initialInfected = clampInt(initialInfected, 0, population)
	p := ProfileFor(d)

	return &Region{
		Name:             name,
		Population:       population,
		S:                float64(population - initialInfected),
		I:                float64(initialInfected),
		Rates:            p.Rates,
		BetaModifier:     1,
		GammaModifier:    1,
		MuModifier:       1,
		EconomyModifier:  1,
		MoraleModifier:   1,
		Economy:          p.InitialEconomy,
		Morale:           p.InitialMorale,
		AirportsOpen:     true,
		SchoolsOpen:      true,
		HospitalCapacity: float64(population) * p.HospitalCapacityRate,
	}
}

// Step advances the region by dt days with explicit Euler integration.
//
// The update is not population-conserving: Euler discretization and the
// vaccination flow let S+E+I+R drift from the population. Compartments are
// only clamped at zero afterwards.
func (r *Region) Step(dt float64) {
	betaEff := r.Rates.Beta * r.BetaModifier
	sigmaEff := r.Rates.Sigma
	gammaEff := r.Rates.Gamma * r.GammaModifier
	muEff := r.Rates.Mu * r.MuModifier

	// Overloaded hospitals amplify mortality without bound.
	if r.I > r.HospitalCapacity && r.HospitalCapacity > 0 {
		muEff *= 1 + (r.I-r.HospitalCapacity)/r.HospitalCapacity
	}

	n := r.S + r.E + r.I + r.R
	if n <= 0 {
		n = 1
	}

	infection := betaEff * r.S * r.I / n
	vaccinated := r.VaccinationRate * r.S

	dS := -infection - vaccinated
	dE := infection - sigmaEff*r.E
	dI := sigmaEff*r.E - gammaEff*r.I - muEff*r.I
	dR := gammaEff*r.I + vaccinated
	dDeaths := muEff * r.I

	r.S += dS * dt
	r.E += dE * dt
	r.I += dI * dt
	r.R += dR * dt
	r.Deaths += dDeaths * dt

	r.S = max(0, r.S)
	r.E = max(0, r.E)
	r.I = max(0, r.I)
	r.R = max(0, r.R)

	r.Economy = clampScore(r.Economy * r.EconomyModifier)
	r.Morale = clampScore(r.Morale * r.MoraleModifier)

	r.EconomyModifier += (1 - r.EconomyModifier) * ModifierDecayRate
	r.MoraleModifier += (1 - r.MoraleModifier) * ModifierDecayRate
}

// ReceiveImportedInfections moves up to n susceptibles into the exposed
// compartment. It never drives S negative.
func (r *Region) ReceiveImportedInfections(n float64) {
	n = min(n, r.S)
	if n <= 0 {
		return
	}
	r.S -= n
	r.E += n
}

// InfectionRate returns the infected share of the population.
func (r *Region) InfectionRate() float64 {
	if r.Population <= 0 {
		return 0
	}
	return r.I / float64(r.Population)
}

// CanExport reports whether the region can seed infections abroad.
func (r *Region) CanExport() bool {
	return r.AirportsOpen && r.I > 0
}

// AdjustEconomy adds delta to the economy, bounded to [0,100].
func (r *Region) AdjustEconomy(delta float64) {
	r.Economy = clampScore(r.Economy + delta)
}

// AdjustMorale adds delta to morale, bounded to [0,100].
func (r *Region) AdjustMorale(delta float64) {
	r.Morale = clampScore(r.Morale + delta)
}

// RegionStats is a read-only copy of a region's observable state.
type RegionStats struct {
	Name             string  `json:"name"`
	Population       int     `json:"population"`
	Susceptible      float64 `json:"susceptible"`
	Exposed          float64 `json:"exposed"`
	Infected         float64 `json:"infected"`
	Recovered        float64 `json:"recovered"`
	Deaths           float64 `json:"deaths"`
	Economy          float64 `json:"economy"`
	Morale           float64 `json:"morale"`
	InfectionRate    float64 `json:"infection_rate"`
	HospitalCapacity float64 `json:"hospital_capacity"`
	VaccinationRate  float64 `json:"vaccination_rate"`

	AirportsOpen bool `json:"airports_open"`
	SchoolsOpen  bool `json:"schools_open"`
	MaskMandate  bool `json:"mask_mandate"`
	Quarantine   bool `json:"quarantine"`

	BetaModifier    float64 `json:"beta_modifier"`
	GammaModifier   float64 `json:"gamma_modifier"`
	MuModifier      float64 `json:"mu_modifier"`
	EconomyModifier float64 `json:"economy_modifier"`
	MoraleModifier  float64 `json:"morale_modifier"`
}

// Stats captures the region's current state.
func (r *Region) Stats() RegionStats {
	return RegionStats{
		Name:             r.Name,
		Population:       r.Population,
		Susceptible:      r.S,
		Exposed:          r.E,
		Infected:         r.I,
		Recovered:        r.R,
		Deaths:           r.Deaths,
		Economy:          r.Economy,
		Morale:           r.Morale,
		InfectionRate:    r.InfectionRate(),
		HospitalCapacity: r.HospitalCapacity,
		VaccinationRate:  r.VaccinationRate,
		AirportsOpen:     r.AirportsOpen,
		SchoolsOpen:      r.SchoolsOpen,
		MaskMandate:      r.MaskMandate,
		Quarantine:       r.Quarantine,
		BetaModifier:     r.BetaModifier,
		GammaModifier:    r.GammaModifier,
		MuModifier:       r.MuModifier,
		EconomyModifier:  r.EconomyModifier,
		MoraleModifier:   r.MoraleModifier,
	}
}

func clampScore(v float64) float64 {
	return min(100, max(0, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
