package epidemic

// GlobalStats aggregates every region of a world. Economy and morale are
// population-weighted averages.
type GlobalStats struct {
	TotalPopulation int     `json:"total_population"`
	Susceptible     float64 `json:"susceptible"`
	Exposed         float64 `json:"exposed"`
	Infected        float64 `json:"infected"`
	Recovered       float64 `json:"recovered"`
	Deaths          float64 `json:"deaths"`
	Economy         float64 `json:"economy"`
	Morale          float64 `json:"morale"`
}

// Aggregate sums the compartments of all regions.
func Aggregate(regions []*Region) GlobalStats {
	var g GlobalStats
	var economy, morale float64
	for _, r := range regions {
		g.TotalPopulation += r.Population
		g.Susceptible += r.S
		g.Exposed += r.E
		g.Infected += r.I
		g.Recovered += r.R
		g.Deaths += r.Deaths
		economy += r.Economy * float64(r.Population)
		morale += r.Morale * float64(r.Population)
	}
	if g.TotalPopulation > 0 {
		g.Economy = economy / float64(g.TotalPopulation)
		g.Morale = morale / float64(g.TotalPopulation)
	}
	return g
}

// InfectedFraction is the infected share of the total population.
func (g GlobalStats) InfectedFraction() float64 {
	if g.TotalPopulation <= 0 {
		return 0
	}
	return g.Infected / float64(g.TotalPopulation)
}

// DeathRate is cumulative deaths over the total population.
func (g GlobalStats) DeathRate() float64 {
	if g.TotalPopulation <= 0 {
		return 0
	}
	return g.Deaths / float64(g.TotalPopulation)
}

// AnyRegionWithout reports whether at least one region lacks policy f.
func AnyRegionWithout(regions []*Region, f Flag) bool {
	for _, r := range regions {
		if !r.HasFlag(f) {
			return true
		}
	}
	return false
}

// AnyRegion reports whether at least one region has policy f in force.
func AnyRegion(regions []*Region, f Flag) bool {
	for _, r := range regions {
		if r.HasFlag(f) {
			return true
		}
	}
	return false
}
