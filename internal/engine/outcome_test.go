package engine

import "testing"

const testPopulation = 1_000_000

func snap(day int, fraction, economy, morale, deathRate float64) Snapshot {
	return Snapshot{
		Day: day,
		Global: GlobalStats{
			TotalPopulation: testPopulation,
			Infected:        fraction * testPopulation,
			Deaths:          deathRate * testPopulation,
			Economy:         economy,
			Morale:          morale,
		},
	}
}

// run builds n consecutive snapshots ending on day last.
func run(n, last int, fraction, economy, morale float64) []Snapshot {
	out := make([]Snapshot, n)
	for i := range out {
		out[i] = snap(last-n+1+i, fraction, economy, morale, 0)
	}
	return out
}

func TestEvaluateOutcome(t *testing.T) {
	tests := []struct {
		name    string
		history []Snapshot
		want    Outcome
	}{
		{"empty history", nil, Outcome{}},
		{"healthy start", run(1, 1, 0.0002, 80, 75), Outcome{}},

		{"victory", run(7, 31, 0.00005, 50, 40), Outcome{Kind: OutcomeVictory}},
		{"victory needs day over 30", run(7, 30, 0.00005, 50, 40), Outcome{}},
		{"victory needs a full window", run(6, 31, 0.00005, 50, 40), Outcome{}},
		{"victory needs economy", run(7, 31, 0.00005, 39, 40), Outcome{}},
		{"victory needs morale", run(7, 31, 0.00005, 50, 34), Outcome{}},
		{"victory needs every day clean", append(run(6, 30, 0.00005, 50, 40), snap(31, 0.0001, 50, 40, 0)), Outcome{}},

		{"late victory", run(7, 101, 0.0005, 35, 30), Outcome{Kind: OutcomeVictory}},
		{"late victory needs day over 100", run(7, 100, 0.0005, 35, 30), Outcome{}},

		{"too many deaths", []Snapshot{snap(10, 0.6, 50, 50, 0.2)}, defeat(ReasonTooManyDeaths)},
		{"uncontrolled spread", []Snapshot{snap(10, 0.51, 50, 50, 0)}, defeat(ReasonUncontrolledSpread)},
		{"economic collapse", []Snapshot{snap(10, 0.01, 0, 0, 0)}, defeat(ReasonEconomicCollapse)},
		{"morale collapse", []Snapshot{snap(10, 0.01, 10, 0, 0)}, defeat(ReasonMoraleCollapse)},
		{"time limit", run(1, 366, 0.01, 50, 50), defeat(ReasonTimeLimit)},
		{"deaths checked before spread", []Snapshot{snap(10, 0.6, 0, 0, 0.2)}, defeat(ReasonTooManyDeaths)},
		{"spread checked before economy", []Snapshot{snap(10, 0.51, 0, 0, 0)}, defeat(ReasonUncontrolledSpread)},
		{"crisis checked before time limit", run(30, 370, 0.01, 10, 50), defeat(ReasonEconomicCollapse)},
		{"victory beats time limit", run(7, 366, 0.00005, 50, 40), Outcome{Kind: OutcomeVictory}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateOutcome(tt.history); got != tt.want {
				t.Errorf("EvaluateOutcome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSustainedCrisis(t *testing.T) {
	crisis := func(n int, fraction, economy, morale float64) []Snapshot {
		h := run(30-n, 20, 0.01, 60, 60)
		return append(h, run(n, 20+n, fraction, economy, morale)...)
	}

	tests := []struct {
		name    string
		history []Snapshot
		want    Outcome
	}{
		{"below threshold", crisis(24, 0.01, 50, 10), Outcome{}},
		{"low morale", crisis(25, 0.01, 50, 10), defeat(ReasonMoraleCollapse)},
		{"low economy", crisis(25, 0.01, 10, 50), defeat(ReasonEconomicCollapse)},
		{"spread", crisis(25, 0.2, 50, 50), defeat(ReasonUncontrolledSpread)},
		{"tie goes to economy", crisis(25, 0.01, 10, 10), defeat(ReasonEconomicCollapse)},
		{"morale beats spread on tie", crisis(25, 0.2, 50, 10), defeat(ReasonMoraleCollapse)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateOutcome(tt.history); got != tt.want {
				t.Errorf("EvaluateOutcome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		fraction float64
		want     Severity
	}{
		{0, SeverityMinimal},
		{0.0009, SeverityMinimal},
		{0.001, SeverityLow},
		{0.007, SeverityModerate},
		{0.02, SeverityHigh},
		{0.04, SeveritySevere},
		{0.05, SeverityCritical},
		{0.9, SeverityCritical},
	}
	for _, tt := range tests {
		if got := SeverityOf(tt.fraction); got != tt.want {
			t.Errorf("SeverityOf(%v) = %v, want %v", tt.fraction, got, tt.want)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	if got := defeat(ReasonTimeLimit).String(); got != "defeat (time_limit)" {
		t.Errorf("String() = %q", got)
	}
	if (Outcome{}).Over() {
		t.Error("zero outcome must not be over")
	}
}
