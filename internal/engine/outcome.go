package engine

import "fmt"

// OutcomeKind says whether a session is still running.
type OutcomeKind uint8

const (
	OutcomeNone OutcomeKind = iota
	OutcomeVictory
	OutcomeDefeat
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "none"
	}
}

// Reason explains a defeat.
type Reason string

const (
	ReasonTooManyDeaths      Reason = "too_many_deaths"
	ReasonEconomicCollapse   Reason = "economic_collapse"
	ReasonMoraleCollapse     Reason = "morale_collapse"
	ReasonUncontrolledSpread Reason = "uncontrolled_spread"
	ReasonTimeLimit          Reason = "time_limit"
)

// Outcome is the result of an end-condition check. Reason is empty unless
// Kind is OutcomeDefeat.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Reason Reason      `json:"reason,omitempty"`
}

// Over reports whether the session has ended.
func (o Outcome) Over() bool { return o.Kind != OutcomeNone }

func (o Outcome) String() string {
	if o.Kind == OutcomeDefeat {
		return fmt.Sprintf("defeat (%s)", o.Reason)
	}
	return o.Kind.String()
}

// MarshalText renders the kind for JSON.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// End-condition thresholds.
const (
	victoryMinDay      = 30
	victoryWindow      = 7
	victoryMaxFraction = 0.0001
	victoryMinEconomy  = 40
	victoryMinMorale   = 35

	lateVictoryMinDay      = 100
	lateVictoryMaxFraction = 0.001
	lateVictoryMinEconomy  = 30
	lateVictoryMinMorale   = 25

	defeatDeathRate = 0.15
	defeatFraction  = 0.5
	maxSessionDays  = 365

	crisisWindow    = 30
	crisisThreshold = 25
	crisisEconomy   = 20
	crisisMorale    = 20
	crisisFraction  = 0.1
)

// EvaluateOutcome checks victory, then defeat, against the latest snapshot
// and the trailing history.
func EvaluateOutcome(history []Snapshot) Outcome {
	if len(history) == 0 {
		return Outcome{}
	}
	last := history[len(history)-1]
	g := last.Global

	if last.Day > victoryMinDay && g.Economy >= victoryMinEconomy && g.Morale >= victoryMinMorale &&
		sustainedBelow(history, victoryMaxFraction) {
		return Outcome{Kind: OutcomeVictory}
	}
	if last.Day > lateVictoryMinDay && g.Economy >= lateVictoryMinEconomy && g.Morale >= lateVictoryMinMorale &&
		sustainedBelow(history, lateVictoryMaxFraction) {
		return Outcome{Kind: OutcomeVictory}
	}

	switch {
	case g.DeathRate() > defeatDeathRate:
		return defeat(ReasonTooManyDeaths)
	case g.InfectedFraction() > defeatFraction:
		return defeat(ReasonUncontrolledSpread)
	case g.Economy <= 0:
		return defeat(ReasonEconomicCollapse)
	case g.Morale <= 0:
		return defeat(ReasonMoraleCollapse)
	}
	if reason, ok := sustainedCrisis(history); ok {
		return defeat(reason)
	}
	if last.Day > maxSessionDays {
		return defeat(ReasonTimeLimit)
	}
	return Outcome{}
}

func defeat(r Reason) Outcome {
	return Outcome{Kind: OutcomeDefeat, Reason: r}
}

// sustainedBelow reports whether each of the last victoryWindow snapshots
// had an infected fraction below limit.
func sustainedBelow(history []Snapshot, limit float64) bool {
	if len(history) < victoryWindow {
		return false
	}
	for _, s := range history[len(history)-victoryWindow:] {
		if s.Global.InfectedFraction() >= limit {
			return false
		}
	}
	return true
}

// sustainedCrisis counts critical snapshots in the trailing window and, when
// there are enough, names the cause that occurred most often. Ties resolve
// economy, then morale, then spread.
func sustainedCrisis(history []Snapshot) (Reason, bool) {
	window := history[max(0, len(history)-crisisWindow):]

	var critical, economy, morale, spread int
	for _, s := range window {
		g := s.Global
		lowEconomy := g.Economy < crisisEconomy
		lowMorale := g.Morale < crisisMorale
		spreading := g.InfectedFraction() > crisisFraction
		if lowEconomy {
			economy++
		}
		if lowMorale {
			morale++
		}
		if spreading {
			spread++
		}
		if lowEconomy || lowMorale || spreading {
			critical++
		}
	}
	if critical < crisisThreshold {
		return "", false
	}

	switch {
	case economy >= morale && economy >= spread:
		return ReasonEconomicCollapse, true
	case morale >= spread:
		return ReasonMoraleCollapse, true
	default:
		return ReasonUncontrolledSpread, true
	}
}
