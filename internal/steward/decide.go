package steward

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/contagion/internal/engine"
)

// Action is what the steward chose to do in a cycle.
type Action string

const (
	ActionNone  Action = "none"
	ActionApply Action = "apply"
)

// Decision is the steward's recommendation for one cycle.
type Decision struct {
	Action         Action `json:"action"`
	Rationale      string `json:"rationale"`
	InterventionID string `json:"intervention_id,omitempty"`
	Target         *int   `json:"target,omitempty"`
}

// purpose groups interventions by the problem they address.
type purpose uint8

const (
	purposeContain purpose = iota
	purposeEconomy
	purposeMorale
	purposeRelief
)

var purposes = map[string]purpose{
	"close_schools":          purposeContain,
	"mask_mandate":           purposeContain,
	"quarantine":             purposeContain,
	"close_airports":         purposeContain,
	"invest_hospitals":       purposeContain,
	"vaccination_campaign":   purposeContain,
	"transport_control":      purposeContain,
	"medicine_distribution":  purposeContain,
	"border_control":         purposeContain,
	"economic_stimulus":      purposeEconomy,
	"communication_campaign": purposeMorale,
	"mental_health_support":  purposeMorale,
	"lift_quarantine":        purposeRelief,
	"reopen_schools":         purposeRelief,
	"reopen_airports":        purposeRelief,
	"end_mask_mandate":       purposeRelief,
}

const (
	// Containment costing this much economy waits for a real outbreak.
	heavyCost = 10
	// Never spend the world below these scores, except to raise them.
	economyFloor = 20
	moraleFloor  = 20
	comfortScore = 60
)

var (
	errUnknownAction = errors.New("unknown action")
	errNotOffered    = errors.New("intervention not offered")
	errTarget        = errors.New("bad target")
)

// Decide picks at most one of the offered interventions for the given
// health. The lightest useful touch wins; doing nothing is the common case.
func Decide(h *Health, offered []engine.InterventionSummary, regionCount int) (*Decision, error) {
	needs := assess(h)

	best, bestScore := -1, 0
	for i, o := range offered {
		p, ok := purposes[o.ID]
		if !ok {
			continue
		}
		if !affordable(h, o, p, needs) {
			continue
		}
		score := needs[p]*10 + o.Priority
		if needs[p] == 0 {
			score = 0
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	d := &Decision{Action: ActionNone}
	summary := fmt.Sprintf("crisis=%s infected=%.2f%% growth=%.2f economy=%.0f morale=%.0f",
		h.CrisisLevel, h.InfectedFraction*100, h.Growth, h.Economy, h.Morale)
	if best < 0 {
		d.Rationale = summary + ": nothing worth its cost"
	} else {
		o := offered[best]
		p := purposes[o.ID]
		d.Action = ActionApply
		d.InterventionID = o.ID
		if o.RequiresTarget {
			t := targetFor(h, p)
			d.Target = &t
		}
		d.Rationale = fmt.Sprintf("%s: %s addresses %s", summary, o.ID, p)
	}

	if err := enforceGuardrails(d, offered, regionCount); err != nil {
		return nil, fmt.Errorf("guardrail violation: %w", err)
	}
	return d, nil
}

func (p purpose) String() string {
	switch p {
	case purposeContain:
		return "spread"
	case purposeEconomy:
		return "economy"
	case purposeMorale:
		return "morale"
	default:
		return "restrictions"
	}
}

// assess grades each purpose's need from 0 (none) to 3 (urgent).
func assess(h *Health) map[purpose]int {
	needs := map[purpose]int{
		purposeContain: 0,
		purposeEconomy: scoreNeed(h.Economy),
		purposeMorale:  scoreNeed(h.Morale),
	}
	switch {
	case h.InfectedFraction > criticalFraction:
		needs[purposeContain] = 3
	case h.InfectedFraction > warningFraction || h.Growth > warningGrowth:
		needs[purposeContain] = 2
	case h.InfectedFraction > watchFraction || h.Growth > 1:
		needs[purposeContain] = 1
	}
	// Restrictions are only lifted once the outbreak is quiet.
	if needs[purposeContain] == 0 {
		needs[purposeRelief] = 1 + max(needs[purposeEconomy], needs[purposeMorale])
	}
	return needs
}

func scoreNeed(v float64) int {
	switch {
	case v < criticalScore:
		return 3
	case v < warningScore:
		return 2
	case v < comfortScore:
		return 1
	default:
		return 0
	}
}

func affordable(h *Health, o engine.InterventionSummary, p purpose, needs map[purpose]int) bool {
	if p == purposeContain && o.CostEconomy >= heavyCost && needs[purposeContain] < 2 {
		return false
	}
	if p != purposeEconomy && h.Economy-o.CostEconomy < economyFloor {
		return false
	}
	if p != purposeMorale && h.Morale-o.CostMorale < moraleFloor {
		return false
	}
	return true
}

func targetFor(h *Health, p purpose) int {
	switch p {
	case purposeEconomy:
		return h.PoorestRegion
	case purposeMorale:
		return h.SaddestRegion
	default:
		return h.WorstRegion
	}
}

// enforceGuardrails validates the decision against what is actually on offer.
func enforceGuardrails(d *Decision, offered []engine.InterventionSummary, regionCount int) error {
	switch d.Action {
	case ActionNone:
		d.InterventionID = ""
		d.Target = nil
		return nil
	case ActionApply:
	default:
		return fmt.Errorf("%w %q", errUnknownAction, d.Action)
	}

	var found *engine.InterventionSummary
	for i := range offered {
		if offered[i].ID == d.InterventionID {
			found = &offered[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: %s", errNotOffered, d.InterventionID)
	}

	if !found.RequiresTarget {
		d.Target = nil
		return nil
	}
	if d.Target == nil {
		return fmt.Errorf("%w: %s requires a region", errTarget, d.InterventionID)
	}
	if *d.Target < 0 || *d.Target >= regionCount {
		slog.Warn("steward target out of range", "intervention", d.InterventionID, "target", *d.Target, "regions", regionCount)
		return fmt.Errorf("%w: region %d of %d", errTarget, *d.Target, regionCount)
	}
	return nil
}
