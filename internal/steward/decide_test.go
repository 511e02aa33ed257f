package steward

import (
	"errors"
	"testing"

	"github.com/talgya/contagion/internal/engine"
)

var (
	offerMasks      = engine.InterventionSummary{ID: "mask_mandate", CostEconomy: 1, CostMorale: 2, Priority: 1}
	offerQuarantine = engine.InterventionSummary{ID: "quarantine", CostEconomy: 20, CostMorale: 15, Priority: 3}
	offerStimulus   = engine.InterventionSummary{ID: "economic_stimulus", CostMorale: 2, Priority: 2, RequiresTarget: true}
	offerHospitals  = engine.InterventionSummary{ID: "invest_hospitals", CostEconomy: 8, Priority: 2, RequiresTarget: true}
	offerLift       = engine.InterventionSummary{ID: "lift_quarantine", Priority: 2}
	offerMystery    = engine.InterventionSummary{ID: "summon_rain", Priority: 9}
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		health     Health
		offered    []engine.InterventionSummary
		wantID     string
		wantTarget int
	}{
		{
			name:    "critical spread takes the strongest containment",
			health:  Health{InfectedFraction: 0.06, Growth: 1, Economy: 80, Morale: 80},
			offered: []engine.InterventionSummary{offerMasks, offerQuarantine, offerStimulus},
			wantID:  "quarantine",
		},
		{
			name:    "early spread avoids heavy containment",
			health:  Health{InfectedFraction: 0.002, Growth: 1, Economy: 80, Morale: 80},
			offered: []engine.InterventionSummary{offerQuarantine, offerMasks},
			wantID:  "mask_mandate",
		},
		{
			name:    "quiet outbreak lifts restrictions for the economy",
			health:  Health{InfectedFraction: 0.0001, Growth: 1, Economy: 50, Morale: 80},
			offered: []engine.InterventionSummary{offerStimulus, offerLift},
			wantID:  "lift_quarantine",
		},
		{
			name:       "economic crisis funds the poorest region",
			health:     Health{InfectedFraction: 0.0001, Growth: 1, Economy: 25, Morale: 80, PoorestRegion: 1},
			offered:    []engine.InterventionSummary{offerMasks, offerStimulus},
			wantID:     "economic_stimulus",
			wantTarget: 1,
		},
		{
			name:       "hospitals go to the worst region",
			health:     Health{InfectedFraction: 0.02, Growth: 1, Economy: 80, Morale: 80, WorstRegion: 2},
			offered:    []engine.InterventionSummary{offerHospitals, offerMystery},
			wantID:     "invest_hospitals",
			wantTarget: 2,
		},
		{
			name:    "healthy world needs nothing",
			health:  Health{Growth: 1, Economy: 80, Morale: 80},
			offered: []engine.InterventionSummary{offerMasks, offerQuarantine},
		},
		{
			name:    "containment never spends below the floor",
			health:  Health{InfectedFraction: 0.02, Growth: 1, Economy: 25, Morale: 80},
			offered: []engine.InterventionSummary{offerQuarantine},
		},
		{
			name:    "unknown interventions are ignored",
			health:  Health{InfectedFraction: 0.06, Growth: 1, Economy: 80, Morale: 80},
			offered: []engine.InterventionSummary{offerMystery},
		},
		{
			name:   "nothing offered",
			health: Health{InfectedFraction: 0.06, Growth: 1, Economy: 80, Morale: 80},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decide(&tt.health, tt.offered, 3)
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if d.Rationale == "" {
				t.Error("empty rationale")
			}
			if tt.wantID == "" {
				if d.Action != ActionNone || d.InterventionID != "" {
					t.Errorf("decision = %+v, want none", d)
				}
				return
			}
			if d.Action != ActionApply || d.InterventionID != tt.wantID {
				t.Fatalf("decision = %+v, want %s", d, tt.wantID)
			}
			var requiresTarget bool
			for _, o := range tt.offered {
				if o.ID == tt.wantID {
					requiresTarget = o.RequiresTarget
				}
			}
			switch {
			case requiresTarget && (d.Target == nil || *d.Target != tt.wantTarget):
				t.Errorf("target = %v, want %d", d.Target, tt.wantTarget)
			case !requiresTarget && d.Target != nil:
				t.Errorf("untargeted intervention got target %d", *d.Target)
			}
		})
	}
}

func TestDecideRejectsImpossibleTarget(t *testing.T) {
	h := &Health{InfectedFraction: 0.0001, Growth: 1, Economy: 25, Morale: 80, PoorestRegion: 4}
	_, err := Decide(h, []engine.InterventionSummary{offerStimulus}, 2)
	if !errors.Is(err, errTarget) {
		t.Errorf("err = %v, want errTarget", err)
	}
}

func TestEnforceGuardrails(t *testing.T) {
	offered := []engine.InterventionSummary{offerMasks, offerStimulus}
	one, nine := 1, 9

	tests := []struct {
		name    string
		d       Decision
		wantErr error
	}{
		{"none", Decision{Action: ActionNone, InterventionID: "mask_mandate", Target: &one}, nil},
		{"unknown action", Decision{Action: "pray"}, errUnknownAction},
		{"not offered", Decision{Action: ActionApply, InterventionID: "quarantine"}, errNotOffered},
		{"missing target", Decision{Action: ActionApply, InterventionID: "economic_stimulus"}, errTarget},
		{"target out of range", Decision{Action: ActionApply, InterventionID: "economic_stimulus", Target: &nine}, errTarget},
		{"targeted", Decision{Action: ActionApply, InterventionID: "economic_stimulus", Target: &one}, nil},
		{"untargeted", Decision{Action: ActionApply, InterventionID: "mask_mandate", Target: &one}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.d
			err := enforceGuardrails(&d, offered, 3)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	d := Decision{Action: ActionApply, InterventionID: "mask_mandate", Target: &one}
	if err := enforceGuardrails(&d, offered, 3); err != nil || d.Target != nil {
		t.Errorf("untargeted intervention kept target: %+v, %v", d, err)
	}
	d = Decision{Action: ActionNone, InterventionID: "mask_mandate"}
	if err := enforceGuardrails(&d, offered, 3); err != nil || d.InterventionID != "" {
		t.Errorf("none kept an intervention: %+v, %v", d, err)
	}
}
