package steward

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Steward runs observe, triage, decide and act cycles.
type Steward struct {
	Observer Observer
	Actor    Actor
	Memory   *CycleMemory
	// MemoryPath, when set, is rewritten after every cycle.
	MemoryPath string
}

// New creates a steward with empty memory.
func New(obs Observer, act Actor) *Steward {
	return &Steward{Observer: obs, Actor: act, Memory: &CycleMemory{}}
}

// NewLocal creates a steward driving an in-process game.
func NewLocal(g Game) *Steward {
	l := Local{Game: g}
	return New(l, l)
}

// Cycle executes one observe, decide, act cycle and records it in memory.
func (s *Steward) Cycle(ctx context.Context) (*Decision, error) {
	obs, err := s.Observer.Observe(ctx)
	if err != nil {
		return nil, fmt.Errorf("observe: %w", err)
	}

	health := Triage(obs.History)
	decision, err := Decide(health, obs.Offered, obs.Regions())
	if err != nil {
		return nil, err
	}
	slog.Debug("steward decision",
		"day", obs.Day(),
		"crisis", health.CrisisLevel,
		"action", decision.Action,
		"rationale", decision.Rationale,
	)

	rec := CycleRecord{
		Day:              obs.Day(),
		Action:           decision.Action,
		InterventionID:   decision.InterventionID,
		Target:           decision.Target,
		CrisisLevel:      health.CrisisLevel,
		InfectedFraction: health.InfectedFraction,
		Economy:          health.Economy,
		Morale:           health.Morale,
		Rationale:        decision.Rationale,
	}

	actErr := s.Actor.Act(ctx, decision)
	if actErr != nil {
		rec.Error = actErr.Error()
	}
	if s.Memory != nil {
		s.Memory.Record(rec)
		if s.MemoryPath != "" {
			if err := s.Memory.Save(s.MemoryPath); err != nil {
				slog.Warn("failed to save steward memory", "path", s.MemoryPath, "error", err)
			}
		}
	}
	if actErr != nil {
		return decision, fmt.Errorf("act: %w", actErr)
	}

	if decision.Action == ActionApply {
		slog.Info("steward intervened", "day", rec.Day, "intervention", decision.InterventionID, "crisis", health.CrisisLevel)
	}
	return decision, nil
}

// Run cycles every interval until ctx is done. Failed cycles are logged and
// the loop carries on.
func (s *Steward) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Cycle(ctx); err != nil {
			slog.Error("steward cycle failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
