package api

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/epidemic"
)

// Game serializes every call into a session. HTTP handlers, the day loop and
// the steward all go through it.
type Game struct {
	mu      sync.Mutex
	session *engine.Session
}

// NewGame wraps a session.
func NewGame(s *engine.Session) *Game {
	return &Game{session: s}
}

// With runs fn while holding the session lock. fn must not retain s.
func (g *Game) With(fn func(s *engine.Session)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.session)
}

// AdvanceDay advances the session by one day.
func (g *Game) AdvanceDay() (engine.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.AdvanceDay()
}

// Tick is the day loop callback: it advances one day and reports whether
// play has ended.
func (g *Game) Tick() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.session.AdvanceDay(); err != nil {
		if !errors.Is(err, engine.ErrSessionOver) {
			slog.Error("advance day failed", "session", g.session.ID(), "error", err)
		}
		return true
	}
	return g.session.CheckEndCondition().Over()
}

// History returns every snapshot, oldest first.
func (g *Game) History() []engine.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.History()
}

// ListAvailableInterventions returns today's offers.
func (g *Game) ListAvailableInterventions() []engine.InterventionSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.ListAvailableInterventions()
}

// ApplyIntervention applies one of today's offers.
func (g *Game) ApplyIntervention(id string, target *int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.ApplyIntervention(id, target)
}

// RegionStats returns the current state of region index.
func (g *Game) RegionStats(index int) (epidemic.RegionStats, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.RegionStats(index)
}

// Outcome returns the session outcome so far.
func (g *Game) Outcome() engine.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.CheckEndCondition()
}
