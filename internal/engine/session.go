package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/contagion/internal/entropy"
	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/events"
	"github.com/talgya/contagion/internal/interventions"
	"github.com/talgya/contagion/internal/scenario"
)

var (
	ErrSessionOver = errors.New("session is over")
	ErrNotOffered  = errors.New("intervention not offered today")

	// ErrInvalidRegion is shared with the intervention registry so callers
	// can match either with errors.Is.
	ErrInvalidRegion = interventions.ErrInvalidRegion
)

// InterventionSummary is what a player sees of an offered intervention.
type InterventionSummary struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	CostEconomy    float64 `json:"cost_economy"`
	CostMorale     float64 `json:"cost_morale"`
	Priority       int     `json:"priority"`
	RequiresTarget bool    `json:"requires_target"`
}

func summarize(d interventions.Definition) InterventionSummary {
	return InterventionSummary{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		CostEconomy:    d.CostEconomy,
		CostMorale:     d.CostMorale,
		Priority:       d.Priority,
		RequiresTarget: d.Regional,
	}
}

// SessionInfo describes a session when it starts.
type SessionInfo struct {
	ID         string
	Difficulty epidemic.Difficulty
	Seed       int64
	Seeded     bool
	Regions    []scenario.RegionConfig
	StartedAt  time.Time
}

// Recorder receives a session's history as it happens. Recorder errors are
// logged and never interrupt play.
type Recorder interface {
	BeginSession(info SessionInfo) error
	RecordDay(sessionID string, snap Snapshot, fired []events.Record) error
	RecordIntervention(sessionID string, rec interventions.Record) error
	EndSession(sessionID string, day int, outcome Outcome) error
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	id       string
	seed     int64
	seeded   bool
	source   entropy.Source
	recorder Recorder
}

// WithSeed makes every random draw of the session replayable.
func WithSeed(seed int64) Option {
	return func(o *sessionOptions) {
		o.seed = seed
		o.seeded = true
	}
}

// WithSource injects a random source directly. It overrides WithSeed.
func WithSource(src entropy.Source) Option {
	return func(o *sessionOptions) { o.source = src }
}

// WithID sets the session id instead of generating a UUID.
func WithID(id string) Option {
	return func(o *sessionOptions) { o.id = id }
}

// WithRecorder attaches a history recorder.
func WithRecorder(r Recorder) Option {
	return func(o *sessionOptions) { o.recorder = r }
}

// Session is one game: the simulation, both registries, the day counter and
// the snapshot history. A Session is not safe for concurrent use.
type Session struct {
	id         string
	difficulty epidemic.Difficulty

	sim           *Simulation
	interventions *interventions.Registry
	events        *events.Registry
	recorder      Recorder

	day     int
	offered []interventions.Definition
	history []Snapshot
	outcome Outcome
}

// NewSession starts a session on day 1 and records the initial snapshot.
func NewSession(d epidemic.Difficulty, configs []scenario.RegionConfig, opts ...Option) (*Session, error) {
	if err := scenario.Validate(configs); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	rng := o.source
	switch {
	case rng != nil:
	case o.seeded:
		rng = entropy.NewSeeded(o.seed)
	default:
		rng = entropy.Crypto{}
	}

	regions := make([]*epidemic.Region, len(configs))
	for i, c := range configs {
		regions[i] = epidemic.NewRegion(c.Name, c.Population, c.InitialInfected, d)
	}

	s := &Session{
		id:            o.id,
		difficulty:    d,
		sim:           NewSimulation(regions, d, rng),
		interventions: interventions.NewRegistry(d, rng),
		events:        events.NewRegistry(d, rng),
		recorder:      o.recorder,
		day:           1,
	}

	if s.recorder != nil {
		info := SessionInfo{
			ID:         s.id,
			Difficulty: d,
			Seed:       o.seed,
			Seeded:     o.seeded,
			Regions:    append([]scenario.RegionConfig(nil), configs...),
			StartedAt:  time.Now().UTC(),
		}
		if err := s.recorder.BeginSession(info); err != nil {
			slog.Warn("recorder: begin session failed", "session", s.id, "error", err)
		}
	}

	s.interventions.NewDay(s.day)
	s.refreshOffered()
	s.record(s.sim.snapshot(s.day), nil)

	slog.Info("session started", "session", s.id, "difficulty", d, "regions", len(regions), "population", s.sim.GlobalStats().TotalPopulation)
	return s, nil
}

// AdvanceDay runs one full day: region steps, international spread, event
// rolls, then the day counter moves on and a fresh set of interventions is
// offered. It returns the snapshot appended to the history.
func (s *Session) AdvanceDay() (Snapshot, error) {
	if s.outcome.Over() {
		return Snapshot{}, ErrSessionOver
	}

	s.sim.Step()
	fired := s.events.Check(s.day, s.sim.Regions, s.sim.GlobalStats())

	s.day++
	s.interventions.NewDay(s.day)
	s.refreshOffered()

	snap := s.sim.snapshot(s.day)
	s.record(snap, fired)

	g := snap.Global
	slog.Info("daily report",
		"session", s.id,
		"day", s.day,
		"infected", int64(g.Infected),
		"deaths", int64(g.Deaths),
		"economy", fmt.Sprintf("%.1f", g.Economy),
		"morale", fmt.Sprintf("%.1f", g.Morale),
		"severity", SeverityOf(g.InfectedFraction()),
		"events", len(fired),
	)
	return snap, nil
}

func (s *Session) record(snap Snapshot, fired []events.Record) {
	s.history = append(s.history, snap)
	s.outcome = EvaluateOutcome(s.history)
	if s.outcome.Over() {
		slog.Info("session over", "session", s.id, "day", snap.Day, "outcome", s.outcome)
	}

	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordDay(s.id, snap, fired); err != nil {
		slog.Warn("recorder: record day failed", "session", s.id, "day", snap.Day, "error", err)
	}
	if s.outcome.Over() {
		if err := s.recorder.EndSession(s.id, snap.Day, s.outcome); err != nil {
			slog.Warn("recorder: end session failed", "session", s.id, "error", err)
		}
	}
}

func (s *Session) refreshOffered() {
	s.offered = s.interventions.Available(s.day, s.sim.Regions, s.sim.GlobalStats())
}

// ListAvailableInterventions returns today's offers. Applied entries drop
// off, and the list is empty once the daily quota is used.
func (s *Session) ListAvailableInterventions() []InterventionSummary {
	if s.outcome.Over() {
		return nil
	}
	out := make([]InterventionSummary, len(s.offered))
	for i, d := range s.offered {
		out[i] = summarize(d)
	}
	return out
}

// ApplyIntervention applies one of today's offers. target is required for
// regional interventions and ignored otherwise. It returns false with a
// reason when nothing was applied.
func (s *Session) ApplyIntervention(id string, target *int) (bool, error) {
	if s.outcome.Over() {
		return false, ErrSessionOver
	}

	idx := -1
	for i, d := range s.offered {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		if _, ok := s.interventions.Lookup(id); !ok {
			return false, fmt.Errorf("%w: %q", interventions.ErrUnknownIntervention, id)
		}
		if s.interventions.Remaining() == 0 {
			return false, interventions.ErrQuotaExhausted
		}
		return false, fmt.Errorf("%w: %s", ErrNotOffered, id)
	}

	if err := s.interventions.Apply(id, s.sim.Regions, target); err != nil {
		return false, err
	}

	s.offered = append(s.offered[:idx:idx], s.offered[idx+1:]...)
	if s.interventions.Remaining() == 0 {
		s.offered = nil
	}

	if s.recorder != nil {
		h := s.interventions.History()
		if err := s.recorder.RecordIntervention(s.id, h[len(h)-1]); err != nil {
			slog.Warn("recorder: record intervention failed", "session", s.id, "id", id, "error", err)
		}
	}
	slog.Info("intervention applied", "session", s.id, "day", s.day, "id", id)
	return true, nil
}

// GlobalStats returns the current world aggregate.
func (s *Session) GlobalStats() GlobalStats {
	return s.sim.GlobalStats()
}

// RegionStats returns the current state of region index.
func (s *Session) RegionStats(index int) (epidemic.RegionStats, error) {
	if index < 0 || index >= len(s.sim.Regions) {
		return epidemic.RegionStats{}, fmt.Errorf("%w: %d", ErrInvalidRegion, index)
	}
	return s.sim.Regions[index].Stats(), nil
}

// AllRegionStats returns the current state of every region.
func (s *Session) AllRegionStats() []epidemic.RegionStats {
	return s.sim.RegionStats()
}

// RegionCount is the number of regions in the session.
func (s *Session) RegionCount() int { return len(s.sim.Regions) }

// CheckEndCondition returns the outcome as of the latest snapshot.
func (s *Session) CheckEndCondition() Outcome {
	return s.outcome
}

// History returns every snapshot, oldest first.
func (s *Session) History() []Snapshot {
	out := make([]Snapshot, len(s.history))
	copy(out, s.history)
	return out
}

// EventHistory returns every event fired so far.
func (s *Session) EventHistory() []events.Record {
	return s.events.History()
}

// RecentEvents returns events of the last week, newest first.
func (s *Session) RecentEvents() []events.Record {
	return s.events.Recent(s.day, events.RecentWindow)
}

// InterventionHistory returns every applied intervention.
func (s *Session) InterventionHistory() []interventions.Record {
	return s.interventions.History()
}

// InterventionCatalog returns every intervention with this session's costs.
func (s *Session) InterventionCatalog() []InterventionSummary {
	return summarizeAll(s.interventions.Definitions())
}

// CatalogFor returns every intervention with costs scaled for d, without
// starting a session.
func CatalogFor(d epidemic.Difficulty) []InterventionSummary {
	return summarizeAll(interventions.NewRegistry(d, nil).Definitions())
}

func summarizeAll(defs []interventions.Definition) []InterventionSummary {
	out := make([]InterventionSummary, len(defs))
	for i, d := range defs {
		out[i] = summarize(d)
	}
	return out
}

// Day is the current day, starting at 1.
func (s *Session) Day() int { return s.day }

// ID is the session's unique id.
func (s *Session) ID() string { return s.id }

// Difficulty is the session's difficulty.
func (s *Session) Difficulty() epidemic.Difficulty { return s.difficulty }

// DecisionsRemaining is how many interventions may still be applied today.
func (s *Session) DecisionsRemaining() int { return s.interventions.Remaining() }
