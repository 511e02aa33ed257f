// Package steward implements the autopilot. It observes a session's state,
// triages it, decides on at most one intervention per cycle by fixed rules,
// and acts either on an in-process session or through the admin API.
package steward

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talgya/contagion/internal/engine"
)

// historyDepth is how many snapshots an observation carries.
const historyDepth = 10

// Observation holds all data collected during an observation cycle.
type Observation struct {
	History []engine.Snapshot            `json:"history"`
	Offered []engine.InterventionSummary `json:"offered"`
}

// Regions is the number of regions in the latest snapshot.
func (o *Observation) Regions() int {
	if len(o.History) == 0 {
		return 0
	}
	return len(o.History[len(o.History)-1].Regions)
}

// Day is the day of the latest snapshot.
func (o *Observation) Day() int {
	if len(o.History) == 0 {
		return 0
	}
	return o.History[len(o.History)-1].Day
}

// Observer fetches the state the steward decides on.
type Observer interface {
	Observe(ctx context.Context) (*Observation, error)
}

// Actor carries out a decision.
type Actor interface {
	Act(ctx context.Context, d *Decision) error
}

// Game is the part of a session the steward drives. *engine.Session
// satisfies it, as does any wrapper that serializes access to one.
type Game interface {
	History() []engine.Snapshot
	ListAvailableInterventions() []engine.InterventionSummary
	ApplyIntervention(id string, target *int) (bool, error)
}

// Local observes and acts on an in-process game.
type Local struct {
	Game Game
}

// Observe reads the latest history and today's offers.
func (l Local) Observe(context.Context) (*Observation, error) {
	h := l.Game.History()
	return &Observation{
		History: h[max(0, len(h)-historyDepth):],
		Offered: l.Game.ListAvailableInterventions(),
	}, nil
}

// Act applies the decided intervention, if any.
func (l Local) Act(_ context.Context, d *Decision) error {
	if d.Action != ActionApply {
		return nil
	}
	if _, err := l.Game.ApplyIntervention(d.InterventionID, d.Target); err != nil {
		return fmt.Errorf("apply %s: %w", d.InterventionID, err)
	}
	return nil
}

// OfferList mirrors GET /api/v1/interventions.
type OfferList struct {
	Day       int                          `json:"day"`
	Remaining int                          `json:"remaining"`
	Offered   []engine.InterventionSummary `json:"offered"`
}

// Remote observes and acts on a server through its HTTP API.
type Remote struct {
	BaseURL    string
	AdminKey   string
	HTTPClient *http.Client
}

// NewRemote creates a Remote targeting the given API base URL with admin auth.
func NewRemote(baseURL, adminKey string) *Remote {
	return &Remote{
		BaseURL:  baseURL,
		AdminKey: adminKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Observe fetches recent history and today's offers.
func (r *Remote) Observe(ctx context.Context) (*Observation, error) {
	obs := &Observation{}

	if err := r.fetchJSON(ctx, fmt.Sprintf("/api/v1/history?limit=%d", historyDepth), &obs.History); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	var offers OfferList
	if err := r.fetchJSON(ctx, "/api/v1/interventions", &offers); err != nil {
		return nil, fmt.Errorf("fetch interventions: %w", err)
	}
	obs.Offered = offers.Offered

	return obs, nil
}

// fetchJSON GETs a path and decodes the JSON response into target.
func (r *Remote) fetchJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
