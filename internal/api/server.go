// Package api provides the HTTP API for observing and playing a session.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/events"
	"github.com/talgya/contagion/internal/interventions"
	"github.com/talgya/contagion/internal/persistence"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 1000
	defaultEventLimit   = 50
	maxEventLimit       = 500
	maxSpeed            = 1000
)

// Server serves a session over HTTP.
type Server struct {
	Game     *Game
	Eng      *engine.Engine  // Day loop; nil disables /speed.
	DB       *persistence.DB // Run archive; nil disables /runs.
	Addr     string          // Listen address, e.g. ":8080".
	AdminKey string          // Bearer token for POST endpoints. Empty = POST disabled.
	Origins  []string        // Extra CORS origins beyond the localhost dev servers.
	Advance  *RateLimiter    // Limits POST /advance; nil uses 60 per minute.
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	limiter := s.Advance
	if limiter == nil {
		limiter = NewRateLimiter(60, time.Minute)
	}

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/regions", s.handleRegions)
	mux.HandleFunc("/api/v1/region/", s.handleRegionDetail)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)

	// Mixed endpoints: GET public, POST admin.
	mux.HandleFunc("/api/v1/interventions", s.adminOnly(s.handleInterventions))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	// Admin endpoints.
	mux.HandleFunc("/api/v1/advance", s.adminOnly(RateLimitMiddleware(limiter, s.handleAdvance)))

	return corsMiddleware(s.Origins, mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", s.Addr, "admin_auth", s.AdminKey != "")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		slog.Info("HTTP API stopped")
		return nil
	}
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Localhost dev servers are always allowed.
func corsMiddleware(extra []string, next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range extra {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowedOrigins[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both GET and POST).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no CONTAGION_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	var status map[string]any
	s.Game.With(func(sess *engine.Session) {
		g := sess.GlobalStats()
		status = map[string]any{
			"session":             sess.ID(),
			"difficulty":          sess.Difficulty(),
			"day":                 sess.Day(),
			"outcome":             sess.CheckEndCondition(),
			"severity":            engine.SeverityOf(g.InfectedFraction()).String(),
			"decisions_remaining": sess.DecisionsRemaining(),
			"regions":             sess.RegionCount(),
			"global":              g,
		}
	})
	if s.Eng != nil {
		status["speed"] = s.Eng.Speed()
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	var regions []epidemic.RegionStats
	s.Game.With(func(sess *engine.Session) {
		regions = sess.AllRegionStats()
	})
	writeJSON(w, http.StatusOK, regions)
}

func (s *Server) handleRegionDetail(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/region/"), "/")
	index, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "invalid region index", http.StatusBadRequest)
		return
	}
	stats, err := s.Game.RegionStats(index)
	if errors.Is(err, engine.ErrInvalidRegion) {
		http.Error(w, "region not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	from := queryInt(q.Get("from"), 0, 0, 1<<31-1)
	to := queryInt(q.Get("to"), 1<<31-1, 0, 1<<31-1)
	limit := queryInt(q.Get("limit"), defaultHistoryLimit, 1, maxHistoryLimit)

	rows := make([]engine.Snapshot, 0)
	for _, snap := range s.Game.History() {
		if snap.Day >= from && snap.Day <= to {
			rows = append(rows, snap)
		}
	}
	if len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	limit := queryInt(r.URL.Query().Get("limit"), defaultEventLimit, 1, maxEventLimit)
	recent := r.URL.Query().Get("recent") == "true"

	var list []events.Record
	s.Game.With(func(sess *engine.Session) {
		if recent {
			list = sess.RecentEvents()
		} else {
			list = sess.EventHistory()
		}
	})
	if list == nil {
		list = []events.Record{}
	}
	if len(list) > limit {
		if recent {
			list = list[:limit]
		} else {
			list = list[len(list)-limit:]
		}
	}
	writeJSON(w, http.StatusOK, list)
}

// eventSummary is an event catalog entry with this session's daily odds.
type eventSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Probability  float64 `json:"probability"`
	Requirements string  `json:"requirements"`
}

type catalogResponse struct {
	Interventions []engine.InterventionSummary `json:"interventions"`
	Events        []eventSummary               `json:"events"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	var resp catalogResponse
	var d epidemic.Difficulty
	s.Game.With(func(sess *engine.Session) {
		resp.Interventions = sess.InterventionCatalog()
		d = sess.Difficulty()
	})
	for _, def := range events.NewRegistry(d, nil).Definitions() {
		resp.Events = append(resp.Events, eventSummary{
			ID:           def.ID,
			Name:         def.Name,
			Description:  def.Description,
			Probability:  def.Probability,
			Requirements: def.Requirements.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	limit := queryInt(r.URL.Query().Get("limit"), 20, 1, 200)
	rows, err := s.DB.Sessions(limit)
	if err != nil {
		slog.Error("runs query failed", "error", err)
		http.Error(w, "runs query failed", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []persistence.SessionRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

type offerList struct {
	Day       int                          `json:"day"`
	Remaining int                          `json:"remaining"`
	Offered   []engine.InterventionSummary `json:"offered"`
}

type applyRequest struct {
	ID     string `json:"id"`
	Target *int   `json:"target,omitempty"`
}

type applyResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Day        int    `json:"day"`
	Remaining  int    `json:"remaining"`
}

func (s *Server) handleInterventions(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if r.Method == http.MethodGet {
		var list offerList
		s.Game.With(func(sess *engine.Session) {
			list = offerList{
				Day:       sess.Day(),
				Remaining: sess.DecisionsRemaining(),
				Offered:   sess.ListAvailableInterventions(),
			}
		})
		if list.Offered == nil {
			list.Offered = []engine.InterventionSummary{}
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	var resp applyResponse
	var err error
	s.Game.With(func(sess *engine.Session) {
		resp.Success, err = sess.ApplyIntervention(req.ID, req.Target)
		resp.Day = sess.Day()
		resp.Remaining = sess.DecisionsRemaining()
	})
	if err != nil {
		resp.Error = err.Error()
		status := applyStatus(err)
		if errors.Is(err, interventions.ErrUnknownIntervention) {
			resp.Suggestion = suggest(req.ID, interventions.IDs())
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// applyStatus maps an ApplyIntervention error to an HTTP status.
func applyStatus(err error) int {
	switch {
	case errors.Is(err, interventions.ErrUnknownIntervention):
		return http.StatusNotFound
	case errors.Is(err, interventions.ErrTargetRequired), errors.Is(err, engine.ErrInvalidRegion):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrSessionOver),
		errors.Is(err, engine.ErrNotOffered),
		errors.Is(err, interventions.ErrQuotaExhausted),
		errors.Is(err, interventions.ErrOnCooldown),
		errors.Is(err, interventions.ErrNoEffect):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	snap, err := s.Game.AdvanceDay()
	if errors.Is(err, engine.ErrSessionOver) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   err.Error(),
			"outcome": s.Game.Outcome(),
		})
		return
	}
	if err != nil {
		slog.Error("manual advance failed", "error", err)
		http.Error(w, "advance failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot": snap,
		"outcome":  s.Game.Outcome(),
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if s.Eng == nil {
		http.Error(w, "day loop not running", http.StatusServiceUnavailable)
		return
	}
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > maxSpeed {
			http.Error(w, fmt.Sprintf("speed must be 0-%d", maxSpeed), http.StatusBadRequest)
			return
		}
		s.Eng.SetSpeed(req.Speed)
	}

	writeJSON(w, http.StatusOK, map[string]float64{"speed": s.Eng.Speed()})
}

// queryInt parses a query value, falling back to def when it is missing,
// malformed or outside [lo, hi].
func queryInt(raw string, def, lo, hi int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
