package steward

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/scenario"
)

func TestLocalStewardPlaysASession(t *testing.T) {
	s, err := engine.NewSession(epidemic.DifficultyNormal, scenario.BuiltIn(), engine.WithSeed(4))
	if err != nil {
		t.Fatal(err)
	}
	st := NewLocal(s)
	ctx := context.Background()

	applied := 0
	for i := 0; i < 60; i++ {
		d, err := st.Cycle(ctx)
		if err != nil {
			t.Fatalf("day %d: %v", s.Day(), err)
		}
		if d.Action == ActionApply {
			applied++
		}
		if _, err := s.AdvanceDay(); errors.Is(err, engine.ErrSessionOver) {
			break
		} else if err != nil {
			t.Fatal(err)
		}
	}

	if applied != len(s.InterventionHistory()) {
		t.Errorf("steward applied %d, session recorded %d", applied, len(s.InterventionHistory()))
	}
	if len(st.Memory.Records) == 0 || len(st.Memory.Records) > maxRecords {
		t.Errorf("memory holds %d records", len(st.Memory.Records))
	}
}

// fakeAPI serves the endpoints the remote steward uses.
type fakeAPI struct {
	history []engine.Snapshot
	offers  OfferList
	key     string
	applied []ApplyRequest
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/history":
		json.NewEncoder(w).Encode(f.history)
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/interventions":
		json.NewEncoder(w).Encode(f.offers)
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/interventions":
		if r.Header.Get("Authorization") != "Bearer "+f.key {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ApplyResult{Error: "unauthorized"})
			return
		}
		var req ApplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.applied = append(f.applied, req)
		json.NewEncoder(w).Encode(ApplyResult{Success: true, Day: f.offers.Day})
	default:
		http.NotFound(w, r)
	}
}

func newFakeAPI() *fakeAPI {
	regions := []epidemic.RegionStats{
		{Population: 500_000, Infected: 5_000, Economy: 80, Morale: 80},
		{Population: 500_000, Infected: 55_000, Economy: 80, Morale: 80},
	}
	return &fakeAPI{
		history: []engine.Snapshot{snap(9, 30_000, 80, 80, regions...), snap(10, 60_000, 80, 80, regions...)},
		offers: OfferList{
			Day:       10,
			Remaining: 2,
			Offered:   []engine.InterventionSummary{offerMasks, offerHospitals},
		},
		key: "secret",
	}
}

func TestRemoteStewardActsThroughAPI(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api)
	defer srv.Close()

	st := New(NewRemote(srv.URL, "secret"), NewRemote(srv.URL, "secret"))
	d, err := st.Cycle(context.Background())
	if err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if d.InterventionID != "invest_hospitals" {
		t.Fatalf("decision = %+v", d)
	}
	if len(api.applied) != 1 || api.applied[0].ID != "invest_hospitals" || api.applied[0].Target == nil || *api.applied[0].Target != 1 {
		t.Errorf("server received %+v", api.applied)
	}
	if rec := st.Memory.Records[0]; rec.Day != 10 || rec.CrisisLevel != CrisisCritical {
		t.Errorf("memory = %+v", rec)
	}
}

func TestRemoteStewardRecordsRejectedAction(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api)
	defer srv.Close()

	r := NewRemote(srv.URL, "wrong")
	st := New(r, r)
	if _, err := st.Cycle(context.Background()); err == nil {
		t.Fatal("Cycle succeeded with a bad admin key")
	}
	if len(api.applied) != 0 {
		t.Errorf("server applied %+v", api.applied)
	}
	if len(st.Memory.Records) != 1 || st.Memory.Records[0].Error == "" {
		t.Errorf("memory = %+v", st.Memory.Records)
	}
}

func TestRemoteObserveFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	r := NewRemote(srv.URL, "")
	if _, err := r.Observe(context.Background()); err == nil {
		t.Error("Observe succeeded against a missing API")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, err := engine.NewSession(epidemic.DifficultyEasy, scenario.BuiltIn(), engine.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewLocal(s).Run(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Run err = %v", err)
	}
}
