package api

import (
	"testing"

	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/scenario"
)

func TestGameTick(t *testing.T) {
	sess, err := engine.NewSession(epidemic.DifficultyEasy, scenario.BuiltIn(), engine.WithSeed(3))
	if err != nil {
		t.Fatal(err)
	}
	g := NewGame(sess)
	if g.Tick() {
		t.Fatal("first day ended the session")
	}
	if n := len(g.History()); n != 2 {
		t.Errorf("history length %d after one tick", n)
	}

	doomed, err := engine.NewSession(epidemic.DifficultyEasy,
		[]scenario.RegionConfig{{Name: "Doomed", Population: 10, InitialInfected: 10}}, engine.WithSeed(3))
	if err != nil {
		t.Fatal(err)
	}
	if !NewGame(doomed).Tick() {
		t.Error("tick on a finished session did not report done")
	}
}
