package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/talgya/contagion/internal/config"
	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/events"
	"github.com/talgya/contagion/internal/persistence"
)

// openArchive opens the run archive, creating its directory. It returns nil
// when archiving is disabled.
func openArchive(cfg *config.Config) (*persistence.DB, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	if dir := filepath.Dir(cfg.Archive.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("archive dir: %w", err)
		}
	}
	db, err := persistence.Open(cfg.Archive.Path)
	if err != nil {
		return nil, err
	}
	slog.Debug("archive opened", "path", cfg.Archive.Path)
	return db, nil
}

// startSession builds the world and starts a session, archived when enabled.
// The caller closes the returned DB if it is non-nil.
func startSession(cfg *config.Config) (*engine.Session, *persistence.DB, error) {
	regions, err := cfg.Regions()
	if err != nil {
		return nil, nil, fmt.Errorf("world: %w", err)
	}

	db, err := openArchive(cfg)
	if err != nil {
		return nil, nil, err
	}

	var opts []engine.Option
	if cfg.Game.Seed != 0 {
		opts = append(opts, engine.WithSeed(cfg.Game.Seed))
	}
	if db != nil {
		opts = append(opts, engine.WithRecorder(db))
	}

	sess, err := engine.NewSession(cfg.Difficulty(), regions, opts...)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, err
	}
	return sess, db, nil
}

// firedOn returns the events rolled on the given day.
func firedOn(sess *engine.Session, day int) []events.Record {
	var out []events.Record
	for _, e := range sess.EventHistory() {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out
}
