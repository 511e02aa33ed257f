// Package persistence archives finished and running sessions in SQLite for
// later reporting. Archived runs are never loaded back into play.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/events"
	"github.com/talgya/contagion/internal/interventions"
)

// ErrNotFound is returned when a session id is not in the archive.
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite connection for the run archive.
type DB struct {
	conn *sqlx.DB
}

var _ engine.Recorder = (*DB)(nil)

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		difficulty TEXT NOT NULL,
		seed INTEGER NOT NULL,
		seeded INTEGER NOT NULL,
		regions_json TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_day INTEGER,
		outcome TEXT,
		reason TEXT
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		session_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		population INTEGER NOT NULL,
		susceptible REAL NOT NULL,
		exposed REAL NOT NULL,
		infected REAL NOT NULL,
		recovered REAL NOT NULL,
		deaths REAL NOT NULL,
		economy REAL NOT NULL,
		morale REAL NOT NULL,
		regions_json TEXT NOT NULL,
		PRIMARY KEY (session_id, day)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		event_id TEXT NOT NULL,
		name TEXT NOT NULL,
		region INTEGER
	);

	CREATE TABLE IF NOT EXISTS interventions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		intervention_id TEXT NOT NULL,
		target INTEGER
	);

	CREATE TABLE IF NOT EXISTS archive_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, day);
	CREATE INDEX IF NOT EXISTS idx_interventions_session ON interventions(session_id, day);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginSession stores a session header.
func (db *DB) BeginSession(info engine.SessionInfo) error {
	regionsJSON, err := json.Marshal(info.Regions)
	if err != nil {
		return fmt.Errorf("marshal regions: %w", err)
	}
	seeded := 0
	if info.Seeded {
		seeded = 1
	}
	_, err = db.conn.Exec(`INSERT INTO sessions
		(id, difficulty, seed, seeded, regions_json, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		info.ID, string(info.Difficulty), info.Seed, seeded, string(regionsJSON),
		info.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", info.ID, err)
	}
	return db.SaveMeta("last_session", info.ID)
}

// RecordDay stores a snapshot and the events that fired on the way to it.
func (db *DB) RecordDay(sessionID string, snap engine.Snapshot, fired []events.Record) error {
	regionsJSON, err := json.Marshal(snap.Regions)
	if err != nil {
		return fmt.Errorf("marshal regions: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	g := snap.Global
	_, err = tx.Exec(`INSERT OR REPLACE INTO snapshots
		(session_id, day, population, susceptible, exposed, infected,
		 recovered, deaths, economy, morale, regions_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, snap.Day, g.TotalPopulation, g.Susceptible, g.Exposed, g.Infected,
		g.Recovered, g.Deaths, g.Economy, g.Morale, string(regionsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot day %d: %w", snap.Day, err)
	}

	if len(fired) > 0 {
		stmt, err := tx.Preparex(`INSERT INTO events
			(session_id, day, event_id, name, region) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range fired {
			if _, err := stmt.Exec(sessionID, e.Day, e.ID, e.Name, e.Region); err != nil {
				return fmt.Errorf("insert event %s: %w", e.ID, err)
			}
		}
	}

	return tx.Commit()
}

// RecordIntervention appends an applied intervention.
func (db *DB) RecordIntervention(sessionID string, rec interventions.Record) error {
	_, err := db.conn.Exec(
		"INSERT INTO interventions (session_id, day, intervention_id, target) VALUES (?, ?, ?, ?)",
		sessionID, rec.Day, rec.ID, rec.Target,
	)
	return err
}

// EndSession stores the final outcome.
func (db *DB) EndSession(sessionID string, day int, outcome engine.Outcome) error {
	res, err := db.conn.Exec(
		"UPDATE sessions SET ended_day = ?, outcome = ?, reason = ? WHERE id = ?",
		day, outcome.Kind.String(), string(outcome.Reason), sessionID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("end session %s: %w", sessionID, ErrNotFound)
	}
	slog.Info("session archived", "session", sessionID, "day", day, "outcome", outcome)
	return nil
}

// SaveMeta stores a key-value pair in archive metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO archive_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM archive_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %q: %w", key, ErrNotFound)
	}
	return value, err
}
