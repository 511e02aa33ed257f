package persistence

import (
	"database/sql"
	"errors"
	"fmt"
)

// SessionRow is one archived session header.
type SessionRow struct {
	ID         string         `db:"id" json:"id"`
	Difficulty string         `db:"difficulty" json:"difficulty"`
	Seed       int64          `db:"seed" json:"seed"`
	Seeded     bool           `db:"seeded" json:"seeded"`
	StartedAt  string         `db:"started_at" json:"started_at"`
	EndedDay   sql.NullInt64  `db:"ended_day" json:"-"`
	Outcome    sql.NullString `db:"outcome" json:"-"`
	Reason     sql.NullString `db:"reason" json:"-"`
	Days       int            `db:"days" json:"days"`
}

// SnapshotRow is the global part of one archived day.
type SnapshotRow struct {
	Day        int     `db:"day" json:"day"`
	Population int     `db:"population" json:"population"`
	Infected   float64 `db:"infected" json:"infected"`
	Recovered  float64 `db:"recovered" json:"recovered"`
	Deaths     float64 `db:"deaths" json:"deaths"`
	Economy    float64 `db:"economy" json:"economy"`
	Morale     float64 `db:"morale" json:"morale"`
}

// EventRow is one archived event.
type EventRow struct {
	Day     int           `db:"day" json:"day"`
	EventID string        `db:"event_id" json:"event_id"`
	Name    string        `db:"name" json:"name"`
	Region  sql.NullInt64 `db:"region" json:"-"`
}

// InterventionRow is one archived intervention.
type InterventionRow struct {
	Day            int           `db:"day" json:"day"`
	InterventionID string        `db:"intervention_id" json:"intervention_id"`
	Target         sql.NullInt64 `db:"target" json:"-"`
}

const sessionColumns = `s.id, s.difficulty, s.seed, s.seeded, s.started_at,
	s.ended_day, s.outcome, s.reason,
	(SELECT COUNT(*) FROM snapshots WHERE session_id = s.id) AS days`

// Sessions returns the most recent N sessions, newest first.
func (db *DB) Sessions(limit int) ([]SessionRow, error) {
	var rows []SessionRow
	err := db.conn.Select(&rows,
		"SELECT "+sessionColumns+" FROM sessions s ORDER BY s.started_at DESC, s.rowid DESC LIMIT ?",
		limit,
	)
	return rows, err
}

// Session returns a single session header.
func (db *DB) Session(id string) (SessionRow, error) {
	var row SessionRow
	err := db.conn.Get(&row, "SELECT "+sessionColumns+" FROM sessions s WHERE s.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return row, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return row, err
}

// Snapshots returns every archived day of a session, oldest first.
func (db *DB) Snapshots(sessionID string) ([]SnapshotRow, error) {
	var rows []SnapshotRow
	err := db.conn.Select(&rows,
		`SELECT day, population, infected, recovered, deaths, economy, morale
		 FROM snapshots WHERE session_id = ? ORDER BY day`,
		sessionID,
	)
	return rows, err
}

// Events returns the most recent N events of a session, newest first.
func (db *DB) Events(sessionID string, limit int) ([]EventRow, error) {
	var rows []EventRow
	err := db.conn.Select(&rows,
		"SELECT day, event_id, name, region FROM events WHERE session_id = ? ORDER BY id DESC LIMIT ?",
		sessionID, limit,
	)
	return rows, err
}

// Interventions returns every intervention applied in a session in order.
func (db *DB) Interventions(sessionID string) ([]InterventionRow, error) {
	var rows []InterventionRow
	err := db.conn.Select(&rows,
		"SELECT day, intervention_id, target FROM interventions WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	return rows, err
}
