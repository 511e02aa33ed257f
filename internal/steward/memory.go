package steward

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

const (
	maxRecords     = 10
	summaryRecords = 5 // how many recent records Summary prints
)

// CycleRecord captures what happened in a single steward cycle.
type CycleRecord struct {
	Day              int         `json:"day"`
	Action           Action      `json:"action"`
	InterventionID   string      `json:"intervention_id,omitempty"`
	Target           *int        `json:"target,omitempty"`
	CrisisLevel      CrisisLevel `json:"crisis_level"`
	InfectedFraction float64     `json:"infected_fraction"`
	Economy          float64     `json:"economy"`
	Morale           float64     `json:"morale"`
	Rationale        string      `json:"rationale,omitempty"`
	Error            string      `json:"error,omitempty"`
}

// CycleMemory keeps a ring of recent steward cycle records.
type CycleMemory struct {
	Records []CycleRecord `json:"records"`
}

// LoadMemory reads a memory file. A missing or corrupt file yields empty memory.
func LoadMemory(path string) *CycleMemory {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("steward memory unreadable, starting fresh", "path", path, "error", err)
		}
		return &CycleMemory{}
	}
	var mem CycleMemory
	if err := json.Unmarshal(data, &mem); err != nil {
		slog.Warn("steward memory corrupted, starting fresh", "path", path, "error", err)
		return &CycleMemory{}
	}
	return &mem
}

// Save writes the memory to path.
func (m *CycleMemory) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal steward memory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write steward memory: %w", err)
	}
	return nil
}

// Record adds a cycle record, trimming to maxRecords.
func (m *CycleMemory) Record(r CycleRecord) {
	m.Records = append(m.Records, r)
	if len(m.Records) > maxRecords {
		m.Records = m.Records[len(m.Records)-maxRecords:]
	}
}

// Summary describes the last few cycles, one per line.
func (m *CycleMemory) Summary() string {
	if len(m.Records) == 0 {
		return ""
	}

	var b strings.Builder
	start := max(0, len(m.Records)-summaryRecords)
	for _, r := range m.Records[start:] {
		fmt.Fprintf(&b, "- Day %d: action=%s, crisis=%s, infected=%.3f%%, economy=%.0f, morale=%.0f",
			r.Day, r.Action, r.CrisisLevel, r.InfectedFraction*100, r.Economy, r.Morale)
		if r.InterventionID != "" {
			fmt.Fprintf(&b, ", intervention=%s", r.InterventionID)
		}
		if r.Target != nil {
			fmt.Fprintf(&b, ", region=%d", *r.Target)
		}
		if r.Error != "" {
			fmt.Fprintf(&b, ", error=%s", r.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}
