package steward

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMemoryKeepsNewestRecords(t *testing.T) {
	m := &CycleMemory{}
	for day := 1; day <= maxRecords+5; day++ {
		m.Record(CycleRecord{Day: day, Action: ActionNone, CrisisLevel: CrisisHealthy})
	}
	if len(m.Records) != maxRecords {
		t.Fatalf("kept %d records, want %d", len(m.Records), maxRecords)
	}
	if m.Records[0].Day != 6 || m.Records[maxRecords-1].Day != maxRecords+5 {
		t.Errorf("kept days %d..%d", m.Records[0].Day, m.Records[maxRecords-1].Day)
	}
}

func TestMemorySaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steward.json")
	target := 2

	m := &CycleMemory{}
	m.Record(CycleRecord{Day: 3, Action: ActionApply, InterventionID: "invest_hospitals", Target: &target, CrisisLevel: CrisisWarning})
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := LoadMemory(path)
	if len(got.Records) != 1 {
		t.Fatalf("loaded %d records", len(got.Records))
	}
	r := got.Records[0]
	if r.InterventionID != "invest_hospitals" || r.Target == nil || *r.Target != 2 || r.CrisisLevel != CrisisWarning {
		t.Errorf("loaded %+v", r)
	}
}

func TestLoadMemoryFallsBackToEmpty(t *testing.T) {
	dir := t.TempDir()
	if m := LoadMemory(filepath.Join(dir, "missing.json")); len(m.Records) != 0 {
		t.Errorf("missing file gave %d records", len(m.Records))
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if m := LoadMemory(bad); len(m.Records) != 0 {
		t.Errorf("corrupt file gave %d records", len(m.Records))
	}
}

func TestMemorySummary(t *testing.T) {
	m := &CycleMemory{}
	if m.Summary() != "" {
		t.Error("empty memory has a summary")
	}
	for day := 1; day <= 7; day++ {
		m.Record(CycleRecord{Day: day, Action: ActionNone, CrisisLevel: CrisisWatch})
	}
	m.Record(CycleRecord{Day: 8, Action: ActionApply, InterventionID: "mask_mandate", CrisisLevel: CrisisWarning, Error: "quota"})

	s := m.Summary()
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) != summaryRecords {
		t.Fatalf("summary has %d lines:\n%s", len(lines), s)
	}
	if strings.Contains(s, "Day 3:") {
		t.Errorf("summary includes old cycles:\n%s", s)
	}
	last := lines[len(lines)-1]
	for _, want := range []string{"Day 8", "intervention=mask_mandate", "error=quota"} {
		if !strings.Contains(last, want) {
			t.Errorf("last line %q missing %q", last, want)
		}
	}
}
