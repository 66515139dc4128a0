package audit

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDocumentRoundTrip(t *testing.T) {
	idx := 68
	started := time.Date(2026, 1, 17, 20, 29, 38, 0, time.UTC)
	a := &Audit{
		Meta: Meta{
			AuditID:        "abcdef0123456789",
			StartedAt:      started,
			FinishedAt:     started.Add(3 * time.Minute),
			Hostname:       "web01",
			Distro:         "Ubuntu",
			DistroVersion:  "24.04",
			Kernel:         "6.8.0-45-generic",
			HardeningIndex: &idx,
			Source:         Source{RootDir: "/var/log", LogPath: "/var/log/lynis.log"},
			Extra:          map[string]any{"os_name": "Ubuntu", "suggestion": []string{"A", "B"}},
		},
		Findings: []*Finding{
			{
				ID:         "SSH-7408",
				Type:       FindingWarning,
				Message:    "Root login enabled",
				TestID:     "SSH-7408",
				Category:   "SSH",
				Evidence:   []string{"WARNING [SSH-7408] Root login enabled"},
				SourceFile: "lynis.log",
				SourceLine: 42,
				Status:     StatusUnchanged,
			},
		},
	}
	a.RecalcCounters()

	data, err := json.Marshal(a.Document())
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}

	if got.Meta.AuditID != "abcdef0123456789" {
		t.Errorf("AuditID = %q, want %q", got.Meta.AuditID, "abcdef0123456789")
	}
	if got.Meta.StartedAt != "2026-01-17T20:29:38Z" {
		t.Errorf("StartedAt = %q, want ISO-8601 UTC %q", got.Meta.StartedAt, "2026-01-17T20:29:38Z")
	}
	if got.Meta.FinishedAt != "2026-01-17T20:32:38Z" {
		t.Errorf("FinishedAt = %q, want %q", got.Meta.FinishedAt, "2026-01-17T20:32:38Z")
	}
	if got.Meta.HardeningIndex == nil || *got.Meta.HardeningIndex != 68 {
		t.Errorf("HardeningIndex = %v, want 68", got.Meta.HardeningIndex)
	}
	if got.Meta.Hostname != "web01" || got.Meta.Distro != "Ubuntu" || got.Meta.Kernel != "6.8.0-45-generic" {
		t.Errorf("system fields lost: %+v", got.Meta)
	}
	if got.Meta.WarningCount != 1 || got.Meta.SuggestionCount != 0 {
		t.Errorf("counters = %d/%d, want 1/0", got.Meta.WarningCount, got.Meta.SuggestionCount)
	}
	if got.Meta.Source.Complete != a.Meta.Source.IsComplete() {
		t.Errorf("source completeness lost")
	}
	if got.Meta.Source.RootDir != "/var/log" {
		t.Errorf("source root = %q, want %q", got.Meta.Source.RootDir, "/var/log")
	}

	if len(got.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got.Findings))
	}
	f := got.Findings[0]
	if f.Type != string(FindingWarning) {
		t.Errorf("ftype = %q, want the literal enum value %q", f.Type, FindingWarning)
	}
	if f.ID != "SSH-7408" || f.TestID != "SSH-7408" || f.Category != "SSH" {
		t.Errorf("finding identity fields lost: %+v", f)
	}
	if f.SourceFile != "lynis.log" || f.SourceLine != 42 {
		t.Errorf("provenance lost: %s:%d", f.SourceFile, f.SourceLine)
	}
	if f.Status != string(StatusUnchanged) {
		t.Errorf("status = %q, want %q", f.Status, StatusUnchanged)
	}
}

func TestDocumentOmitsZeroTimestamps(t *testing.T) {
	a := &Audit{Meta: Meta{AuditID: "x"}}
	data, err := json.Marshal(a.Document())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	meta := m["meta"].(map[string]any)
	if _, ok := meta["started_at"]; ok {
		t.Error("zero started_at should be omitted from the document")
	}
}
