package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lynisview/lynisview/pkg/audit"
)

func sampleAudit() *audit.Audit {
	idx := 68
	a := &audit.Audit{
		Meta: audit.Meta{
			AuditID:        "abcdef0123456789",
			Hostname:       "web01",
			StartedAt:      time.Date(2026, 1, 17, 20, 29, 38, 0, time.UTC),
			HardeningIndex: &idx,
		},
		Findings: []*audit.Finding{
			{
				ID:         "SSH-7408",
				Type:       audit.FindingWarning,
				Message:    "Root login enabled",
				TestID:     "SSH-7408",
				Category:   "SSH",
				SourceFile: "lynis.log",
				SourceLine: 42,
			},
			{
				ID:       "abc123def456",
				Type:     audit.FindingSuggestion,
				Message:  "Disable password auth",
				Category: "SSH",
			},
		},
	}
	a.RecalcCounters()
	return a
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSON(sampleAudit(), path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc audit.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if doc.Meta.AuditID != "abcdef0123456789" {
		t.Errorf("AuditID = %q, want %q", doc.Meta.AuditID, "abcdef0123456789")
	}
	if len(doc.Findings) != 2 {
		t.Errorf("expected 2 findings in export, got %d", len(doc.Findings))
	}
	if doc.Meta.StartedAt != "2026-01-17T20:29:38Z" {
		t.Errorf("StartedAt = %q, want ISO-8601 UTC", doc.Meta.StartedAt)
	}
}

func TestWriteSARIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sarif")
	if err := WriteSARIF(sampleAudit(), path); err != nil {
		t.Fatalf("WriteSARIF failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID  string `json:"ruleId"`
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("exported SARIF does not parse: %v", err)
	}
	if doc.Version != "2.1.0" {
		t.Errorf("version = %q, want %q", doc.Version, "2.1.0")
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(doc.Runs))
	}
	results := doc.Runs[0].Results
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RuleID != "SSH-7408" || results[0].Level != "warning" {
		t.Errorf("warning result = %+v, want rule SSH-7408 at level warning", results[0])
	}
	if results[1].Level != "note" {
		t.Errorf("suggestion should map to level note, got %q", results[1].Level)
	}
}

func TestDefaultNames(t *testing.T) {
	a := sampleAudit()
	if got := DefaultJSONName(a); got != "lynis_audit_abcdef0123456789.json" {
		t.Errorf("DefaultJSONName = %q", got)
	}
	if got := DefaultSARIFName(a); got != "lynis_audit_abcdef0123456789.sarif" {
		t.Errorf("DefaultSARIFName = %q", got)
	}
}
