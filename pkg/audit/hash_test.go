package audit

import (
	"testing"
	"time"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Root Login Enabled", "root login enabled"},
		{"collapses whitespace", "a \t b\n c", "a b c"},
		{"trims", "  padded  ", "padded"},
		{"drops non-printable", "be\x01fore\x7fafter", "beforeafter"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{"Mixed CASE  text", "  \talready ok", "weird\x00bytes\x1b[0m"}
	for _, in := range inputs {
		once := NormalizeText(in)
		twice := NormalizeText(once)
		if once != twice {
			t.Errorf("NormalizeText not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestMakeAuditID(t *testing.T) {
	key := "/var/log|/var/log/lynis.log|/var/log/lynis-report.dat"
	ts := time.Date(2026, 1, 17, 20, 29, 38, 0, time.UTC)

	a := MakeAuditID(key, ts)
	b := MakeAuditID(key, ts)
	if a != b {
		t.Errorf("same inputs produced different ids: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d (%q)", len(a), a)
	}

	if got := MakeAuditID(key, ts.Add(time.Second)); got == a {
		t.Error("changed start time should change the audit id")
	}
	if got := MakeAuditID(key, time.Time{}); got == a {
		t.Error("missing start time should change the audit id")
	}
	if got := MakeAuditID(key+"x", ts); got == a {
		t.Error("changed source key should change the audit id")
	}
}

func TestMakeAuditIDSubsecondTruncation(t *testing.T) {
	key := "k"
	ts := time.Date(2026, 1, 17, 20, 29, 38, 0, time.UTC)
	withNanos := ts.Add(500 * time.Millisecond)
	if MakeAuditID(key, ts) != MakeAuditID(key, withNanos) {
		t.Error("sub-second precision should not affect the audit id")
	}
}

func TestMakeFindingID(t *testing.T) {
	if got := MakeFindingID(FindingWarning, "msg", " SSH-7408 ", "SSH"); got != "SSH-7408" {
		t.Errorf("test id should win, trimmed: got %q", got)
	}

	a := MakeFindingID(FindingWarning, "Root login enabled", "", "SSH")
	b := MakeFindingID(FindingWarning, "  root  LOGIN enabled ", "", "SSH")
	if a != b {
		t.Errorf("normalized messages should hash identically: %q vs %q", a, b)
	}
	if len(a) != 12 {
		t.Errorf("expected 12-char hash id, got %d (%q)", len(a), a)
	}

	if got := MakeFindingID(FindingSuggestion, "Root login enabled", "", "SSH"); got == a {
		t.Error("finding type should affect the generated id")
	}
	if got := MakeFindingID(FindingWarning, "Root login enabled", "", "Kernel"); got == a {
		t.Error("category should affect the generated id")
	}
}
