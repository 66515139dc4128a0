package audit

import (
	"os"
	"path/filepath"
	"testing"
)

// makeFinding builds a finding with the given type and category.
func makeFinding(ftype FindingType, category, message string) *Finding {
	return &Finding{
		ID:       MakeFindingID(ftype, message, "", category),
		Type:     ftype,
		Message:  message,
		Category: category,
		Status:   StatusUnchanged,
	}
}

func TestSourceKeyStableAcrossRelativePaths(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "lynis.log")
	if err := os.WriteFile(logPath, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	abs := Source{RootDir: dir, LogPath: logPath}
	viaDot := Source{
		RootDir: filepath.Join(dir, ".", "."),
		LogPath: filepath.Join(dir, ".", "lynis.log"),
	}
	if abs.Key() != viaDot.Key() {
		t.Errorf("keys differ for the same resolved paths:\n%q\n%q", abs.Key(), viaDot.Key())
	}
}

func TestSourceKeyResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	a := Source{RootDir: real}
	b := Source{RootDir: link}
	if a.Key() != b.Key() {
		t.Errorf("symlinked root should produce the same key:\n%q\n%q", a.Key(), b.Key())
	}
}

func TestSourceIsComplete(t *testing.T) {
	if (Source{RootDir: "/x", LogPath: "/x/l"}).IsComplete() {
		t.Error("source without report should not be complete")
	}
	if !(Source{RootDir: "/x", LogPath: "/x/l", ReportPath: "/x/r"}).IsComplete() {
		t.Error("source with both files should be complete")
	}
}

func TestAuditViews(t *testing.T) {
	a := &Audit{
		Findings: []*Finding{
			makeFinding(FindingWarning, "SSH", "first"),
			makeFinding(FindingSuggestion, "Kernel", "second"),
			makeFinding(FindingWarning, "SSH", "third"),
			makeFinding(FindingSuggestion, "", "fourth"),
		},
	}

	if got := len(a.Warnings()); got != 2 {
		t.Errorf("Warnings() = %d findings, want 2", got)
	}
	if got := len(a.Suggestions()); got != 2 {
		t.Errorf("Suggestions() = %d findings, want 2", got)
	}

	byCat := a.ByCategory()
	if got := len(byCat["SSH"]); got != 2 {
		t.Fatalf("expected 2 SSH findings, got %d", got)
	}
	if byCat["SSH"][0].Message != "first" || byCat["SSH"][1].Message != "third" {
		t.Error("findings within a category must keep first-seen order")
	}
	if got := len(byCat[CategoryUncategorized]); got != 1 {
		t.Errorf("empty category should map to %q, got %d findings", CategoryUncategorized, got)
	}

	cats := a.Categories()
	want := []string{"SSH", "Kernel", CategoryUncategorized}
	if len(cats) != len(want) {
		t.Fatalf("Categories() = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, cats[i], want[i])
		}
	}
}

func TestRecalcCounters(t *testing.T) {
	a := &Audit{}
	a.RecalcCounters()
	if a.Meta.WarningCount != 0 || a.Meta.SuggestionCount != 0 {
		t.Error("empty audit should have zero counters")
	}

	a.Findings = append(a.Findings,
		makeFinding(FindingWarning, "SSH", "w1"),
		makeFinding(FindingSuggestion, "SSH", "s1"),
		makeFinding(FindingSuggestion, "SSH", "s2"),
	)
	a.RecalcCounters()
	if a.Meta.WarningCount != 1 {
		t.Errorf("WarningCount = %d, want 1", a.Meta.WarningCount)
	}
	if a.Meta.SuggestionCount != 2 {
		t.Errorf("SuggestionCount = %d, want 2", a.Meta.SuggestionCount)
	}
}

func TestFingerprint(t *testing.T) {
	a := &Finding{Type: FindingWarning, Category: "SSH", Message: "Root login enabled"}
	b := &Finding{Type: FindingWarning, Category: "SSH", Message: "  ROOT login   enabled "}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("whitespace/case differences in message must not change the fingerprint")
	}

	// The fingerprint is content-only: two findings with different ids
	// but identical content still match.
	withID := &Finding{ID: "SSH-7408", Type: FindingWarning, Category: "SSH", Message: "Root login enabled"}
	if a.Fingerprint() != withID.Fingerprint() {
		t.Error("finding id must not participate in the fingerprint")
	}

	// A test id, however, is content and does participate.
	withTest := &Finding{Type: FindingWarning, Category: "SSH", Message: "Root login enabled", TestID: "SSH-7408"}
	if a.Fingerprint() == withTest.Fingerprint() {
		t.Error("differing test id should change the fingerprint")
	}

	diffType := &Finding{Type: FindingSuggestion, Category: "SSH", Message: "Root login enabled"}
	if a.Fingerprint() == diffType.Fingerprint() {
		t.Error("finding type should change the fingerprint")
	}
}
