package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lynisview/lynisview/pkg/audit"
)

// makeAudit builds a loaded-looking audit rooted in a fresh temp dir.
func makeAudit(t *testing.T, host string) *audit.Audit {
	t.Helper()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "lynis.log")
	reportPath := filepath.Join(dir, "lynis-report.dat")
	if err := os.WriteFile(logPath, []byte("WARNING: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(reportPath, []byte("hostname = "+host+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &audit.Audit{
		Meta: audit.Meta{
			AuditID:   "test-audit",
			Hostname:  host,
			StartedAt: time.Date(2026, 1, 17, 20, 29, 38, 0, time.UTC),
			Source:    audit.Source{RootDir: dir, LogPath: logPath, ReportPath: reportPath},
		},
	}
}

func TestArchiveCopiesPair(t *testing.T) {
	store := NewStore(t.TempDir())
	a := makeAudit(t, "web01")

	dest, err := store.Archive(a)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if filepath.Base(dest) != "2026-01-17_202938_web01" {
		t.Errorf("archive dir = %q, want date+hostname name", filepath.Base(dest))
	}
	for _, name := range []string{"lynis.log", "lynis-report.dat"} {
		if _, err := os.Stat(filepath.Join(dest, name)); err != nil {
			t.Errorf("archived file %s missing: %v", name, err)
		}
	}
}

func TestArchiveRefusesArchived(t *testing.T) {
	store := NewStore(t.TempDir())
	a := makeAudit(t, "web01")

	dest, err := store.Archive(a)
	if err != nil {
		t.Fatal(err)
	}

	// Re-point the audit at its own snapshot, as a reload would.
	archived := &audit.Audit{Meta: a.Meta}
	archived.Meta.Source = audit.Source{
		RootDir:    dest,
		LogPath:    filepath.Join(dest, "lynis.log"),
		ReportPath: filepath.Join(dest, "lynis-report.dat"),
	}
	if !store.IsArchived(archived) {
		t.Fatal("snapshot not recognized as archived")
	}
	if _, err := store.Archive(archived); !errors.Is(err, ErrAlreadyArchived) {
		t.Errorf("Archive on a snapshot = %v, want ErrAlreadyArchived", err)
	}
}

func TestArchiveNameCollision(t *testing.T) {
	store := NewStore(t.TempDir())
	a := makeAudit(t, "web01")
	b := makeAudit(t, "web01") // same date + host, different source dir
	b.Meta.StartedAt = a.Meta.StartedAt

	if _, err := store.Archive(a); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Archive(b); !errors.Is(err, ErrDestExists) {
		t.Errorf("second archive with same name = %v, want ErrDestExists", err)
	}
}

func TestArchiveNoSource(t *testing.T) {
	store := NewStore(t.TempDir())
	a := &audit.Audit{}
	if _, err := store.Archive(a); !errors.Is(err, ErrNoSource) {
		t.Errorf("Archive without source = %v, want ErrNoSource", err)
	}
}

func TestArchiveNothingCopied(t *testing.T) {
	store := NewStore(t.TempDir())
	a := makeAudit(t, "web01")
	os.Remove(a.Meta.Source.LogPath)
	os.Remove(a.Meta.Source.ReportPath)

	if _, err := store.Archive(a); !errors.Is(err, ErrNothingCopied) {
		t.Errorf("Archive with vanished files = %v, want ErrNothingCopied", err)
	}
}

func TestDeleteRefusesLiveAudit(t *testing.T) {
	store := NewStore(t.TempDir())
	a := makeAudit(t, "web01")

	if err := store.Delete(a); !errors.Is(err, ErrNotArchived) {
		t.Fatalf("Delete on a live audit = %v, want ErrNotArchived", err)
	}
	// The live files must be untouched.
	if _, err := os.Stat(a.Meta.Source.LogPath); err != nil {
		t.Error("live audit files were deleted")
	}
}

func TestDeleteArchived(t *testing.T) {
	store := NewStore(t.TempDir())
	a := makeAudit(t, "web01")
	dest, err := store.Archive(a)
	if err != nil {
		t.Fatal(err)
	}

	archived := &audit.Audit{Meta: a.Meta}
	archived.Meta.Source = audit.Source{RootDir: dest}
	if err := store.Delete(archived); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("archive directory still exists after Delete")
	}
}

func TestIsArchivedNotFooledByPrefix(t *testing.T) {
	base := t.TempDir()
	store := NewStore(filepath.Join(base, "snaps"))
	if _, err := store.Root(); err != nil {
		t.Fatal(err)
	}

	// A sibling whose name shares the prefix must not count.
	sibling := filepath.Join(base, "snaps-evil")
	if err := os.Mkdir(sibling, 0o755); err != nil {
		t.Fatal(err)
	}
	a := &audit.Audit{Meta: audit.Meta{Source: audit.Source{RootDir: sibling}}}
	if store.IsArchived(a) {
		t.Error("prefix-sharing sibling dir must not be treated as archived")
	}
}
