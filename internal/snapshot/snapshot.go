// Package snapshot archives audit source files into a managed directory
// so they survive the scanner overwriting the live logs on its next run.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lynisview/lynisview/pkg/audit"
	"github.com/lynisview/lynisview/pkg/discovery"
)

var (
	// ErrNoSource means the audit carries no source paths to copy.
	ErrNoSource = errors.New("audit has no source to archive")
	// ErrAlreadyArchived means the audit already lives under the
	// snapshot root.
	ErrAlreadyArchived = errors.New("audit is already an archive")
	// ErrDestExists means the destination directory name is taken.
	ErrDestExists = errors.New("archive destination already exists")
	// ErrNothingCopied means neither source file could be copied.
	ErrNothingCopied = errors.New("no source file could be copied")
	// ErrNotArchived guards deletion: the target is not under the
	// managed snapshot root.
	ErrNotArchived = errors.New("audit is not a managed archive")
)

// Store manages archived audit snapshots under a single root directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir, or at the default per-user
// data directory when dir is empty.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultRoot()
	}
	return &Store{root: dir}
}

// DefaultRoot returns the standard per-user snapshot directory.
func DefaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "lynisview", "snapshots")
}

// Root ensures the snapshot root exists and returns its path.
func (s *Store) Root() (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot root: %w", err)
	}
	return s.root, nil
}

// IsArchived reports whether the audit's root directory lies under the
// snapshot root. Distinguishes a live audit from a stored one.
func (s *Store) IsArchived(a *audit.Audit) bool {
	if a.Meta.Source.RootDir == "" {
		return false
	}
	auditDir, err := filepath.EvalSymlinks(a.Meta.Source.RootDir)
	if err != nil {
		return false
	}
	root, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, auditDir)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}

// Archive copies the audit's source files into a new directory under the
// snapshot root, named from the audit date and hostname. Refuses to
// archive an audit that is already a snapshot, and fails if the
// destination name is taken.
func (s *Store) Archive(a *audit.Audit) (string, error) {
	source := a.Meta.Source
	if source.RootDir == "" || (source.LogPath == "" && source.ReportPath == "") {
		return "", ErrNoSource
	}
	if s.IsArchived(a) {
		return "", ErrAlreadyArchived
	}

	root, err := s.Root()
	if err != nil {
		return "", err
	}

	ts := a.Meta.StartedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	host := a.Meta.Hostname
	if host == "" {
		host = "unknown"
	}
	destDir := filepath.Join(root, fmt.Sprintf("%s_%s", ts.Format("2006-01-02_150405"), host))

	if _, err := os.Stat(destDir); err == nil {
		return "", fmt.Errorf("%w: %s", ErrDestExists, filepath.Base(destDir))
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	copied := 0
	if source.LogPath != "" {
		if err := copyFile(source.LogPath, filepath.Join(destDir, discovery.LogFileName)); err == nil {
			copied++
		}
	}
	if source.ReportPath != "" {
		if err := copyFile(source.ReportPath, filepath.Join(destDir, discovery.ReportFileName)); err == nil {
			copied++
		}
	}
	if copied == 0 {
		os.RemoveAll(destDir)
		return "", ErrNothingCopied
	}
	return destDir, nil
}

// Delete removes an archived audit's directory. Refuses to touch
// anything outside the managed snapshot root; that is a safety
// invariant, not a recoverable condition.
func (s *Store) Delete(a *audit.Audit) error {
	if !s.IsArchived(a) {
		return ErrNotArchived
	}
	if err := os.RemoveAll(a.Meta.Source.RootDir); err != nil {
		return fmt.Errorf("remove archive: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
