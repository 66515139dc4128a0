// Package history records a summary row for every loaded audit in a
// local SQLite database, so hardening-index trends per host survive the
// scanner overwriting its live log files.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lynisview/lynisview/pkg/audit"
)

// Entry is one recorded audit summary.
type Entry struct {
	AuditID         string
	Hostname        string
	StartedAt       time.Time
	HardeningIndex  *int
	WarningCount    int
	SuggestionCount int
	RootDir         string
	RecordedAt      time.Time
}

// Store is a SQLite-backed history store (modernc.org/sqlite, pure Go).
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// DefaultPath returns the standard per-user database location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "lynisview", "history.db")
}

// Open opens or creates the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audits (
		audit_id         TEXT PRIMARY KEY,
		hostname         TEXT NOT NULL DEFAULT '',
		started_at       TEXT NOT NULL DEFAULT '',
		hardening_index  INTEGER,
		warnings         INTEGER NOT NULL DEFAULT 0,
		suggestions      INTEGER NOT NULL DEFAULT 0,
		root_dir         TEXT NOT NULL DEFAULT '',
		recorded_at      TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audits_host_time ON audits(hostname, started_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record upserts the audit's summary row. Re-recording the same audit id
// refreshes the row instead of duplicating it.
func (s *Store) Record(ctx context.Context, a *audit.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audits (audit_id, hostname, started_at, hardening_index, warnings, suggestions, root_dir, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(audit_id) DO UPDATE SET
		   hostname = excluded.hostname,
		   started_at = excluded.started_at,
		   hardening_index = excluded.hardening_index,
		   warnings = excluded.warnings,
		   suggestions = excluded.suggestions,
		   root_dir = excluded.root_dir,
		   recorded_at = excluded.recorded_at`,
		a.Meta.AuditID, a.Meta.Hostname, formatTime(a.Meta.StartedAt),
		indexValue(a.Meta.HardeningIndex), a.Meta.WarningCount, a.Meta.SuggestionCount,
		a.Meta.Source.RootDir, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ForHost returns up to limit entries for a hostname, newest scan first.
func (s *Store) ForHost(ctx context.Context, hostname string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT audit_id, hostname, started_at, hardening_index, warnings, suggestions, root_dir, recorded_at
		 FROM audits WHERE hostname = ? ORDER BY started_at DESC LIMIT ?`,
		hostname, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Hosts returns the distinct hostnames present in the store.
func (s *Store) Hosts(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT hostname FROM audits WHERE hostname != '' ORDER BY hostname`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hosts []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hosts = append(hosts, h)
	}
	return hosts, rows.Err()
}

// PreviousIndex returns the hardening index of the most recent recorded
// audit for the host that started strictly before the given time. The
// second return is false when there is no such entry or it carried no
// index.
func (s *Store) PreviousIndex(ctx context.Context, hostname string, before time.Time) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var idx sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT hardening_index FROM audits
		 WHERE hostname = ? AND started_at != '' AND started_at < ?
		 ORDER BY started_at DESC LIMIT 1`,
		hostname, formatTime(before)).Scan(&idx)
	if err != nil || !idx.Valid {
		return 0, false
	}
	return int(idx.Int64), true
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			started  string
			recorded string
			idx      sql.NullInt64
		)
		if err := rows.Scan(&e.AuditID, &e.Hostname, &started, &idx,
			&e.WarningCount, &e.SuggestionCount, &e.RootDir, &recorded); err != nil {
			return nil, err
		}
		if idx.Valid {
			n := int(idx.Int64)
			e.HardeningIndex = &n
		}
		e.StartedAt = parseTime(started)
		e.RecordedAt = parseTime(recorded)
		out = append(out, e)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func indexValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
