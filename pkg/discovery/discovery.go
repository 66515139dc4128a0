// Package discovery locates candidate audit sources on disk. It looks
// for directories containing the scanner's well-known log or report
// filenames, without reading file contents; format validation happens at
// load time.
package discovery

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/lynisview/lynisview/pkg/audit"
)

// Well-known artifact filenames written by the scanner.
const (
	LogFileName    = "lynis.log"
	ReportFileName = "lynis-report.dat"
)

// DefaultMaxDepth bounds traversal so a scan never walks huge trees.
const DefaultMaxDepth = 4

// DefaultSystemLogDir is the canonical location of the currently active
// audit on most installs.
const DefaultSystemLogDir = "/var/log"

// Directories that are never worth descending into.
var skipDirs = map[string]bool{
	".git":        true,
	"__pycache__": true,
	"journal":     true,
}

// Config controls a discovery run.
type Config struct {
	// Roots to scan recursively. Defaults to the usual archive
	// locations when empty.
	SearchDirs []string

	// Maximum directory depth below each search root.
	MaxDepth int

	// Whether to descend into symlinked directories. Off by default to
	// avoid cycles; visited-set tracking prevents loops regardless.
	FollowSymlinks bool

	// Probe SystemLogDir directly for the currently active audit, even
	// when the recursive scan does not reach it.
	IncludeSystemLog bool

	// Overridable for tests; DefaultSystemLogDir when empty.
	SystemLogDir string

	Logger hclog.Logger
}

// DefaultConfig returns the standard discovery configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	dirs := []string{
		"/var/log",
		"/var/log/lynis-archives",
		"/var/log/lynis",
		"/opt/lynis-audits",
	}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, "lynis-audits"))
	}
	return Config{
		SearchDirs:       dirs,
		MaxDepth:         DefaultMaxDepth,
		IncludeSystemLog: true,
	}
}

// Discover enumerates audit sources under the configured roots. The
// result is deduplicated by source identity key (first occurrence wins)
// and ordered lexicographically by root path as a deterministic tie-break;
// ordering by audit date is up to the caller once metadata is loaded.
//
// An unreadable or vanished directory contributes nothing; discovery
// never aborts because one location failed.
func Discover(cfg Config) []audit.Source {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.SystemLogDir == "" {
		cfg.SystemLogDir = DefaultSystemLogDir
	}

	var sources []audit.Source
	seen := make(map[string]bool)
	add := func(s audit.Source) {
		key := s.Key()
		if !seen[key] {
			seen[key] = true
			sources = append(sources, s)
		}
	}

	// The active audit in the system log directory is always probed
	// directly, independent of the recursive scan.
	if cfg.IncludeSystemLog {
		if s, ok := probeDir(cfg.SystemLogDir); ok {
			logger.Debug("found active audit", "dir", cfg.SystemLogDir)
			add(s)
		}
	}

	for _, root := range cfg.SearchDirs {
		for _, s := range scanRoot(root, cfg, logger) {
			add(s)
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].RootDir < sources[j].RootDir
	})
	return sources
}

// probeDir checks a single directory for the expected files.
func probeDir(dir string) (audit.Source, bool) {
	s := audit.Source{RootDir: dir}
	if p := filepath.Join(dir, LogFileName); isRegular(p) {
		s.LogPath = p
	}
	if p := filepath.Join(dir, ReportFileName); isRegular(p) {
		s.ReportPath = p
	}
	return s, s.LogPath != "" || s.ReportPath != ""
}

// scanRoot walks root breadth-first down to cfg.MaxDepth, yielding one
// source per directory whose listing contains an expected filename.
func scanRoot(root string, cfg Config, logger hclog.Logger) []audit.Source {
	root = expandHome(root)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	type entry struct {
		dir   string
		depth int
	}
	queue := []entry{{root, 0}}
	visited := make(map[string]bool)
	var found []audit.Source

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		real, err := filepath.EvalSymlinks(cur.dir)
		if err != nil {
			continue
		}
		if visited[real] {
			continue
		}
		visited[real] = true

		entries, err := os.ReadDir(cur.dir)
		if err != nil {
			logger.Debug("skipping unreadable directory", "dir", cur.dir, "error", err)
			continue
		}

		var logPath, reportPath string
		for _, e := range entries {
			if e.Type().IsRegular() {
				switch e.Name() {
				case LogFileName:
					logPath = filepath.Join(cur.dir, e.Name())
				case ReportFileName:
					reportPath = filepath.Join(cur.dir, e.Name())
				}
			}
		}
		if logPath != "" || reportPath != "" {
			found = append(found, audit.Source{RootDir: cur.dir, LogPath: logPath, ReportPath: reportPath})
		}

		if cur.depth >= cfg.MaxDepth {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && e.Type()&os.ModeSymlink == 0 {
				continue
			}
			if skipDirs[e.Name()] {
				continue
			}
			sub := filepath.Join(cur.dir, e.Name())
			if e.Type()&os.ModeSymlink != 0 {
				if !cfg.FollowSymlinks {
					continue
				}
				// Only descend into symlinks that resolve to dirs.
				if fi, err := os.Stat(sub); err != nil || !fi.IsDir() {
					continue
				}
			}
			queue = append(queue, entry{sub, cur.depth + 1})
		}
	}
	return found
}

func isRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func expandHome(p string) string {
	if p == "~" || len(p) > 1 && p[0] == '~' && p[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}
