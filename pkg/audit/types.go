// Package audit defines the normalized data model for a host-hardening
// audit: where its raw files live, the metadata extracted from the report
// artifact, and the individual warning/suggestion findings extracted from
// the scanner log.
package audit

import (
	"path/filepath"
	"strings"
	"time"
)

// FindingType is the kind of a finding.
type FindingType string

const (
	FindingWarning    FindingType = "warning"
	FindingSuggestion FindingType = "suggestion"
)

// Status classifies a finding relative to another audit after comparison.
type Status string

const (
	StatusNew       Status = "new"
	StatusResolved  Status = "resolved"
	StatusUnchanged Status = "unchanged"
)

// Source identifies where an audit's raw files live on disk. Treated as
// immutable once constructed.
type Source struct {
	RootDir    string
	LogPath    string
	ReportPath string
}

// IsComplete reports whether both the log and the report file are known.
func (s Source) IsComplete() bool {
	return s.LogPath != "" && s.ReportPath != ""
}

// Key returns a stable identity key for the source: the symlink-resolved
// paths joined with "|". Two sources referencing the same files through
// different relative paths or symlinks produce the same key.
func (s Source) Key() string {
	parts := []string{
		resolvePath(s.RootDir),
		resolvePath(s.LogPath),
		resolvePath(s.ReportPath),
	}
	return strings.Join(parts, "|")
}

func resolvePath(p string) string {
	if p == "" {
		return ""
	}
	if r, err := filepath.EvalSymlinks(p); err == nil {
		p = r
	}
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}

// Meta holds metadata extracted from the report artifact and/or inferred
// from the filesystem. Optional strings are empty when unknown; optional
// timestamps are the zero time.
type Meta struct {
	AuditID string

	StartedAt  time.Time
	FinishedAt time.Time

	Hostname      string
	Distro        string
	DistroVersion string
	Kernel        string

	// Scanner-defined score, 0-100 by convention. Nil when the report
	// carried no parseable value.
	HardeningIndex *int

	WarningCount    int
	SuggestionCount int

	Source Source

	// Every key=value pair read from the report, including keys not
	// promoted to a typed field. Values are string or []string.
	Extra map[string]any
}

// Finding is one warning or suggestion emitted by the scanner.
type Finding struct {
	ID       string // test id if available, else a generated short hash
	Type     FindingType
	Message  string
	TestID   string // e.g. SSH-7408, empty if never attributed
	Category string // defaulted to "Uncategorized"

	Details    []string
	Evidence   []string // raw matched log lines, kept for debugging
	References []string

	SourceFile string
	SourceLine int // 1-based, 0 if unknown

	// Set by Compare; meaningless until an audit has been compared.
	Status Status
}

// Fingerprint returns a content-only hash used to match findings across
// two different audits. Deliberately decoupled from ID so comparisons
// survive changes to the id-generation policy.
func (f *Finding) Fingerprint() string {
	base := string(f.Type) + "|" + f.Category + "|" + NormalizeText(f.Message)
	if f.TestID != "" {
		base += "|" + f.TestID
	}
	return sha1Hex(base)
}

// Audit aggregates one Meta with an ordered sequence of findings.
type Audit struct {
	Meta     Meta
	Findings []*Finding
}

// Warnings returns the findings of type warning, in order.
func (a *Audit) Warnings() []*Finding {
	return a.byType(FindingWarning)
}

// Suggestions returns the findings of type suggestion, in order.
func (a *Audit) Suggestions() []*Finding {
	return a.byType(FindingSuggestion)
}

func (a *Audit) byType(t FindingType) []*Finding {
	var out []*Finding
	for _, f := range a.Findings {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// ByCategory groups findings by category, preserving finding order within
// each category. Use Categories for a deterministic iteration order.
func (a *Audit) ByCategory() map[string][]*Finding {
	out := make(map[string][]*Finding)
	for _, f := range a.Findings {
		cat := f.Category
		if cat == "" {
			cat = CategoryUncategorized
		}
		out[cat] = append(out[cat], f)
	}
	return out
}

// Categories returns the category names in first-seen order.
func (a *Audit) Categories() []string {
	var order []string
	seen := make(map[string]bool)
	for _, f := range a.Findings {
		cat := f.Category
		if cat == "" {
			cat = CategoryUncategorized
		}
		if !seen[cat] {
			seen[cat] = true
			order = append(order, cat)
		}
	}
	return order
}

// RecalcCounters refreshes the warning/suggestion counters on Meta.
// Callers must invoke it after attaching or mutating findings; it is not
// automatic.
func (a *Audit) RecalcCounters() {
	a.Meta.WarningCount = len(a.Warnings())
	a.Meta.SuggestionCount = len(a.Suggestions())
}
