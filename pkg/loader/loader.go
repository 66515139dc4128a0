// Package loader orchestrates the two parsers to turn a discovered
// source into a fully assembled audit.
package loader

import (
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/lynisview/lynisview/pkg/audit"
	"github.com/lynisview/lynisview/pkg/parser"
)

// Config controls audit loading.
type Config struct {
	Logger hclog.Logger
}

// Load assembles one audit from one source. Metadata comes from the
// report file; when the report carries no start timestamp, the newer of
// the two files' modification times is used instead and the audit id is
// regenerated to incorporate it. Findings are parsed only when the log
// path points at a regular file; a report-only source is valid and loads
// with zero findings.
func Load(source audit.Source, cfg Config) *audit.Audit {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	meta := parser.ExtractMeta(source)
	if meta.StartedAt.IsZero() {
		if ts := newestModTime(source); !ts.IsZero() {
			meta.StartedAt = ts
			meta.AuditID = audit.MakeAuditID(source.Key(), ts)
		}
	}

	var findings []*audit.Finding
	if source.LogPath != "" && isRegular(source.LogPath) {
		findings = parser.ParseLogFile(source.LogPath)
	}

	a := &audit.Audit{Meta: meta, Findings: findings}
	a.RecalcCounters()
	logger.Debug("loaded audit",
		"id", a.Meta.AuditID, "root", source.RootDir,
		"warnings", a.Meta.WarningCount, "suggestions", a.Meta.SuggestionCount)
	return a
}

// LoadMany loads every source independently and drops audits that
// yielded nothing useful: no hardening index, no findings, and no
// hostname means neither artifact produced data. One bad source never
// prevents the others from loading, so the result can legitimately be
// shorter than the input.
func LoadMany(sources []audit.Source, cfg Config) []*audit.Audit {
	var out []*audit.Audit
	for _, s := range sources {
		a := Load(s, cfg)
		empty := a.Meta.HardeningIndex == nil && len(a.Findings) == 0 && a.Meta.Hostname == ""
		if !empty {
			out = append(out, a)
		}
	}
	return out
}

// newestModTime returns the newer mtime of the source's files, UTC.
func newestModTime(source audit.Source) time.Time {
	var best time.Time
	for _, p := range []string{source.ReportPath, source.LogPath} {
		if p == "" {
			continue
		}
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		if mt := fi.ModTime().UTC(); mt.After(best) {
			best = mt
		}
	}
	return best
}

func isRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
