// Package parser extracts findings from the scanner's free-text log and
// metadata from its key=value report file. Both parsers are permissive:
// malformed lines are skipped and missing files yield empty results, so a
// bad artifact degrades the result instead of aborting the load.
package parser

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lynisview/lynisview/pkg/audit"
)

var (
	reportLineRE = regexp.MustCompile(`^\s*([A-Za-z0-9_.:-]+)\s*=\s*(.*?)\s*$`)
	quotedRE     = regexp.MustCompile(`^(["'])(.*)(["'])$`)
)

// keyCandidates maps each typed Meta field to the report keys that may
// carry it, in priority order. The report format has used different key
// names across scanner versions; first candidate present wins.
var keyCandidates = map[string][]string{
	"hostname":        {"hostname", "host", "system.hostname"},
	"distro":          {"os_name", "os", "distribution", "distro"},
	"distro_version":  {"os_version", "os_release", "version"},
	"kernel":          {"os_kernel_version_full", "os_kernel_version", "kernel_version", "uname_r"},
	"hardening_index": {"hardening_index", "compliance_score"},
	"started_at":      {"report_datetime_start", "scan_start", "scan.start_time"},
	"finished_at":     {"report_datetime_end", "scan_end", "scan.end_time"},
}

// Report timestamps come in two literal layouts, tried in order. Values
// matching neither yield no timestamp. All are read as UTC regardless of
// the scanned machine's actual timezone; a known simplification.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseReportFile reads a key=value report file into a flat map. A key
// suffixed with [] accumulates repeated values into a []string, in file
// order. A file that cannot be opened yields an empty map.
func ParseReportFile(path string) map[string]any {
	f, err := os.Open(path)
	if err != nil {
		return map[string]any{}
	}
	defer f.Close()
	return ParseReport(f)
}

// ParseReport parses report lines from r. Comment (#) and blank lines are
// skipped, as is anything not matching the key=value grammar.
func ParseReport(r io.Reader) map[string]any {
	out := make(map[string]any)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(strings.ToValidUTF8(sc.Text(), "�"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		isList := false
		if keyPart, _, found := strings.Cut(line, "="); found && strings.HasSuffix(strings.TrimSpace(keyPart), "[]") {
			isList = true
			line = strings.Replace(line, "[]=", "=", 1)
		}

		m := reportLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.ToLower(m[1])
		value := m[2]

		// Strip surrounding quotes only when they match.
		if qm := quotedRE.FindStringSubmatch(value); qm != nil && qm[1] == qm[3] {
			value = qm[2]
		}

		if isList {
			// First occurrence decides list-vs-scalar for a key.
			if _, ok := out[key]; !ok {
				out[key] = []string{}
			}
			if list, ok := out[key].([]string); ok {
				out[key] = append(list, value)
			}
		} else if _, ok := out[key].([]string); !ok {
			out[key] = value
		}
	}
	return out
}

// ExtractMeta parses the source's report file (when present) and projects
// the known keys onto typed Meta fields. The complete raw map, including
// unmapped keys and list values, is retained on Extra.
func ExtractMeta(source audit.Source) audit.Meta {
	data := map[string]any{}
	if source.ReportPath != "" {
		data = ParseReportFile(source.ReportPath)
	}

	firstOf := func(field string) string {
		for _, k := range keyCandidates[field] {
			if v, ok := data[k].(string); ok && v != "" {
				return v
			}
		}
		return ""
	}

	meta := audit.Meta{
		Hostname:      firstOf("hostname"),
		Distro:        firstOf("distro"),
		DistroVersion: firstOf("distro_version"),
		Kernel:        firstOf("kernel"),
		StartedAt:     parseTimestamp(firstOf("started_at")),
		FinishedAt:    parseTimestamp(firstOf("finished_at")),
		Source:        source,
		Extra:         data,
	}

	// Accept the index only when the raw value is all digits; anything
	// else leaves it unset rather than failing the parse.
	if raw := firstOf("hardening_index"); raw != "" && isDigits(raw) {
		if n, err := strconv.Atoi(raw); err == nil {
			meta.HardeningIndex = &n
		}
	}

	meta.AuditID = audit.MakeAuditID(source.Key(), meta.StartedAt)
	return meta
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
