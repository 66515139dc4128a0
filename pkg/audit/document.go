package audit

import "time"

// Document is the JSON-serializable form of an Audit, used for export.
// Timestamps are ISO-8601 UTC strings; enumerations are their literal
// string values.
type Document struct {
	Meta     MetaDocument      `json:"meta"`
	Findings []FindingDocument `json:"findings"`
}

// MetaDocument is the serializable form of Meta.
type MetaDocument struct {
	AuditID         string         `json:"audit_id"`
	StartedAt       string         `json:"started_at,omitempty"`
	FinishedAt      string         `json:"finished_at,omitempty"`
	Hostname        string         `json:"hostname,omitempty"`
	Distro          string         `json:"distro,omitempty"`
	DistroVersion   string         `json:"distro_version,omitempty"`
	Kernel          string         `json:"kernel,omitempty"`
	HardeningIndex  *int           `json:"hardening_index,omitempty"`
	WarningCount    int            `json:"warnings_count"`
	SuggestionCount int            `json:"suggestions_count"`
	Source          SourceDocument `json:"source"`
	Extra           map[string]any `json:"extra,omitempty"`
}

// SourceDocument is the serializable form of Source.
type SourceDocument struct {
	RootDir    string `json:"root_dir"`
	LogPath    string `json:"log_path,omitempty"`
	ReportPath string `json:"report_path,omitempty"`
	Complete   bool   `json:"complete"`
	Key        string `json:"key"`
}

// FindingDocument is the serializable form of Finding.
type FindingDocument struct {
	ID         string   `json:"finding_id"`
	Type       string   `json:"ftype"`
	Message    string   `json:"message"`
	TestID     string   `json:"test_id,omitempty"`
	Category   string   `json:"category"`
	Details    []string `json:"details,omitempty"`
	Evidence   []string `json:"evidence,omitempty"`
	References []string `json:"references,omitempty"`
	SourceFile string   `json:"source_file,omitempty"`
	SourceLine int      `json:"source_line_start,omitempty"`
	Status     string   `json:"status"`
}

// Document converts the audit to its export form.
func (a *Audit) Document() Document {
	doc := Document{
		Meta: MetaDocument{
			AuditID:         a.Meta.AuditID,
			StartedAt:       formatTime(a.Meta.StartedAt),
			FinishedAt:      formatTime(a.Meta.FinishedAt),
			Hostname:        a.Meta.Hostname,
			Distro:          a.Meta.Distro,
			DistroVersion:   a.Meta.DistroVersion,
			Kernel:          a.Meta.Kernel,
			HardeningIndex:  a.Meta.HardeningIndex,
			WarningCount:    a.Meta.WarningCount,
			SuggestionCount: a.Meta.SuggestionCount,
			Source: SourceDocument{
				RootDir:    a.Meta.Source.RootDir,
				LogPath:    a.Meta.Source.LogPath,
				ReportPath: a.Meta.Source.ReportPath,
				Complete:   a.Meta.Source.IsComplete(),
				Key:        a.Meta.Source.Key(),
			},
			Extra: a.Meta.Extra,
		},
		Findings: make([]FindingDocument, 0, len(a.Findings)),
	}
	for _, f := range a.Findings {
		doc.Findings = append(doc.Findings, FindingDocument{
			ID:         f.ID,
			Type:       string(f.Type),
			Message:    f.Message,
			TestID:     f.TestID,
			Category:   f.Category,
			Details:    f.Details,
			Evidence:   f.Evidence,
			References: f.References,
			SourceFile: f.SourceFile,
			SourceLine: f.SourceLine,
			Status:     string(f.Status),
		})
	}
	return doc
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
