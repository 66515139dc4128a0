// Package export writes a loaded audit to interchange formats: the
// native JSON document and SARIF 2.1.0 for security tooling.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/lynisview/lynisview/pkg/audit"
)

// WriteJSON writes the audit's document form to path, indented.
func WriteJSON(a *audit.Audit, path string) error {
	data, err := json.MarshalIndent(a.Document(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal audit: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteSARIF writes the audit's findings as a SARIF 2.1.0 report.
// Warnings map to level "warning", suggestions to "note"; each distinct
// finding id becomes a rule, and the physical location points at the
// source log line the finding was extracted from.
func WriteSARIF(a *audit.Audit, path string) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("lynis", "https://cisofy.com/lynis/")
	for _, f := range a.Findings {
		level := "note"
		if f.Type == audit.FindingWarning {
			level = "warning"
		}

		rule := run.AddRule(f.ID).
			WithDescription(f.Message).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: level})

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(level)
		if f.SourceFile != "" {
			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.SourceFile)).
					WithRegion(sarif.NewRegion().WithStartLine(f.SourceLine)),
			)
			result.WithLocations([]*sarif.Location{location})
		}
		run.AddResult(result)
	}
	report.AddRun(run)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("write SARIF report: %w", err)
	}
	defer file.Close()
	if err := report.PrettyWrite(file); err != nil {
		return fmt.Errorf("write SARIF report: %w", err)
	}
	return nil
}

// DefaultJSONName returns the conventional export filename for an audit.
func DefaultJSONName(a *audit.Audit) string {
	return fmt.Sprintf("lynis_audit_%s.json", a.Meta.AuditID)
}

// DefaultSARIFName returns the conventional SARIF filename for an audit.
func DefaultSARIFName(a *audit.Audit) string {
	return fmt.Sprintf("lynis_audit_%s.sarif", a.Meta.AuditID)
}
