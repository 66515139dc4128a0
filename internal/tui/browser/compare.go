package browser

import (
	"fmt"
	"strings"

	"github.com/lynisview/lynisview/pkg/audit"
)

// renderDiff renders a comparison result grouped by classification.
func renderDiff(diff *audit.Diff) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s new · %s resolved · %s persistent\n",
		warnStyle.Render(fmt.Sprintf("%d", len(diff.New))),
		goodStyle.Render(fmt.Sprintf("%d", len(diff.Resolved))),
		dimStyle.Render(fmt.Sprintf("%d", len(diff.Persistent)))))

	writeGroup := func(title string, style func(...string) string, findings []*audit.Finding) {
		b.WriteString(sectionStyle.Render(title) + "\n")
		if len(findings) == 0 {
			b.WriteString(dimStyle.Render("  (none)") + "\n")
			return
		}
		for _, f := range findings {
			id := f.TestID
			if id == "" {
				id = f.ID
			}
			badge := "S"
			if f.Type == audit.FindingWarning {
				badge = "W"
			}
			b.WriteString(fmt.Sprintf("  %s [%s] %-12s %s\n", style("●"), badge, id, f.Message))
		}
	}

	writeGroup("New", warnStyle.Render, diff.New)
	writeGroup("Resolved", goodStyle.Render, diff.Resolved)
	writeGroup("Persistent", dimStyle.Render, diff.Persistent)
	return b.String()
}
