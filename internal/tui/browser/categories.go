package browser

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lynisview/lynisview/pkg/audit"
)

func (m Model) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.screen = screenAudits
	case "up", "k":
		if m.catCursor > 0 {
			m.catCursor--
		}
	case "down", "j":
		if m.catCursor < len(m.categories)-1 {
			m.catCursor++
		}
	case "p":
		m.filter.SetValue("")
		m.viewport.SetContent(renderReport(m.selected, ""))
		m.viewport.GotoTop()
		m.screen = screenReport
	case "enter":
		if m.catCursor >= 0 && m.catCursor < len(m.categories) {
			cat := m.categories[m.catCursor]
			m.findings = newFindingsState(cat, m.selected.ByCategory()[cat])
			m.screen = screenFindings
		}
	}
	return m, nil
}

func (m Model) viewCategories() string {
	a := m.selected
	var b strings.Builder

	b.WriteString(metaBoxStyle.Render(renderMetaSummary(a)))
	b.WriteString("\n")

	byCat := a.ByCategory()
	for i, cat := range m.categories {
		w, s := typeCounts(byCat[cat])
		line := fmt.Sprintf("%-28s %s %s", cat,
			warnStyle.Render(fmt.Sprintf("W:%d", w)),
			suggStyle.Render(fmt.Sprintf("S:%d", s)))
		if i == m.catCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.categories) == 0 {
		b.WriteString(dimStyle.Render("No findings in this audit."))
		b.WriteString("\n")
	}

	return m.frame("Categories", b.String(), "enter open · p report · esc back · q quit")
}

func renderMetaSummary(a *audit.Audit) string {
	meta := a.Meta
	host := meta.Hostname
	if host == "" {
		host = "unknown-host"
	}
	distro := strings.TrimSpace(meta.Distro + " " + meta.DistroVersion)
	if distro == "" {
		distro = "unknown distro"
	}
	kernel := meta.Kernel
	if kernel == "" {
		kernel = "unknown kernel"
	}
	score := "?"
	if meta.HardeningIndex != nil {
		score = fmt.Sprintf("%d", *meta.HardeningIndex)
	}
	return fmt.Sprintf("Audit: %s — %s\nSystem: %s | kernel: %s\nHardening index: %s | warnings: %d | suggestions: %d",
		formatDate(meta.StartedAt), host, distro, kernel, score,
		meta.WarningCount, meta.SuggestionCount)
}

func typeCounts(findings []*audit.Finding) (warnings, suggestions int) {
	for _, f := range findings {
		if f.Type == audit.FindingWarning {
			warnings++
		} else {
			suggestions++
		}
	}
	return warnings, suggestions
}
