package browser

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lynisview/lynisview/pkg/audit"
)

func (m Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filter.Focused() {
		switch msg.String() {
		case "enter", "esc":
			m.filter.Blur()
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.viewport.SetContent(renderReport(m.selected, m.filter.Value()))
			m.viewport.GotoTop()
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.screen = screenAudits
		if m.selected != nil {
			m.screen = screenCategories
		}
		return m, nil
	case "/":
		m.filter.Focus()
		return m, nil
	case "c":
		m.filter.SetValue("")
		m.viewport.SetContent(renderReport(m.selected, ""))
		m.viewport.GotoTop()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewReport() string {
	var b strings.Builder
	if m.selected != nil {
		b.WriteString(metaBoxStyle.Render(renderMetaSummary(m.selected)))
		b.WriteString("\n")
	}
	if m.filter.Focused() {
		b.WriteString(m.filter.View() + "\n")
	} else if m.filter.Value() != "" {
		b.WriteString(dimStyle.Render("filter: "+m.filter.Value()) + "\n")
	}
	b.WriteString(m.viewport.View())
	return m.frame("Report", b.String(), "/ search · c clear · esc back · q quit")
}

// renderReport flattens the raw report map into sorted key=value lines,
// expanding list values with 1-based indices, filtered by needle.
func renderReport(a *audit.Audit, needle string) string {
	if a == nil {
		return ""
	}
	extra := a.Meta.Extra

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		switch v := extra[k].(type) {
		case []string:
			for i, one := range v {
				lines = append(lines, fmt.Sprintf("%s[%d]=%s", k, i+1, one))
			}
		default:
			lines = append(lines, fmt.Sprintf("%s=%v", k, v))
		}
	}
	if len(lines) == 0 {
		return dimStyle.Render("(no data found in the report file, or it was not readable)")
	}

	if needle = strings.ToLower(strings.TrimSpace(needle)); needle != "" {
		var filtered []string
		for _, ln := range lines {
			if strings.Contains(strings.ToLower(ln), needle) {
				filtered = append(filtered, ln)
			}
		}
		lines = filtered
	}
	return strings.Join(lines, "\n")
}
