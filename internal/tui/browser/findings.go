package browser

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lynisview/lynisview/pkg/audit"
)

// findingsState is the per-category findings list with its search query
// and type toggles.
type findingsState struct {
	category        string
	all             []*audit.Finding
	view            []*audit.Finding
	cursor          int
	showWarnings    bool
	showSuggestions bool
	query           string
	searching       bool
	current         *audit.Finding
}

func newFindingsState(category string, findings []*audit.Finding) findingsState {
	fs := findingsState{
		category:        category,
		all:             findings,
		showWarnings:    true,
		showSuggestions: true,
	}
	fs.refresh()
	return fs
}

// refresh recomputes the visible slice from the toggles and query.
func (fs *findingsState) refresh() {
	query := strings.ToLower(fs.query)
	fs.view = fs.view[:0]
	for _, f := range fs.all {
		if f.Type == audit.FindingWarning && !fs.showWarnings {
			continue
		}
		if f.Type == audit.FindingSuggestion && !fs.showSuggestions {
			continue
		}
		if query != "" {
			blob := strings.ToLower(f.Message + " " + f.TestID + " " + f.ID)
			if !strings.Contains(blob, query) {
				continue
			}
		}
		fs.view = append(fs.view, f)
	}
	if fs.cursor >= len(fs.view) {
		fs.cursor = 0
	}
}

func (m Model) updateFindings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fs := &m.findings

	if fs.searching {
		switch msg.String() {
		case "enter", "esc":
			fs.searching = false
			m.filter.Blur()
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			fs.query = m.filter.Value()
			fs.refresh()
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.screen = screenCategories
	case "up", "k":
		if fs.cursor > 0 {
			fs.cursor--
		}
	case "down", "j":
		if fs.cursor < len(fs.view)-1 {
			fs.cursor++
		}
	case "w":
		fs.showWarnings = !fs.showWarnings
		fs.refresh()
	case "s":
		fs.showSuggestions = !fs.showSuggestions
		fs.refresh()
	case "/":
		fs.searching = true
		m.filter.SetValue(fs.query)
		m.filter.Focus()
	case "enter":
		if fs.cursor >= 0 && fs.cursor < len(fs.view) {
			fs.current = fs.view[fs.cursor]
			m.viewport.SetContent(renderFindingDetail(fs.current))
			m.viewport.GotoTop()
			m.screen = screenDetail
		}
	}
	return m, nil
}

func (m Model) viewFindings() string {
	fs := m.findings
	var b strings.Builder

	w, s := typeCounts(fs.all)
	b.WriteString(fmt.Sprintf("%s — items:%d (%s / %s)\n",
		sectionStyle.Render(fs.category), len(fs.all),
		warnStyle.Render(fmt.Sprintf("W:%d", w)),
		suggStyle.Render(fmt.Sprintf("S:%d", s))))

	toggles := []string{}
	if !fs.showWarnings {
		toggles = append(toggles, "warnings hidden")
	}
	if !fs.showSuggestions {
		toggles = append(toggles, "suggestions hidden")
	}
	if len(toggles) > 0 {
		b.WriteString(dimStyle.Render(strings.Join(toggles, ", ")) + "\n")
	}
	if fs.searching {
		b.WriteString(m.filter.View() + "\n")
	} else if fs.query != "" {
		b.WriteString(dimStyle.Render("filter: "+fs.query) + "\n")
	}
	b.WriteString("\n")

	for i, f := range fs.view {
		b.WriteString(m.findingLine(f, i == fs.cursor))
		b.WriteString("\n")
	}
	if len(fs.view) == 0 {
		b.WriteString(dimStyle.Render("Nothing matches the current filter."))
		b.WriteString("\n")
	}

	keys := "enter detail · w/s toggle types · / search · esc back · q quit"
	return m.frame("Findings", b.String(), keys)
}

func (m Model) findingLine(f *audit.Finding, selected bool) string {
	badge := suggStyle.Render("[S]")
	if f.Type == audit.FindingWarning {
		badge = warnStyle.Render("[W]")
	}
	id := f.TestID
	if id == "" {
		id = f.ID
	}
	line := fmt.Sprintf("%s %-12s %s", badge, id, f.Message)
	if selected {
		return selectedStyle.Render("> ") + line
	}
	return "  " + line
}

func renderFindingDetail(f *audit.Finding) string {
	badge := "SUGGESTION"
	if f.Type == audit.FindingWarning {
		badge = "WARNING"
	}
	id := f.TestID
	if id == "" {
		id = f.ID
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s — %s\n", badge, id))
	b.WriteString(fmt.Sprintf("Category: %s\n", f.Category))
	b.WriteString(fmt.Sprintf("Message: %s\n", f.Message))
	src := f.SourceFile
	if src == "" {
		src = "unknown"
	}
	b.WriteString(fmt.Sprintf("Source: %s:%d\n", src, f.SourceLine))
	if len(f.Details) > 0 {
		b.WriteString("\nDetails:\n")
		for _, d := range f.Details {
			b.WriteString("  " + d + "\n")
		}
	}
	b.WriteString("\nEvidence (log context):\n")
	if len(f.Evidence) == 0 {
		b.WriteString(dimStyle.Render("  (no evidence captured)\n"))
	}
	for _, e := range f.Evidence {
		b.WriteString("  " + e + "\n")
	}
	if len(f.References) > 0 {
		b.WriteString("\nReferences:\n")
		for _, r := range f.References {
			b.WriteString("  " + r + "\n")
		}
	}
	return b.String()
}
