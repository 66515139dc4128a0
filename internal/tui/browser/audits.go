package browser

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lynisview/lynisview/internal/export"
	"github.com/lynisview/lynisview/pkg/audit"
)

func (m Model) updateAudits(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.audits)-1 {
			m.cursor++
		}

	case "r":
		m.loading = true
		m.notice = ""
		m.err = nil
		return m, loadAudits(m.discoverCfg, m.loadCfg, m.hist)

	case "enter":
		if a := m.currentAudit(); a != nil {
			m.selected = a
			m.categories = sortedCategories(a)
			m.catCursor = 0
			m.screen = screenCategories
		}

	case "p":
		if a := m.currentAudit(); a != nil {
			m.selected = a
			m.categories = sortedCategories(a)
			m.catCursor = 0
			m.filter.SetValue("")
			m.viewport.SetContent(renderReport(a, ""))
			m.viewport.GotoTop()
			m.screen = screenReport
		}

	case "c":
		return m.markOrCompare()

	case "a":
		if a := m.currentAudit(); a != nil {
			return m, m.archiveCmd(a)
		}
	case "d":
		if a := m.currentAudit(); a != nil {
			return m, m.deleteCmd(a)
		}

	case "x":
		if a := m.currentAudit(); a != nil {
			return m, exportCmd(a, export.DefaultJSONName(a), export.WriteJSON)
		}
	case "X":
		if a := m.currentAudit(); a != nil {
			return m, exportCmd(a, export.DefaultSARIFName(a), export.WriteSARIF)
		}
	}
	return m, nil
}

// markOrCompare marks the current audit as the comparison baseline, or —
// when a different audit is already marked — runs the comparison against
// it. The older audit by scan date is treated as the baseline.
func (m Model) markOrCompare() (tea.Model, tea.Cmd) {
	a := m.currentAudit()
	if a == nil {
		return m, nil
	}
	if m.markedID == "" || m.markedID == a.Meta.AuditID {
		m.markedID = a.Meta.AuditID
		m.notice = fmt.Sprintf("marked %s as comparison baseline; press c on another audit", shortID(a))
		return m, nil
	}

	var marked *audit.Audit
	for _, b := range m.audits {
		if b.Meta.AuditID == m.markedID {
			marked = b
			break
		}
	}
	if marked == nil {
		m.markedID = ""
		return m, nil
	}

	older, newer := marked, a
	if newer.Meta.StartedAt.Before(older.Meta.StartedAt) {
		older, newer = newer, older
	}
	diff := audit.Compare(older, newer)
	m.diff = &diff
	m.diffWith = older
	m.markedID = ""
	m.notice = ""
	m.viewport.SetContent(renderDiff(&diff))
	m.viewport.GotoTop()
	m.screen = screenCompare
	return m, nil
}

func (m Model) archiveCmd(a *audit.Audit) tea.Cmd {
	store := m.snapshots
	return func() tea.Msg {
		path, err := store.Archive(a)
		if err != nil {
			return archiveMsg{err: err}
		}
		return archiveMsg{notice: fmt.Sprintf("archived to %s", path), reload: true}
	}
}

func (m Model) deleteCmd(a *audit.Audit) tea.Cmd {
	store := m.snapshots
	return func() tea.Msg {
		if err := store.Delete(a); err != nil {
			return archiveMsg{err: err}
		}
		return archiveMsg{notice: "archive deleted", reload: true}
	}
}

func exportCmd(a *audit.Audit, path string, write func(*audit.Audit, string) error) tea.Cmd {
	return func() tea.Msg {
		if err := write(a, path); err != nil {
			return exportMsg{err: err}
		}
		return exportMsg{path: path}
	}
}

func (m Model) currentAudit() *audit.Audit {
	if m.cursor < 0 || m.cursor >= len(m.audits) {
		return nil
	}
	return m.audits[m.cursor]
}

func (m Model) viewAudits() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString(dimStyle.Render("Scanning for audits…"))
		b.WriteString("\n")
	case len(m.audits) == 0:
		b.WriteString("No audits found.\n")
		b.WriteString(dimStyle.Render("Expected lynis.log / lynis-report.dat under the configured search dirs."))
		b.WriteString("\n")
	default:
		for i, a := range m.audits {
			line := m.auditLine(a)
			if i == m.cursor {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	} else if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}

	keys := "enter open · p report · c compare · a archive · d delete · x/X export · r rescan · q quit"
	return m.frame("Audits", b.String(), keys)
}

// auditLine renders one row of the audit list: date, host, score with
// trend against the previous recorded scan, counters, and badges for
// archived/marked state.
func (m Model) auditLine(a *audit.Audit) string {
	score := "?"
	if a.Meta.HardeningIndex != nil {
		score = fmt.Sprintf("%d", *a.Meta.HardeningIndex)
		if prev, ok := m.trends[a.Meta.AuditID]; ok && prev != *a.Meta.HardeningIndex {
			if *a.Meta.HardeningIndex > prev {
				score += goodStyle.Render("↑")
			} else {
				score += warnStyle.Render("↓")
			}
		}
	}

	host := a.Meta.Hostname
	if host == "" {
		host = "unknown-host"
	}

	line := fmt.Sprintf("%s  %-20s score:%-4s %s %s",
		formatDate(a.Meta.StartedAt), host, score,
		warnStyle.Render(fmt.Sprintf("W:%d", a.Meta.WarningCount)),
		suggStyle.Render(fmt.Sprintf("S:%d", a.Meta.SuggestionCount)))

	if m.snapshots != nil && m.snapshots.IsArchived(a) {
		line += dimStyle.Render("  [archived]")
	}
	if a.Meta.AuditID == m.markedID {
		line += noticeStyle.Render("  [baseline]")
	}
	return line
}

func shortID(a *audit.Audit) string {
	host := a.Meta.Hostname
	if host == "" {
		host = a.Meta.AuditID
	}
	return fmt.Sprintf("%s (%s)", host, formatDate(a.Meta.StartedAt))
}

// sortedCategories orders categories alphabetically with Uncategorized
// last, the way the category screen lists them.
func sortedCategories(a *audit.Audit) []string {
	cats := a.Categories()
	var out []string
	hasUncat := false
	for _, c := range cats {
		if c == audit.CategoryUncategorized {
			hasUncat = true
			continue
		}
		out = append(out, c)
	}
	sort.Strings(out)
	if hasUncat {
		out = append(out, audit.CategoryUncategorized)
	}
	return out
}
