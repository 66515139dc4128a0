// Package browser implements the interactive audit browser: discover and
// load audits, drill into categories and findings, inspect the raw
// report, compare two audits, and archive or export the selected one.
package browser

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	"github.com/lynisview/lynisview/internal/history"
	"github.com/lynisview/lynisview/internal/snapshot"
	"github.com/lynisview/lynisview/pkg/audit"
	"github.com/lynisview/lynisview/pkg/discovery"
	"github.com/lynisview/lynisview/pkg/loader"
)

// screen identifies which view the browser is showing.
type screen int

const (
	screenAudits screen = iota
	screenCategories
	screenFindings
	screenDetail
	screenReport
	screenCompare
)

// Model is the Bubbletea model for the audit browser.
type Model struct {
	discoverCfg discovery.Config
	loadCfg     loader.Config
	snapshots   *snapshot.Store
	hist        *history.Store
	logger      hclog.Logger

	screen screen
	width  int
	height int
	ready  bool

	// Audit list
	audits   []*audit.Audit
	trends   map[string]int // audit id -> previous hardening index
	cursor   int
	loading  bool
	notice   string
	err      error
	markedID string // audit marked as comparison baseline

	// Categories of the selected audit
	selected   *audit.Audit
	categories []string
	catCursor  int

	// Findings screen
	findings findingsState

	// Detail / report / compare viewports
	viewport viewport.Model
	filter   textinput.Model
	diff     *audit.Diff
	diffWith *audit.Audit
}

// New creates the browser model.
func New(dcfg discovery.Config, lcfg loader.Config, snapshots *snapshot.Store, hist *history.Store, logger hclog.Logger) Model {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	filter := textinput.New()
	filter.Placeholder = "filter…"
	filter.CharLimit = 128
	return Model{
		discoverCfg: dcfg,
		loadCfg:     lcfg,
		snapshots:   snapshots,
		hist:        hist,
		logger:      logger,
		trends:      map[string]int{},
		filter:      filter,
		loading:     true,
	}
}

// --- Messages ---

// auditsMsg carries the result of a discovery+load pass.
type auditsMsg struct {
	audits []*audit.Audit
	trends map[string]int
}

// archiveMsg carries the outcome of an archive or delete action.
type archiveMsg struct {
	notice string
	err    error
	reload bool
}

// exportMsg carries the outcome of an export action.
type exportMsg struct {
	path string
	err  error
}

// loadAudits discovers and loads all audits off the UI loop, records
// them in the history store, and computes per-audit trend deltas.
func loadAudits(dcfg discovery.Config, lcfg loader.Config, hist *history.Store) tea.Cmd {
	return func() tea.Msg {
		sources := discovery.Discover(dcfg)
		audits := loader.LoadMany(sources, lcfg)

		// Newest scan first for display.
		sort.SliceStable(audits, func(i, j int) bool {
			return audits[i].Meta.StartedAt.After(audits[j].Meta.StartedAt)
		})

		trends := map[string]int{}
		if hist != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			for _, a := range audits {
				if prev, ok := hist.PreviousIndex(ctx, a.Meta.Hostname, a.Meta.StartedAt); ok {
					trends[a.Meta.AuditID] = prev
				}
				_ = hist.Record(ctx, a)
			}
		}
		return auditsMsg{audits: audits, trends: trends}
	}
}

// Init starts the first scan.
func (m Model) Init() tea.Cmd {
	return loadAudits(m.discoverCfg, m.loadCfg, m.hist)
}

// Update handles messages and routes key events to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentH := msg.Height - 7
		if contentH < 5 {
			contentH = 5
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, contentH)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = contentH
		}
		m.syncViewport()
		return m, nil

	case auditsMsg:
		m.loading = false
		m.audits = msg.audits
		m.trends = msg.trends
		if m.cursor >= len(m.audits) {
			m.cursor = 0
		}
		return m, nil

	case archiveMsg:
		m.notice = msg.notice
		m.err = msg.err
		if msg.reload {
			m.loading = true
			return m, loadAudits(m.discoverCfg, m.loadCfg, m.hist)
		}
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.notice = fmt.Sprintf("exported %s", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenAudits:
			return m.updateAudits(msg)
		case screenCategories:
			return m.updateCategories(msg)
		case screenFindings:
			return m.updateFindings(msg)
		case screenDetail, screenReport, screenCompare:
			return m.updateViewer(msg)
		}
	}
	return m, nil
}

// View renders the active screen.
func (m Model) View() string {
	if !m.ready {
		return "starting…"
	}
	switch m.screen {
	case screenAudits:
		return m.viewAudits()
	case screenCategories:
		return m.viewCategories()
	case screenFindings:
		return m.viewFindings()
	case screenDetail:
		return m.frame("Finding", m.viewport.View(), "esc back · q quit")
	case screenReport:
		return m.viewReport()
	case screenCompare:
		title := "Comparison"
		if m.diffWith != nil {
			title = "Comparison vs " + shortID(m.diffWith)
		}
		return m.frame(title, m.viewport.View(), "esc back · q quit")
	}
	return ""
}

// updateViewer handles the scroll-only screens.
func (m Model) updateViewer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen == screenReport {
		return m.updateReport(msg)
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.screen == screenDetail {
			m.screen = screenFindings
		} else {
			m.screen = screenAudits
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// frame wraps content in the standard header/footer chrome.
func (m Model) frame(title, content, keys string) string {
	header := headerStyle.Width(m.width).Render(titleStyle.Render("lynisview") + "  " + title)
	footer := footerStyle.Width(m.width).Render(keys)
	return header + "\n" + content + "\n" + footer
}

// syncViewport refreshes viewport content after a resize.
func (m *Model) syncViewport() {
	switch m.screen {
	case screenDetail:
		if m.findings.current != nil {
			m.viewport.SetContent(renderFindingDetail(m.findings.current))
		}
	case screenReport:
		m.viewport.SetContent(renderReport(m.selected, m.filter.Value()))
	case screenCompare:
		if m.diff != nil {
			m.viewport.SetContent(renderDiff(m.diff))
		}
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
