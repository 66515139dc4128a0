// Command lynisview browses Lynis audit results from the terminal.
//
// Subcommands:
//
//	browse   — interactive audit browser (default)
//	scan     — discover and list audits without the full UI
//	export   — write one audit as JSON or SARIF
//	compare  — diff the findings of two audit directories
//	history  — hardening-index history for a host
//
// Usage:
//
//	lynisview [browse] [--config path]
//	lynisview scan [--config path]
//	lynisview export --dir path [--sarif] [--out path]
//	lynisview compare --old path --new path
//	lynisview history --host name [--limit n]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	"github.com/lynisview/lynisview/internal/config"
	"github.com/lynisview/lynisview/internal/export"
	"github.com/lynisview/lynisview/internal/history"
	"github.com/lynisview/lynisview/internal/logging"
	"github.com/lynisview/lynisview/internal/snapshot"
	"github.com/lynisview/lynisview/internal/tui/browser"
	"github.com/lynisview/lynisview/pkg/audit"
	"github.com/lynisview/lynisview/pkg/discovery"
	"github.com/lynisview/lynisview/pkg/loader"
)

func main() {
	args := os.Args[1:]
	cmd := "browse"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "browse":
		runBrowse(args)
	case "scan":
		runScan(args)
	case "export":
		runExport(args)
	case "compare":
		runCompare(args)
	case "history":
		runHistory(args)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("lynisview — Lynis audit browser")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lynisview [browse] [--config path]   Interactive audit browser")
	fmt.Println("  lynisview scan [--config path]       List discovered audits")
	fmt.Println("  lynisview export --dir path [--sarif] [--out path]")
	fmt.Println("                                       Export one audit")
	fmt.Println("  lynisview compare --old path --new path")
	fmt.Println("                                       Diff findings of two audits")
	fmt.Println("  lynisview history --host name [--limit n]")
	fmt.Println("                                       Hardening-index history")
}

// loadConfig reads the config file and builds the shared logger.
func loadConfig(path string, tui bool) (*config.Config, hclog.Logger) {
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg, logging.New("lynisview", cfg.LogLevel, cfg.LogFile, tui)
}

func runBrowse(args []string) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Config file (default: ~/.config/lynisview/config.yaml)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, logger := loadConfig(*cfgPath, true)

	dcfg := cfg.Discovery()
	dcfg.Logger = logger
	lcfg := loader.Config{Logger: logger}
	snapshots := snapshot.NewStore(cfg.SnapshotDir)

	histPath := cfg.HistoryDB
	if histPath == "" {
		histPath = history.DefaultPath()
	}
	hist, err := history.Open(histPath)
	if err != nil {
		logger.Warn("history store unavailable", "error", err)
		hist = nil
	} else {
		defer hist.Close()
	}

	m := browser.New(dcfg, lcfg, snapshots, hist, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Config file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, logger := loadConfig(*cfgPath, false)
	dcfg := cfg.Discovery()
	dcfg.Logger = logger

	sources := discovery.Discover(dcfg)
	audits := loader.LoadMany(sources, loader.Config{Logger: logger})
	sort.SliceStable(audits, func(i, j int) bool {
		return audits[i].Meta.StartedAt.After(audits[j].Meta.StartedAt)
	})

	if len(audits) == 0 {
		fmt.Println("No audits found.")
		return
	}
	for _, a := range audits {
		score := "?"
		if a.Meta.HardeningIndex != nil {
			score = fmt.Sprintf("%d", *a.Meta.HardeningIndex)
		}
		host := a.Meta.Hostname
		if host == "" {
			host = "unknown-host"
		}
		started := "unknown date"
		if !a.Meta.StartedAt.IsZero() {
			started = a.Meta.StartedAt.UTC().Format("2006-01-02 15:04")
		}
		fmt.Printf("%s  %-20s score:%-4s W:%-3d S:%-3d %s\n",
			started, host, score, a.Meta.WarningCount, a.Meta.SuggestionCount,
			a.Meta.Source.RootDir)
	}
}

// loadDir loads the audit rooted at a single directory.
func loadDir(dir string, logger hclog.Logger) (*audit.Audit, error) {
	dcfg := discovery.Config{
		SearchDirs:       []string{dir},
		MaxDepth:         1,
		IncludeSystemLog: false,
		Logger:           logger,
	}
	sources := discovery.Discover(dcfg)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no audit files under %s", dir)
	}
	return loader.Load(sources[0], loader.Config{Logger: logger}), nil
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dir := fs.String("dir", "", "Audit directory (containing lynis.log / lynis-report.dat)")
	out := fs.String("out", "", "Output path (default: derived from audit id)")
	asSARIF := fs.Bool("sarif", false, "Write SARIF 2.1.0 instead of JSON")
	cfgPath := fs.String("config", "", "Config file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Error: --dir is required")
		os.Exit(1)
	}

	_, logger := loadConfig(*cfgPath, false)
	a, err := loadDir(*dir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path := *out
	write := export.WriteJSON
	if *asSARIF {
		write = export.WriteSARIF
		if path == "" {
			path = export.DefaultSARIFName(a)
		}
	} else if path == "" {
		path = export.DefaultJSONName(a)
	}
	if err := write(a, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %s\n", path)
}

func runCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	oldDir := fs.String("old", "", "Baseline audit directory")
	newDir := fs.String("new", "", "Newer audit directory")
	cfgPath := fs.String("config", "", "Config file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *oldDir == "" || *newDir == "" {
		fmt.Fprintln(os.Stderr, "Error: --old and --new are required")
		os.Exit(1)
	}

	_, logger := loadConfig(*cfgPath, false)
	oldAudit, err := loadDir(*oldDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	newAudit, err := loadDir(*newDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	diff := audit.Compare(oldAudit, newAudit)
	printGroup("NEW", diff.New)
	printGroup("RESOLVED", diff.Resolved)
	printGroup("PERSISTENT", diff.Persistent)
}

func printGroup(title string, findings []*audit.Finding) {
	fmt.Printf("%s (%d)\n", title, len(findings))
	for _, f := range findings {
		id := f.TestID
		if id == "" {
			id = f.ID
		}
		badge := "S"
		if f.Type == audit.FindingWarning {
			badge = "W"
		}
		fmt.Printf("  [%s] %-12s %s\n", badge, id, f.Message)
	}
}

func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	host := fs.String("host", "", "Hostname to show history for")
	limit := fs.Int("limit", 20, "Maximum entries")
	cfgPath := fs.String("config", "", "Config file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, _ := loadConfig(*cfgPath, false)
	histPath := cfg.HistoryDB
	if histPath == "" {
		histPath = history.DefaultPath()
	}
	hist, err := history.Open(histPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer hist.Close()

	ctx := context.Background()
	if *host == "" {
		hosts, err := hist.Hosts(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(hosts) == 0 {
			fmt.Println("No recorded audits yet. Run lynisview scan or browse first.")
			return
		}
		fmt.Println("Known hosts:")
		for _, h := range hosts {
			fmt.Println("  " + h)
		}
		return
	}

	entries, err := hist.ForHost(ctx, *host, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Printf("No recorded audits for %s.\n", *host)
		return
	}
	for _, e := range entries {
		score := "?"
		if e.HardeningIndex != nil {
			score = fmt.Sprintf("%d", *e.HardeningIndex)
		}
		started := "unknown date"
		if !e.StartedAt.IsZero() {
			started = e.StartedAt.UTC().Format("2006-01-02 15:04")
		}
		fmt.Printf("%s  score:%-4s W:%-3d S:%-3d %s\n",
			started, score, e.WarningCount, e.SuggestionCount, e.RootDir)
	}
}
