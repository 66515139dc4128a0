// Package logging sets up the application logger. Output goes to a file
// when configured, since stderr is unusable while the TUI owns the
// terminal.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New creates the named application logger. level is an hclog level
// string ("debug", "info", ...); empty means info. When file is
// non-empty, log lines are appended there instead of stderr. When the
// file cannot be opened, or quiet output is wanted alongside the TUI
// without a file, the logger is discarded rather than corrupting the
// screen.
func New(name, level, file string, tui bool) hclog.Logger {
	var output io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return hclog.NewNullLogger()
		}
		output = f
	} else if tui {
		return hclog.NewNullLogger()
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: output,
		Level:  hclog.LevelFromString(level),
	})
}
