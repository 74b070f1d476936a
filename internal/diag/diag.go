// ════════════════════════════════════════════════════════════════════════════════════════════════
// Ambient Structured Logging
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: DAG Frame Scheduler
// Component: Diagnostics (distinct from the XML work-unit log sink)
//
// Description:
//   This is the scheduler's own operational log — monopoly thread-count shortfalls and the demo
//   CLI's start/finish lines — never the per-frame <Frame>/<Thread>/<Workunit*> wire format
//   logsink owns. Grounded on safing-portmaster's base/log/slog.go tint.NewHandler setup, with
//   go-colorable wrapping the destination whenever it is a terminal.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package diag

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// New builds a slog.Logger writing to dest, colorized when dest is a
// terminal (detected via isatty) and routed through go-colorable so
// ANSI sequences still render correctly on a Windows console.
func New(dest *os.File, level slog.Level) *slog.Logger {
	var w io.Writer = dest
	noColor := true
	if isatty.IsTerminal(dest.Fd()) || isatty.IsCygwinTerminal(dest.Fd()) {
		w = colorable.NewColorable(dest)
		noColor = false
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	})
	return slog.New(handler)
}

// Default returns a logger at slog.LevelInfo writing to stderr, the
// configuration dagsched-demo's run command uses and the scheduler falls
// back to when Config.Diag is nil.
func Default() *slog.Logger {
	return New(os.Stderr, slog.LevelInfo)
}
