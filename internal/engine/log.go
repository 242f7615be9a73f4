package engine

import "github.com/pterm/pterm"

// Logger wraps pterm's prefix printers with the single quiet switch the
// CLI surface's global -q flag controls, per §6.
type Logger struct {
	quiet bool
}

// NewLogger returns a Logger. When quiet is true, Info is suppressed.
func NewLogger(quiet bool) *Logger {
	return &Logger{quiet: quiet}
}

// Info prints an informational step, e.g. "building", "linking".
func (l *Logger) Info(tag, msg string) {
	if l.quiet {
		return
	}
	pterm.Info.Printfln("%s %s", tag, msg)
}
