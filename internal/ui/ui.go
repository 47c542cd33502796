// Package ui provides styled terminal output and the process-wide event
// logger. User-facing messages (info/ok/warn/err) go to stderr so piped
// stdout stays machine-readable in dry-run mode.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var (
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// Log is the structured event logger. It is disabled by default and enabled
// by Configure when --verbose is set.
var Log = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
	w.Out = os.Stderr
})).Level(zerolog.Disabled)

// Configure sets up the event logger. Verbose enables info-level events
// (clamps, writes, detection probes).
func Configure(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	Log = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).Level(level).With().Timestamp().Logger()
}

// Interactive reports whether stdout is attached to a terminal.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// colorEnabled honors NO_COLOR and non-TTY stderr.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd())
}

func emit(style lipgloss.Style, prefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if colorEnabled() {
		fmt.Fprintln(os.Stderr, style.Render(prefix+msg))
		return
	}
	fmt.Fprintln(os.Stderr, prefix+msg)
}

// Info prints an informational message.
func Info(format string, args ...any) { emit(infoStyle, "• ", format, args...) }

// Ok prints a success message.
func Ok(format string, args ...any) { emit(okStyle, "✓ ", format, args...) }

// Warn prints a warning.
func Warn(format string, args ...any) { emit(warnStyle, "! ", format, args...) }

// Err prints an error message.
func Err(format string, args ...any) { emit(errStyle, "✗ ", format, args...) }

// Dim prints a de-emphasized line.
func Dim(format string, args ...any) { emit(dimStyle, "  ", format, args...) }
