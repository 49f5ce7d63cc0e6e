package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/santiagomed/krito/core"
	"github.com/santiagomed/krito/logger"
)

var (
	infoStyle    = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBA08"))
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// TerminalReporter prints progress to the terminal and mirrors it to the log.
type TerminalReporter struct {
	stdout io.Writer
	stderr io.Writer
	logger logger.Logger
}

func NewTerminalReporter(stdout, stderr io.Writer, l logger.Logger) *TerminalReporter {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &TerminalReporter{
		stdout: stdout,
		stderr: stderr,
		logger: l,
	}
}

// SetLogger swaps the logger lines are mirrored to.
func (r *TerminalReporter) SetLogger(l logger.Logger) {
	r.logger = l
}

func (r *TerminalReporter) Report(level core.Level, msg string) {
	switch level {
	case core.LevelSuccess:
		fmt.Fprintln(r.stdout, successStyle.Render("✓ "+msg))
		r.logger.Info(msg)
	case core.LevelWarning:
		fmt.Fprintln(r.stderr, warningStyle.Render("! "+msg))
		r.logger.Warn(msg)
	case core.LevelError:
		fmt.Fprintln(r.stderr, errorStyle.Render("✗ "+msg))
		r.logger.Error(msg)
	default:
		fmt.Fprintln(r.stdout, infoStyle.Render(msg))
		r.logger.Info(msg)
	}
}
