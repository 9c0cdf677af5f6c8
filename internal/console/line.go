// Package console renders server log lines for the terminal.
package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const resetStyle = "\x1b[0m"

type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "neutral"
	}
}

var severityStyles = map[Severity]lipgloss.Style{
	SeverityNeutral: lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")),
	SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#93C5FD")),
	SeverityWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00")),
	SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")),
}

// Classify scans the visible text of line for a severity keyword. Escape codes
// are stripped first so a color sequence can't hide or fake a keyword.
func Classify(line string) Severity {
	text := ansi.Strip(line)
	switch {
	case strings.Contains(text, "ERROR"), strings.Contains(text, "Exception"):
		return SeverityError
	case strings.Contains(text, "WARN"):
		return SeverityWarn
	case strings.Contains(text, "INFO"):
		return SeverityInfo
	default:
		return SeverityNeutral
	}
}

// Render colors a line by severity. Lines that carry their own escape codes are
// kept as sent, with a trailing reset so their style can't leak into the next
// line.
func Render(line string) string {
	if HasEscapes(line) {
		return line + resetStyle
	}
	return severityStyles[Classify(line)].Render(line)
}

func Strip(line string) string {
	return ansi.Strip(line)
}

func HasEscapes(line string) bool {
	return strings.ContainsRune(line, '\x1b')
}
