package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"papermc/internal/notify"
	"papermc/internal/vitals"
	"papermc/pkg/sdk"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1).
			Align(lipgloss.Center)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	footerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Align(lipgloss.Center)

	successToastStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorToastStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	errorTextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
)

// statusBadge mirrors the backend's three process states; no snapshot reads as
// offline.
func statusBadge(v *sdk.Vitals) string {
	label := vitals.StatusLabel(v)
	color, icon := "160", "🔴"
	switch label {
	case "Running":
		color, icon = "42", "🟢"
	case "Starting":
		color, icon = "220", "🟡"
	}
	return icon + " " + lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(label)
}

func vitalsLine(v *sdk.Vitals) string {
	if v == nil {
		return statusBadge(nil) + "  •  waiting for status..."
	}
	return statusBadge(v) + "  •  CPU: " + vitals.FormatCPU(*v) +
		"  •  RAM: " + vitals.FormatRAM(*v) + " (" + vitals.FormatPercent(vitals.RAMPercent(*v)) + ")" +
		"  •  Players: " + strconv.Itoa(v.Players)
}

func helpLine(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, keyStyle.Render(pairs[i])+descStyle.Render(": "+pairs[i+1]))
	}
	return strings.Join(parts, sepStyle.Render(" • "))
}

func renderToasts(toasts []notify.Toast) string {
	var lines []string
	for _, t := range toasts {
		style := successToastStyle
		if t.Kind == notify.KindError {
			style = errorToastStyle
		}
		lines = append(lines, style.Render(t.Message))
	}
	return strings.Join(lines, "\n")
}
