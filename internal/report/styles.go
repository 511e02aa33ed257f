package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/talgya/contagion/internal/engine"
)

var (
	primaryColor = lipgloss.Color("#A78BFA")
	goodColor    = lipgloss.Color("#10B981")
	warnColor    = lipgloss.Color("#F59E0B")
	badColor     = lipgloss.Color("#F87171")
	mutedColor   = lipgloss.Color("#9CA3AF")
	borderColor  = lipgloss.Color("#6B7280")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	goodStyle   = lipgloss.NewStyle().Foreground(goodColor)
	warnStyle   = lipgloss.NewStyle().Foreground(warnColor)
	badStyle    = lipgloss.NewStyle().Foreground(badColor)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(mutedColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)

// severityStyle colors an infection severity band.
func severityStyle(s engine.Severity) lipgloss.Style {
	switch s {
	case engine.SeverityMinimal, engine.SeverityLow:
		return goodStyle
	case engine.SeverityModerate, engine.SeverityHigh:
		return warnStyle
	default:
		return badStyle
	}
}

// scoreStyle colors an economy or morale score.
func scoreStyle(v float64) lipgloss.Style {
	switch {
	case v >= 60:
		return goodStyle
	case v >= 30:
		return warnStyle
	default:
		return badStyle
	}
}
