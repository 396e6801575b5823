package dashboard

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// primaryColor is the main theme color.
	primaryColor = lipgloss.Color("#4ECDC4") // Teal
	// warningColor highlights duplicate waste.
	warningColor = lipgloss.Color("#FFE66D") // Yellow
	// subtleColor is for labels and secondary text.
	subtleColor = lipgloss.Color("#666666") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	barStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)
