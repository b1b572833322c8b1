package weave

import "github.com/charmbracelet/lipgloss"

var (
	// Base colors
	primaryColor = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("241")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	// Text styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	currentStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)

	// Direction badges
	forwardBadge  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	backwardBadge = lipgloss.NewStyle().Foreground(warningColor)
	idleBadge     = lipgloss.NewStyle().Foreground(mutedColor)
)

// swatch renders a block in a thread colour, or dots for an empty hole.
func swatch(color string) string {
	if color == "" {
		return subtleStyle.Render("··")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}
