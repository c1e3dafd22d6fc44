package formatter

import (
	"github.com/andresjgsalzate/case-management-system-sub003/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// statusStyle maps a control status to its display style.
func statusStyle(status domain.ControlStatus) lipgloss.Style {
	switch status {
	case domain.StatusInProgress:
		return StyleGreen
	case domain.StatusPaused:
		return StyleYellow
	case domain.StatusStopped:
		return StyleRed
	case domain.StatusCompleted:
		return StyleBlue
	default:
		return StyleDim
	}
}

// StatusLabel renders a colored control status label.
func StatusLabel(status domain.ControlStatus) string {
	return statusStyle(status).Render(string(status))
}
