package formatter

import "fmt"

// FormatMinutes renders a minute count as "2h 15m" (or "45m" under an hour).
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// YesNo renders a bool as a colored yes/no marker.
func YesNo(b bool) string {
	if b {
		return StyleGreen.Render("yes")
	}
	return StyleDim.Render("no")
}
