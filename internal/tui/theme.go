package tui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// palette holds the colors for one display preference.
type palette struct {
	accent   color.Color
	title    color.Color
	text     color.Color
	muted    color.Color
	dim      color.Color
	done     color.Color
	selected color.Color
	danger   color.Color
}

// paletteFor returns the dark or light palette.
func paletteFor(darkMode bool) palette {
	if darkMode {
		return palette{
			accent:   lipgloss.Color("62"),
			title:    lipgloss.Color("252"),
			text:     lipgloss.Color("250"),
			muted:    lipgloss.Color("241"),
			dim:      lipgloss.Color("239"),
			done:     lipgloss.Color("243"),
			selected: lipgloss.Color("212"),
			danger:   lipgloss.Color("203"),
		}
	}
	return palette{
		accent:   lipgloss.Color("25"),
		title:    lipgloss.Color("235"),
		text:     lipgloss.Color("237"),
		muted:    lipgloss.Color("244"),
		dim:      lipgloss.Color("250"),
		done:     lipgloss.Color("246"),
		selected: lipgloss.Color("161"),
		danger:   lipgloss.Color("160"),
	}
}

// glamourStyle names the markdown style matching the palette.
func glamourStyle(darkMode bool) string {
	if darkMode {
		return "dark"
	}
	return "light"
}
