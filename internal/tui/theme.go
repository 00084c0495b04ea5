package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The board must stay readable on both light and dark terminals, so every
// color is an AdaptiveColor pair.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorSurfaceFg      lipgloss.TerminalColor = ac("235", "252")
	colorMuted          lipgloss.TerminalColor = ac("240", "243")
	colorAccent         lipgloss.TerminalColor = ac("27", "62")
	colorColumnBorder   lipgloss.TerminalColor = ac("250", "240")
	colorSelectedBorder lipgloss.TerminalColor = ac("232", "255")
	colorCardBorder     lipgloss.TerminalColor = ac("250", "243")
	colorErrorFg        lipgloss.TerminalColor = ac("160", "203")
	colorCompletedFg    lipgloss.TerminalColor = ac("28", "35")
)

// applyThemePreference forces the background assumption when the user has a
// stored theme pref; otherwise terminal detection is left alone.
func applyThemePreference(theme string) {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		// Keep detection, but never probe past what the terminal reports.
		lipgloss.SetColorProfile(termenv.ColorProfile())
	}
}

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorErrorFg)
}

// labelSwatch renders a small colored marker for a label's hex color.
func labelSwatch(hex string) string {
	hex = strings.TrimSpace(strings.TrimPrefix(hex, "#"))
	if len(hex) != 6 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#" + hex)).Render("●")
}
