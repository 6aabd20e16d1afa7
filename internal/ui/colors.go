package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/koltont40/networkmonitoring/internal/api"
)

// Semantic colors for status indication. ANSI codes keep CLI output
// readable on any terminal theme.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Brand accents used by the header and spinner.
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonPurple  lipgloss.Color = "#BF40FF"
	ColorNeonCyan    lipgloss.Color = "#00FFFF"
	ColorNeonGreen   lipgloss.Color = "#39FF14"
	ColorGlassBorder lipgloss.Color = "#2A2A4A"
)

// GradientColors is the spinner's color cycle.
var GradientColors = []lipgloss.Color{
	ColorNeonPink,
	ColorNeonPurple,
	ColorNeonCyan,
	ColorNeonGreen,
}

// DisableColors switches all lipgloss rendering to plain text (--no-color, NO_COLOR).
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// HostStateColor maps a backend host state to a semantic color.
func HostStateColor(state api.HostState) lipgloss.Color {
	switch state {
	case api.StateOK, api.StateUp:
		return ColorSuccess
	case api.StateDegraded:
		return ColorWarning
	case api.StateAlert, api.StateDown:
		return ColorError
	default:
		return ColorMuted
	}
}

// LossColor colors a packet loss percentage.
func LossColor(pct float64) lipgloss.Color {
	switch {
	case pct >= 30:
		return ColorError
	case pct >= 5:
		return ColorWarning
	default:
		return ColorSuccess
	}
}
