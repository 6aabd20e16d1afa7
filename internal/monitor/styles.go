package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/koltont40/networkmonitoring/internal/api"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for host state and metrics
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	ColorGraph = lipgloss.Color("#00FFFF")
)

// Packet loss thresholds (percent) for coloring the loss column.
const (
	LossWarningThreshold  = 5.0
	LossCriticalThreshold = 30.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// Inline status line under the header. Errors from mutating actions use
	// StatusErrorStyle.
	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Padding(0, 1)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Bold(true).
				Padding(0, 1)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorSurfaceBg).
				Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Strikethrough(true)
)

// State glyphs
const (
	GlyphOK      = "◉"
	GlyphAlert   = "◈"
	GlyphPending = "◌"
	GlyphDeleted = "✕"
)

// StateGlyph returns the badge character for a host state.
func StateGlyph(state api.HostState) string {
	switch state {
	case api.StateOK, api.StateUp:
		return GlyphOK
	case api.StateAlert, api.StateDown, api.StateDegraded:
		return GlyphAlert
	case api.StateDeleted:
		return GlyphDeleted
	default:
		return GlyphPending
	}
}

// StateColor maps a host state to the palette.
func StateColor(state api.HostState) lipgloss.Color {
	switch state {
	case api.StateOK, api.StateUp:
		return ColorHealthy
	case api.StateDegraded:
		return ColorWarning
	case api.StateAlert, api.StateDown:
		return ColorCritical
	default:
		return ColorTextMuted
	}
}

// StateStyle returns the badge style for a host state.
func StateStyle(state api.HostState) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StateColor(state)).Bold(true)
}

// LossColor colors a packet loss percentage.
func LossColor(pct float64) lipgloss.Color {
	switch {
	case pct >= LossCriticalThreshold:
		return ColorCritical
	case pct >= LossWarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// Chart series colors, in series order.
var chartColors = []asciigraph.AnsiColor{
	asciigraph.DodgerBlue,
	asciigraph.LightCoral,
	asciigraph.MediumSeaGreen,
	asciigraph.Gold,
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		TitleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat("─", fillWidth)+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders a content line with left and right borders, padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	padding := width - 4 - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
