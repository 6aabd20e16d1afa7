package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // e.g. "v0.3.0"
	Tagline string // optional
	Server  string // optional backend URL
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the branded header shown by `netmon version` and
// `netmon config show`.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorNeonPink).Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorNeonCyan)
	taglineStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	dividerStyle := lipgloss.NewStyle().Foreground(ColorGlassBorder)

	var b strings.Builder
	b.WriteString(titleStyle.Render("netmon"))
	if info.Version != "" {
		b.WriteString(" ")
		b.WriteString(versionStyle.Render(info.Version))
	}
	b.WriteString("\n")

	if info.Tagline != "" {
		b.WriteString(taglineStyle.Render(info.Tagline))
		b.WriteString("\n")
	}
	if info.Server != "" {
		b.WriteString(mutedStyle.Render(info.Server))
		b.WriteString("\n")
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("━", HeaderWidth)))
	b.WriteString("\n")
	return b.String()
}
