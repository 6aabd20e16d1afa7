package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// listHelpBindings are the host list's shortcuts.
var listHelpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "r", Desc: "Rescan now"},
	{Key: "up / k", Desc: "Select previous host"},
	{Key: "down / j", Desc: "Select next host"},
	{Key: "Home / End", Desc: "Select first / last host"},
	{Key: "Enter", Desc: "Open host detail"},
	{Key: "a", Desc: "Add hosts"},
	{Key: "s", Desc: "Edit settings"},
	{Key: "f", Desc: "Toggle reachable-only filter"},
	{Key: "?", Desc: "Toggle this help"},
}

// detailHelpBindings are the detail view's shortcuts.
var detailHelpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "r", Desc: "Refresh now"},
	{Key: "d", Desc: "Delete host"},
	{Key: "up / down", Desc: "Scroll"},
	{Key: "Esc", Desc: "Back to host list"},
	{Key: "?", Desc: "Toggle this help"},
}

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered help box with the current view's shortcuts.
func (m Model) renderHelpOverlay() string {
	bindings := listHelpBindings
	if m.viewMode == ViewDetail {
		bindings = detailHelpBindings
	}

	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, binding := range bindings {
		line := helpKeyStyle.Render(binding.Key) + helpDescStyle.Render(binding.Desc)
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, LabelStyle.Render("Press ? to close"))

	helpContent := strings.Join(lines, "\n")
	helpBox := helpBoxStyle.Render(helpContent)

	return lipgloss.Place(
		m.viewWidth(),
		m.viewHeight(),
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
