package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/koltont40/networkmonitoring/internal/api"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// Nothing is focused in CLI output, so the first row must not look selected.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string for CLI output.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}
	return NewTable(columns, tableRows).View()
}

// HostTableRow is one line of `netmon hosts list`. Values are already
// formatted; LossPct only drives the loss color.
type HostTableRow struct {
	State       api.HostState
	Address     string
	Name        string
	Latency     string
	Loss        string
	LossPct     *float64
	SysName     string
	LastChecked string
	Notes       string
}

var hostColumns = []TableColumn{
	{"", 2},
	{"ADDRESS", 16},
	{"NAME", 18},
	{"STATE", 9},
	{"LATENCY", 10},
	{"LOSS", 8},
	{"SNMP NAME", 16},
	{"CHECKED", 10},
	{"NOTES", 0},
}

// RenderHostTable renders the host list with colored state symbols.
func RenderHostTable(rows []HostTableRow) string {
	if len(rows) == 0 {
		return "No hosts tracked"
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	titles := make([]string, len(hostColumns))
	for i, c := range hostColumns {
		titles[i] = padRight(c.Title, c.Width)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.TrimRight(strings.Join(titles, " "), " ")))
	b.WriteString("\n")

	for _, r := range rows {
		stateStyle := lipgloss.NewStyle().Foreground(HostStateColor(r.State))
		loss := r.Loss
		if r.LossPct != nil {
			loss = lipgloss.NewStyle().Foreground(LossColor(*r.LossPct)).Render(loss)
		}
		name := r.Name
		if name == r.Address {
			name = mutedStyle.Render(name)
		}

		cells := []string{
			stateStyle.Render(HostStateSymbol(r.State)),
			r.Address,
			name,
			stateStyle.Render(string(r.State)),
			r.Latency,
			loss,
			r.SysName,
			mutedStyle.Render(r.LastChecked),
			r.Notes,
		}
		for i, c := range cells {
			cells[i] = padRight(c, hostColumns[i].Width)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
		b.WriteString("\n")
	}
	return b.String()
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
