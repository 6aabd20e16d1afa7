package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Fallback dimensions before the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// List column widths
const (
	colBadge     = 2
	colHost      = 22
	colLatency   = 9
	colLoss      = 8
	colSparkline = 16
	colSysName   = 16
	colChecked   = 10
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var body string
	if m.viewMode == ViewDetail {
		body = m.renderDetailBody()
	} else {
		body = m.renderHostList()
	}

	if m.form != nil {
		body = m.renderForm()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) viewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

func (m Model) viewHeight() int {
	if m.height > 0 {
		return m.height
	}
	return defaultHeight
}

// renderHeader renders the title and summary stats.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("netmon")

	var summary string
	if m.viewMode == ViewDetail && m.detail != nil {
		summary = fmt.Sprintf(" | %s | %s", m.detail.Address, m.updatedText())
	} else {
		rows := m.list.Rows()
		summary = fmt.Sprintf(" | %d hosts | %d alerting | %s", len(rows), m.list.AlertCount(), m.updatedText())
		if m.reachableOnly {
			summary += " | reachable only"
		}
	}
	if m.opts.Source != "" {
		summary += " | " + m.opts.Source
	}

	return HeaderStyle.Render(title + LabelStyle.Render(summary))
}

func (m Model) updatedText() string {
	if m.lastUpdate.IsZero() {
		return "waiting for data"
	}
	switch s := m.SecondsSinceUpdate(); s {
	case 0:
		return "updated just now"
	case 1:
		return "updated 1s ago"
	default:
		return fmt.Sprintf("updated %ds ago", s)
	}
}

// renderStatus renders the inline status of the last mutating action.
func (m Model) renderStatus() string {
	if m.status.Text == "" {
		return ""
	}
	if m.status.Error {
		return StatusErrorStyle.Render(m.status.Text)
	}
	return StatusStyle.Render(m.status.Text)
}

// renderHostList renders the host table.
func (m Model) renderHostList() string {
	rows := m.list.Rows()
	if !m.list.Loaded() {
		return LabelStyle.Render("  Loading hosts...")
	}
	if len(rows) == 0 {
		return LabelStyle.Render("  No hosts tracked. Press a to add some.")
	}

	notesWidth := m.viewWidth() - (colBadge + colHost + colLatency + colLoss + colSparkline + colSysName + colChecked + 8)
	if notesWidth < 10 {
		notesWidth = 10
	}

	header := strings.Join([]string{
		pad("", colBadge),
		pad("Host", colHost),
		padLeft("Lat (ms)", colLatency),
		padLeft("Loss %", colLoss),
		pad("Trend", colSparkline),
		pad("SNMP name", colSysName),
		pad("Checked", colChecked),
		"Notes",
	}, " ")

	lines := []string{MutedStyle.Render(header)}
	for i, r := range rows {
		lines = append(lines, m.renderRow(r, i == m.list.Selected(), notesWidth))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r Row, selected bool, notesWidth int) string {
	loss := padLeft(r.PacketLoss, colLoss)
	if r.LossPct != nil {
		loss = lipgloss.NewStyle().Foreground(LossColor(*r.LossPct)).Render(loss)
	}

	host := r.Name
	if r.Name != r.Address {
		host = r.Name + " " + MutedStyle.Render(r.Address)
	}

	spark := RenderColoredMiniSparkline(m.list.Sparkline(r.Address, colSparkline), colSparkline, ColorGraph)

	cells := []string{
		StateStyle(r.State).Render(pad(StateGlyph(r.State), colBadge)),
		pad(host, colHost),
		padLeft(r.Latency, colLatency),
		loss,
		pad(spark, colSparkline),
		pad(r.SysName, colSysName),
		pad(r.LastChecked, colChecked),
		truncate(r.Notes, notesWidth),
	}
	line := strings.Join(cells, " ")
	if selected {
		return SelectedRowStyle.Render("▸") + line
	}
	return " " + line
}

// renderForm renders the active form in a bordered box.
func (m Model) renderForm() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 1)
	hint := MutedStyle.Render("enter next · esc cancel")
	return box.Render(m.form.View() + "\n" + hint)
}

// renderFooter renders the keyboard hints.
func (m Model) renderFooter() string {
	var hints []string
	if m.viewMode == ViewDetail {
		hints = []string{"q quit", "esc back"}
		if m.poller.Busy(ControlRefresh) {
			hints = append(hints, DisabledStyle.Render("r refreshing..."))
		} else {
			hints = append(hints, "r refresh")
		}
		if m.DeleteEnabled() {
			hints = append(hints, "d delete")
		} else {
			hints = append(hints, DisabledStyle.Render("d delete"))
		}
	} else {
		rescan := "r " + RescanLabel(m.poller.Busy(ControlRescan))
		if m.poller.Busy(ControlRescan) {
			rescan = DisabledStyle.Render(rescan)
		}
		hints = []string{"q quit", rescan, "↑↓ select", "enter detail", "a add", "s settings"}
	}
	hints = append(hints, "? help")
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// pad right-pads s to width display cells, truncating when longer.
func pad(s string, width int) string {
	s = truncate(s, width)
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// padLeft left-pads s to width display cells.
func padLeft(s string, width int) string {
	s = truncate(s, width)
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

// truncate shortens s to width display cells, ending with an ellipsis.
// Styled strings are left alone.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width || strings.Contains(s, "\x1b") {
		return s
	}
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
