package monitor

import (
	"fmt"
	"strings"
)

const detailLabelWidth = 16

// renderDetailBody renders the detail screen through its scrollable viewport.
func (m Model) renderDetailBody() string {
	if m.viewportReady {
		return m.detailViewport.View()
	}
	return m.renderDetailContent()
}

// updateDetailViewportContent refreshes the viewport after the detail view changed.
func (m *Model) updateDetailViewportContent() {
	if !m.viewportReady || m.detail == nil {
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent())
}

// renderDetailContent renders every section of the detail screen.
func (m Model) renderDetailContent() string {
	d := m.detail
	if d == nil {
		return ""
	}
	width := m.viewWidth()
	f := d.Fields()

	var sections []string

	badge := StateStyle(d.Badge()).Render(StateGlyph(d.Badge()) + " " + f.State)
	sections = append(sections, renderSection(f.Name, badge, width, []detailRow{
		{"Address", d.Address},
		{"SNMP name", f.SysName},
		{"Last checked", f.LastChecked},
		{"Last alert", f.LastAlert},
	}))

	sections = append(sections, renderSection("Health", f.Latency, width, []detailRow{
		{"Latency", f.Latency},
		{"Latency min", f.LatencyMin},
		{"Latency max", f.LatencyMax},
		{"Packet loss", f.PacketLoss},
		{"Success rate", f.SuccessRate},
		{"Packets", f.Packets},
	}))

	sections = append(sections, renderSection("Interface", f.Throughput, width, []detailRow{
		{"Throughput", f.Throughput},
		{"Interface temp", f.InterfaceTemp},
	}))

	sections = append(sections, renderSection("System", f.CPU, width, []detailRow{
		{"CPU", f.CPU},
		{"Memory", f.Memory},
		{"System temp", f.SystemTemp},
		{"PSU", f.PSUStatus},
	}))

	notes := []string{SectionHeader("Notes", "", width)}
	notes = append(notes, SectionContentLine(ValueStyle.Render(truncate(f.Notes, width-4)), width))
	notes = append(notes, SectionFooter(width))
	sections = append(sections, strings.Join(notes, "\n"))

	sections = append(sections, m.renderCharts(width))

	return strings.Join(sections, "\n")
}

type detailRow struct {
	label string
	value string
}

func renderSection(title, value string, width int, rows []detailRow) string {
	lines := []string{SectionHeader(title, value, width)}
	for _, r := range rows {
		label := LabelStyle.Render(fmt.Sprintf("%-*s", detailLabelWidth, r.label))
		lines = append(lines, SectionContentLine(label+ValueStyle.Render(r.value), width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderCharts renders the history charts or a placeholder until the
// first history arrives.
func (m Model) renderCharts(width int) string {
	state := m.detail.Charts()
	if !state.Constructed() {
		lines := []string{
			SectionHeader("History", "", width),
			SectionContentLine(MutedStyle.Render("Waiting for history..."), width),
			SectionFooter(width),
		}
		return strings.Join(lines, "\n")
	}

	span := fmt.Sprintf("%d samples", len(state.Labels()))
	lines := []string{SectionHeader("History", span, width)}
	for i, c := range state.Charts() {
		if i > 0 {
			lines = append(lines, SectionContentLine("", width))
		}
		for _, l := range strings.Split(c.Render(width-4), "\n") {
			lines = append(lines, SectionContentLine(l, width))
		}
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}
