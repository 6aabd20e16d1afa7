package monitor

import (
	"github.com/koltont40/networkmonitoring/internal/api"
)

// NotTrackedNote replaces the notes once the backend stops knowing a host.
const NotTrackedNote = "Host no longer tracked"

// DetailFields holds the rendered text of every detail field.
type DetailFields struct {
	Name          string
	State         string
	Latency       string
	LatencyMin    string
	LatencyMax    string
	PacketLoss    string
	SuccessRate   string
	Packets       string
	SysName       string
	CPU           string
	Memory        string
	InterfaceTemp string
	SystemTemp    string
	Throughput    string
	PSUStatus     string
	LastChecked   string
	LastAlert     string
	Notes         string
}

// DetailView is the view context of one host's detail screen. It is created
// when the screen opens and dropped when it closes, taking its charts with it.
type DetailView struct {
	Address string

	format     Formatter
	fields     DetailFields
	badge      api.HostState
	snapshot   *api.HostSnapshot
	notTracked bool
	charts     *ChartState
}

// NewDetailView creates the view for address with every field blank.
func NewDetailView(address string, format Formatter, newChart ChartConstructor) *DetailView {
	d := &DetailView{
		Address: address,
		format:  format,
		badge:   api.StatePending,
		charts:  NewChartState(DefaultChartSpecs, newChart, format),
	}
	d.fields = blankFields(format.Placeholder)
	d.fields.Name = address
	d.fields.State = string(api.StatePending)
	return d
}

func blankFields(placeholder string) DetailFields {
	return DetailFields{
		Latency:       placeholder,
		LatencyMin:    placeholder,
		LatencyMax:    placeholder,
		PacketLoss:    placeholder,
		SuccessRate:   placeholder,
		Packets:       placeholder,
		SysName:       placeholder,
		CPU:           placeholder,
		Memory:        placeholder,
		InterfaceTemp: placeholder,
		SystemTemp:    placeholder,
		Throughput:    placeholder,
		PSUStatus:     placeholder,
		LastChecked:   placeholder,
		LastAlert:     placeholder,
		Notes:         placeholder,
	}
}

// ApplySnapshot renders every field from snap. Nothing from the previous
// snapshot is kept.
func (d *DetailView) ApplySnapshot(snap api.HostSnapshot) {
	f := d.format
	name := snap.Name
	if name == "" {
		name = snap.Address
	}

	d.fields = DetailFields{
		Name:          name,
		State:         string(snap.State),
		Latency:       f.Metric(snap.LatencyMs, UnitMs, 1),
		LatencyMin:    f.Metric(snap.LatencyMinMs, UnitMs, 1),
		LatencyMax:    f.Metric(snap.LatencyMaxMs, UnitMs, 1),
		PacketLoss:    f.Metric(snap.PacketLossPct, UnitPercent, 1),
		SuccessRate:   f.Metric(snap.PacketSuccessPct, UnitPercent, 1),
		Packets:       f.Packets(snap.PacketsReceived, snap.PacketsSent),
		SysName:       f.Text(snap.SNMPSysName),
		CPU:           f.Metric(snap.CPUUsagePct, UnitPercent, 1),
		Memory:        f.Metric(snap.MemoryUsedPct, UnitPercent, 1),
		InterfaceTemp: f.Metric(snap.InterfaceTempC, UnitCelsius, 1),
		SystemTemp:    f.Metric(snap.SystemTempC, UnitCelsius, 1),
		Throughput:    f.Throughput(snap.InterfaceInBps, snap.InterfaceOutBps),
		PSUStatus:     f.Text(snap.PSUStatus),
		LastChecked:   f.DateTime(snap.LastChecked),
		LastAlert:     f.DateTime(snap.LastAlert),
		Notes:         f.Notes(snap.Notes),
	}
	d.badge = snap.State
	s := snap
	d.snapshot = &s
}

// MarkNotTracked switches the view to its terminal state: every field shows
// the placeholder and the delete action is disabled for the rest of the
// view's life.
func (d *DetailView) MarkNotTracked() {
	name := d.fields.Name
	d.fields = blankFields(d.format.Placeholder)
	d.fields.Name = name
	d.fields.State = string(api.StateDeleted)
	d.fields.Notes = NotTrackedNote
	d.badge = api.StatePending
	d.snapshot = nil
	d.notTracked = true
}

// Fields returns the rendered fields.
func (d *DetailView) Fields() DetailFields {
	return d.fields
}

// Badge returns the state the badge is colored by.
func (d *DetailView) Badge() api.HostState {
	return d.badge
}

// Snapshot returns the last applied snapshot, nil before the first one or
// once the host is no longer tracked.
func (d *DetailView) Snapshot() *api.HostSnapshot {
	return d.snapshot
}

// NotTracked reports whether the backend has stopped tracking the host.
func (d *DetailView) NotTracked() bool {
	return d.notTracked
}

// DeleteAllowed reports whether the host can still be deleted from this view.
func (d *DetailView) DeleteAllowed() bool {
	return !d.notTracked
}

// Charts returns the view's chart state.
func (d *DetailView) Charts() *ChartState {
	return d.charts
}
