package monitor

import (
	"github.com/koltont40/networkmonitoring/internal/api"
)

// Row is one rendered host in the list view. Every field is display text;
// nothing from a previous poll survives a reconcile.
type Row struct {
	Address     string
	Name        string
	State       api.HostState
	Reachable   bool
	Latency     string
	PacketLoss  string
	LossPct     *float64
	SysName     string
	LastChecked string
	Notes       string
}

// ListView is the host table's view state.
type ListView struct {
	format   Formatter
	rows     []Row
	history  *History
	selected int
	loaded   bool
}

// NewListView creates an empty list keeping sparklineSize latency points per host.
func NewListView(format Formatter, sparklineSize int) *ListView {
	return &ListView{
		format:  format,
		history: NewHistory(sparklineSize),
	}
}

// Reconcile replaces every row with the rows for hosts. The selection
// follows the selected address when it is still listed.
func (l *ListView) Reconcile(hosts []api.HostSnapshot) {
	selected := l.SelectedAddress()

	rows := make([]Row, len(hosts))
	addresses := make([]string, len(hosts))
	for i, h := range hosts {
		rows[i] = l.row(h)
		addresses[i] = h.Address
		l.history.Push(h)
	}
	l.history.Retain(addresses)

	l.rows = rows
	l.loaded = true
	l.selected = 0
	for i, r := range rows {
		if r.Address == selected {
			l.selected = i
			break
		}
	}
}

// Remove drops address and its latency trail ahead of the next reconcile,
// so a deleted host never flashes back and a re-added one starts clean.
func (l *ListView) Remove(address string) {
	l.history.Clear(address)
	for i, r := range l.rows {
		if r.Address != address {
			continue
		}
		l.rows = append(l.rows[:i:i], l.rows[i+1:]...)
		if l.selected > i {
			l.selected--
		}
		l.Select(l.selected)
		return
	}
}

func (l *ListView) row(h api.HostSnapshot) Row {
	f := l.format
	name := h.Name
	if name == "" {
		name = h.Address
	}
	return Row{
		Address:     h.Address,
		Name:        name,
		State:       h.State,
		Reachable:   h.Reachable,
		Latency:     f.Metric(h.LatencyMs, UnitNone, 1),
		PacketLoss:  f.Metric(h.PacketLossPct, UnitNone, 1),
		LossPct:     h.PacketLossPct,
		SysName:     f.Text(h.SNMPSysName),
		LastChecked: f.Time(h.LastChecked),
		Notes:       f.Notes(h.Notes),
	}
}

// Rows returns the current rows.
func (l *ListView) Rows() []Row {
	return l.rows
}

// Loaded reports whether any host list has been applied yet.
func (l *ListView) Loaded() bool {
	return l.loaded
}

// Sparkline returns the latency trail for address.
func (l *ListView) Sparkline(address string, width int) []float64 {
	return l.history.Latency(address, width)
}

// Selected returns the selected row index.
func (l *ListView) Selected() int {
	return l.selected
}

// SelectedAddress returns the selected host's address, or "".
func (l *ListView) SelectedAddress() string {
	if l.selected >= 0 && l.selected < len(l.rows) {
		return l.rows[l.selected].Address
	}
	return ""
}

// Move shifts the selection by delta, stopping at either end.
func (l *ListView) Move(delta int) {
	l.Select(l.selected + delta)
}

// Select moves the selection to i, clamped to the rows.
func (l *ListView) Select(i int) {
	if len(l.rows) == 0 {
		l.selected = 0
		return
	}
	l.selected = clampInt(i, len(l.rows)-1)
}

// AlertCount returns how many rows are in an alerting state.
func (l *ListView) AlertCount() int {
	n := 0
	for _, r := range l.rows {
		switch r.State {
		case api.StateAlert, api.StateDown, api.StateDegraded:
			n++
		}
	}
	return n
}
