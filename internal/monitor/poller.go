package monitor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/koltont40/networkmonitoring/internal/config"
)

// DefaultManualTimeout releases a manual control whose request never answers.
const DefaultManualTimeout = 10 * time.Second

// Stream identifies an independently sequenced kind of fetch.
type Stream int

const (
	StreamHosts Stream = iota
	StreamSnapshot
	StreamHistory
)

// Control is a manually triggered action. While a control is busy it
// cannot be triggered again.
type Control string

const (
	ControlRefresh  Control = "refresh"
	ControlRescan   Control = "rescan"
	ControlDelete   Control = "delete"
	ControlAddHosts Control = "add-hosts"
	ControlSettings Control = "settings"
)

// Cycle ties a fetch to the manual trigger that started it. The zero Cycle
// belongs to scheduled ticks.
type Cycle struct {
	Control Control
	Token   uint64
}

// Manual reports whether the cycle was started by a control.
func (c Cycle) Manual() bool {
	return c.Token != 0
}

// Scheduler delivers fn's message after d. tea.Tick is the production scheduler.
type Scheduler func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// TickMsg is a scheduled poll. Ticks from an earlier generation belong to a
// view that was closed and are dropped.
type TickMsg struct {
	Generation uint64
	Time       time.Time
}

// ManualTimeoutMsg releases a control if its cycle is still running.
type ManualTimeoutMsg struct {
	Cycle Cycle
}

// Poller schedules periodic refreshes and tracks manual controls and
// response ordering. It is owned by a model and only touched from Update.
type Poller struct {
	interval      time.Duration
	manualTimeout time.Duration
	schedule      Scheduler

	generation uint64
	issued     map[Stream]uint64
	applied    map[Stream]uint64
	busy       map[Control]uint64
	tokens     uint64
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithScheduler replaces tea.Tick.
func WithScheduler(s Scheduler) PollerOption {
	return func(p *Poller) { p.schedule = s }
}

// WithManualTimeout overrides DefaultManualTimeout.
func WithManualTimeout(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.manualTimeout = d
		}
	}
}

// NewPoller creates a poller for the configured interval in seconds. The
// interval never drops below config.MinPollInterval.
func NewPoller(intervalSeconds int, opts ...PollerOption) *Poller {
	p := &Poller{
		interval:      config.ClampInterval(intervalSeconds),
		manualTimeout: DefaultManualTimeout,
		schedule:      tea.Tick,
		issued:        make(map[Stream]uint64),
		applied:       make(map[Stream]uint64),
		busy:          make(map[Control]uint64),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the clamped poll interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start begins a new generation of ticks and returns the first one.
// Earlier ticks still in flight become stale.
func (p *Poller) Start() tea.Cmd {
	p.generation++
	return p.next()
}

// Stop invalidates every scheduled tick.
func (p *Poller) Stop() {
	p.generation++
}

// Tick reports whether msg belongs to the running generation and, if so,
// schedules the following tick. Ticks are independent of each other: a
// slow fetch never delays the next one.
func (p *Poller) Tick(msg TickMsg) (tea.Cmd, bool) {
	if msg.Generation != p.generation {
		return nil, false
	}
	return p.next(), true
}

func (p *Poller) next() tea.Cmd {
	gen := p.generation
	return p.schedule(p.interval, func(t time.Time) tea.Msg {
		return TickMsg{Generation: gen, Time: t}
	})
}

// After schedules an arbitrary message with the poller's scheduler.
func (p *Poller) After(d time.Duration, msg tea.Msg) tea.Cmd {
	return p.schedule(d, func(time.Time) tea.Msg { return msg })
}

// Begin allocates the next sequence number for a fetch on stream.
func (p *Poller) Begin(stream Stream) uint64 {
	p.issued[stream]++
	return p.issued[stream]
}

// Accept reports whether a response with seq may be applied. A response
// older than the last applied one on the same stream is rejected.
func (p *Poller) Accept(stream Stream, seq uint64) bool {
	if seq < p.applied[stream] {
		return false
	}
	p.applied[stream] = seq
	return true
}

// Busy reports whether control has a cycle in flight.
func (p *Poller) Busy(control Control) bool {
	_, ok := p.busy[control]
	return ok
}

// RefreshNow runs one manual cycle for control. It returns ok=false and no
// command when the control is already busy. Otherwise the control stays
// busy until Finish is called with the cycle handed to run, or until the
// manual timeout fires, whichever comes first.
func (p *Poller) RefreshNow(control Control, run func(Cycle) tea.Cmd) (tea.Cmd, bool) {
	if p.Busy(control) {
		return nil, false
	}
	p.tokens++
	c := Cycle{Control: control, Token: p.tokens}
	p.busy[control] = c.Token

	timeout := p.After(p.manualTimeout, ManualTimeoutMsg{Cycle: c})
	return tea.Batch(run(c), timeout), true
}

// Finish releases the cycle's control. Scheduled cycles and cycles that
// were already released (or superseded) are ignored.
func (p *Poller) Finish(c Cycle) {
	if !c.Manual() {
		return
	}
	if p.busy[c.Control] == c.Token {
		delete(p.busy, c.Control)
	}
}
