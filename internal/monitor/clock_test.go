package monitor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type scheduled struct {
	d  time.Duration
	fn func(time.Time) tea.Msg
}

// fakeClock is a Scheduler that holds every scheduled message until the
// test fires it.
type fakeClock struct {
	now     time.Time
	pending []scheduled
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: baseTime}
}

func (c *fakeClock) schedule(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	c.pending = append(c.pending, scheduled{d: d, fn: fn})
	return nil
}

// take removes and returns every pending message.
func (c *fakeClock) take() []tea.Msg {
	var out []tea.Msg
	for _, s := range c.pending {
		out = append(out, s.fn(c.now.Add(s.d)))
	}
	c.pending = nil
	return out
}

// takeTicks removes and returns pending TickMsgs, leaving everything else.
func (c *fakeClock) takeTicks() []TickMsg {
	var ticks []TickMsg
	var rest []scheduled
	for _, s := range c.pending {
		if msg, ok := s.fn(c.now.Add(s.d)).(TickMsg); ok {
			ticks = append(ticks, msg)
			continue
		}
		rest = append(rest, s)
	}
	c.pending = rest
	return ticks
}

// durations lists the delays of pending messages.
func (c *fakeClock) durations() []time.Duration {
	out := make([]time.Duration, len(c.pending))
	for i, s := range c.pending {
		out[i] = s.d
	}
	return out
}
