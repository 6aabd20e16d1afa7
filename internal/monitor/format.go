package monitor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/koltont40/networkmonitoring/internal/api"
)

// Placeholder is shown for any value that was not collected.
const Placeholder = "—"

// Unit suffixes. Spacing is part of the suffix so "12.0 ms" and "4.0%" both
// come out the way operators expect.
const (
	UnitNone    = ""
	UnitMs      = " ms"
	UnitPercent = "%"
	UnitCelsius = "°C"
	UnitMbps    = " Mbps"
)

// bitsPerMegabit converts interface counters (bits/second) to Mbps.
const bitsPerMegabit = 1_000_000

// Formatter renders snapshot fields for every view. Absence is checked
// explicitly, so a present zero renders as "0.0" and never as Placeholder.
type Formatter struct {
	Placeholder    string
	TimeLayout     string
	DateTimeLayout string
	Location       *time.Location
}

// DefaultFormatter renders timestamps in local time.
var DefaultFormatter = Formatter{
	Placeholder:    Placeholder,
	TimeLayout:     "15:04:05",
	DateTimeLayout: "2006-01-02 15:04:05",
	Location:       time.Local,
}

// Metric formats v with the given number of decimals followed by unit.
func (f Formatter) Metric(v *float64, unit string, decimals int) string {
	if v == nil {
		return f.Placeholder
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64) + unit
}

// Packets renders "received/sent", or the placeholder unless both are known.
func (f Formatter) Packets(received, sent *int64) string {
	if received == nil || sent == nil {
		return f.Placeholder
	}
	return fmt.Sprintf("%d/%d", *received, *sent)
}

// Throughput renders ingress and egress bits/second as "in / out Mbps".
func (f Formatter) Throughput(in, out *float64) string {
	if in == nil || out == nil {
		return f.Placeholder
	}
	return fmt.Sprintf("%.2f / %.2f%s", *in/bitsPerMegabit, *out/bitsPerMegabit, UnitMbps)
}

// Text renders an optional string. Empty strings carry no information and
// render as the placeholder too.
func (f Formatter) Text(s *string) string {
	if s == nil || *s == "" {
		return f.Placeholder
	}
	return *s
}

// Time renders the clock time of ts.
func (f Formatter) Time(ts *api.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return f.Placeholder
	}
	return ts.In(f.location()).Format(f.TimeLayout)
}

// DateTime renders the full date and time of ts.
func (f Formatter) DateTime(ts *api.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return f.Placeholder
	}
	return ts.In(f.location()).Format(f.DateTimeLayout)
}

// Notes joins notes with "; ".
func (f Formatter) Notes(notes []string) string {
	if len(notes) == 0 {
		return f.Placeholder
	}
	return strings.Join(notes, "; ")
}

// Badge renders a state as a colored glyph followed by the state name.
func (f Formatter) Badge(state api.HostState) string {
	return StateStyle(state).Render(StateGlyph(state)) + " " + string(state)
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}
