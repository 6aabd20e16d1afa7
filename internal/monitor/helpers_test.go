package monitor

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/koltont40/networkmonitoring/internal/api"
)

func init() {
	// Plain output keeps rendered strings comparable.
	lipgloss.SetColorProfile(termenv.Ascii)
}

// testFormat renders in UTC so expectations do not depend on the machine.
var testFormat = Formatter{
	Placeholder:    Placeholder,
	TimeLayout:     "15:04:05",
	DateTimeLayout: "2006-01-02 15:04:05",
	Location:       time.UTC,
}

var baseTime = time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func str(v string) *string   { return &v }

// at returns a timestamp offset seconds after baseTime.
func at(seconds int) *api.Timestamp {
	return api.NewTimestamp(baseTime.Add(time.Duration(seconds) * time.Second))
}

// fullSnapshot has every optional field set.
func fullSnapshot(address string, checked int) api.HostSnapshot {
	return api.HostSnapshot{
		Address:          address,
		Name:             "core-" + address,
		State:            api.StateOK,
		Reachable:        true,
		LatencyMs:        f64(12.34),
		LatencyMinMs:     f64(10),
		LatencyMaxMs:     f64(15.5),
		PacketLossPct:    f64(0),
		PacketSuccessPct: f64(100),
		PacketsReceived:  i64(10),
		PacketsSent:      i64(10),
		CPUUsagePct:      f64(41.25),
		MemoryUsedPct:    f64(63),
		InterfaceTempC:   f64(48),
		SystemTempC:      f64(39.9),
		InterfaceInBps:   f64(12_500_000),
		InterfaceOutBps:  f64(3_000_000),
		SNMPSysName:      str("core-sw1"),
		PSUStatus:        str("ok"),
		LastChecked:      at(checked),
		Notes:            []string{"SNMP ok"},
	}
}

// sampleAt builds a history sample with latency v, or a gap when v is nil.
func sampleAt(seconds int, latency *float64) api.HistorySample {
	return api.HistorySample{
		Timestamp:       *at(seconds),
		LatencyMs:       latency,
		PacketLossPct:   f64(0),
		CPUUsagePct:     f64(20),
		InterfaceInBps:  f64(2_000_000),
		InterfaceOutBps: f64(1_000_000),
	}
}
