package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// HostState is the backend's classification of a host.
type HostState string

const (
	StatePending  HostState = "pending"
	StateUp       HostState = "up"
	StateDegraded HostState = "degraded"
	StateDown     HostState = "down"
	StateOK       HostState = "ok"
	StateAlert    HostState = "alert"

	// StateDeleted is never sent by the backend. The detail view switches to
	// it once the host can no longer be fetched.
	StateDeleted HostState = "deleted"
)

// HostSnapshot is the current observed state of one host.
// Nil pointers mean "not collected this cycle", never zero.
type HostSnapshot struct {
	Address          string     `json:"address"`
	Name             string     `json:"name"`
	State            HostState  `json:"state"`
	Reachable        bool       `json:"reachable"`
	LatencyMs        *float64   `json:"latency_ms"`
	LatencyMinMs     *float64   `json:"latency_min_ms"`
	LatencyMaxMs     *float64   `json:"latency_max_ms"`
	PacketLossPct    *float64   `json:"packet_loss_pct"`
	PacketSuccessPct *float64   `json:"packet_success_pct"`
	PacketsReceived  *int64     `json:"packets_received"`
	PacketsSent      *int64     `json:"packets_sent"`
	CPUUsagePct      *float64   `json:"cpu_usage_pct"`
	MemoryUsedPct    *float64   `json:"memory_used_pct"`
	InterfaceTempC   *float64   `json:"interface_temp_c"`
	SystemTempC      *float64   `json:"system_temp_c"`
	InterfaceInBps   *float64   `json:"interface_in_bps"`
	InterfaceOutBps  *float64   `json:"interface_out_bps"`
	SNMPSysName      *string    `json:"snmp_sysname"`
	PSUStatus        *string    `json:"psu_status"`
	LastChecked      *Timestamp `json:"last_checked"`
	LastAlert        *Timestamp `json:"last_alert"`
	Notes            []string   `json:"notes"`
}

// HistorySample is one point-in-time measurement for a host.
// A history response is ordered by ascending Timestamp.
type HistorySample struct {
	Timestamp        Timestamp `json:"timestamp"`
	LatencyMs        *float64  `json:"latency_ms"`
	PacketLossPct    *float64  `json:"packet_loss_pct"`
	PacketSuccessPct *float64  `json:"packet_success_pct"`
	PacketsReceived  *int64    `json:"packets_received"`
	CPUUsagePct      *float64  `json:"cpu_usage_pct"`
	MemoryUsedPct    *float64  `json:"memory_used_pct"`
	InterfaceTempC   *float64  `json:"interface_temp_c"`
	SystemTempC      *float64  `json:"system_temp_c"`
	InterfaceInBps   *float64  `json:"interface_in_bps"`
	InterfaceOutBps  *float64  `json:"interface_out_bps"`
}

// AddHostsRequest is the body of POST /api/hosts.
type AddHostsRequest struct {
	Range          string  `json:"range"`
	Community      *string `json:"community"`
	SNMPPort       *int    `json:"snmp_port"`
	InterfaceIndex *int    `json:"interface_index,omitempty"`
}

// AddHostsResult is the success response of POST /api/hosts.
type AddHostsResult struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Hosts   []string `json:"hosts,omitempty"`
}

// Settings is an arbitrary key/value configuration payload for POST /api/settings.
// Values are nil, float64 or string, see SerializeSettings.
type Settings map[string]any

// timestampLayouts are tried in order. The backend emits ISO-8601 and may
// omit the zone, in which case the value is taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is a time.Time that tolerates zone-less ISO-8601 input.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// ParseTimestamp parses any of the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// MustTimestamp parses s and panics on failure. Intended for fixtures.
func MustTimestamp(s string) *Timestamp {
	ts, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return &ts
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
