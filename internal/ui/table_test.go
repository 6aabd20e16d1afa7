package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koltont40/networkmonitoring/internal/api"
)

func TestNewTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "Time", Width: 10},
		{Title: "Latency", Width: 10},
	}
	rows := []table.Row{
		{"14:00:00", "12.3"},
		{"14:00:05", "—"},
	}

	view := NewTable(columns, rows).View()
	assert.Contains(t, view, "Time")
	assert.Contains(t, view, "Latency")
	assert.Contains(t, view, "14:00:05")
}

func TestRenderSimpleTableEmpty(t *testing.T) {
	assert.Equal(t, "", RenderSimpleTable([]TableColumn{{Title: "A", Width: 5}}, nil))
}

func TestRenderHostTable(t *testing.T) {
	assert.Equal(t, "No hosts tracked", RenderHostTable(nil))

	out := RenderHostTable([]HostTableRow{
		{
			State:       api.StateOK,
			Address:     "10.0.0.1",
			Name:        "core-sw1",
			Latency:     "1.2 ms",
			Loss:        "0.0%",
			LossPct:     f64(0),
			SysName:     "core-sw1",
			LastChecked: "14:00:00",
			Notes:       "—",
		},
		{
			State:       api.StateDown,
			Address:     "10.0.0.2",
			Name:        "10.0.0.2",
			Latency:     "—",
			Loss:        "100.0%",
			LossPct:     f64(100),
			SysName:     "—",
			LastChecked: "14:00:00",
			Notes:       "unreachable",
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "ADDRESS")
	assert.Contains(t, out, SymbolComplete+" ")
	assert.Contains(t, out, "core-sw1")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "unreachable")

	for _, l := range lines {
		assert.Equal(t, strings.TrimRight(l, " "), l, "no trailing padding")
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}
