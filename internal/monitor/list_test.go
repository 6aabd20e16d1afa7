package monitor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koltont40/networkmonitoring/internal/api"
)

func TestListViewStartsUnloaded(t *testing.T) {
	l := NewListView(testFormat, 10)
	assert.False(t, l.Loaded())
	assert.Empty(t, l.Rows())
	assert.Equal(t, "", l.SelectedAddress())

	l.Reconcile(nil)
	assert.True(t, l.Loaded())
	assert.Empty(t, l.Rows())
}

func TestListViewRowRendering(t *testing.T) {
	l := NewListView(testFormat, 10)
	l.Reconcile([]api.HostSnapshot{
		fullSnapshot("10.0.0.1", 7),
		{Address: "10.0.0.2", State: api.StatePending, PacketLossPct: f64(0)},
	})

	want := []Row{
		{
			Address:     "10.0.0.1",
			Name:        "core-10.0.0.1",
			State:       api.StateOK,
			Reachable:   true,
			Latency:     "12.3",
			PacketLoss:  "0.0",
			LossPct:     f64(0),
			SysName:     "core-sw1",
			LastChecked: "14:00:07",
			Notes:       "SNMP ok",
		},
		{
			Address:     "10.0.0.2",
			Name:        "10.0.0.2",
			State:       api.StatePending,
			Latency:     Placeholder,
			PacketLoss:  "0.0",
			LossPct:     f64(0),
			SysName:     Placeholder,
			LastChecked: Placeholder,
			Notes:       Placeholder,
		},
	}
	if diff := cmp.Diff(want, l.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestListViewReconcileIsIdempotent(t *testing.T) {
	hosts := []api.HostSnapshot{fullSnapshot("10.0.0.1", 5), fullSnapshot("10.0.0.2", 5)}

	l := NewListView(testFormat, 10)
	l.Reconcile(hosts)
	rows := l.Rows()
	spark := l.Sparkline("10.0.0.1", 10)

	l.Reconcile(hosts)
	l.Reconcile(hosts)

	assert.Equal(t, rows, l.Rows())
	assert.Equal(t, spark, l.Sparkline("10.0.0.1", 10), "re-applying a response adds no points")
}

func TestListViewFullReplace(t *testing.T) {
	l := NewListView(testFormat, 10)
	l.Reconcile([]api.HostSnapshot{fullSnapshot("10.0.0.1", 1), fullSnapshot("10.0.0.2", 1)})

	// The backend stopped collecting latency and removed a host.
	h := fullSnapshot("10.0.0.1", 2)
	h.LatencyMs = nil
	h.Notes = nil
	l.Reconcile([]api.HostSnapshot{h})

	rows := l.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, Placeholder, rows[0].Latency, "a missing value is never carried over")
	assert.Equal(t, Placeholder, rows[0].Notes)
	assert.Nil(t, l.Sparkline("10.0.0.2", 10), "removed hosts lose their trail")
}

func TestListViewSelectionFollowsAddress(t *testing.T) {
	l := NewListView(testFormat, 10)
	l.Reconcile([]api.HostSnapshot{fullSnapshot("a", 1), fullSnapshot("b", 1), fullSnapshot("c", 1)})

	l.Move(1)
	require.Equal(t, "b", l.SelectedAddress())

	l.Reconcile([]api.HostSnapshot{fullSnapshot("c", 1), fullSnapshot("b", 1)})
	assert.Equal(t, 1, l.Selected())
	assert.Equal(t, "b", l.SelectedAddress())

	l.Reconcile([]api.HostSnapshot{fullSnapshot("c", 1)})
	assert.Equal(t, "c", l.SelectedAddress(), "selection falls back to the first row")
}

func TestListViewSelectionBounds(t *testing.T) {
	l := NewListView(testFormat, 10)
	l.Select(3)
	assert.Equal(t, 0, l.Selected())

	l.Reconcile([]api.HostSnapshot{fullSnapshot("a", 1), fullSnapshot("b", 1)})
	l.Move(-1)
	assert.Equal(t, 0, l.Selected())
	l.Move(5)
	assert.Equal(t, 1, l.Selected())
	l.Select(0)
	assert.Equal(t, "a", l.SelectedAddress())
}

func TestListViewRemove(t *testing.T) {
	l := NewListView(testFormat, 10)
	l.Reconcile([]api.HostSnapshot{fullSnapshot("a", 1), fullSnapshot("b", 1), fullSnapshot("c", 1)})
	l.Select(2)
	require.NotEmpty(t, l.Sparkline("b", 10))

	l.Remove("b")

	require.Len(t, l.Rows(), 2)
	assert.Equal(t, "a", l.Rows()[0].Address)
	assert.Equal(t, "c", l.Rows()[1].Address)
	assert.Equal(t, "c", l.SelectedAddress(), "selection stays on the same host")
	assert.Empty(t, l.Sparkline("b", 10))

	l.Remove("c")
	assert.Equal(t, "a", l.SelectedAddress())

	l.Remove("missing")
	assert.Len(t, l.Rows(), 1)
}

func TestListViewSparklineGrowsWithProbes(t *testing.T) {
	l := NewListView(testFormat, 3)
	for i := 1; i <= 5; i++ {
		h := fullSnapshot("a", i)
		h.LatencyMs = f64(float64(i))
		l.Reconcile([]api.HostSnapshot{h})
	}
	assert.Equal(t, []float64{3, 4, 5}, l.Sparkline("a", 10))
}

func TestListViewAlertCount(t *testing.T) {
	states := []api.HostState{api.StateOK, api.StateAlert, api.StateDown, api.StateDegraded, api.StatePending, api.StateUp}
	hosts := make([]api.HostSnapshot, len(states))
	for i, s := range states {
		hosts[i] = api.HostSnapshot{Address: string(rune('a' + i)), State: s}
	}

	l := NewListView(testFormat, 10)
	l.Reconcile(hosts)
	assert.Equal(t, 3, l.AlertCount())
}
