package monitor

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koltont40/networkmonitoring/internal/api"
)

func latencySnap(address string, checked int, latency *float64) api.HostSnapshot {
	return api.HostSnapshot{Address: address, LatencyMs: latency, LastChecked: at(checked)}
}

func TestNewHistory(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected int
	}{
		{"default size", 0, DefaultHistorySize},
		{"negative size", -1, DefaultHistorySize},
		{"custom size", 100, 100},
		{"small size", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.size)
			assert.NotNil(t, h)
			assert.Equal(t, tt.expected, h.size)
			assert.NotNil(t, h.hosts)
		})
	}
}

func TestHistoryPushOnlyWhenLastCheckedAdvances(t *testing.T) {
	h := NewHistory(10)

	assert.True(t, h.Push(latencySnap("10.0.0.1", 5, f64(1))))
	// Polling again before the next probe returns the same snapshot.
	assert.False(t, h.Push(latencySnap("10.0.0.1", 5, f64(1))))
	assert.False(t, h.Push(latencySnap("10.0.0.1", 4, f64(9))))
	assert.True(t, h.Push(latencySnap("10.0.0.1", 10, f64(2))))

	assert.Equal(t, 2, h.Count("10.0.0.1"))
	assert.Equal(t, []float64{1, 2}, h.Latency("10.0.0.1", 10))
}

func TestHistoryPushWithoutLastChecked(t *testing.T) {
	h := NewHistory(10)
	assert.False(t, h.Push(api.HostSnapshot{Address: "10.0.0.1", LatencyMs: f64(3)}))
	assert.Equal(t, 0, h.Count("10.0.0.1"))
}

func TestHistoryMissingLatencyIsGap(t *testing.T) {
	h := NewHistory(10)
	h.Push(latencySnap("10.0.0.1", 1, nil))
	h.Push(latencySnap("10.0.0.1", 2, f64(0)))

	got := h.Latency("10.0.0.1", 2)
	require.Len(t, got, 2)
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, 0.0, got[1])
}

func TestHistoryRingBufferOverflow(t *testing.T) {
	h := NewHistory(5)

	for i := 0; i < 8; i++ {
		h.Push(latencySnap("10.0.0.1", i+1, f64(float64(i))))
	}

	assert.Equal(t, 5, h.Count("10.0.0.1"))
	assert.Equal(t, []float64{3, 4, 5, 6, 7}, h.Latency("10.0.0.1", 10))
	assert.Equal(t, []float64{6, 7}, h.Latency("10.0.0.1", 2))
	assert.Nil(t, h.Latency("10.0.0.1", 0))
	assert.Nil(t, h.Latency("unknown", 5))
}

func TestHistoryRetain(t *testing.T) {
	h := NewHistory(10)
	h.Push(latencySnap("a", 1, f64(1)))
	h.Push(latencySnap("b", 1, f64(1)))
	h.Push(latencySnap("c", 1, f64(1)))

	h.Retain([]string{"a", "c"})
	assert.Equal(t, 1, h.Count("a"))
	assert.Equal(t, 0, h.Count("b"))
	assert.Equal(t, 1, h.Count("c"))

	h.Clear("a")
	assert.Equal(t, 0, h.Count("a"))
}

func TestHistoryConcurrentAccess(t *testing.T) {
	h := NewHistory(100)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h.Push(latencySnap("10.0.0.1", n*100+j+1, f64(float64(j))))
				h.Latency("10.0.0.1", 10)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, h.Count("10.0.0.1"), 100)
	assert.Greater(t, h.Count("10.0.0.1"), 0)
}
