package monitor

import (
	"math"
	"sync"
	"time"

	"github.com/koltont40/networkmonitoring/internal/api"
)

// DefaultHistorySize is the default number of latency points kept per host.
const DefaultHistorySize = 60

// History keeps a short latency trail per host for the list sparklines.
// A point is recorded only when a snapshot's last_checked advances, so
// polling faster than the backend probes does not duplicate points.
type History struct {
	mu    sync.RWMutex
	size  int
	hosts map[string]*hostHistory
}

type hostHistory struct {
	latency     *ringBuffer
	lastChecked time.Time
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history with the given per-host capacity.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:  size,
		hosts: make(map[string]*hostHistory),
	}
}

// Push records the snapshot's latency if it is a new sample. A missing
// latency is stored as NaN and drawn as a gap. Returns true if a point was added.
func (h *History) Push(snap api.HostSnapshot) bool {
	if snap.LastChecked == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	hist, ok := h.hosts[snap.Address]
	if !ok {
		hist = &hostHistory{latency: newRingBuffer(h.size)}
		h.hosts[snap.Address] = hist
	}
	if !snap.LastChecked.After(hist.lastChecked) {
		return false
	}
	hist.lastChecked = snap.LastChecked.Time

	v := math.NaN()
	if snap.LatencyMs != nil {
		v = *snap.LatencyMs
	}
	hist.latency.push(v)
	return true
}

// Latency returns up to count latency points for address, oldest first.
func (h *History) Latency(address string, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	hist, ok := h.hosts[address]
	if !ok {
		return nil
	}
	return hist.latency.getLast(count)
}

// Count returns how many points are stored for address.
func (h *History) Count(address string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	hist, ok := h.hosts[address]
	if !ok {
		return 0
	}
	return hist.latency.count
}

// Retain drops every host not in addresses.
func (h *History) Retain(addresses []string) {
	keep := make(map[string]bool, len(addresses))
	for _, a := range addresses {
		keep[a] = true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for a := range h.hosts {
		if !keep[a] {
			delete(h.hosts, a)
		}
	}
}

// Clear removes all history for address.
func (h *History) Clear(address string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.hosts, address)
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)
	// head is the next write position, so the newest value sits at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
