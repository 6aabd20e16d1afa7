package fakeapi

import (
	"context"
	"fmt"
	"time"

	"github.com/koltont40/networkmonitoring/internal/api"
)

// demoNames label the seeded hosts.
var demoNames = []string{"core-sw", "edge-rtr", "ap-lobby", "nas", "printer", "ups", "cam-gate", "lab-sw"}

// SeedDemo adds n pending hosts under 10.20.0.0/24 and backfills history
// samples spaced step apart, ending now.
func (b *Backend) SeedDemo(n, backfill int, step time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 0; i < n; i++ {
		address := fmt.Sprintf("10.20.0.%d", i+1)
		if _, ok := b.hosts[address]; ok {
			continue
		}
		b.order = append(b.order, address)
		b.hosts[address] = &api.HostSnapshot{
			Address: address,
			Name:    demoNames[i%len(demoNames)],
			State:   api.StatePending,
			Notes:   []string{},
		}
	}

	end := b.now()
	clock := b.now
	defer func() { b.now = clock }()
	for i := backfill; i > 0; i-- {
		at := end.Add(-time.Duration(i) * step)
		b.now = func() time.Time { return at }
		b.tickLocked()
	}
}

// Run ticks the backend every interval until ctx is done, the way the real
// backend probes hosts in the background.
func (b *Backend) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Tick()
		}
	}
}
