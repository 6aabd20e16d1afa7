// Package fakeapi is an in-memory monitoring backend that serves the same
// HTTP API as the real one. It backs the integration tests and the
// `netmon demo` command, which needs a live server to point the dashboard at.
package fakeapi

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/logger"
	"github.com/labstack/echo/v4"
)

// MaxSamples is how many history samples are kept per host.
const MaxSamples = 200

// failure is a queued error response for the next matching request.
type failure struct {
	method string
	path   string
	status int
	detail string
}

// Backend is a thread-safe in-memory backend.
type Backend struct {
	mu       sync.Mutex
	order    []string
	hosts    map[string]*api.HostSnapshot
	history  map[string][]api.HistorySample
	settings api.Settings
	failures []failure
	requests []string
	ticks    int
	now      func() time.Time

	echo *echo.Echo
	log  logger.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock overrides the time source used for generated samples.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Backend) { b.log = l }
}

// New creates an empty backend with its routes registered.
func New(opts ...Option) *Backend {
	b := &Backend{
		hosts:    make(map[string]*api.HostSnapshot),
		history:  make(map[string][]api.HistorySample),
		settings: api.Settings{},
		now:      time.Now,
		log:      logger.Noop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.setupRoutes()
	return b
}

// ServeHTTP makes the backend usable with httptest.NewServer and http.Server.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.echo.ServeHTTP(w, r)
}

func (b *Backend) setupRoutes() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(b.recordRequest)
	e.Use(b.injectFailures)

	e.GET("/api/hosts", b.listHosts)
	e.POST("/api/hosts", b.addHosts)
	e.GET("/api/hosts/:address", b.getHost)
	e.DELETE("/api/hosts/:address", b.deleteHost)
	e.GET("/api/hosts/:address/history", b.getHistory)
	e.POST("/api/rescan", b.rescan)
	e.POST("/api/settings", b.saveSettings)

	b.echo = e
}

// recordRequest logs every request and keeps "METHOD /path" for assertions.
func (b *Backend) recordRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		b.mu.Lock()
		b.requests = append(b.requests, req.Method+" "+req.URL.Path)
		b.mu.Unlock()

		err := next(c)
		b.log.Info("%s %s -> %d (%s)", req.Method, req.URL.RequestURI(), c.Response().Status, time.Since(start).Round(time.Microsecond))
		return err
	}
}

// injectFailures answers with a queued failure when one matches.
func (b *Backend) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		b.mu.Lock()
		var hit *failure
		for i, f := range b.failures {
			if f.method == req.Method && f.path == req.URL.Path {
				hit = &b.failures[i]
				b.failures = append(b.failures[:i:i], b.failures[i+1:]...)
				break
			}
		}
		b.mu.Unlock()

		if hit == nil {
			return next(c)
		}
		if hit.detail == "" {
			return c.NoContent(hit.status)
		}
		return c.JSON(hit.status, map[string]string{"detail": hit.detail})
	}
}

// FailNext makes the next method+path request answer with status. A non-empty
// detail is sent as {"detail": detail}.
func (b *Backend) FailNext(method, path string, status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{method: method, path: path, status: status, detail: detail})
}

// Requests returns every request seen so far as "METHOD /path".
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.requests))
	copy(out, b.requests)
	return out
}

// Count returns how many times method+path was requested.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r == method+" "+path {
			n++
		}
	}
	return n
}

// ResetRequests clears the request log.
func (b *Backend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

// Put inserts or replaces a host snapshot.
func (b *Backend) Put(snap api.HostSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.hosts[snap.Address]; !ok {
		b.order = append(b.order, snap.Address)
	}
	s := snap
	b.hosts[snap.Address] = &s
}

// AppendSample records a history sample and advances the host's last_checked
// to the sample's timestamp, like a completed probe would.
func (b *Backend) AppendSample(address string, sample api.HistorySample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appendSampleLocked(address, sample)
}

func (b *Backend) appendSampleLocked(address string, sample api.HistorySample) {
	samples := append(b.history[address], sample)
	if len(samples) > MaxSamples {
		samples = samples[len(samples)-MaxSamples:]
	}
	b.history[address] = samples

	if host, ok := b.hosts[address]; ok {
		ts := sample.Timestamp
		host.LastChecked = &ts
	}
}

// Settings returns a copy of the last saved settings payload.
func (b *Backend) Settings() api.Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(api.Settings, len(b.settings))
	for k, v := range b.settings {
		out[k] = v
	}
	return out
}

// Ticks returns how many probe cycles have run.
func (b *Backend) Ticks() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ticks
}

// Tick runs one simulated probe cycle over every host.
func (b *Backend) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickLocked()
}

func (b *Backend) tickLocked() {
	b.ticks++
	now := b.now().UTC()
	for _, address := range b.order {
		host := b.hosts[address]
		sample := simulate(address, b.ticks, now)
		applySample(host, sample)
		b.appendSampleLocked(address, sample)
	}
}

func (b *Backend) listHosts(c echo.Context) error {
	reachableOnly := c.QueryParam("reachable_only") == "true"

	b.mu.Lock()
	out := make([]api.HostSnapshot, 0, len(b.order))
	for _, address := range b.order {
		host := b.hosts[address]
		if reachableOnly && !host.Reachable {
			continue
		}
		out = append(out, *host)
	}
	b.mu.Unlock()

	return c.JSON(http.StatusOK, out)
}

func (b *Backend) getHost(c echo.Context) error {
	address := c.Param("address")

	b.mu.Lock()
	host, ok := b.hosts[address]
	var snap api.HostSnapshot
	if ok {
		snap = *host
	}
	b.mu.Unlock()

	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Host not found"})
	}
	return c.JSON(http.StatusOK, snap)
}

func (b *Backend) getHistory(c echo.Context) error {
	address := c.Param("address")

	b.mu.Lock()
	samples := append([]api.HistorySample{}, b.history[address]...)
	b.mu.Unlock()

	return c.JSON(http.StatusOK, samples)
}

func (b *Backend) addHosts(c echo.Context) error {
	var req api.AddHostsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "Invalid request body"})
	}

	addresses, err := ExpandRange(req.Range)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": err.Error()})
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	result := api.AddHostsResult{Hosts: []string{}}
	for _, address := range addresses {
		if _, exists := b.hosts[address]; exists {
			result.Skipped++
			continue
		}
		b.order = append(b.order, address)
		b.hosts[address] = &api.HostSnapshot{
			Address: address,
			Name:    address,
			State:   api.StatePending,
			Notes:   []string{},
		}
		result.Added++
		result.Hosts = append(result.Hosts, address)
	}

	return c.JSON(http.StatusOK, result)
}

func (b *Backend) deleteHost(c echo.Context) error {
	address := c.Param("address")

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.hosts[address]; !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Host not found"})
	}
	delete(b.hosts, address)
	delete(b.history, address)
	for i, a := range b.order {
		if a == address {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (b *Backend) rescan(c echo.Context) error {
	b.Tick()
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (b *Backend) saveSettings(c echo.Context) error {
	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "Settings must be a JSON object"})
	}

	b.mu.Lock()
	for k, v := range payload {
		b.settings[k] = v
	}
	b.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]string{"status": "saved"})
}

// simulate produces a deterministic sample for address at the given tick.
// Every seventh tick of an unlucky host loses its SNMP data to exercise gaps.
func simulate(address string, tick int, now time.Time) api.HistorySample {
	h := fnv.New64a()
	_, _ = h.Write([]byte(address))
	seed := int64(h.Sum64()>>1) + int64(tick)
	rng := rand.New(rand.NewSource(seed))

	base := float64(h.Sum64()%40) + 2
	latency := round1(base + rng.Float64()*base*0.5 + 10*math.Sin(float64(tick)/5))
	if latency < 0.1 {
		latency = 0.1
	}
	loss := 0.0
	if rng.Intn(10) == 0 {
		loss = float64(rng.Intn(5)) * 25
	}
	success := 100 - loss
	sent := int64(4)
	received := sent - int64(loss/25)

	sample := api.HistorySample{
		Timestamp:        api.Timestamp{Time: now},
		LatencyMs:        ptr(latency),
		PacketLossPct:    ptr(loss),
		PacketSuccessPct: ptr(success),
		PacketsReceived:  &received,
	}
	if h.Sum64()%3 == 0 && tick%7 == 0 {
		return sample
	}

	sample.CPUUsagePct = ptr(round1(20 + rng.Float64()*60))
	sample.MemoryUsedPct = ptr(round1(35 + rng.Float64()*40))
	sample.InterfaceTempC = ptr(round1(38 + rng.Float64()*12))
	sample.SystemTempC = ptr(round1(30 + rng.Float64()*10))
	sample.InterfaceInBps = ptr(math.Round(rng.Float64() * 250_000_000))
	sample.InterfaceOutBps = ptr(math.Round(rng.Float64() * 90_000_000))
	return sample
}

// applySample copies a sample's readings onto the host's current state.
func applySample(host *api.HostSnapshot, s api.HistorySample) {
	host.LatencyMs = s.LatencyMs
	host.LatencyMinMs = nil
	host.LatencyMaxMs = nil
	if s.LatencyMs != nil {
		host.LatencyMinMs = ptr(round1(*s.LatencyMs * 0.8))
		host.LatencyMaxMs = ptr(round1(*s.LatencyMs * 1.3))
	}
	host.PacketLossPct = s.PacketLossPct
	host.PacketSuccessPct = s.PacketSuccessPct
	host.PacketsReceived = s.PacketsReceived
	sent := int64(4)
	host.PacketsSent = &sent
	host.CPUUsagePct = s.CPUUsagePct
	host.MemoryUsedPct = s.MemoryUsedPct
	host.InterfaceTempC = s.InterfaceTempC
	host.SystemTempC = s.SystemTempC
	host.InterfaceInBps = s.InterfaceInBps
	host.InterfaceOutBps = s.InterfaceOutBps

	host.Reachable = s.PacketLossPct == nil || *s.PacketLossPct < 100
	host.Notes = []string{}
	switch {
	case !host.Reachable:
		host.State = api.StateAlert
		host.Notes = append(host.Notes, "Host unreachable")
	case s.PacketLossPct != nil && *s.PacketLossPct > 30:
		host.State = api.StateAlert
		host.Notes = append(host.Notes, fmt.Sprintf("High packet loss: %.1f%%", *s.PacketLossPct))
	default:
		host.State = api.StateOK
	}

	if host.SNMPSysName == nil && s.CPUUsagePct != nil {
		name := "sw-" + strings.ReplaceAll(host.Address, ".", "-")
		host.SNMPSysName = &name
	}
	if s.CPUUsagePct != nil {
		psu := "ok"
		host.PSUStatus = &psu
	} else {
		host.PSUStatus = nil
	}
	if host.State == api.StateAlert {
		ts := s.Timestamp
		host.LastAlert = &ts
	}
}

func ptr(v float64) *float64 {
	return &v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
