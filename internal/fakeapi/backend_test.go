package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func do(t *testing.T, b *Backend, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	b.ServeHTTP(rec, req)
	return rec
}

func TestBackend_AddListDelete(t *testing.T) {
	b := New()

	rec := do(t, b, http.MethodPost, "/api/hosts", `{"range":"10.0.0.0/30","community":null,"snmp_port":null}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result api.AddHostsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, result.Hosts)

	rec = do(t, b, http.MethodPost, "/api/hosts", `{"range":"10.0.0.1-10.0.0.3"}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 2, result.Skipped)

	rec = do(t, b, http.MethodGet, "/api/hosts", "")
	var hosts []api.HostSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hosts))
	require.Len(t, hosts, 3)
	assert.Equal(t, "10.0.0.1", hosts[0].Address)
	assert.Equal(t, api.StatePending, hosts[0].State)
	assert.Nil(t, hosts[0].LatencyMs)
	assert.Nil(t, hosts[0].LastChecked)

	rec = do(t, b, http.MethodDelete, "/api/hosts/10.0.0.2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, b, http.MethodDelete, "/api/hosts/10.0.0.2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, b, http.MethodGet, "/api/hosts/10.0.0.2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackend_AddInvalidRange(t *testing.T) {
	b := New()
	rec := do(t, b, http.MethodPost, "/api/hosts", `{"range":"10.0.0.9-10.0.0.1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid IP range ordering"}`, rec.Body.String())
}

func TestBackend_TickProducesHistory(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New(WithClock(fixedClock(now)))
	b.Put(api.HostSnapshot{Address: "10.0.0.5", Name: "core", State: api.StatePending})

	b.Tick()
	assert.Equal(t, 1, b.Ticks())

	rec := do(t, b, http.MethodGet, "/api/hosts/10.0.0.5", "")
	var host api.HostSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &host))
	require.NotNil(t, host.LastChecked)
	assert.True(t, host.LastChecked.Equal(now))
	require.NotNil(t, host.LatencyMs)
	assert.NotEqual(t, api.StatePending, host.State)

	rec = do(t, b, http.MethodGet, "/api/hosts/10.0.0.5/history", "")
	var samples []api.HistorySample
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &samples))
	require.Len(t, samples, 1)
	assert.True(t, samples[0].Timestamp.Equal(now))
}

func TestBackend_HistoryIsCapped(t *testing.T) {
	b := New()
	b.Put(api.HostSnapshot{Address: "10.0.0.5"})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxSamples+25; i++ {
		b.AppendSample("10.0.0.5", api.HistorySample{Timestamp: api.Timestamp{Time: start.Add(time.Duration(i) * time.Second)}})
	}

	rec := do(t, b, http.MethodGet, "/api/hosts/10.0.0.5/history", "")
	var samples []api.HistorySample
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &samples))
	require.Len(t, samples, MaxSamples)
	assert.True(t, samples[0].Timestamp.Equal(start.Add(25*time.Second)), "oldest samples are dropped")
}

func TestBackend_ReachableOnly(t *testing.T) {
	b := New()
	b.Put(api.HostSnapshot{Address: "10.0.0.1", Reachable: true})
	b.Put(api.HostSnapshot{Address: "10.0.0.2", Reachable: false})

	rec := do(t, b, http.MethodGet, "/api/hosts?reachable_only=true", "")
	var hosts []api.HostSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hosts))
	require.Len(t, hosts, 1)
	assert.Equal(t, "10.0.0.1", hosts[0].Address)
}

func TestBackend_FailNext(t *testing.T) {
	b := New()
	b.Put(api.HostSnapshot{Address: "10.0.0.5"})
	b.FailNext(http.MethodDelete, "/api/hosts/10.0.0.5", http.StatusInternalServerError, "disk full")

	rec := do(t, b, http.MethodDelete, "/api/hosts/10.0.0.5", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"disk full"}`, rec.Body.String())

	rec = do(t, b, http.MethodDelete, "/api/hosts/10.0.0.5", "")
	assert.Equal(t, http.StatusOK, rec.Code, "failure is consumed once")
	assert.Equal(t, 2, b.Count(http.MethodDelete, "/api/hosts/10.0.0.5"))
}

func TestBackend_SettingsAndRescan(t *testing.T) {
	b := New()
	b.SeedDemo(3, 5, time.Second)
	assert.Equal(t, 5, b.Ticks())

	rec := do(t, b, http.MethodPost, "/api/settings", `{"monitor_interval_seconds":15,"smtp_host":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	settings := b.Settings()
	assert.Equal(t, float64(15), settings["monitor_interval_seconds"])
	assert.Contains(t, settings, "smtp_host")
	assert.Nil(t, settings["smtp_host"])

	rec = do(t, b, http.MethodPost, "/api/rescan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, b.Ticks())

	rec = do(t, b, http.MethodGet, "/api/hosts/10.20.0.1/history", "")
	var samples []api.HistorySample
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &samples))
	assert.Len(t, samples, 6)
	for i := 1; i < len(samples); i++ {
		assert.False(t, samples[i].Timestamp.Before(samples[i-1].Timestamp.Time), "history is ascending")
	}
}
