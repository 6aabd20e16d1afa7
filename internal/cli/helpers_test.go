package cli

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/config"
	"github.com/koltont40/networkmonitoring/internal/fakeapi"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// testEnv is a fake backend behind httptest plus a config file pointing at it.
type testEnv struct {
	backend    *fakeapi.Backend
	url        string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	backend := fakeapi.New()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Server.URL = srv.URL
	path := filepath.Join(t.TempDir(), "netmon.yaml")
	require.NoError(t, config.Save(path, cfg))

	return &testEnv{backend: backend, url: srv.URL, configPath: path}
}

// run executes netmon with the env's config and returns stdout, stderr and
// the exit code.
func (e *testEnv) run(args ...string) (string, string, int) {
	var out, errOut bytes.Buffer
	code := run(append([]string{"--config", e.configPath}, args...), &out, &errOut)
	return out.String(), errOut.String(), code
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

var checkedAt = api.NewTimestamp(time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC))

func okHost(address, name string) api.HostSnapshot {
	return api.HostSnapshot{
		Address:       address,
		Name:          name,
		State:         api.StateOK,
		Reachable:     true,
		LatencyMs:     f64(1.25),
		PacketLossPct: f64(0),
		SNMPSysName:   str(name + "-snmp"),
		LastChecked:   checkedAt,
		Notes:         []string{},
	}
}

func alertHost(address string) api.HostSnapshot {
	return api.HostSnapshot{
		Address:       address,
		Name:          address,
		State:         api.StateAlert,
		Reachable:     false,
		PacketLossPct: f64(100),
		LastChecked:   checkedAt,
		Notes:         []string{"unreachable"},
	}
}
