package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koltont40/networkmonitoring/internal/config"
	"github.com/koltont40/networkmonitoring/internal/errors"
)

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		configured string
		want       string
		wantErr    bool
	}{
		{"defaults to table", "", "", outputTable, false},
		{"config default", "", outputJSON, outputJSON, false},
		{"flag wins", outputTable, outputJSON, outputTable, false},
		{"unknown", "yaml", "", "", true},
		{"unknown configured", "", "xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Output.Format = tt.configured
			a := &app{cfg: cfg}

			got, err := a.resolveOutput(tt.flag)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeyValues(t *testing.T) {
	allowed := map[string]bool{"snmp_port": true, "slack_webhook_url": true}

	tests := []struct {
		name    string
		pairs   []string
		allowed map[string]bool
		want    map[string]string
		wantErr string
	}{
		{
			name:    "pairs",
			pairs:   []string{"snmp_port=161", "slack_webhook_url=https://hooks.example/x=1"},
			allowed: allowed,
			want:    map[string]string{"snmp_port": "161", "slack_webhook_url": "https://hooks.example/x=1"},
		},
		{
			name:    "empty value clears",
			pairs:   []string{"slack_webhook_url="},
			allowed: allowed,
			want:    map[string]string{"slack_webhook_url": ""},
		},
		{
			name:  "nil allowed accepts anything",
			pairs: []string{" anything =x"},
			want:  map[string]string{"anything": "x"},
		},
		{
			name:    "missing equals",
			pairs:   []string{"snmp_port"},
			allowed: allowed,
			wantErr: "'snmp_port' is not key=value",
		},
		{
			name:    "empty key",
			pairs:   []string{"=161"},
			allowed: allowed,
			wantErr: "is not key=value",
		},
		{
			name:    "unknown key",
			pairs:   []string{"colour=blue"},
			allowed: allowed,
			wantErr: "Unknown setting 'colour'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKeyValues(tt.pairs, tt.allowed)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeyValuesSuggestsKnownKeys(t *testing.T) {
	_, err := parseKeyValues([]string{"colour=blue"}, settingKeys())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latency_threshold_ms")
	assert.Contains(t, err.Error(), "slack_webhook_url")
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, sortedKeys(map[string]bool{"c": true, "a": true, "b": true}))
	assert.Empty(t, sortedKeys(nil))
}
