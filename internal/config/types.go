package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// MinPollInterval is the floor applied to every poll interval, whatever the
// configured value, to bound the request rate against the backend.
const MinPollInterval = 4 * time.Second

// MaxPollInterval is the ceiling applied the same way.
const MaxPollInterval = 24 * time.Hour

// Config represents the complete netmon.yaml configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Poll    PollConfig    `yaml:"poll" mapstructure:"poll"`
	List    ListConfig    `yaml:"list" mapstructure:"list"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Tunnel  TunnelConfig  `yaml:"tunnel" mapstructure:"tunnel"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// ServerConfig points at the monitoring backend's HTTP API.
type ServerConfig struct {
	// URL is the base URL of the backend, e.g. http://10.0.0.2:8000.
	URL string `yaml:"url" mapstructure:"url"`

	// Timeout bounds every single HTTP request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PollConfig controls the dashboard refresh cadence.
type PollConfig struct {
	// IntervalSeconds is the configured poll interval. It is clamped to
	// MinPollInterval when converted, see Interval.
	IntervalSeconds int `yaml:"interval_seconds" mapstructure:"interval_seconds"`

	// ManualTimeout is the deadline after which a manual refresh control is
	// re-enabled even if its request never completed.
	ManualTimeout time.Duration `yaml:"manual_timeout" mapstructure:"manual_timeout"`
}

// ListConfig controls the host list view.
type ListConfig struct {
	// ReachableOnly asks the backend to return reachable hosts only.
	ReachableOnly bool `yaml:"reachable_only" mapstructure:"reachable_only"`
}

// HistoryConfig controls client-side history kept for list sparklines.
type HistoryConfig struct {
	SparklineSize int `yaml:"sparkline_size" mapstructure:"sparkline_size"`
}

// TunnelConfig routes API traffic through an SSH connection.
// Leave Host empty to talk to the backend directly.
type TunnelConfig struct {
	// Host is an SSH destination: alias from ~/.ssh/config, host, user@host or host:port.
	Host string `yaml:"host" mapstructure:"host"`

	// Timeout bounds the SSH handshake.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Enabled reports whether API traffic should go through the SSH tunnel.
func (t TunnelConfig) Enabled() bool {
	return t.Host != ""
}

// LogConfig controls where diagnostic logs go.
type LogConfig struct {
	// File receives JSON log lines. Empty disables file logging.
	File string `yaml:"file" mapstructure:"file"`

	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`

	// Format for non-interactive output: "table" or "json".
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Server: ServerConfig{
			URL:     "http://127.0.0.1:8000",
			Timeout: 5 * time.Second,
		},
		Poll: PollConfig{
			IntervalSeconds: 8,
			ManualTimeout:   10 * time.Second,
		},
		History: HistoryConfig{
			SparklineSize: 60,
		},
		Tunnel: TunnelConfig{
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Color:  "auto",
			Format: "table",
		},
	}
}

// Interval converts the configured seconds to a duration, clamped to MinPollInterval.
func (p PollConfig) Interval() time.Duration {
	return ClampInterval(p.IntervalSeconds)
}

// ClampInterval converts a poll interval in seconds to a duration between
// MinPollInterval and MaxPollInterval. Zero and negative values clamp to the
// floor. The bounds are checked before converting so huge values can't wrap.
func ClampInterval(seconds int) time.Duration {
	switch {
	case seconds < int(MinPollInterval/time.Second):
		return MinPollInterval
	case seconds > int(MaxPollInterval/time.Second):
		return MaxPollInterval
	}
	return time.Duration(seconds) * time.Second
}
