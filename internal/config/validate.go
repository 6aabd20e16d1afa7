package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/koltont40/networkmonitoring/internal/errors"
)

var (
	validColors    = []string{"auto", "always", "never"}
	validFormats   = []string{"table", "json"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but netmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade netmon or lower 'version' in netmon.yaml.")
	}

	if err := validateServer(cfg.Server); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'server' section in netmon.yaml.")
	}

	if err := validatePoll(cfg.Poll); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'poll' section in netmon.yaml.")
	}

	if cfg.History.SparklineSize < 0 || cfg.History.SparklineSize > 1000 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history.sparkline_size must be between 0 and 1000, got %d", cfg.History.SparklineSize),
			"60 points is plenty for a list sparkline.")
	}

	if cfg.Tunnel.Enabled() && cfg.Tunnel.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"tunnel.timeout must be positive when tunnel.host is set",
			"Try something like 10s.")
	}

	if err := validateOneOf("log.level", cfg.Log.Level, validLogLevels); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'log' section in netmon.yaml.")
	}

	if err := validateOneOf("output.color", cfg.Output.Color, validColors); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in netmon.yaml.")
	}

	if err := validateOneOf("output.format", cfg.Output.Format, validFormats); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in netmon.yaml.")
	}

	return nil
}

func validateServer(s ServerConfig) error {
	if strings.TrimSpace(s.URL) == "" {
		return fmt.Errorf("server.url is empty")
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("server.url '%s' isn't a valid URL: %v", s.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url '%s' must start with http:// or https://", s.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("server.url '%s' has no host", s.URL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", s.Timeout)
	}
	return nil
}

func validatePoll(p PollConfig) error {
	if p.IntervalSeconds < 0 {
		return fmt.Errorf("poll.interval_seconds can't be negative, got %d", p.IntervalSeconds)
	}
	if limit := int(MaxPollInterval / time.Second); p.IntervalSeconds > limit {
		return fmt.Errorf("poll.interval_seconds can't exceed %d (24h), got %d", limit, p.IntervalSeconds)
	}
	if p.ManualTimeout <= 0 {
		return fmt.Errorf("poll.manual_timeout must be positive, got %s", p.ManualTimeout)
	}
	return nil
}

func validateOneOf(key, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s '%s' isn't valid, use one of: %s", key, value, strings.Join(allowed, ", "))
}
