package doctor

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/koltont40/networkmonitoring/internal/config"
	"github.com/koltont40/networkmonitoring/internal/errors"
)

// ConfigFileCheck reports which config file is in use.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return failure(c.Name(), err, "Check the --config path")
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file, using defaults",
			Suggestion: "Create one with: netmon config init --server <url>",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Config file: " + path,
	}
}

func (c *ConfigFileCheck) Fix() error { return nil }

// ConfigValidCheck loads the effective config and validates it.
type ConfigValidCheck struct {
	ConfigPath string
}

func (c *ConfigValidCheck) Name() string     { return "config_valid" }
func (c *ConfigValidCheck) Category() string { return CategoryConfig }

func (c *ConfigValidCheck) Run(context.Context) CheckResult {
	cfg, _, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return failure(c.Name(), err, "Check the YAML syntax in your config file")
	}
	if err := config.Validate(cfg); err != nil {
		return failure(c.Name(), err, "Fix the value with: netmon config set <key> <value>")
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config valid, polling %s every %s", cfg.Server.URL, cfg.Poll.Interval()),
	}
}

func (c *ConfigValidCheck) Fix() error { return nil }

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigValidCheck{ConfigPath: configPath},
	}
}

// failure turns err into a failed result, keeping a structured error's
// message and suggestion.
func failure(name string, err error, fallback string) CheckResult {
	result := CheckResult{
		Name:       name,
		Status:     StatusFail,
		Message:    err.Error(),
		Suggestion: fallback,
	}
	var nmErr *errors.Error
	if stderrors.As(err, &nmErr) {
		result.Message = nmErr.Message
		if nmErr.Suggestion != "" {
			result.Suggestion = nmErr.Suggestion
		}
	}
	return result
}
