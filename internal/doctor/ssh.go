package doctor

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh/agent"

	"github.com/koltont40/networkmonitoring/pkg/sshutil"
)

// SSHKeyCheck verifies a default private key exists.
type SSHKeyCheck struct {
	KeyFiles []string // Defaults to sshutil.DefaultKeyFiles
}

func (c *SSHKeyCheck) Name() string     { return "ssh_key" }
func (c *SSHKeyCheck) Category() string { return CategoryTunnel }

func (c *SSHKeyCheck) Run(context.Context) CheckResult {
	for _, keyPath := range c.keyFiles() {
		if _, err := os.Stat(keyPath); err == nil {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusPass,
				Message: "SSH key found: " + keyPath,
			}
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    "No default SSH key found",
		Suggestion: "Fine if the agent or an IdentityFile has one. Otherwise: ssh-keygen -t ed25519",
	}
}

func (c *SSHKeyCheck) Fix() error { return nil }

func (c *SSHKeyCheck) keyFiles() []string {
	if c.KeyFiles != nil {
		return c.KeyFiles
	}
	return sshutil.DefaultKeyFiles()
}

// SSHAgentCheck verifies the SSH agent is reachable and holds keys.
type SSHAgentCheck struct{}

func (c *SSHAgentCheck) Name() string     { return "ssh_agent" }
func (c *SSHAgentCheck) Category() string { return CategoryTunnel }

func (c *SSHAgentCheck) Run(context.Context) CheckResult {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent not running",
			Suggestion: "Start one with: eval $(ssh-agent) && ssh-add",
		}
	}

	conn, err := net.Dial("unix", socket)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent socket not accessible",
			Suggestion: "Check SSH_AUTH_SOCK, or restart the agent: eval $(ssh-agent)",
		}
	}
	defer conn.Close()

	keys, err := agent.NewClient(conn).List()
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Cannot query SSH agent",
			Suggestion: "Check SSH agent: ssh-add -l",
		}
	}
	if len(keys) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent running but no keys loaded",
			Suggestion: "Add a key with: ssh-add",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("SSH agent running with %d key%s loaded", len(keys), pluralize(len(keys))),
	}
}

func (c *SSHAgentCheck) Fix() error { return nil }

// SSHKeyPermissionsCheck verifies private keys are not readable by others.
type SSHKeyPermissionsCheck struct {
	KeyFiles []string // Defaults to sshutil.DefaultKeyFiles
}

func (c *SSHKeyPermissionsCheck) Name() string     { return "ssh_key_permissions" }
func (c *SSHKeyPermissionsCheck) Category() string { return CategoryTunnel }

func (c *SSHKeyPermissionsCheck) Run(context.Context) CheckResult {
	existing, insecure := c.scan()
	if len(existing) == 0 {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No private keys to check",
		}
	}

	if len(insecure) > 0 {
		names := make([]string, len(insecure))
		for i, p := range insecure {
			names[i] = filepath.Base(p)
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Insecure permissions on: %v", names),
			Suggestion: "Fix: chmod 600 ~/.ssh/<keyfile>",
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "SSH key permissions OK",
	}
}

func (c *SSHKeyPermissionsCheck) Fix() error {
	_, insecure := c.scan()
	for _, keyPath := range insecure {
		if err := os.Chmod(keyPath, 0o600); err != nil {
			return fmt.Errorf("failed to fix permissions on %s: %w", keyPath, err)
		}
	}
	return nil
}

func (c *SSHKeyPermissionsCheck) scan() (existing, insecure []string) {
	keyFiles := c.KeyFiles
	if keyFiles == nil {
		keyFiles = sshutil.DefaultKeyFiles()
	}
	for _, keyPath := range keyFiles {
		info, err := os.Stat(keyPath)
		if err != nil {
			continue
		}
		existing = append(existing, keyPath)
		if info.Mode().Perm()&0o077 != 0 {
			insecure = append(insecure, keyPath)
		}
	}
	return existing, insecure
}

// TunnelCheck opens the configured SSH tunnel and closes it again.
type TunnelCheck struct {
	Host    string
	Timeout time.Duration
}

func (c *TunnelCheck) Name() string     { return "tunnel" }
func (c *TunnelCheck) Category() string { return CategoryTunnel }

func (c *TunnelCheck) Run(context.Context) CheckResult {
	start := time.Now()
	tunnel, err := sshutil.Dial(c.Host, c.Timeout)
	if err != nil {
		return failure(c.Name(), err, "Try it by hand: ssh "+c.Host)
	}
	defer tunnel.Close()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Tunnel via %s (%s) is up in %s", c.Host, tunnel.Address, time.Since(start).Round(time.Millisecond)),
	}
}

func (c *TunnelCheck) Fix() error { return nil }

// NewTunnelChecks creates the SSH checks for a tunnel through host.
func NewTunnelChecks(host string, timeout time.Duration) []Check {
	return []Check{
		&SSHKeyCheck{},
		&SSHAgentCheck{},
		&SSHKeyPermissionsCheck{},
		&TunnelCheck{Host: host, Timeout: timeout},
	}
}
