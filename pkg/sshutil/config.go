package sshutil

import (
	"bytes"
	"os"
	"sort"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// HostEntry is a concrete Host alias from ~/.ssh/config. These are offered
// as tunnel.host completions.
type HostEntry struct {
	Alias        string // The Host pattern (alias)
	Hostname     string // The HostName value (actual host to connect to)
	User         string
	Port         string
	IdentityFile string
}

// Description returns a short summary for shell completion.
func (h HostEntry) Description() string {
	var parts []string

	if h.Hostname != "" && h.Hostname != h.Alias {
		parts = append(parts, h.Hostname)
	}
	if h.User != "" {
		parts = append(parts, "user: "+h.User)
	}
	if h.Port != "" && h.Port != "22" {
		parts = append(parts, "port: "+h.Port)
	}

	if len(parts) == 0 {
		return h.Alias
	}
	return strings.Join(parts, ", ")
}

// HasIdentityFile reports whether the entry's IdentityFile or one of the
// default keys exists.
func (h HostEntry) HasIdentityFile() bool {
	if h.IdentityFile != "" {
		if _, err := os.Stat(h.IdentityFile); err == nil {
			return true
		}
	}
	for _, key := range DefaultKeyFiles() {
		if _, err := os.Stat(key); err == nil {
			return true
		}
	}
	return false
}

// ParseSSHConfig parses ~/.ssh/config. A missing file yields no entries.
func ParseSSHConfig() ([]HostEntry, error) {
	return ParseSSHConfigFile(sshConfigPath())
}

// ParseSSHConfigFile returns the concrete host aliases in configPath,
// sorted by alias. Wildcard patterns are skipped.
func ParseSSHConfigFile(configPath string) ([]HostEntry, error) {
	content, _, err := preprocessSSHConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var hosts []HostEntry
	seen := make(map[string]bool)

	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if strings.ContainsAny(alias, "*?") || seen[alias] {
				continue
			}
			seen[alias] = true

			entry := HostEntry{Alias: alias}
			entry.Hostname, _ = cfg.Get(alias, "HostName")
			entry.User, _ = cfg.Get(alias, "User")
			entry.Port, _ = cfg.Get(alias, "Port")
			if identity, _ := cfg.Get(alias, "IdentityFile"); identity != "" {
				entry.IdentityFile = expandPath(identity)
			}
			hosts = append(hosts, entry)
		}
	}

	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Alias < hosts[j].Alias
	})
	return hosts, nil
}

// FilterHostsWithKeys returns only hosts we could authenticate to with a key file.
func FilterHostsWithKeys(hosts []HostEntry) []HostEntry {
	var filtered []HostEntry
	for _, h := range hosts {
		if h.HasIdentityFile() {
			filtered = append(filtered, h)
		}
	}
	return filtered
}
