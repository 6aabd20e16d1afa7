package sshutil

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kevinburke/ssh_config"
)

// WarningHandler receives non-fatal SSH config warnings. The CLI points it
// at the debug log; nil drops them.
var WarningHandler func(message string)

// matchWarningOnce limits the Match directive warning to one per process.
var matchWarningOnce sync.Once

func emitWarning(message string) {
	if WarningHandler != nil {
		WarningHandler(message)
	}
}

// sshSettings holds resolved SSH connection parameters.
type sshSettings struct {
	hostname      string
	port          string
	user          string
	identityFile  string
	encryptedKeys []string
}

func (s *sshSettings) address() string {
	return net.JoinHostPort(s.hostname, s.port)
}

// resolveSSHSettings parses user@host:port and fills the gaps from the SSH
// config at configPath. Explicit user and port win over the config.
func resolveSSHSettings(host, configPath string) *sshSettings {
	settings := &sshSettings{
		port: "22",
		user: currentUser(),
	}

	explicitUser, explicitPort := false, false
	if atIdx := strings.Index(host, "@"); atIdx != -1 {
		settings.user = host[:atIdx]
		host = host[atIdx+1:]
		explicitUser = true
	}

	if colonIdx := strings.LastIndex(host, ":"); colonIdx != -1 {
		if port := host[colonIdx+1:]; isDigits(port) {
			settings.port = port
			host = host[:colonIdx]
			explicitPort = true
		}
	}

	settings.hostname = host

	// kevinburke/ssh_config can't parse Match blocks, so only the part of
	// the file before the first one is read.
	content, matchLine, err := preprocessSSHConfig(configPath)
	if err != nil {
		return settings
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return settings
	}

	hostFound := false
	if hostname, _ := cfg.Get(host, "HostName"); hostname != "" {
		settings.hostname = hostname
		hostFound = true
	}
	if port, _ := cfg.Get(host, "Port"); port != "" && !explicitPort {
		settings.port = port
		hostFound = true
	}
	if user, _ := cfg.Get(host, "User"); user != "" && !explicitUser {
		settings.user = user
		hostFound = true
	}
	if identity, _ := cfg.Get(host, "IdentityFile"); identity != "" {
		settings.identityFile = expandPath(identity)
		hostFound = true
	}

	if matchLine > 0 && !hostFound {
		matchWarningOnce.Do(func() {
			emitWarning(fmt.Sprintf(
				"tunnel host '%s' not found in SSH config; a Match block at line %d may hide later entries",
				host, matchLine))
		})
	}

	return settings
}

// preprocessSSHConfig reads the SSH config and returns content up to the first Match directive,
// plus the 1-indexed line of that directive (0 if there is none).
func preprocessSSHConfig(configPath string) ([]byte, int, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, 0, err
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			return []byte(strings.Join(lines[:i], "\n")), i + 1, nil
		}
	}
	return content, 0, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func sshConfigPath() string {
	return filepath.Join(homeDir(), ".ssh", "config")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
