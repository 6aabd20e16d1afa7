package sshutil

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/koltont40/networkmonitoring/internal/errors"
)

// Tunnel is an SSH connection used to reach the monitoring backend from
// behind a bastion. Every API connection becomes a direct-tcpip channel.
type Tunnel struct {
	*ssh.Client
	Host    string // The original host/alias used to connect
	Address string // The resolved address (host:port)
}

// Dial establishes an SSH connection to the specified host.
// The host can be:
//   - An SSH config alias (e.g., "bastion")
//   - A hostname (e.g., "192.168.1.100")
//   - A user@hostname (e.g., "ops@192.168.1.100")
//   - A hostname:port (e.g., "192.168.1.100:2222")
//
// Connection settings are resolved from ~/.ssh/config when available.
func Dial(host string, timeout time.Duration) (*Tunnel, error) {
	settings := resolveSSHSettings(host, sshConfigPath())

	config, err := buildSSHConfig(settings, timeout)
	if err != nil {
		// Structured errors from buildSSHConfig already carry a suggestion.
		var nmErr *errors.Error
		if stderrors.As(err, &nmErr) {
			return nil, err
		}
		return nil, errors.WrapWithCode(err, errors.ErrTunnel,
			fmt.Sprintf("Couldn't set up SSH for '%s'", host),
			"Check your keys are loaded: ssh-add -l")
	}

	address := settings.address()
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTunnel,
			fmt.Sprintf("Can't reach tunnel host '%s' at %s", host, address),
			suggestionForDialError(err))
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()

		var hostKeyErr *HostKeyMismatchError
		if stderrors.As(err, &hostKeyErr) {
			return nil, errors.New(errors.ErrTunnel,
				hostKeyErr.Error(),
				hostKeyErr.Suggestion())
		}

		return nil, errors.WrapWithCode(err, errors.ErrTunnel,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", host),
			suggestionForHandshakeError(err, settings.encryptedKeys))
	}

	return &Tunnel{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Host:    host,
		Address: address,
	}, nil
}

// DialContext opens a connection to addr from the far side of the tunnel.
// Its signature matches net.Dialer.DialContext so it can back an
// http.Transport.
func (t *Tunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := t.Client.DialContext(ctx, network, addr)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.WrapWithCode(err, errors.ErrTunnel,
			fmt.Sprintf("Tunnel via '%s' couldn't reach %s", t.Host, addr),
			"Check the server URL is reachable from the tunnel host.")
	}
	return conn, nil
}

// Alive sends a keepalive request. It returns an error once the SSH
// connection is gone.
func (t *Tunnel) Alive() error {
	_, _, err := t.Client.SendRequest("keepalive@openssh.com", true, nil)
	return err
}

// Close closes the SSH connection.
func (t *Tunnel) Close() error {
	if t == nil || t.Client == nil {
		return nil
	}
	return t.Client.Close()
}
