// Package cli implements the netmon command-line interface.
//
// Commands are Cobra commands built by newRootCmd around a shared app value.
// The root's persistent pre-run loads config, applies --server and color
// settings, and sets up logging before any subcommand runs. Commands that
// talk to the backend get their API client from app.client, which dials the
// SSH tunnel first when tunnel.host is set.
//
// # Command Structure
//
//	netmon                      - Host list dashboard (same as dashboard)
//	netmon dashboard            - Host list dashboard
//	netmon show [address]       - Detail dashboard for one host
//	netmon hosts list|get|add|delete
//	netmon rescan               - Trigger a backend probe cycle
//	netmon settings             - Update backend settings
//	netmon config init|show|set - Manage netmon.yaml
//	netmon doctor               - Diagnose config, tunnel and backend
//	netmon demo                 - Dashboard against an in-memory backend
//
// # Output
//
// Interactive output uses lipgloss tables and spinners. With -o json, list
// and get commands write a JSONEnvelope instead, and errors are reported in
// the same envelope so scripts can match on a stable code.
package cli
