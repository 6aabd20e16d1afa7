// Package monitor implements the terminal dashboard for the network monitor
// backend: a host list that follows the backend's host set and a per-host
// detail screen with history charts.
//
// # Architecture
//
// The package uses Bubble Tea (Model-Update-View). All network calls run
// inside tea.Cmds and come back as messages, so the model is only ever
// touched from Update:
//
//	Model       - Dashboard state: view mode, list, detail view, forms, status
//	Poller      - Interval ticks, per-stream sequence numbers, busy controls
//	ListView    - Host list reconciled by full replacement on every fetch
//	DetailView  - View context of one open host: fields, badge, charts
//	ChartState  - Charts built on the first history and updated in place
//	Formatter   - Shared rendering of metrics, times and placeholders
//
// # Poll Cycle
//
//  1. TickMsg fires at the configured interval (never below 4s)
//  2. The list view fetches /api/hosts; the detail view fetches the host
//  3. A detail snapshot whose last_checked is newer than the last rendered
//     history sample triggers a history fetch
//  4. Responses carry a sequence number and older ones are dropped
//
// Ticks from a closed view carry an old generation and are ignored.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Rescan (list) / refresh (detail)
//	a           - Add hosts
//	s           - Settings
//	f           - Toggle reachable-only
//	j/k, ↑/↓    - Navigate host list
//	Enter       - Open host detail
//	d           - Delete host (detail)
//	Esc         - Back / cancel form
//	?           - Toggle help overlay
package monitor
