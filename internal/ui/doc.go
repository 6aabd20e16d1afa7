// Package ui provides terminal components for netmon's CLI output.
//
// The dashboard has its own styles in the monitor package; this package
// covers the one-shot commands: host tables, spinners around backend calls,
// the interactive host picker and the version header.
//
// # Components
//
//	Spinner       - Animated status line while a backend call runs
//	RenderHostTable - Colored host list for `netmon hosts list`
//	HostPicker    - Interactive host selection for `netmon show`
//	RenderHeader  - Branded header for `netmon version`
//
// # Color Scheme
//
// Colors are ANSI codes so output follows the terminal's theme:
//
//	ColorSuccess   (green)  - ok / up hosts, successful actions
//	ColorError     (red)    - alerting or down hosts, failures
//	ColorWarning   (yellow) - degraded hosts, packet loss above 5%
//	ColorMuted     (gray)   - pending hosts, timestamps
//
// Use DisableColors() for monochrome output (--no-color, NO_COLOR).
package ui
