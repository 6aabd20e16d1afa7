package ui

import "github.com/koltont40/networkmonitoring/internal/api"

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Action completed
	SymbolFail     = "✗" // Action failed
	SymbolPending  = "○" // Not probed yet
	SymbolProgress = "◐" // In progress
	SymbolComplete = "●" // Healthy
	SymbolSkipped  = "⊘" // Skipped
	SymbolAlert    = "◆" // Alerting
)

// HostStateSymbol returns the status symbol for a host state.
func HostStateSymbol(state api.HostState) string {
	switch state {
	case api.StateOK, api.StateUp:
		return SymbolComplete
	case api.StateAlert, api.StateDown, api.StateDegraded:
		return SymbolAlert
	case api.StateDeleted:
		return SymbolFail
	default:
		return SymbolPending
	}
}
