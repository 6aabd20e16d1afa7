package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/koltont40/networkmonitoring/internal/api"
)

func TestBrandColorsAreHex(t *testing.T) {
	colors := []lipgloss.Color{
		ColorNeonPink,
		ColorNeonPurple,
		ColorNeonCyan,
		ColorNeonGreen,
		ColorGlassBorder,
	}

	for _, color := range colors {
		s := string(color)
		assert.True(t, s[0] == '#', "color should start with #: %s", s)
		assert.Len(t, s, 7)
	}
	assert.Len(t, GradientColors, 4)
}

func TestHostStateColorAndSymbol(t *testing.T) {
	tests := []struct {
		state  api.HostState
		color  lipgloss.Color
		symbol string
	}{
		{api.StateOK, ColorSuccess, SymbolComplete},
		{api.StateUp, ColorSuccess, SymbolComplete},
		{api.StateDegraded, ColorWarning, SymbolAlert},
		{api.StateDown, ColorError, SymbolAlert},
		{api.StateAlert, ColorError, SymbolAlert},
		{api.StatePending, ColorMuted, SymbolPending},
		{api.StateDeleted, ColorMuted, SymbolFail},
		{api.HostState("weird"), ColorMuted, SymbolPending},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.color, HostStateColor(tt.state))
			assert.Equal(t, tt.symbol, HostStateSymbol(tt.state))
		})
	}
}

func TestLossColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, LossColor(0))
	assert.Equal(t, ColorSuccess, LossColor(4.9))
	assert.Equal(t, ColorWarning, LossColor(5))
	assert.Equal(t, ColorError, LossColor(30))
	assert.Equal(t, ColorError, LossColor(100))
}

func TestDisableColors(t *testing.T) {
	DisableColors()
	out := lipgloss.NewStyle().Foreground(ColorError).Render("down")
	assert.Equal(t, "down", out)
}
