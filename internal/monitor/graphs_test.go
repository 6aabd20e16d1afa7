package monitor

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFindMinMax(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		data    []float64
		wantMin float64
		wantMax float64
		wantOK  bool
	}{
		{"empty", []float64{}, 0, 0, false},
		{"all gaps", []float64{nan, nan}, 0, 0, false},
		{"values", []float64{-50, 200, 500}, -50, 500, true},
		{"gaps skipped", []float64{nan, 3, nan, 1}, 1, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minVal, maxVal, ok := findMinMax(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMin, minVal)
			assert.Equal(t, tt.wantMax, maxVal)
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name   string
		val    float64
		minVal float64
		maxVal float64
		want   float64
	}{
		{"middle value", 50, 0, 100, 0.5},
		{"min value", 0, 0, 100, 0},
		{"max value", 100, 0, 100, 1},
		{"flat range", 7, 7, 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, normalizeValue(tt.val, tt.minVal, tt.maxVal), 0.0001)
		})
	}
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 0, clampInt(-1, 5))
	assert.Equal(t, 3, clampInt(3, 5))
	assert.Equal(t, 5, clampInt(9, 5))
}

func TestRenderMiniSparkline(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		width int
		want  string
	}{
		{"empty", nil, 10, ""},
		{"zero width", []float64{1}, 0, ""},
		{"scaled from zero", []float64{0, 50, 100}, 10, "▁▄█"},
		{"flat zero at bottom", []float64{0, 0, 0}, 10, "▁▁▁"},
		{"gaps are blank", []float64{100, math.NaN(), 100}, 10, "█ █"},
		{"all gaps", []float64{math.NaN(), math.NaN()}, 10, "  "},
		{"keeps the newest points", []float64{100, 0, 0, 100}, 2, "▁█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderMiniSparkline(tt.data, tt.width))
		})
	}
}

func TestRenderColoredMiniSparkline(t *testing.T) {
	assert.Equal(t, "", RenderColoredMiniSparkline(nil, 10, ColorGraph))

	out := RenderColoredMiniSparkline([]float64{1, 2, 3, 4}, 10, ColorGraph)
	assert.True(t, strings.Contains(out, "█"))
	assert.GreaterOrEqual(t, utf8.RuneCountInString(out), 4)
}
