package monitor

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparklineGap marks a point where no value was collected.
const sparklineGap = ' '

// findMinMax returns the range of the non-NaN values. ok is false when
// there are none.
func findMinMax(data []float64) (minVal, maxVal float64, ok bool) {
	for _, v := range data {
		if math.IsNaN(v) {
			continue
		}
		if !ok {
			minVal, maxVal, ok = v, v, true
			continue
		}
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal, ok
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
// A flat range maps everything to the bottom.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// RenderMiniSparkline renders a single-row sparkline of the newest width
// points. Latency has no natural ceiling, so the scale starts at zero and
// tops out at the largest value shown. NaN points are left blank.
func RenderMiniSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	_, maxVal, ok := findMinMax(data)
	if !ok {
		return strings.Repeat(string(sparklineGap), len(data))
	}

	var b strings.Builder
	for _, v := range data {
		if math.IsNaN(v) {
			b.WriteRune(sparklineGap)
			continue
		}
		normalized := normalizeValue(v, 0, maxVal)
		idx := clampInt(int(normalized*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		b.WriteRune(sparklineBlocks[idx])
	}
	return b.String()
}

// RenderColoredMiniSparkline colors the sparkline by the host's state.
func RenderColoredMiniSparkline(data []float64, width int, color lipgloss.Color) string {
	sparkline := RenderMiniSparkline(data, width)
	if sparkline == "" {
		return sparkline
	}
	return lipgloss.NewStyle().Foreground(color).Render(sparkline)
}
