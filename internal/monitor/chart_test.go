package monitor

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koltont40/networkmonitoring/internal/api"
)

// recordingChart counts how it was built and updated.
type recordingChart struct {
	spec    ChartSpec
	labels  []string
	series  [][]float64
	updates int
}

func (c *recordingChart) Spec() ChartSpec     { return c.spec }
func (c *recordingChart) Labels() []string    { return c.labels }
func (c *recordingChart) Series() [][]float64 { return c.series }
func (c *recordingChart) Render(int) string   { return c.spec.Title }

func (c *recordingChart) Update(labels []string, series [][]float64) {
	c.updates++
	c.labels = labels
	c.series = series
}

type chartRecorder struct {
	built []*recordingChart
}

func (r *chartRecorder) construct(spec ChartSpec, labels []string, series [][]float64) Chart {
	c := &recordingChart{spec: spec, labels: labels, series: series}
	r.built = append(r.built, c)
	return c
}

func history(n int) []api.HistorySample {
	out := make([]api.HistorySample, n)
	for i := range out {
		out[i] = sampleAt(i*5, f64(float64(10+i)))
	}
	return out
}

func TestChartStateEmptyHistoryIsNoop(t *testing.T) {
	rec := &chartRecorder{}
	s := NewChartState(DefaultChartSpecs, rec.construct, testFormat)

	assert.False(t, s.Apply(nil))
	assert.False(t, s.Apply([]api.HistorySample{}))
	assert.False(t, s.Constructed())
	assert.Nil(t, s.LastRendered())
	assert.Empty(t, rec.built)
}

func TestChartStateConstructsOnceThenUpdates(t *testing.T) {
	rec := &chartRecorder{}
	s := NewChartState(DefaultChartSpecs, rec.construct, testFormat)

	require.True(t, s.Apply(history(3)))
	require.Len(t, rec.built, len(DefaultChartSpecs))
	first := s.Charts()

	for n := 4; n <= 10; n++ {
		require.True(t, s.Apply(history(n)))
	}

	assert.Len(t, rec.built, len(DefaultChartSpecs), "charts are never rebuilt")
	for i, c := range s.Charts() {
		assert.Same(t, first[i], c)
		assert.Equal(t, 7, rec.built[i].updates)
		assert.Len(t, c.Labels(), 10)
	}
}

func TestChartStateEmptyAfterConstructKeepsCharts(t *testing.T) {
	rec := &chartRecorder{}
	s := NewChartState(DefaultChartSpecs, rec.construct, testFormat)
	require.True(t, s.Apply(history(2)))
	last := *s.LastRendered()

	assert.False(t, s.Apply(nil))
	assert.True(t, s.Constructed())
	assert.Equal(t, last, *s.LastRendered())
	assert.Len(t, s.Labels(), 2)
	assert.Equal(t, 0, rec.built[0].updates)
}

func TestChartStateLabelsAndLastRendered(t *testing.T) {
	s := NewChartState(DefaultChartSpecs, nil, testFormat)
	require.True(t, s.Apply(history(3)))

	assert.Equal(t, []string{"14:00:00", "14:00:05", "14:00:10"}, s.Labels())
	require.NotNil(t, s.LastRendered())
	assert.True(t, s.LastRendered().Equal(at(10).Time))
}

func TestChartStateSeriesGapsAndUnits(t *testing.T) {
	rec := &chartRecorder{}
	s := NewChartState(DefaultChartSpecs, rec.construct, testFormat)

	samples := []api.HistorySample{
		sampleAt(0, f64(10)),
		sampleAt(5, nil),
		sampleAt(10, f64(0)),
	}
	samples[1].InterfaceInBps = nil
	require.True(t, s.Apply(samples))

	health := rec.built[0]
	require.Equal(t, ChartHealth, health.spec.Key)
	latency := health.series[0]
	assert.Equal(t, 10.0, latency[0])
	assert.True(t, math.IsNaN(latency[1]), "missing latency is a gap")
	assert.Equal(t, 0.0, latency[2], "zero is a value, not a gap")

	throughput := rec.built[2]
	require.Equal(t, ChartThroughput, throughput.spec.Key)
	want := [][]float64{{2, math.NaN(), 2}, {1, 1, 1}}
	if diff := cmp.Diff(want, throughput.series, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("throughput series mismatch (-want +got):\n%s", diff)
	}
}

func TestChartStateSeriesCountPerGroup(t *testing.T) {
	rec := &chartRecorder{}
	s := NewChartState(DefaultChartSpecs, rec.construct, testFormat)
	require.True(t, s.Apply(history(1)))

	counts := map[string]int{}
	for _, c := range rec.built {
		counts[c.spec.Key] = len(c.series)
	}
	assert.Equal(t, map[string]int{
		ChartHealth:     2,
		ChartInterface:  2,
		ChartThroughput: 2,
		ChartSystem:     4,
	}, counts)
}

func TestLineChartRender(t *testing.T) {
	s := NewChartState(DefaultChartSpecs, nil, testFormat)
	require.True(t, s.Apply(history(12)))

	out := s.Charts()[0].Render(80)
	assert.Contains(t, out, "Health")
	assert.Contains(t, out, "Latency (ms)")
	assert.Contains(t, out, "14:00:00 → 14:00:55")
}

func TestLineChartRenderSkipsEmptySeries(t *testing.T) {
	s := NewChartState(DefaultChartSpecs, nil, testFormat)
	require.True(t, s.Apply(history(5)))

	// history() never sets memory or temperatures.
	system := s.Charts()[3]
	require.Equal(t, ChartSystem, system.Spec().Key)
	out := system.Render(80)
	assert.Contains(t, out, "CPU usage (%)")
	assert.Contains(t, out, "no data: Memory used (%), Interface temp (°C), System temp (°C)")
}

func TestLineChartRenderAllMissing(t *testing.T) {
	c := NewLineChart(DefaultChartSpecs[0], []string{"a", "b"}, [][]float64{
		{math.NaN(), math.NaN()},
		{math.NaN(), math.NaN()},
	})
	out := c.Render(60)
	assert.Contains(t, out, "no data")
	assert.False(t, strings.Contains(out, "┼"), "nothing is plotted")
}

func TestLineChartCaptionFollowsPlottedWindow(t *testing.T) {
	labels := make([]string, 30)
	for i := range labels {
		labels[i] = string(rune('a' + i%26))
	}
	c := &lineChart{labels: labels}

	assert.Equal(t, labels[10]+" → "+labels[29], c.caption(20))
	assert.Equal(t, labels[0]+" → "+labels[29], c.caption(40))

	c.labels = []string{"x"}
	assert.Equal(t, "x", c.caption(20))
	c.labels = nil
	assert.Equal(t, "", c.caption(20))
}

func TestToMbps(t *testing.T) {
	assert.Nil(t, toMbps(nil))
	assert.Equal(t, 0.0, *toMbps(f64(0)))
	assert.Equal(t, 12.5, *toMbps(f64(12_500_000)))
	assert.Nil(t, intValue(nil))
	assert.Equal(t, 7.0, *intValue(i64(7)))
}
