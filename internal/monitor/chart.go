package monitor

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/koltont40/networkmonitoring/internal/api"
)

// Chart is a persistent rendering surface for one metric group. A chart is
// constructed once with its first data and afterwards only updated: new
// labels and series arrays replace the old ones in place.
type Chart interface {
	Spec() ChartSpec
	Update(labels []string, series [][]float64)
	Labels() []string
	Series() [][]float64
	Render(width int) string
}

// ChartConstructor builds a chart from its spec and initial data.
type ChartConstructor func(spec ChartSpec, labels []string, series [][]float64) Chart

// SeriesSpec describes one plotted line.
type SeriesSpec struct {
	Label string
	// Value extracts the plotted value from a sample. Nil is a gap.
	Value func(api.HistorySample) *float64
}

// ChartSpec describes a metric group. Groups differ only in their series
// and axis bounds.
type ChartSpec struct {
	Key    string
	Title  string
	Series []SeriesSpec
	// UpperBound is a suggested axis maximum; zero lets the data decide.
	UpperBound float64
}

// Chart group keys.
const (
	ChartHealth     = "health"
	ChartInterface  = "interface"
	ChartThroughput = "throughput"
	ChartSystem     = "system"
)

// DefaultChartSpecs are the detail view's four metric groups, in display order.
var DefaultChartSpecs = []ChartSpec{
	{
		Key:   ChartHealth,
		Title: "Health",
		Series: []SeriesSpec{
			{Label: "Latency (ms)", Value: func(s api.HistorySample) *float64 { return s.LatencyMs }},
			{Label: "Packet loss (%)", Value: func(s api.HistorySample) *float64 { return s.PacketLossPct }},
		},
	},
	{
		Key:        ChartInterface,
		Title:      "Interface",
		UpperBound: 100,
		Series: []SeriesSpec{
			{Label: "Packet success (%)", Value: func(s api.HistorySample) *float64 { return s.PacketSuccessPct }},
			{Label: "Packets received", Value: func(s api.HistorySample) *float64 { return intValue(s.PacketsReceived) }},
		},
	},
	{
		Key:   ChartThroughput,
		Title: "Throughput",
		Series: []SeriesSpec{
			{Label: "Ingress (Mbps)", Value: func(s api.HistorySample) *float64 { return toMbps(s.InterfaceInBps) }},
			{Label: "Egress (Mbps)", Value: func(s api.HistorySample) *float64 { return toMbps(s.InterfaceOutBps) }},
		},
	},
	{
		Key:        ChartSystem,
		Title:      "System",
		UpperBound: 100,
		Series: []SeriesSpec{
			{Label: "CPU usage (%)", Value: func(s api.HistorySample) *float64 { return s.CPUUsagePct }},
			{Label: "Memory used (%)", Value: func(s api.HistorySample) *float64 { return s.MemoryUsedPct }},
			{Label: "Interface temp (°C)", Value: func(s api.HistorySample) *float64 { return s.InterfaceTempC }},
			{Label: "System temp (°C)", Value: func(s api.HistorySample) *float64 { return s.SystemTempC }},
		},
	},
}

func intValue(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// toMbps converts bits/second when a chart series is built; samples keep
// the raw counter value.
func toMbps(bps *float64) *float64 {
	if bps == nil {
		return nil
	}
	v := *bps / bitsPerMegabit
	return &v
}

// ChartState owns the detail view's charts for the life of the view.
type ChartState struct {
	specs        []ChartSpec
	newChart     ChartConstructor
	format       Formatter
	charts       []Chart
	labels       []string
	lastRendered *time.Time
}

// NewChartState creates an empty chart state. Charts are built on the first
// non-empty history.
func NewChartState(specs []ChartSpec, newChart ChartConstructor, format Formatter) *ChartState {
	if newChart == nil {
		newChart = NewLineChart
	}
	return &ChartState{specs: specs, newChart: newChart, format: format}
}

// LastRendered is the timestamp of the newest rendered sample, nil before
// the first render.
func (s *ChartState) LastRendered() *time.Time {
	return s.lastRendered
}

// Constructed reports whether the charts exist yet.
func (s *ChartState) Constructed() bool {
	return s.charts != nil
}

// Charts returns the charts in spec order, nil before construction.
func (s *ChartState) Charts() []Chart {
	return s.charts
}

// Labels returns the current x-axis labels.
func (s *ChartState) Labels() []string {
	return s.labels
}

// Apply reconciles a history response into the charts. An empty history
// leaves everything untouched. Returns true when the charts changed.
func (s *ChartState) Apply(history []api.HistorySample) bool {
	if len(history) == 0 {
		return false
	}

	labels := make([]string, len(history))
	for i := range history {
		labels[i] = s.format.Time(&history[i].Timestamp)
	}

	if s.charts == nil {
		s.charts = make([]Chart, len(s.specs))
		for i, spec := range s.specs {
			s.charts[i] = s.newChart(spec, labels, buildSeries(spec, history))
		}
	} else {
		for i, spec := range s.specs {
			s.charts[i].Update(labels, buildSeries(spec, history))
		}
	}

	s.labels = labels
	last := history[len(history)-1].Timestamp.Time
	s.lastRendered = &last
	return true
}

// buildSeries extracts one array per series. Missing values become NaN,
// which the chart leaves as a gap.
func buildSeries(spec ChartSpec, history []api.HistorySample) [][]float64 {
	series := make([][]float64, len(spec.Series))
	for i, ss := range spec.Series {
		data := make([]float64, len(history))
		for j, sample := range history {
			if v := ss.Value(sample); v != nil {
				data[j] = *v
			} else {
				data[j] = math.NaN()
			}
		}
		series[i] = data
	}
	return series
}

// chartHeight is the plot height of every chart.
const chartHeight = 6

// yAxisWidth is the space asciigraph needs for axis labels.
const yAxisWidth = 10

// lineChart renders with asciigraph.
type lineChart struct {
	spec   ChartSpec
	labels []string
	series [][]float64
}

// NewLineChart is the default ChartConstructor.
func NewLineChart(spec ChartSpec, labels []string, series [][]float64) Chart {
	return &lineChart{spec: spec, labels: labels, series: series}
}

func (c *lineChart) Spec() ChartSpec     { return c.spec }
func (c *lineChart) Labels() []string    { return c.labels }
func (c *lineChart) Series() [][]float64 { return c.series }

func (c *lineChart) Update(labels []string, series [][]float64) {
	c.labels = labels
	c.series = series
}

// Render plots the newest points that fit in width. Series without a single
// value are left out of the plot and listed as having no data.
func (c *lineChart) Render(width int) string {
	header := TitleStyle.Render(c.spec.Title)
	plotWidth := width - yAxisWidth
	if plotWidth < 10 {
		plotWidth = 10
	}

	var (
		data    [][]float64
		legends []string
		colors  []asciigraph.AnsiColor
		empty   []string
	)
	for i, s := range c.series {
		tail := lastN(s, plotWidth)
		label := c.spec.Series[i].Label
		if !hasValue(tail) {
			empty = append(empty, label)
			continue
		}
		data = append(data, tail)
		legends = append(legends, label)
		colors = append(colors, chartColors[i%len(chartColors)])
	}

	if len(data) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, MutedStyle.Render("no data"))
	}

	opts := []asciigraph.Option{
		asciigraph.Height(chartHeight),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.LabelColor(asciigraph.Default),
		asciigraph.LowerBound(0),
	}
	if c.spec.UpperBound > 0 {
		opts = append(opts, asciigraph.UpperBound(c.spec.UpperBound))
	}
	if caption := c.caption(plotWidth); caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}

	parts := []string{header, asciigraph.PlotMany(data, opts...)}
	if len(empty) > 0 {
		parts = append(parts, MutedStyle.Render("no data: "+strings.Join(empty, ", ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// caption spans the plotted window's first and last labels.
func (c *lineChart) caption(plotWidth int) string {
	labels := c.labels
	if len(labels) > plotWidth {
		labels = labels[len(labels)-plotWidth:]
	}
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return labels[0] + " → " + labels[len(labels)-1]
	}
}

func lastN(data []float64, n int) []float64 {
	if len(data) > n {
		return data[len(data)-n:]
	}
	return data
}

func hasValue(data []float64) bool {
	for _, v := range data {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}
