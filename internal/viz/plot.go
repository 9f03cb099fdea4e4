package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

const (
	DefaultPlotHeight = 12
	DefaultPlotWidth  = 80
)

type PlotOptions struct {
	Height  int
	Width   int
	Caption string
	// Legends label each series of PlotMany.
	Legends []string
}

func (o PlotOptions) options() []asciigraph.Option {
	if o.Height <= 0 {
		o.Height = DefaultPlotHeight
	}
	if o.Width <= 0 {
		o.Width = DefaultPlotWidth
	}
	opts := []asciigraph.Option{
		asciigraph.Height(o.Height),
		asciigraph.Width(o.Width),
		asciigraph.Precision(3),
	}
	if o.Caption != "" {
		opts = append(opts, asciigraph.Caption(o.Caption))
	}
	return opts
}

// Plot draws one response. Non-finite samples are clipped to the finite
// range so a diverging tail does not break the chart.
func Plot(values []float64, opts PlotOptions) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(Finite(values), opts.options()...)
}

// PlotMany overlays several responses, e.g. plant against compensated loop.
func PlotMany(series [][]float64, opts PlotOptions) string {
	data := make([][]float64, 0, len(series))
	for _, s := range series {
		if len(s) > 0 {
			data = append(data, Finite(s))
		}
	}
	if len(data) == 0 {
		return ""
	}
	o := opts.options()
	colors := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Blue, asciigraph.Green, asciigraph.Yellow}
	o = append(o, asciigraph.SeriesColors(colors[:min(len(data), len(colors))]...))
	if len(opts.Legends) > 0 {
		o = append(o, asciigraph.SeriesLegends(opts.Legends...))
	}
	return asciigraph.PlotMany(data, o...)
}

// Finite returns a copy of values with NaN dropped to 0 and ±Inf clamped
// to the largest finite magnitude in the series.
func Finite(values []float64) []float64 {
	bound := 0.0
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			bound = max(bound, math.Abs(v))
		}
	}
	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = 0
		case math.IsInf(v, 1):
			out[i] = bound
		case math.IsInf(v, -1):
			out[i] = -bound
		default:
			out[i] = v
		}
	}
	return out
}
