// Package chart draws the dashboard figures with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/poweringforward/poweringforward/internal/aggregate"
	"github.com/poweringforward/poweringforward/internal/growth"
	"github.com/poweringforward/poweringforward/internal/pipeline"
)

var (
	ErrUnknownChart = errors.New("unknown chart")
	ErrNoData       = errors.New("nothing to plot")
)

// Names lists the charts Build knows, in page order.
var Names = []string{"generation", "cagr", "yoy"}

const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

var palette = map[string]color.Color{
	"Solar":               color.RGBA{R: 255, G: 140, B: 0, A: 255},
	"Wind":                color.RGBA{R: 31, G: 119, B: 180, A: 255},
	aggregate.TotalSource: color.RGBA{R: 44, G: 160, B: 44, A: 255},
}

func sourceColor(source string, i int) color.Color {
	if c, ok := palette[source]; ok {
		return c
	}
	return plotutil.Color(i)
}

// Build draws the named chart for a.
func Build(name string, a *pipeline.Analysis) (*plot.Plot, error) {
	switch name {
	case "generation":
		return Generation(a.Series, a.Total)
	case "cagr":
		return CAGRComparison(a.Metrics)
	case "yoy":
		return YoY(a.Stats)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
}

// Generation plots one line per source and, when given, the total as a
// dashed line.
func Generation(series []aggregate.AnnualSeries, total *aggregate.AnnualSeries) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("generation: %w", ErrNoData)
	}

	p := newPlot("Renewable Electricity Generation", "Year", "Generation (TWh)")

	all := series
	if total != nil {
		all = append(series[:len(series):len(series)], *total)
	}

	first, last := math.MaxInt, math.MinInt
	for i, s := range all {
		points := make(plotter.XYs, s.Len())
		for j, pt := range s.Points {
			points[j].X = float64(pt.Year)
			points[j].Y = pt.Value
		}

		line, dots, err := plotter.NewLinePoints(points)
		if err != nil {
			return nil, fmt.Errorf("generation %s: %w", s.Source, err)
		}
		c := sourceColor(s.Source, i)
		line.Color = c
		line.Width = vg.Points(2)
		dots.GlyphStyle.Color = c
		dots.GlyphStyle.Radius = vg.Points(2.5)
		if s.Source == aggregate.TotalSource {
			line.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		}

		p.Add(line, dots)
		p.Legend.Add(s.Source, line, dots)

		if s.Len() > 0 {
			first = min(first, s.First().Year)
			last = max(last, s.Last().Year)
		}
	}

	p.X.Tick.Marker = yearTicks(first, last)
	p.Y.Min = 0
	return p, nil
}

// CAGRComparison draws one horizontal bar per source labelled with its
// CAGR in percent.
func CAGRComparison(metrics []growth.Metric) (*plot.Plot, error) {
	if len(metrics) == 0 {
		return nil, fmt.Errorf("cagr: %w", ErrNoData)
	}

	p := newPlot("Compound Annual Growth Rate", "CAGR (%)", "")
	p.Legend.Top = false

	names := make([]string, len(metrics))
	xys := make(plotter.XYs, len(metrics))
	labels := make([]string, len(metrics))
	minValue, maxValue := 0.0, 0.0

	for i, m := range metrics {
		v := m.Percent()
		bars, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(36))
		if err != nil {
			return nil, fmt.Errorf("cagr %s: %w", m.Source, err)
		}
		bars.Horizontal = true
		bars.XMin = float64(i)
		bars.Color = sourceColor(m.Source, i)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)

		names[i] = fmt.Sprintf("%s (%d-%d)", m.Source, m.StartYear, m.EndYear)
		xys[i] = plotter.XY{X: v, Y: float64(i)}
		labels[i] = fmt.Sprintf("%.2f%%", v)
		minValue = math.Min(minValue, v)
		maxValue = math.Max(maxValue, v)
	}

	valueLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("cagr labels: %w", err)
	}
	valueLabels.Offset = vg.Point{X: vg.Points(4)}
	p.Add(valueLabels)

	p.NominalY(names...)
	p.X.Min = minValue * 1.2
	p.X.Max = maxValue*1.25 + 1
	return p, nil
}

// YoY plots year-over-year growth per source against a zero line.
func YoY(stats []growth.Stats) (*plot.Plot, error) {
	p := newPlot("Year-over-Year Growth", "Year", "Growth (%)")

	first, last := math.MaxInt, math.MinInt
	for i, st := range stats {
		if len(st.YoY) == 0 {
			continue
		}
		points := make(plotter.XYs, len(st.YoY))
		for j, pt := range st.YoY {
			points[j].X = float64(pt.Year)
			points[j].Y = pt.Value
		}

		line, dots, err := plotter.NewLinePoints(points)
		if err != nil {
			return nil, fmt.Errorf("yoy %s: %w", st.Source, err)
		}
		c := sourceColor(st.Source, i)
		line.Color = c
		line.Width = vg.Points(2)
		dots.GlyphStyle.Color = c
		p.Add(line, dots)
		p.Legend.Add(st.Source, line, dots)

		first = min(first, st.YoY[0].Year)
		last = max(last, st.YoY[len(st.YoY)-1].Year)
	}
	if first > last {
		return nil, fmt.Errorf("yoy: %w", ErrNoData)
	}

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Gray{Y: 128}
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(zero)

	p.X.Tick.Marker = yearTicks(first, last)
	return p, nil
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return p
}

// yearTicks labels every year on a numeric axis.
func yearTicks(first, last int) plot.ConstantTicks {
	var ticks plot.ConstantTicks
	for year := first; year <= last; year++ {
		ticks = append(ticks, plot.Tick{Value: float64(year), Label: strconv.Itoa(year)})
	}
	return ticks
}

// ContentType maps a render format to its MIME type.
func ContentType(format string) (string, bool) {
	switch format {
	case "svg":
		return "image/svg+xml", true
	case "png":
		return "image/png", true
	}
	return "", false
}

// Render writes p to w in format ("svg" or "png").
func Render(w io.Writer, p *plot.Plot, format string, width, height vg.Length) error {
	if _, ok := ContentType(format); !ok {
		return fmt.Errorf("%w: format %q", ErrUnknownChart, format)
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	return nil
}

// Save writes p to path; the format follows the file extension.
func Save(p *plot.Plot, path string) error {
	return p.Save(DefaultWidth, DefaultHeight, path)
}
