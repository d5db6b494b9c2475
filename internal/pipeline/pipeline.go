// Package pipeline runs the load, aggregate and measure stages once and
// returns everything the presenters need.
package pipeline

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/poweringforward/poweringforward/internal/aggregate"
	"github.com/poweringforward/poweringforward/internal/dataset"
	"github.com/poweringforward/poweringforward/internal/growth"
)

// Analysis is the result of one run. Nothing in it is shared between runs.
type Analysis struct {
	RunID        string                   `json:"runId"`
	Path         string                   `json:"path"`
	Layout       string                   `json:"layout"`
	Rows         int                      `json:"rows"`
	FirstYear    int                      `json:"firstYear"`
	LastYear     int                      `json:"lastYear"`
	Series       []aggregate.AnnualSeries `json:"series"`
	Total        *aggregate.AnnualSeries  `json:"total,omitempty"`
	Metrics      []growth.Metric          `json:"metrics"`
	Stats        []growth.Stats           `json:"stats"`
	Differential *growth.Differential     `json:"differential,omitempty"`
}

// Pivot returns the annual table, with the total column when there is one.
func (a *Analysis) Pivot() aggregate.Pivot {
	series := a.Series
	if a.Total != nil {
		series = append(series[:len(series):len(series)], *a.Total)
	}
	return aggregate.NewPivot(series)
}

// Metric returns the metric for source, if it was computed.
func (a *Analysis) Metric(source string) (growth.Metric, bool) {
	for _, m := range a.Metrics {
		if m.Source == source {
			return m, true
		}
	}
	return growth.Metric{}, false
}

// Run loads path and analyses it.
func Run(path string, opts ...dataset.Option) (*Analysis, error) {
	table, err := dataset.Load(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}
	return Analyze(table)
}

// Analyze runs every stage after loading. Any metric error fails the run.
func Analyze(table *dataset.Table) (*Analysis, error) {
	a := &Analysis{
		RunID:  uuid.NewString(),
		Path:   table.Path,
		Layout: table.Layout.String(),
		Rows:   len(table.Records),
	}
	log.Printf("📊 [%s] %d %s-layout rows read from %s", a.RunID, a.Rows, a.Layout, a.Path)

	a.Series = aggregate.Annual(table)
	if len(a.Series) == 0 {
		return nil, fmt.Errorf("%w: no energy source rows in %s", growth.ErrInvalidRange, a.Path)
	}
	a.FirstYear, a.LastYear = table.YearSpan()

	for _, s := range a.Series {
		m, err := growth.CAGR(s)
		if err != nil {
			return nil, fmt.Errorf("measuring growth: %w", err)
		}
		st, err := growth.Summarize(s)
		if err != nil {
			return nil, fmt.Errorf("summarising growth: %w", err)
		}
		a.Metrics = append(a.Metrics, m)
		a.Stats = append(a.Stats, st)
	}

	if len(a.Series) > 1 {
		total := aggregate.Total(a.Series)
		a.Total = &total
	}
	a.Differential = growth.Compare(a.Metrics)

	log.Printf("📈 [%s] %d series measured over %d-%d", a.RunID, len(a.Series), a.FirstYear, a.LastYear)
	return a, nil
}
