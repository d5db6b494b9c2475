// Package growth computes compound annual growth rates and the
// year-over-year statistics shown next to them.
package growth

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/poweringforward/poweringforward/internal/aggregate"
)

var (
	ErrInvalidRange = errors.New("invalid range")
	ErrDivideByZero = errors.New("divide by zero")
)

// Metric is the CAGR of one series between its first and last year.
// CAGR is a fraction: 0.1472 means 14.72% a year.
type Metric struct {
	Source     string  `json:"source"`
	StartYear  int     `json:"startYear"`
	EndYear    int     `json:"endYear"`
	StartValue float64 `json:"startValue"`
	EndValue   float64 `json:"endValue"`
	Years      int     `json:"years"`
	CAGR       float64 `json:"cagr"`
}

func (m Metric) Percent() float64 { return m.CAGR * 100 }

// Change is the absolute increase between the first and last year.
func (m Metric) Change() float64 { return m.EndValue - m.StartValue }

// Rate is the closed form (end/start)^(1/years) - 1.
func Rate(start, end float64, years int) (float64, error) {
	if years <= 0 {
		return 0, fmt.Errorf("%w: %d years", ErrInvalidRange, years)
	}
	if start == 0 {
		return 0, fmt.Errorf("%w: start value is zero", ErrDivideByZero)
	}
	ratio := end / start
	if ratio < 0 {
		return 0, fmt.Errorf("%w: start %g and end %g differ in sign", ErrInvalidRange, start, end)
	}
	return math.Pow(ratio, 1/float64(years)) - 1, nil
}

// CAGR measures s from its first to its last point.
func CAGR(s aggregate.AnnualSeries) (Metric, error) {
	if s.Len() < 2 {
		return Metric{}, fmt.Errorf("%s: %w: need at least two years, have %d", s.Source, ErrInvalidRange, s.Len())
	}

	first, last := s.First(), s.Last()
	m := Metric{
		Source:     s.Source,
		StartYear:  first.Year,
		EndYear:    last.Year,
		StartValue: first.Value,
		EndValue:   last.Value,
		Years:      last.Year - first.Year,
	}

	rate, err := Rate(first.Value, last.Value, m.Years)
	if err != nil {
		return Metric{}, fmt.Errorf("%s: %w", s.Source, err)
	}
	m.CAGR = rate
	return m, nil
}

// YoY returns the percent change of every point against the one before it.
// Points whose previous value is zero are skipped.
func YoY(s aggregate.AnnualSeries) []aggregate.Point {
	var out []aggregate.Point
	for i := 1; i < len(s.Points); i++ {
		prev := s.Points[i-1].Value
		if prev == 0 {
			continue
		}
		out = append(out, aggregate.Point{
			Year:  s.Points[i].Year,
			Value: (s.Points[i].Value - prev) / prev * 100,
		})
	}
	return out
}

// Trend labels the overall shape of a series.
type Trend string

const (
	TrendExplosive Trend = "explosive growth"
	TrendHigh      Trend = "high growth"
	TrendModerate  Trend = "moderate growth"
	TrendStable    Trend = "stable growth"
	TrendDeclining Trend = "declining"
	TrendVolatile  Trend = "volatile"
	TrendMature    Trend = "mature"
)

// Classify maps total growth and YoY volatility, both in percent, to a Trend.
func Classify(totalGrowth, volatility float64) Trend {
	switch {
	case totalGrowth > 500:
		return TrendExplosive
	case totalGrowth > 200:
		return TrendHigh
	case totalGrowth > 100:
		return TrendModerate
	case totalGrowth > 50:
		return TrendStable
	case totalGrowth < 0:
		return TrendDeclining
	case volatility > 30:
		return TrendVolatile
	}
	return TrendMature
}

// Stats summarises a series for the data tab.
type Stats struct {
	Source            string            `json:"source"`
	TotalGrowth       float64           `json:"totalGrowth"`       // percent
	AvgAnnualIncrease float64           `json:"avgAnnualIncrease"` // TWh per year
	PeakYear          int               `json:"peakYear"`
	PeakValue         float64           `json:"peakValue"`
	PeakYoY           float64           `json:"peakYoY"`
	MeanYoY           float64           `json:"meanYoY"`
	Volatility        float64           `json:"volatility"` // population std dev of YoY
	Trend             Trend             `json:"trend"`
	YoY               []aggregate.Point `json:"yoy"`
}

func Summarize(s aggregate.AnnualSeries) (Stats, error) {
	m, err := CAGR(s)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Source:            s.Source,
		TotalGrowth:       m.Change() / m.StartValue * 100,
		AvgAnnualIncrease: m.Change() / float64(m.Years),
		YoY:               YoY(s),
	}

	values := s.Values()
	peak := floats.MaxIdx(values)
	st.PeakYear, st.PeakValue = s.Points[peak].Year, values[peak]

	if len(st.YoY) > 0 {
		rates := aggregate.AnnualSeries{Points: st.YoY}.Values()
		var variance float64
		st.PeakYoY = floats.Max(rates)
		st.MeanYoY, variance = stat.PopMeanVariance(rates, nil)
		st.Volatility = math.Sqrt(variance)
	}
	st.Trend = Classify(st.TotalGrowth, st.Volatility)
	return st, nil
}

// Differential is the gap in percentage points between the fastest and
// the runner-up CAGR.
type Differential struct {
	Leader   string  `json:"leader"`
	Follower string  `json:"follower"`
	Points   float64 `json:"points"`
}

// Compare returns nil when fewer than two metrics are given.
func Compare(metrics []Metric) *Differential {
	if len(metrics) < 2 {
		return nil
	}
	lead, next := 0, 1
	if metrics[next].CAGR > metrics[lead].CAGR {
		lead, next = next, lead
	}
	for i := 2; i < len(metrics); i++ {
		switch {
		case metrics[i].CAGR > metrics[lead].CAGR:
			lead, next = i, lead
		case metrics[i].CAGR > metrics[next].CAGR:
			next = i
		}
	}
	return &Differential{
		Leader:   metrics[lead].Source,
		Follower: metrics[next].Source,
		Points:   (metrics[lead].CAGR - metrics[next].CAGR) * 100,
	}
}
