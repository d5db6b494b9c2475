// Package aggregate reshapes loaded rows into annual national totals.
package aggregate

import (
	"sort"

	"github.com/poweringforward/poweringforward/internal/dataset"
)

// TotalSource names the combined series returned by Total.
const TotalSource = "Total Renewable"

type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// AnnualSeries holds one value per year for a single source, in TWh.
// Points are ordered by year and years are unique.
type AnnualSeries struct {
	Source string       `json:"source"`
	Unit   dataset.Unit `json:"unit"`
	Points []Point      `json:"points"`
}

func (s AnnualSeries) Len() int { return len(s.Points) }

func (s AnnualSeries) First() Point { return s.Points[0] }

func (s AnnualSeries) Last() Point { return s.Points[len(s.Points)-1] }

func (s AnnualSeries) Years() []int {
	years := make([]int, len(s.Points))
	for i, p := range s.Points {
		years[i] = p.Year
	}
	return years
}

func (s AnnualSeries) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// Value returns the value for year and whether the year is present.
func (s AnnualSeries) Value(year int) (float64, bool) {
	i := sort.Search(len(s.Points), func(i int) bool { return s.Points[i].Year >= year })
	if i < len(s.Points) && s.Points[i].Year == year {
		return s.Points[i].Value, true
	}
	return 0, false
}

// Annual groups the table by (year, source) and sums generation across
// states and months. The result has one series per source, ordered by
// source name, converted to TWh. Years without rows are left out.
func Annual(t *dataset.Table) []AnnualSeries {
	if t == nil || len(t.Records) == 0 {
		return nil
	}

	yearlySourceData := make(map[string]map[int]float64)
	for _, r := range t.Records {
		if yearlySourceData[r.Source] == nil {
			yearlySourceData[r.Source] = make(map[int]float64)
		}
		yearlySourceData[r.Source][r.Year] += r.Generation
	}

	divisor := t.Unit.PerTWh()
	series := make([]AnnualSeries, 0, len(yearlySourceData))
	for _, source := range t.Sources() {
		yearlyData := yearlySourceData[source]
		s := AnnualSeries{Source: source, Unit: dataset.UnitTWh}
		for _, year := range sortedYears(yearlyData) {
			s.Points = append(s.Points, Point{Year: year, Value: yearlyData[year] / divisor})
		}
		series = append(series, s)
	}
	return series
}

// Total sums the series year by year over the union of their years.
func Total(series []AnnualSeries) AnnualSeries {
	sums := make(map[int]float64)
	for _, s := range series {
		for _, p := range s.Points {
			sums[p.Year] += p.Value
		}
	}

	total := AnnualSeries{Source: TotalSource, Unit: dataset.UnitTWh}
	for _, year := range sortedYears(sums) {
		total.Points = append(total.Points, Point{Year: year, Value: sums[year]})
	}
	return total
}

func sortedYears(yearlyData map[int]float64) []int {
	years := make([]int, 0, len(yearlyData))
	for year := range yearlyData {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
