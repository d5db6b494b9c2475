package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poweringforward/poweringforward/internal/dataset"
)

func TestAnnualSumsStatesAndMonths(t *testing.T) {
	table := &dataset.Table{
		Layout: dataset.LayoutLong,
		Unit:   dataset.UnitMWh,
		Records: []dataset.RawRecord{
			{State: "CA", Year: 2015, Month: 1, Source: "Solar", Generation: 1_000_000},
			{State: "TX", Year: 2014, Month: 2, Source: "Wind", Generation: 2_000_000},
			{State: "CA", Year: 2014, Month: 1, Source: "Solar", Generation: 500_000},
			{State: "AZ", Year: 2014, Month: 7, Source: "Solar", Generation: 1_500_000},
			{State: "IA", Year: 2016, Month: 3, Source: "Wind", Generation: 3_000_000},
		},
	}

	got := Annual(table)
	want := []AnnualSeries{
		{Source: "Solar", Unit: dataset.UnitTWh, Points: []Point{{2014, 2}, {2015, 1}}},
		{Source: "Wind", Unit: dataset.UnitTWh, Points: []Point{{2014, 2}, {2016, 3}}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Annual() mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnualIsIdempotentOnAnnualRows(t *testing.T) {
	table := dataset.Sample()

	first := Annual(table)
	require.Len(t, first, 2)

	// feed the annual totals back in as one row per year
	again := &dataset.Table{Layout: dataset.LayoutWide, Unit: dataset.UnitTWh}
	for _, s := range first {
		for _, p := range s.Points {
			again.Records = append(again.Records, dataset.RawRecord{Year: p.Year, Source: s.Source, Generation: p.Value})
		}
	}

	if diff := cmp.Diff(first, Annual(again)); diff != "" {
		t.Errorf("re-aggregation changed the series (-first +again):\n%s", diff)
	}
	assert.Equal(t, 18.3, first[0].First().Value)
	assert.Equal(t, 447.6, first[1].Last().Value)
}

func TestAnnualEmpty(t *testing.T) {
	assert.Nil(t, Annual(nil))
	assert.Nil(t, Annual(&dataset.Table{}))
}

func TestTotal(t *testing.T) {
	series := []AnnualSeries{
		{Source: "Solar", Points: []Point{{2014, 1}, {2015, 2}}},
		{Source: "Wind", Points: []Point{{2015, 10}, {2016, 20}}},
	}

	total := Total(series)
	assert.Equal(t, TotalSource, total.Source)
	assert.Equal(t, []Point{{2014, 1}, {2015, 12}, {2016, 20}}, total.Points)
}

func TestSeriesAccessors(t *testing.T) {
	s := AnnualSeries{Source: "Wind", Points: []Point{{2014, 1}, {2016, 3}}}

	assert.Equal(t, []int{2014, 2016}, s.Years())
	assert.Equal(t, []float64{1, 3}, s.Values())

	v, ok := s.Value(2016)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok = s.Value(2015)
	assert.False(t, ok, "a year without rows is absent, not interpolated")
}

func TestPivot(t *testing.T) {
	series := []AnnualSeries{
		{Source: "Solar", Points: []Point{{2014, 1}, {2015, 2}}},
		{Source: "Wind", Points: []Point{{2015, 10}}},
	}

	pv := NewPivot(series)
	assert.Equal(t, []string{"Year", "Solar_TWh", "Wind_TWh"}, pv.Header())
	require.Len(t, pv.Rows, 2)
	assert.Equal(t, PivotRow{Year: 2014, Cells: []Cell{{1, true}, {0, false}}}, pv.Rows[0])
	assert.Equal(t, PivotRow{Year: 2015, Cells: []Cell{{2, true}, {10, true}}}, pv.Rows[1])
}
