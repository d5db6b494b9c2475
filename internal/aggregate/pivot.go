package aggregate

// Cell is one pivot value; OK is false when the source has no data that year.
type Cell struct {
	Value float64
	OK    bool
}

type PivotRow struct {
	Year  int
	Cells []Cell
}

// Pivot is the wide Year | <Source> view of a set of series.
type Pivot struct {
	Sources []string
	Rows    []PivotRow
}

// NewPivot lays the series out side by side, one row per year in the union
// of their years. Sources keep the order they are given in.
func NewPivot(series []AnnualSeries) Pivot {
	var pv Pivot
	years := make(map[int]float64)
	for _, s := range series {
		pv.Sources = append(pv.Sources, s.Source)
		for _, p := range s.Points {
			years[p.Year] = 0
		}
	}

	for _, year := range sortedYears(years) {
		row := PivotRow{Year: year, Cells: make([]Cell, len(series))}
		for i, s := range series {
			if v, ok := s.Value(year); ok {
				row.Cells[i] = Cell{Value: v, OK: true}
			}
		}
		pv.Rows = append(pv.Rows, row)
	}
	return pv
}

// Header returns the column names used when the pivot is written out.
func (pv Pivot) Header() []string {
	header := []string{"Year"}
	for _, s := range pv.Sources {
		header = append(header, s+"_TWh")
	}
	return header
}
