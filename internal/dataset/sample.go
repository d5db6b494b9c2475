package dataset

// Reference U.S. annual generation in TWh, 2014-2024, from the EIA monthly
// generation reports.
var (
	sampleYears = []int{2014, 2015, 2016, 2017, 2018, 2019, 2020, 2021, 2022, 2023, 2024}
	sampleSolar = []float64{18.3, 26.5, 36.8, 52.9, 66.6, 71.3, 90.9, 115.6, 145.8, 163.6, 188.5}
	sampleWind  = []float64{181.8, 190.7, 226.5, 254.3, 275.8, 303.4, 338.0, 379.5, 434.8, 425.2, 447.6}
)

// Sample returns the reference dataset as a wide-layout table.
func Sample() *Table {
	t := &Table{Path: "sample", Layout: LayoutWide, Unit: UnitTWh}
	for i, year := range sampleYears {
		t.Records = append(t.Records,
			RawRecord{Year: year, Source: "Solar", Generation: sampleSolar[i]},
			RawRecord{Year: year, Source: "Wind", Generation: sampleWind[i]},
		)
	}
	return t
}
