package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/poweringforward/poweringforward/internal/aggregate"
	"github.com/poweringforward/poweringforward/internal/pipeline"
)

const (
	SheetAnnual  = "Annual_Generation"
	SheetMetrics = "Growth_Metrics"
	SheetYoY     = "YoY_Growth"
)

// Workbook builds a three-sheet workbook: the annual table, one row of
// growth metrics per source, and year-over-year growth.
func Workbook(a *pipeline.Analysis) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetAnnual); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetMetrics, SheetYoY} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	pv := a.Pivot()
	if err := writeTable(f, SheetAnnual, bold, pv.Header(), pivotRows(pv)); err != nil {
		return nil, err
	}

	metricsHeader := []string{"Source", "Start Year", "End Year", "Start (TWh)", "End (TWh)", "Years",
		"CAGR (%)", "Total Growth (%)", "Avg Annual Increase (TWh)", "Peak YoY (%)", "Peak Year", "Trend"}
	var metricRows [][]interface{}
	for i, m := range a.Metrics {
		st := a.Stats[i]
		metricRows = append(metricRows, []interface{}{
			m.Source, m.StartYear, m.EndYear, m.StartValue, m.EndValue, m.Years,
			round(m.Percent(), 2), round(st.TotalGrowth, 1), round(st.AvgAnnualIncrease, 2),
			round(st.PeakYoY, 1), st.PeakYear, string(st.Trend),
		})
	}
	if err := writeTable(f, SheetMetrics, bold, metricsHeader, metricRows); err != nil {
		return nil, err
	}

	yoy := make([]aggregate.AnnualSeries, len(a.Stats))
	for i, st := range a.Stats {
		yoy[i] = aggregate.AnnualSeries{Source: st.Source, Points: st.YoY}
	}
	yoyPivot := aggregate.NewPivot(yoy)
	yoyHeader := []string{"Year"}
	for _, source := range yoyPivot.Sources {
		yoyHeader = append(yoyHeader, source+"_YoY_Growth")
	}
	if err := writeTable(f, SheetYoY, bold, yoyHeader, pivotRows(yoyPivot)); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// SaveWorkbook writes the workbook for a to path.
func SaveWorkbook(a *pipeline.Analysis, path string) error {
	f, err := Workbook(a)
	if err != nil {
		return fmt.Errorf("building workbook: %w", err)
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, headerStyle int, header []string, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// pivotRows leaves missing cells as nil so they stay blank.
func pivotRows(pv aggregate.Pivot) [][]interface{} {
	rows := make([][]interface{}, len(pv.Rows))
	for i, r := range pv.Rows {
		row := []interface{}{r.Year}
		for _, c := range r.Cells {
			if c.OK {
				row = append(row, round(c.Value, 4))
			} else {
				row = append(row, nil)
			}
		}
		rows[i] = row
	}
	return rows
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
