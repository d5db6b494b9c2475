package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/poweringforward/poweringforward/internal/aggregate"
	"github.com/poweringforward/poweringforward/internal/dataset"
	"github.com/poweringforward/poweringforward/internal/pipeline"
)

func sampleAnalysis(t *testing.T) *pipeline.Analysis {
	t.Helper()
	a, err := pipeline.Analyze(dataset.Sample())
	require.NoError(t, err)
	return a
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleAnalysis(t))

	for _, want := range []string{
		"## Renewable Generation Growth 2014-2024",
		"- **Solar**: 18.3 TWh → 188.5 TWh, CAGR **26.27%**",
		"- **Wind**: 181.8 TWh → 447.6 TWh, CAGR **9.43%**",
		"- **Total Renewable 2024**: 636.1 TWh",
		"| Year | Solar_TWh | Wind_TWh | Total Renewable_TWh |",
		"| 2014 | 18.3 | 181.8 | 200.1 |",
		"Solar CAGR exceeds Wind by **16.84 percentage points**",
		"explosive growth",
		"### 🧮 Methodology",
	} {
		assert.Contains(t, md, want)
	}
}

func TestHTML(t *testing.T) {
	out := string(HTML("## Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n[EIA](https://www.eia.gov)\n"))

	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, `target="_blank"`)
}

func TestWriteAnnualCSVRoundTrips(t *testing.T) {
	a := sampleAnalysis(t)

	var buf bytes.Buffer
	require.NoError(t, WriteAnnualCSV(&buf, aggregate.NewPivot(a.Series)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "Year,Solar_TWh,Wind_TWh", lines[0])
	assert.Equal(t, "2014,18.3,181.8", lines[1])
	assert.Equal(t, "2024,188.5,447.6", lines[11])

	path := filepath.Join(t.TempDir(), "eia_renewable_data.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	again, err := pipeline.Run(path)
	require.NoError(t, err)
	assert.Equal(t, a.Metrics, again.Metrics)
}

func TestWriteAnnualCSVMissingYears(t *testing.T) {
	pv := aggregate.NewPivot([]aggregate.AnnualSeries{
		{Source: "Solar", Points: []aggregate.Point{{Year: 2014, Value: 1.5}, {Year: 2015, Value: 2}}},
		{Source: "Wind", Points: []aggregate.Point{{Year: 2015, Value: 10}}},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteAnnualCSV(&buf, pv))
	assert.Equal(t, "Year,Solar_TWh,Wind_TWh\n2014,1.5,\n2015,2,10\n", buf.String())
}

func TestWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveWorkbook(sampleAnalysis(t), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetAnnual, SheetMetrics, SheetYoY}, f.GetSheetList())

	annual, err := f.GetRows(SheetAnnual)
	require.NoError(t, err)
	require.Len(t, annual, 12)
	assert.Equal(t, []string{"Year", "Solar_TWh", "Wind_TWh", "Total Renewable_TWh"}, annual[0])
	assert.Equal(t, []string{"2014", "18.3", "181.8", "200.1"}, annual[1])

	metrics, err := f.GetRows(SheetMetrics)
	require.NoError(t, err)
	require.Len(t, metrics, 3)
	assert.Equal(t, "Solar", metrics[1][0])
	assert.Equal(t, "26.27", metrics[1][6])
	assert.Equal(t, "explosive growth", metrics[1][11])

	yoy, err := f.GetRows(SheetYoY)
	require.NoError(t, err)
	assert.Equal(t, []string{"Year", "Solar_YoY_Growth", "Wind_YoY_Growth"}, yoy[0])
	assert.Equal(t, "2015", yoy[1][0])
}
