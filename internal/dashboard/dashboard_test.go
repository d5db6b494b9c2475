package dashboard

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/poweringforward/poweringforward/internal/config"
	"github.com/poweringforward/poweringforward/internal/pipeline"
)

const annualCSV = `Year,Solar_TWh,Wind_TWh
2014,18.3,181.8
2015,26.5,190.7
2016,36.8,226.5
2017,52.9,254.3
2018,66.6,275.8
2019,71.3,303.4
2020,90.9,338
2021,115.6,379.5
2022,145.8,434.8
2023,163.6,425.2
2024,188.5,447.6
`

func newServer(t *testing.T, dataPath string) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.DataPath = dataPath
	app, err := New(nil, cfg)
	require.NoError(t, err)
	return app
}

func writeData(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eia_renewable_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(annualCSV), 0o644))
	return path
}

func get(t *testing.T, h http.Handler, path, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	rec := get(t, newServer(t, writeData(t)), "/", "text/html")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Solar CAGR")
	assert.Contains(t, body, "26.27%")
	assert.Contains(t, body, "9.43%")
	assert.Contains(t, body, "18.3 TWh → 188.5 TWh")
	assert.Contains(t, body, `<div class="value">&#43;16.8 pp</div>`)
	assert.Contains(t, body, `src="/charts/generation.svg"`)
	assert.Contains(t, body, "<th>Total Renewable_TWh</th>")
	assert.Contains(t, body, "<li><strong>CAGR:</strong>")
}

func TestIndexShowsPipelineErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	h := newServer(t, missing)

	rec := get(t, h, "/", "text/html")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "dataset file not found")
	assert.Contains(t, rec.Body.String(), missing)

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Year,Solar_TWh\n2014,0\n2015,3\n"), 0o644))
	rec = get(t, newServer(t, bad), "/", "text/html")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "divide by zero")
}

func TestCharts(t *testing.T) {
	h := newServer(t, writeData(t))

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{path: "/charts/generation.svg", status: http.StatusOK, contentType: "image/svg+xml"},
		{path: "/charts/cagr.png", status: http.StatusOK, contentType: "image/png"},
		{path: "/charts/yoy.svg", status: http.StatusOK, contentType: "image/svg+xml"},
		{path: "/charts/pie.svg", status: http.StatusNotFound},
		{path: "/charts/cagr.gif", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path, "")
			assert.Equal(t, tt.status, rec.Code)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
				assert.NotZero(t, rec.Body.Len())
			}
		})
	}
}

func TestAnalysisAPI(t *testing.T) {
	rec := get(t, newServer(t, writeData(t)), "/api/analysis", "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	var a pipeline.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	require.Len(t, a.Metrics, 2)
	assert.Equal(t, "Solar", a.Metrics[0].Source)
	assert.InDelta(t, 0.2627, a.Metrics[0].CAGR, 1e-4)
	assert.Equal(t, 2014, a.FirstYear)
	require.NotNil(t, a.Differential)
	assert.Equal(t, "Solar", a.Differential.Leader)
}

func TestAnalysisAPIError(t *testing.T) {
	rec := get(t, newServer(t, filepath.Join(t.TempDir(), "missing.csv")), "/api/analysis", "application/json")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "dataset file not found")
}

func TestDownloads(t *testing.T) {
	h := newServer(t, writeData(t))

	rec := get(t, h, "/download/annual.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, annualCSV, rec.Body.String())

	rec = get(t, h, "/download/report.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 3)
}

func TestHealthAndNotFound(t *testing.T) {
	h := newServer(t, filepath.Join(t.TempDir(), "missing.csv"))

	rec := get(t, h, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(t, h, "/nowhere", "text/html")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404 Not Found")
}

func TestSummaryTableUsesEachSourceSpan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uneven.csv")
	require.NoError(t, os.WriteFile(path, []byte("Year,Solar_TWh,Wind_TWh\n2014,,100\n2015,10,110\n2016,20,121\n"), 0o644))

	a, err := pipeline.Run(path)
	require.NoError(t, err)

	sum := summaryTable(a)
	assert.Equal(t, []string{"Metric", "Solar", "Wind"}, sum.Header)
	assert.Equal(t, []string{"Starting Value", "10.0 TWh (2015)", "100.0 TWh (2014)"}, sum.Rows[0])
	assert.Equal(t, []string{"Ending Value", "20.0 TWh (2016)", "121.0 TWh (2016)"}, sum.Rows[1])
}

func TestContentTypeFor(t *testing.T) {
	ct, ok := ContentTypeFor("yoy", "png")
	assert.True(t, ok)
	assert.Equal(t, "image/png", ct)

	_, ok = ContentTypeFor("yoy", "pdf")
	assert.False(t, ok)
}
