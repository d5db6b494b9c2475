// Package dashboard serves the growth dashboard. Every request runs the
// pipeline against the configured file; nothing is cached between requests.
package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/poweringforward/poweringforward/internal/aggregate"
	"github.com/poweringforward/poweringforward/internal/chart"
	"github.com/poweringforward/poweringforward/internal/config"
	"github.com/poweringforward/poweringforward/internal/mid"
	"github.com/poweringforward/poweringforward/internal/numfmt"
	"github.com/poweringforward/poweringforward/internal/pipeline"
	"github.com/poweringforward/poweringforward/internal/report"
	"github.com/poweringforward/poweringforward/internal/web"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	indexPage = "index.html"
	errorPage = "error.html"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var funcs = template.FuncMap{
	"twh":    numfmt.TWh,
	"num":    numfmt.Number,
	"signed": numfmt.Signed,
	"pct":    func(v float64) string { return numfmt.Percent(v, 2) },
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

type handlers struct {
	cfg config.Config
}

// New builds the dashboard application for cfg.
func New(shutdown chan os.Signal, cfg config.Config) (*web.App, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	app := web.NewApp(shutdown, cfg.SentryDSN, mid.Logger(), mid.Errors(""), mid.Panics())
	app.SetHTMLTemplate(tmpl)

	h := handlers{cfg: cfg}
	pages := mid.Errors(errorPage)

	app.Get("/", h.index, pages, mid.Panics())
	app.Get("/charts/:name", h.chart)
	app.Get("/api/analysis", h.analysis)
	app.Get("/download/annual.csv", h.annualCSV)
	app.Get("/download/report.xlsx", h.workbook)
	app.Get("/healthz", h.health)
	app.NoRoute(h.notFound, pages)

	return app, nil
}

// run executes the pipeline. Failures are server errors shown to the client.
func (h handlers) run() (*pipeline.Analysis, error) {
	a, err := pipeline.Run(h.cfg.DataPath, h.cfg.DatasetOptions()...)
	if err != nil {
		return nil, web.NewRequestError(err, http.StatusInternalServerError)
	}
	return a, nil
}

type indexView struct {
	Analysis    *pipeline.Analysis
	Charts      []string
	Table       tableView
	Summary     tableView
	Methodology template.HTML
}

type tableView struct {
	Header []string
	Rows   [][]string
}

func (h handlers) index(ctx *gin.Context) error {
	a, err := h.run()
	if err != nil {
		return err
	}

	view := indexView{
		Analysis:    a,
		Charts:      chart.Names,
		Table:       annualTable(a),
		Summary:     summaryTable(a),
		Methodology: template.HTML(report.HTML(report.Methodology)),
	}
	return web.RespondHTML(ctx, indexPage, view, http.StatusOK)
}

// annualTable is the pivot with a YoY column per source appended.
func annualTable(a *pipeline.Analysis) tableView {
	pv := a.Pivot()
	t := tableView{Header: pv.Header()}
	for _, st := range a.Stats {
		t.Header = append(t.Header, st.Source+"_YoY_Growth")
	}

	for _, row := range pv.Rows {
		cells := []string{fmt.Sprint(row.Year)}
		for _, c := range row.Cells {
			cells = append(cells, optional(c.OK, numfmt.Number(c.Value, 1)))
		}
		for _, st := range a.Stats {
			v, ok := aggregate.AnnualSeries{Points: st.YoY}.Value(row.Year)
			cells = append(cells, optional(ok, numfmt.Number(v, 2)))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func summaryTable(a *pipeline.Analysis) tableView {
	t := tableView{Header: []string{"Metric"}}
	labels := []string{
		"Starting Value",
		"Ending Value",
		"Total Growth",
		"CAGR",
		"Average Annual Increase",
		"Peak YoY Growth",
		"Trend",
	}
	for _, label := range labels {
		t.Rows = append(t.Rows, []string{label})
	}

	for i, m := range a.Metrics {
		st := a.Stats[i]
		t.Header = append(t.Header, m.Source)
		values := []string{
			fmt.Sprintf("%s (%d)", numfmt.TWh(m.StartValue), m.StartYear),
			fmt.Sprintf("%s (%d)", numfmt.TWh(m.EndValue), m.EndYear),
			numfmt.Percent(st.TotalGrowth, 1),
			numfmt.Percent(m.Percent(), 2),
			numfmt.Number(st.AvgAnnualIncrease, 1) + " TWh/year",
			numfmt.Percent(st.PeakYoY, 1),
			string(st.Trend),
		}
		for j, v := range values {
			t.Rows[j] = append(t.Rows[j], v)
		}
	}
	return t
}

func (h handlers) chart(ctx *gin.Context) error {
	file := ctx.Param("name")
	format := strings.TrimPrefix(path.Ext(file), ".")
	name := strings.TrimSuffix(file, path.Ext(file))

	contentType, ok := ContentTypeFor(name, format)
	if !ok {
		return web.NewRequestError(fmt.Errorf("%w: %s", chart.ErrUnknownChart, file), http.StatusNotFound)
	}

	a, err := h.run()
	if err != nil {
		return err
	}

	p, err := chart.Build(name, a)
	if err != nil {
		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, p, format, chart.DefaultWidth, chart.DefaultHeight); err != nil {
		return web.NewRequestError(err, http.StatusInternalServerError)
	}
	return web.RespondData(ctx, contentType, buf.Bytes(), http.StatusOK)
}

// ContentTypeFor reports whether name.format is a chart the dashboard serves.
func ContentTypeFor(name, format string) (string, bool) {
	known := false
	for _, n := range chart.Names {
		if n == name {
			known = true
		}
	}
	if !known {
		return "", false
	}
	return chart.ContentType(format)
}

func (h handlers) analysis(ctx *gin.Context) error {
	a, err := h.run()
	if err != nil {
		return err
	}
	return web.Respond(ctx, a, http.StatusOK)
}

func (h handlers) annualCSV(ctx *gin.Context) error {
	a, err := h.run()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.WriteAnnualCSV(&buf, aggregate.NewPivot(a.Series)); err != nil {
		return web.NewRequestError(err, http.StatusInternalServerError)
	}
	ctx.Header("Content-Disposition", "attachment; filename=eia_renewable_data.csv")
	return web.RespondData(ctx, "text/csv; charset=utf-8", buf.Bytes(), http.StatusOK)
}

func (h handlers) workbook(ctx *gin.Context) error {
	a, err := h.run()
	if err != nil {
		return err
	}

	f, err := report.Workbook(a)
	if err != nil {
		return web.NewRequestError(err, http.StatusInternalServerError)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return web.NewRequestError(err, http.StatusInternalServerError)
	}
	ctx.Header("Content-Disposition", "attachment; filename=powering_forward.xlsx")
	return web.RespondData(ctx, xlsxContentType, buf.Bytes(), http.StatusOK)
}

func (h handlers) health(ctx *gin.Context) error {
	return web.Respond(ctx, gin.H{"status": "ok"}, http.StatusOK)
}

func (h handlers) notFound(ctx *gin.Context) error {
	return web.NewRequestError(fmt.Errorf("%w: %s", web.ErrNotFound, ctx.Request.URL.Path), http.StatusNotFound)
}

func optional(ok bool, s string) string {
	if ok {
		return s
	}
	return "-"
}
