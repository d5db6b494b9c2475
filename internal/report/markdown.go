// Package report writes the analysis out as a markdown summary, the annual
// CSV and an Excel workbook.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/poweringforward/poweringforward/internal/aggregate"
	"github.com/poweringforward/poweringforward/internal/numfmt"
	"github.com/poweringforward/poweringforward/internal/pipeline"
)

// Methodology describes how the figures are produced.
const Methodology = `- **Data source:** EIA-923 monthly generation by state, producer type and energy source.
- **Filtering:** only "Total Electric Power Industry" rows are kept, so producer subtotals are not counted twice.
- **Categorisation:** sources containing "wind" count as Wind, otherwise sources containing "solar" count as Solar.
- **Aggregation:** rows are grouped by year and summed across states and months, then converted from MWh to TWh (÷ 1,000,000).
- **CAGR:** (End Value / Start Value)^(1 / Years) − 1, using the first and last year of each series.
- **Year-over-year growth:** percent change against the previous year; years after a zero value are skipped.
`

// Markdown renders the summary report for a.
func Markdown(a *pipeline.Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# ⚡ Powering Forward\n## Renewable Generation Growth %d-%d\n\n", a.FirstYear, a.LastYear)

	b.WriteString("### 📊 Executive Summary\n\n")
	fmt.Fprintf(&b, "- **Dataset**: %s (%s layout, %s rows)\n", a.Path, a.Layout, numfmt.Int(a.Rows))
	for _, m := range a.Metrics {
		fmt.Fprintf(&b, "- **%s**: %s → %s, CAGR **%s**\n",
			m.Source, numfmt.TWh(m.StartValue), numfmt.TWh(m.EndValue), numfmt.Percent(m.Percent(), 2))
	}
	if a.Total != nil && a.Total.Len() > 0 {
		fmt.Fprintf(&b, "- **%s %d**: %s\n", aggregate.TotalSource, a.Total.First().Year, numfmt.TWh(a.Total.First().Value))
		fmt.Fprintf(&b, "- **%s %d**: %s\n", aggregate.TotalSource, a.Total.Last().Year, numfmt.TWh(a.Total.Last().Value))
	}

	b.WriteString("\n### 📈 Growth Rates\n\n")
	b.WriteString("| Source | Start | End | Total Growth | CAGR | Avg Annual Increase | Peak YoY | Trend |\n")
	b.WriteString("|--------|-------|-----|--------------|------|---------------------|----------|-------|\n")
	for i, m := range a.Metrics {
		st := a.Stats[i]
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s TWh/year | %s | %s |\n",
			m.Source,
			numfmt.TWh(m.StartValue),
			numfmt.TWh(m.EndValue),
			numfmt.Percent(st.TotalGrowth, 1),
			numfmt.Percent(m.Percent(), 2),
			numfmt.Number(st.AvgAnnualIncrease, 1),
			numfmt.Percent(st.PeakYoY, 1),
			st.Trend)
	}

	b.WriteString("\n### 📋 Annual Generation (TWh)\n\n")
	pv := a.Pivot()
	header := pv.Header()
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(header)) + "\n")
	for _, row := range pv.Rows {
		fmt.Fprintf(&b, "| %d |", row.Year)
		for _, c := range row.Cells {
			if c.OK {
				fmt.Fprintf(&b, " %s |", numfmt.Number(c.Value, 1))
			} else {
				b.WriteString(" - |")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n### 🔍 Key Findings\n\n")
	if d := a.Differential; d != nil {
		fmt.Fprintf(&b, "- %s CAGR exceeds %s by **%s percentage points**.\n", d.Leader, d.Follower, numfmt.Number(d.Points, 2))
	}
	for _, st := range a.Stats {
		fmt.Fprintf(&b, "- %s shows %s, peaking at %s in %d.\n", st.Source, st.Trend, numfmt.TWh(st.PeakValue), st.PeakYear)
	}

	b.WriteString("\n### 🧮 Methodology\n\n")
	b.WriteString(Methodology)

	fmt.Fprintf(&b, "\n---\n*Generated by Powering Forward - %s*\n", time.Now().Format("2 January 2006"))
	return b.String()
}

// HTML converts markdown to HTML. Links open in a new tab.
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML([]byte(md), p, renderer)
}
