package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/poweringforward/poweringforward/internal/aggregate"
	"github.com/poweringforward/poweringforward/internal/chart"
	"github.com/poweringforward/poweringforward/internal/config"
	"github.com/poweringforward/poweringforward/internal/dataset"
	"github.com/poweringforward/poweringforward/internal/pipeline"
	"github.com/poweringforward/poweringforward/internal/report"
)

// prepare aggregates a raw EIA export into the annual CSV the dashboard reads.
func prepare(args []string) error {
	fs := newFlagSet("prepare")
	out := fs.String("out", config.DefaultDataPath, "annual CSV to write")
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	table, err := dataset.Load(cfg.DataPath, cfg.DatasetOptions()...)
	if err != nil {
		return err
	}
	log.Printf("📊 %d rows kept from %s", len(table.Records), cfg.DataPath)

	series := aggregate.Annual(table)
	if len(series) == 0 {
		return fmt.Errorf("no wind or solar rows in %s", cfg.DataPath)
	}
	if err := writeAnnual(*out, aggregate.NewPivot(series)); err != nil {
		return err
	}

	first, last := table.YearSpan()
	log.Printf("💾 %d sources, %d-%d, saved to %s", len(series), first, last, *out)
	return nil
}

// sample writes the built-in 2014-2024 dataset.
func sample(args []string) error {
	fs := newFlagSet("sample")
	out := fs.String("out", config.DefaultDataPath, "annual CSV to write")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := writeAnnual(*out, aggregate.NewPivot(aggregate.Annual(dataset.Sample()))); err != nil {
		return err
	}
	log.Printf("💾 sample dataset saved to %s", *out)
	return nil
}

func writeAnnual(path string, pv aggregate.Pivot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteAnnualCSV(f, pv); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeReport saves the workbook and, when asked, the chart images and the
// markdown summary.
func writeReport(args []string) error {
	fs := newFlagSet("report")
	out := fs.String("out", "powering_forward.xlsx", "workbook to write")
	chartsDir := fs.String("charts", "", "directory for PNG charts (skipped when empty)")
	summary := fs.String("summary", "", "markdown summary to write (skipped when empty)")
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	a, err := pipeline.Run(cfg.DataPath, cfg.DatasetOptions()...)
	if err != nil {
		return err
	}

	if err := report.SaveWorkbook(a, *out); err != nil {
		return err
	}
	log.Printf("📈 workbook saved to %s", *out)

	if *chartsDir != "" {
		if err := os.MkdirAll(*chartsDir, 0o755); err != nil {
			return err
		}
		for _, name := range chart.Names {
			p, err := chart.Build(name, a)
			if err != nil {
				return err
			}
			path := filepath.Join(*chartsDir, name+".png")
			if err := chart.Save(p, path); err != nil {
				return fmt.Errorf("saving %s: %w", path, err)
			}
			log.Printf("🖼️  chart saved to %s", path)
		}
	}

	if *summary != "" {
		if err := os.WriteFile(*summary, []byte(report.Markdown(a)), 0o644); err != nil {
			return err
		}
		log.Printf("📋 summary saved to %s", *summary)
	}
	return nil
}

// analyze prints the analysis as JSON.
func analyze(args []string, stdout io.Writer) error {
	fs := newFlagSet("analyze")
	useSample := fs.Bool("sample", false, "analyse the built-in sample instead of -data")
	pretty := fs.Bool("pretty", false, "indent the JSON output")
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	var a *pipeline.Analysis
	if *useSample {
		a, err = pipeline.Analyze(dataset.Sample())
	} else {
		a, err = pipeline.Run(cfg.DataPath, cfg.DatasetOptions()...)
	}
	if err != nil {
		return err
	}

	var data []byte
	if *pretty {
		data, err = json.MarshalIndent(a, "", "  ")
	} else {
		data, err = json.Marshal(a)
	}
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}
