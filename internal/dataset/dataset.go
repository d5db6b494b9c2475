// Package dataset loads renewable generation tables from CSV or XLSX files.
//
// Two shapes are understood. The long layout is the EIA monthly export, one
// row per state, month, producer type and energy source, with generation in
// megawatt-hours. The wide layout is the pre-aggregated annual file, one row
// per year with a "<Source>_TWh" column for every source.
package dataset

import (
	"errors"
	"sort"
)

var (
	ErrFileNotFound = errors.New("dataset file not found")
	ErrParse        = errors.New("dataset parse error")
)

// Unit is the unit of RawRecord.Generation.
type Unit string

const (
	UnitMWh Unit = "MWh"
	UnitGWh Unit = "GWh"
	UnitTWh Unit = "TWh"
)

// PerTWh returns how many of u make one terawatt-hour.
func (u Unit) PerTWh() float64 {
	switch u {
	case UnitMWh:
		return 1_000_000
	case UnitGWh:
		return 1_000
	default:
		return 1
	}
}

type Layout int

const (
	LayoutLong Layout = iota
	LayoutWide
)

func (l Layout) String() string {
	if l == LayoutWide {
		return "wide"
	}
	return "long"
}

// RawRecord is one source row. Month is 0 for rows that are already annual.
type RawRecord struct {
	State      string
	Year       int
	Month      int
	Producer   string
	Source     string
	Generation float64
}

type Table struct {
	Path    string
	Layout  Layout
	Unit    Unit
	Records []RawRecord
}

// Sources returns the distinct energy sources in name order.
func (t *Table) Sources() []string {
	seen := make(map[string]bool)
	var sources []string
	for _, r := range t.Records {
		if !seen[r.Source] {
			seen[r.Source] = true
			sources = append(sources, r.Source)
		}
	}
	sort.Strings(sources)
	return sources
}

// YearSpan returns the first and last year present, or zeros for an empty table.
func (t *Table) YearSpan() (int, int) {
	if len(t.Records) == 0 {
		return 0, 0
	}
	first, last := t.Records[0].Year, t.Records[0].Year
	for _, r := range t.Records[1:] {
		if r.Year < first {
			first = r.Year
		}
		if r.Year > last {
			last = r.Year
		}
	}
	return first, last
}
