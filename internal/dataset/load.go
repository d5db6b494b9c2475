package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/hashicorp/go-multierror"
	"github.com/xuri/excelize/v2"
)

const (
	colYear     = "year"
	colMonth    = "month"
	colState    = "state"
	colProducer = "type of producer"
	colSource   = "energy source"

	generationPrefix = "generation"
	wideSuffix       = "_twh"

	// maxRowErrors bounds how many row failures are kept in the error message.
	maxRowErrors = 20
)

// Load reads the table at path. Files ending in .xlsx are read as workbooks,
// anything else as CSV.
func Load(path string, opts ...Option) (*Table, error) {
	o := applyOptions(opts)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(path, o.sheet)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	return parseRows(path, rows, o)
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	df := dataframe.ReadCSV(file,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return nil, df.Err
	}
	return df.Records(), nil
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	return f.GetRows(sheet)
}

type columns struct {
	index map[string]int
	names []string
}

func newColumns(header []string) columns {
	c := columns{index: make(map[string]int), names: header}
	for i, h := range header {
		key := normalize(h)
		if _, dup := c.index[key]; !dup {
			c.index[key] = i
		}
	}
	return c
}

func (c columns) lookup(key string) (int, bool) {
	i, ok := c.index[key]
	return i, ok
}

func (c columns) withPrefix(prefix string) (int, bool) {
	for i, h := range c.names {
		if strings.HasPrefix(normalize(h), prefix) {
			return i, true
		}
	}
	return 0, false
}

func parseRows(path string, rows [][]string, o *options) (*Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrParse, path)
	}

	// Excel prefixes UTF-8 CSV exports with a byte-order mark.
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	cols := newColumns(rows[0])
	if _, ok := cols.lookup(colYear); !ok {
		return nil, fmt.Errorf("%w: %s: missing %q column", ErrParse, path, "YEAR")
	}

	if _, ok := cols.lookup(colSource); ok {
		return parseLong(path, cols, rows[1:], o)
	}
	for _, h := range cols.names {
		if strings.HasSuffix(normalize(h), wideSuffix) {
			return parseWide(path, cols, rows[1:], o)
		}
	}
	return nil, fmt.Errorf("%w: %s: need an %q column or <Source>_TWh columns", ErrParse, path, "ENERGY SOURCE")
}

func parseLong(path string, cols columns, rows [][]string, o *options) (*Table, error) {
	yearIdx, _ := cols.lookup(colYear)
	sourceIdx, _ := cols.lookup(colSource)
	genIdx, ok := cols.withPrefix(generationPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing %q column", ErrParse, path, "GENERATION")
	}
	monthIdx, hasMonth := cols.lookup(colMonth)
	stateIdx, hasState := cols.lookup(colState)
	producerIdx, hasProducer := cols.lookup(colProducer)

	table := &Table{Path: path, Layout: LayoutLong, Unit: UnitMWh}
	var errs rowErrors

	for i, row := range rows {
		line := i + 2

		var producer string
		if hasProducer {
			producer = cell(row, producerIdx)
			if o.producer != "" && producer != o.producer {
				continue
			}
		}

		source := Categorize(cell(row, sourceIdx))
		if source == "" && o.allSources {
			source = cell(row, sourceIdx)
		}
		if source == "" {
			continue
		}

		year, err := parseYear(cell(row, yearIdx))
		if err != nil {
			errs.add(line, "year: %v", err)
			continue
		}
		if !o.inRange(year) {
			continue
		}

		var month int
		if hasMonth {
			month, err = strconv.Atoi(cell(row, monthIdx))
			if err != nil || month < 1 || month > 12 {
				errs.add(line, "month: invalid value %q", cell(row, monthIdx))
				continue
			}
		}

		generation, err := parseAmount(cell(row, genIdx))
		if err != nil {
			errs.add(line, "generation: %v", err)
			continue
		}

		r := RawRecord{
			Year:       year,
			Month:      month,
			Producer:   producer,
			Source:     source,
			Generation: generation,
		}
		if hasState {
			r.State = cell(row, stateIdx)
		}
		table.Records = append(table.Records, r)
	}

	if err := errs.err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return table, nil
}

func parseWide(path string, cols columns, rows [][]string, o *options) (*Table, error) {
	yearIdx, _ := cols.lookup(colYear)

	type sourceColumn struct {
		index int
		name  string
	}
	var sources []sourceColumn
	for i, h := range cols.names {
		h = strings.TrimSpace(h)
		if strings.HasSuffix(strings.ToLower(h), wideSuffix) {
			sources = append(sources, sourceColumn{index: i, name: h[:len(h)-len(wideSuffix)]})
		}
	}

	table := &Table{Path: path, Layout: LayoutWide, Unit: UnitTWh}
	var errs rowErrors

	for i, row := range rows {
		line := i + 2

		year, err := parseYear(cell(row, yearIdx))
		if err != nil {
			errs.add(line, "year: %v", err)
			continue
		}
		if !o.inRange(year) {
			continue
		}

		for _, sc := range sources {
			// an empty cell means the source has no value that year
			if cell(row, sc.index) == "" {
				continue
			}
			v, err := parseAmount(cell(row, sc.index))
			if err != nil {
				errs.add(line, "%s: %v", cols.names[sc.index], err)
				continue
			}
			table.Records = append(table.Records, RawRecord{
				Year:       year,
				Source:     sc.name,
				Generation: v,
			})
		}
	}

	if err := errs.err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return table, nil
}

// Categorize maps an EIA energy source label onto Wind or Solar.
// Wind is checked first. Anything else returns "".
func Categorize(source string) string {
	s := strings.ToLower(source)
	switch {
	case strings.Contains(s, "wind"):
		return "Wind"
	case strings.Contains(s, "solar"):
		return "Solar"
	}
	return ""
}

func parseYear(s string) (int, error) {
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return int(f), nil
}

func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return v, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func normalize(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

type rowErrors struct {
	errs *multierror.Error
	n    int
}

func (r *rowErrors) add(line int, format string, args ...interface{}) {
	r.n++
	if r.n > maxRowErrors {
		return
	}
	r.errs = multierror.Append(r.errs, fmt.Errorf("row %d: %s", line, fmt.Sprintf(format, args...)))
}

func (r *rowErrors) err() error {
	if r.n == 0 {
		return nil
	}
	if r.n > maxRowErrors {
		r.errs = multierror.Append(r.errs, fmt.Errorf("%d more rows rejected", r.n-maxRowErrors))
	}
	return r.errs.ErrorOrNil()
}
