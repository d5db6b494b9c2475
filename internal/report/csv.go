package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/poweringforward/poweringforward/internal/aggregate"
)

// WriteAnnualCSV writes pv as Year,<Source>_TWh,... with one row per year.
// Missing values are left empty. The output loads back as a wide table.
func WriteAnnualCSV(w io.Writer, pv aggregate.Pivot) error {
	records := [][]string{pv.Header()}
	for _, row := range pv.Rows {
		record := []string{strconv.Itoa(row.Year)}
		for _, c := range row.Cells {
			if !c.OK {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(math.Round(c.Value*1e6)/1e6, 'f', -1, 64))
		}
		records = append(records, record)
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return fmt.Errorf("building annual table: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("writing annual csv: %w", err)
	}
	return nil
}
