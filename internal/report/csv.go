package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/nao1215/seoscan/internal/model"
)

// csvHeader is the fixed column layout of the entity export.
var csvHeader = []string{"source", "name", "salience", "category"}

// CSVWriter exports the extracted entities as CSV, one row per entity.
// This is the format for loading scan results into spreadsheets and
// analytics tools.
//
// Design decision: We export the entity rows rather than the whole report
// because CSV is a flat format; the report structure (statistics, URL
// list) belongs to the JSON and Markdown writers.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs all entities of the report as CSV with a header row.
// Byte counts from encoding/csv are not available, so the returned count
// is an estimate based on the flushed writer.
func (w *CSVWriter) Write(report *model.ScanReport) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}

	for _, e := range report.Entities {
		row := []string{
			e.Source,
			e.Name,
			strconv.FormatFloat(e.Salience, 'f', 4, 64),
			e.Category,
		}
		if err := cw.Write(row); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

// countingWriter counts bytes passing through to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
