package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/chongming-koh/AutomationInvest/internal/models"
)

// CSVWriter writes extracted rows as flat CSV. The column set follows
// the format's declared ordering; when no columns are given it falls
// back to struct-tag marshalling of the full row.
type CSVWriter struct {
	Columns []models.Column
}

// WriteToFile writes rows to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, rows []models.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, rows)
}

// Write writes rows in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, rows []models.Row) error {
	if len(w.Columns) == 0 {
		if err := gocsv.Marshal(&rows, out); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		return nil
	}

	cw := csv.NewWriter(out)
	defer cw.Flush()

	header := make([]string, len(w.Columns))
	for i, col := range w.Columns {
		header[i] = col.Header
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(w.Columns))
	for _, row := range rows {
		for i, col := range w.Columns {
			record[i] = col.Value(row)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return cw.Error()
}
