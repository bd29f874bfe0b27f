package writer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/chongming-koh/AutomationInvest/internal/models"
)

// ExcelWriter writes the combined output workbook: one detail sheet
// with the format's fixed column ordering, and optionally a summary
// sheet with grouped totals.
type ExcelWriter struct {
	Columns      []models.Column
	SheetName    string
	SummarySheet string
}

// WriteFile writes the workbook to path. A nil summary writes a single
// sheet.
func (w *ExcelWriter) WriteFile(path string, rows, summary []models.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
	}
	if err := w.writeSheet(f, sheet, rows); err != nil {
		return err
	}

	if summary != nil {
		name := w.SummarySheet
		if name == "" {
			name = "Sheet2"
		}
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		if err := w.writeSheet(f, name, summary); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %q: %w", path, err)
	}
	return nil
}

func (w *ExcelWriter) writeSheet(f *excelize.File, sheet string, rows []models.Row) error {
	for i, col := range w.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return fmt.Errorf("failed to write header %q: %w", col.Header, err)
		}
	}

	for r, row := range rows {
		for i, col := range w.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, col.Value(row)); err != nil {
				return fmt.Errorf("failed to write row %d: %w", r+1, err)
			}
		}
	}
	return nil
}
