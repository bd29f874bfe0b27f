package writer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/chongming-koh/AutomationInvest/internal/models"
)

func TestExcelWriterSingleSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := &ExcelWriter{Columns: sampleColumns(), SheetName: "Transactions"}
	require.NoError(t, w.WriteFile(path, sampleRows(), nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Transactions"}, f.GetSheetList())

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Transaction Date Captured", "Year", "Description Captured", "Amount Captured"}, rows[0])
	assert.Equal(t, []string{"07 JUN", "2021", "CR INTEREST", "(16.84)"}, rows[2])
}

func TestExcelWriterSummarySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dividends.xlsx")
	w := &ExcelWriter{
		Columns: []models.Column{
			{Header: "Description", Value: func(r models.Row) string { return r.Description }},
			{Header: "Credit ($)", Value: func(r models.Row) string { return r.Amount }},
		},
		SheetName:    "Sheet1",
		SummarySheet: "Sheet2",
	}
	rows := []models.Row{
		{Description: "SGX", Amount: "64.50"},
		{Description: "SGX", Amount: "64.50"},
	}
	summary := []models.Row{{Description: "SGX", Amount: "129.00"}}
	require.NoError(t, w.WriteFile(path, rows, summary))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Sheet1", "Sheet2"}, f.GetSheetList())

	got, err := f.GetRows("Sheet2")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"SGX", "129.00"}, got[1])
}

func TestExcelWriterDefaultSheetName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.xlsx")
	w := &ExcelWriter{Columns: sampleColumns()}
	require.NoError(t, w.WriteFile(path, nil, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}
