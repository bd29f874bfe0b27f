package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chongming-koh/AutomationInvest/internal/models"
)

func sampleColumns() []models.Column {
	return []models.Column{
		{Header: "Transaction Date Captured", Value: func(r models.Row) string { return r.Date }},
		{Header: "Year", Value: func(r models.Row) string { return r.Year }},
		{Header: "Description Captured", Value: func(r models.Row) string { return r.Description }},
		{Header: "Amount Captured", Value: func(r models.Row) string { return r.Amount }},
	}
}

func sampleRows() []models.Row {
	return []models.Row{
		{Date: "01 JUN", Year: "2021", Description: "PAYMENT RECEIVED", Amount: "150.00"},
		{Date: "07 JUN", Year: "2021", Description: "CR INTEREST", Amount: "(16.84)"},
	}
}

func TestCSVWriterColumnOrdering(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{Columns: sampleColumns()}
	require.NoError(t, w.Write(&buf, sampleRows()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Transaction Date Captured,Year,Description Captured,Amount Captured", lines[0])
	assert.Equal(t, "01 JUN,2021,PAYMENT RECEIVED,150.00", lines[1])
	assert.Equal(t, "07 JUN,2021,CR INTEREST,(16.84)", lines[2])
}

func TestCSVWriterQuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{Columns: sampleColumns()}
	rows := []models.Row{{Date: "01 JUN", Description: "NTUC, JURONG POINT", Amount: "5.00"}}
	require.NoError(t, w.Write(&buf, rows))
	assert.Contains(t, buf.String(), `"NTUC, JURONG POINT"`)
}

func TestCSVWriterStructTagFallback(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, sampleRows()))

	out := buf.String()
	assert.Contains(t, out, "Date,Year,Description,Amount")
	assert.Contains(t, out, "PAYMENT RECEIVED")
}

func TestCSVWriterEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{Columns: sampleColumns()}
	require.NoError(t, w.Write(&buf, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "header only")
}
