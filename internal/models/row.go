package models

// Row is one normalized output row extracted from a statement.
//
// Amount and NetAmount are display strings, not floats: credits are
// parenthesized ("(16.84)") and debits keep their suffix verbatim, which
// is the convention the downstream spreadsheets expect.
type Row struct {
	Date        string `json:"date" csv:"Date"`
	Year        string `json:"year" csv:"Year"`
	Description string `json:"description" csv:"Description"`
	Amount      string `json:"amount" csv:"Amount"`

	// Dividend statement extras; empty for credit card formats.
	Ticker    string `json:"ticker,omitempty" csv:"Ticker"`
	Currency  string `json:"currency,omitempty" csv:"Currency"`
	NetAmount string `json:"netAmount,omitempty" csv:"Net Amount"`
	Ref       string `json:"ref,omitempty" csv:"-"`
	Balance   string `json:"balance,omitempty" csv:"-"`
}

// Column maps an output header to the row field it displays. Each format
// declares its own ordered column set.
type Column struct {
	Header string
	Value  func(Row) string
}

// DocumentResult holds what one source document produced.
type DocumentResult struct {
	Path    string `json:"path"`
	Group   string `json:"group"`
	Rows    []Row  `json:"rows"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// BatchResult is the combined outcome of one run over a document tree.
type BatchResult struct {
	Documents []DocumentResult `json:"documents"`
	Rows      []Row            `json:"rows"`
	Scanned   int              `json:"scanned"`
	Skipped   int              `json:"skipped"`
}
