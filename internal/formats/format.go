package formats

import (
	"fmt"
	"strings"

	"github.com/chongming-koh/AutomationInvest/internal/models"
	"github.com/chongming-koh/AutomationInvest/internal/noise"
	"github.com/chongming-koh/AutomationInvest/internal/section"
	"github.com/chongming-koh/AutomationInvest/internal/stitch"
)

// Meta carries the document-level tags attached to every row: the
// grouping value derived from the document's storage location, and the
// externally supplied year context. Neither comes from the text itself.
type Meta struct {
	Group string
	Year  string
}

// YearOrGroup prefers the explicit year context, falling back to the
// folder-derived group (statement folders are usually named by year).
func (m Meta) YearOrGroup() string {
	if m.Year != "" {
		return m.Year
	}
	return m.Group
}

// Format is a declarative descriptor for one statement family. New
// institution formats are added by declaring a descriptor, not by
// branching the core pipeline.
type Format struct {
	Name        string
	DisplayName string

	// Hints are substrings used for content-based auto-detection.
	Hints []string

	Section section.Spec
	Noise   *noise.RuleSet
	Rules   stitch.Rules

	// Finalize turns a stitched record into a typed row, or reports false
	// to discard it (expected for stray text and malformed dates).
	Finalize func(p stitch.Pending, meta Meta) (models.Row, bool)

	// Columns is the fixed output column ordering for this format.
	Columns   []models.Column
	SheetName string

	// Summary formats get a second sheet grouping rows by
	// (description, ticker, year, date, currency) with summed amounts.
	Summary bool
}

// New returns the descriptor for the given format name.
func New(name string) (*Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uob":
		return UOB(), nil
	case "ocbc":
		return OCBC(), nil
	case "amex":
		return Amex(), nil
	case "cdp":
		return CDP(), nil
	case "srs":
		return SRS(), nil
	case "foreign":
		return Foreign(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: uob, ocbc, amex, cdp, srs, foreign)", name)
	}
}

// All lists every known format, in auto-detection order. The more
// distinctive statements come first so issuer names appearing inside
// dividend statements cannot shadow them.
func All() []*Format {
	return []*Format{SRS(), CDP(), Foreign(), Amex(), UOB(), OCBC()}
}

// AutoDetect identifies the statement family from the extracted text.
func AutoDetect(pages []string) (*Format, error) {
	combined := strings.ToUpper(strings.Join(pages, "\n"))
	compact := strings.ToUpper(section.Compact(combined))
	for _, f := range All() {
		for _, hint := range f.Hints {
			h := strings.ToUpper(hint)
			if strings.Contains(combined, h) || strings.Contains(compact, section.Compact(h)) {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("could not auto-detect statement format; specify -format explicitly")
}

// transactionColumns is the credit card column set shared by UOB and
// Amex output.
func transactionColumns() []models.Column {
	return []models.Column{
		{Header: "Transaction Date Captured", Value: func(r models.Row) string { return r.Date }},
		{Header: "Year", Value: func(r models.Row) string { return r.Year }},
		{Header: "Description Captured", Value: func(r models.Row) string { return r.Description }},
		{Header: "Amount Captured", Value: func(r models.Row) string { return r.Amount }},
	}
}

// dividendColumns is the dividend statement column set shared by CDP,
// SRS and the foreign custody format.
func dividendColumns() []models.Column {
	return []models.Column{
		{Header: "Description", Value: func(r models.Row) string { return r.Description }},
		{Header: "Ticker", Value: func(r models.Row) string { return r.Ticker }},
		{Header: "Year", Value: func(r models.Row) string { return r.Year }},
		{Header: "Date", Value: func(r models.Row) string { return r.Date }},
		{Header: "Currency", Value: func(r models.Row) string { return r.Currency }},
		{Header: "Credit ($)", Value: func(r models.Row) string { return r.Amount }},
		{Header: "Net Amount", Value: func(r models.Row) string { return r.NetAmount }},
	}
}
