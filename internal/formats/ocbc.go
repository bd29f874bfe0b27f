package formats

import (
	"regexp"

	"github.com/chongming-koh/AutomationInvest/internal/fields"
	"github.com/chongming-koh/AutomationInvest/internal/models"
	"github.com/chongming-koh/AutomationInvest/internal/noise"
	"github.com/chongming-koh/AutomationInvest/internal/section"
	"github.com/chongming-koh/AutomationInvest/internal/stitch"
)

const (
	ocbcStartMarker = "TRANSACTION DATE DESCRIPTION AMOUNT (SGD)"
	ocbcEndMarker   = "SUBTOTAL"
)

// One transaction per line, amount possibly parenthesized or negative:
// "14/03 -4751 BUS/MRT 3.95"
// "02/04 PAYMENT BY INTERNET (241.75)"
var ocbcTxRE = regexp.MustCompile(`^(\d{2}/\d{2})\s+(.+?)\s+(\(?-?[0-9,]+\.\d{2}\)?)\s*$`)

// OCBC builds the OCBC credit card statement descriptor. Wrapped
// descriptions continue onto at most one following line.
func OCBC() *Format {
	return &Format{
		Name:        "ocbc",
		DisplayName: "OCBC Credit Card",
		Hints:       []string{"OCBC Bank - Credit Cards", "OCBC 365 CREDIT CARD", "OCBC Centre"},
		Section: section.Spec{
			Start:        section.Tolerant(ocbcStartMarker),
			End:          section.Tolerant(ocbcEndMarker),
			StartLiteral: ocbcStartMarker,
			EndLiteral:   ocbcEndMarker,
		},
		Noise: &noise.RuleSet{
			Markers: []string{ocbcStartMarker, ocbcEndMarker},
			Substrings: []string{
				"OCBC 365 CREDIT CARD",
				"penalty interest rate",
				"back of statement",
				"xxxx-xxxx-xxxx-xxxx",
				"LAST MONTH'S BALANCE",
				"Co.Reg.no.:",
				"OCBC Bank - Credit Cards",
				"65 Chulia Street",
				"OCBC Centre",
				"Singapore 049513",
				"CONTACT US",
				"1800 363 3333",
				"(65) 6363 3333",
				"when overseas",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^PAGE\s+\d+`),
			},
		},
		Rules: stitch.Rules{
			Start: func(line string) ([]string, string, bool) {
				m := ocbcTxRE.FindStringSubmatch(line)
				if m == nil {
					return nil, "", false
				}
				// Amount is captured on the start line itself; carry it as a
				// key so continuations only ever extend the description.
				return []string{m[1], m[3]}, m[2], true
			},
			MaxConts: 1,
		},
		Finalize: func(p stitch.Pending, meta Meta) (models.Row, bool) {
			if len(p.Keys) < 2 {
				return models.Row{}, false
			}
			date, err := fields.FormatSlashDayMonth(p.Keys[0])
			if err != nil {
				return models.Row{}, false
			}
			return models.Row{
				Date:        date,
				Year:        meta.Group,
				Description: p.Description(),
				// Parenthesized and negative amounts pass through verbatim;
				// the statement already uses the credit convention.
				Amount: p.Keys[1],
			}, true
		},
		Columns: []models.Column{
			{Header: "TRANSACTION DATE", Value: func(r models.Row) string { return r.Date }},
			{Header: "Year", Value: func(r models.Row) string { return r.Year }},
			{Header: "DESCRIPTION", Value: func(r models.Row) string { return r.Description }},
			{Header: "AMOUNT (SGD)", Value: func(r models.Row) string { return r.Amount }},
		},
		SheetName: "Transactions",
	}
}
