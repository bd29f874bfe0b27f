package formats

import (
	"regexp"

	"github.com/chongming-koh/AutomationInvest/internal/models"
	"github.com/chongming-koh/AutomationInvest/internal/noise"
	"github.com/chongming-koh/AutomationInvest/internal/section"
	"github.com/chongming-koh/AutomationInvest/internal/stitch"
)

const (
	uobStartMarker = "Post Trans Description of Transaction Transaction Amount"
	uobEndMarker   = "SUB TOTAL"
)

// Older and newer UOB layouts differ in whether the header spells out
// "Post Date" / "Trans Date".
var uobStartRE = regexp.MustCompile(
	`(?i)Post\s*(?:Date\s*)?Trans\s*(?:Date\s*)?Description\s*of\s*Transaction\s*Transaction\s*Amount`)
var uobEndRE = regexp.MustCompile(`(?i)SUB\s*TOTAL`)

// Record start: post date, transaction date, then the rest.
// "07 JUN 07 JUN CR INTEREST 16.84 CR"
var uobTxStartRE = regexp.MustCompile(`^(\d{2}\s+[A-Z]{3})\s+(\d{2}\s+[A-Z]{3})\s+(.+)$`)

// UOB builds the UOB credit card statement descriptor.
//
// The transaction table sits between the column header and SUB TOTAL.
// Records span multiple physical lines (reference numbers, foreign
// currency detail), and the amount may trail the first line or arrive
// later as an amount-only line.
func UOB() *Format {
	return &Format{
		Name:        "uob",
		DisplayName: "UOB Credit Card",
		Hints:       []string{"UNITED OVERSEAS BANK", "UOB PLAZA", "uob.com.sg"},
		Section: section.Spec{
			Start:        uobStartRE,
			End:          uobEndRE,
			StartLiteral: uobStartMarker,
			EndLiteral:   uobEndMarker,
		},
		Noise: &noise.RuleSet{
			Markers:        []string{uobStartMarker, uobEndMarker, "Date Date SGD"},
			MarkerPatterns: []*regexp.Regexp{uobStartRE, uobEndRE},
			Prefixes:       []string{"PREVIOUS BALANCE", "UOB ONE CARD"},
			Substrings: []string{
				"PLEASE NOTE THAT YOU ARE BOUND BY A DUTY",
				"UNAUTHORISED DEBITS",
				"CONCLUSIVELY BINDING",
				"CLAIM AGAINST THE BANK",
				"UNITED OVERSEAS BANK LIMITED",
				"UOB PLAZA",
				"WWW.UOB.COM.SG",
				"(CONTINUED)",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^PAGE\s+\d+\s+OF\s+\d+`),
				regexp.MustCompile(`\b\d{4}-\d{4}-\d{4}-\d{4}\b`), // masked card number
			},
		},
		Rules: stitch.Rules{
			Start: func(line string) ([]string, string, bool) {
				m := uobTxStartRE.FindStringSubmatch(line)
				if m == nil {
					return nil, "", false
				}
				return []string{m[1], m[2]}, m[3], true
			},
			SeedAmount: true,
			BareAmount: true,
		},
		Finalize: func(p stitch.Pending, meta Meta) (models.Row, bool) {
			// A record that never produced an amount is not a transaction.
			if !p.HasAmount || len(p.Keys) < 2 {
				return models.Row{}, false
			}
			return models.Row{
				Date:        p.Keys[1], // transaction date, not posting date
				Year:        meta.Group,
				Description: p.Description(),
				Amount:      p.NormalizedAmount(),
			}, true
		},
		Columns:   transactionColumns(),
		SheetName: "Transactions",
	}
}
