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
	amexStartMarker = "Details Foreign Spending Amount S$"
	amexEndMarker   = "Total of New Transactions"
)

var amexStartRE = regexp.MustCompile(`(?i)Details\s+Foreign\s+Spending\s+Amount\s*S\$`)
var amexEndRE = regexp.MustCompile(`(?i)Total\s+of\s+New\s+Transactions`)

// "31.01.21 PAYMENT BY TELEPHONE/INTERNET BANKING 723.40"
var amexTxStartRE = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{2})\s+(.+)$`)

// Amex builds the American Express statement descriptor.
//
// The transaction header repeats on every page, so the bounder runs in
// repeated-segment mode and the segments are concatenated. Credits are
// marked by a CR glued to the amount or by a bare CR on the next line.
func Amex() *Format {
	return &Format{
		Name:        "amex",
		DisplayName: "American Express",
		Hints:       []string{"AMERICAN EXPRESS", "americanexpress.com.sg"},
		Section: section.Spec{
			Start:        amexStartRE,
			End:          amexEndRE,
			StartLiteral: amexStartMarker,
			EndLiteral:   amexEndMarker,
			Repeated:     true,
		},
		Noise: &noise.RuleSet{
			Markers:        []string{amexStartMarker, amexEndMarker},
			MarkerPatterns: []*regexp.Regexp{amexStartRE, amexEndRE},
			Substrings: []string{
				"American Express International",
				"UEN",
				"Statement of Account",
				"Membership Number",
				"PAYMENT ADVICE",
				"Please return",
				"Minimum Payment",
				"Due by",
				"Enter amount enclosed",
				"Please make crossed cheque payable",
				"AMERICAN EXPRESS",
				"Please do not write",
				"The Rewards Card",
				"Page ",
				"Important Information",
				"Foreign Currency Charges",
				"Online Services",
				"Payment Method",
				"Privacy:",
				"Limited Liability",
				"Credit Card Interest Rate Policy",
				"log on to americanexpress.com.sg",
				"amex.co/",
				"reply envelope",
			},
		},
		Rules: stitch.Rules{
			Start: func(line string) ([]string, string, bool) {
				m := amexTxStartRE.FindStringSubmatch(line)
				if m == nil {
					return nil, "", false
				}
				return []string{m[1]}, m[2], true
			},
			SeedAmount:  true,
			CreditToken: "CR",
		},
		Finalize: func(p stitch.Pending, meta Meta) (models.Row, bool) {
			if !p.HasAmount || len(p.Keys) < 1 {
				return models.Row{}, false
			}
			dayMon, year, err := fields.FormatDotDate(p.Keys[0])
			if err != nil {
				return models.Row{}, false
			}
			return models.Row{
				Date:        dayMon,
				Year:        year,
				Description: p.Description(),
				Amount:      p.NormalizedAmount(),
			}, true
		},
		Columns:   transactionColumns(),
		SheetName: "Transactions",
	}
}
