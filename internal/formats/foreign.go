package formats

import (
	"regexp"
	"strings"

	"github.com/chongming-koh/AutomationInvest/internal/models"
	"github.com/chongming-koh/AutomationInvest/internal/noise"
	"github.com/chongming-koh/AutomationInvest/internal/section"
	"github.com/chongming-koh/AutomationInvest/internal/stitch"
)

// The custody statement spaces out its section headers letter by letter
// ("S t a t e m e n t O f A c c o u n t"); tolerant matching reassembles
// them.
const (
	foreignStartMarker = "Statement Of Account"
	foreignEndMarker   = "Custody Statement"
)

// Credit/debit note rows:
// "19/11/2025 CRC7789419 CR Note W.E.F 22 MAY 31.07 31.07"
// "19/11/2025 DRC7789419 DR Note HANDLING 4.20 26.87"
var foreignTxRE = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{4})\s+([A-Z0-9]+)\s+(CR|DR)\s+Note\s+(.+?)\s+([0-9,]+\.\d{2})\s+([0-9,]+\.\d{2})\s*$`)

// Foreign builds the foreign custody statement descriptor. Only W.E.F
// credit notes and handling-charge debit notes are transactions; other
// note rows (interest credits and the like) are ignored.
func Foreign() *Format {
	return &Format{
		Name:        "foreign",
		DisplayName: "Foreign Custody Statement",
		Hints:       []string{foreignEndMarker},
		Section: section.Spec{
			Start:        section.Tolerant(foreignStartMarker),
			End:          section.Tolerant(foreignEndMarker),
			StartLiteral: foreignStartMarker,
			EndLiteral:   foreignEndMarker,
		},
		Noise: &noise.RuleSet{
			Markers: []string{foreignStartMarker, foreignEndMarker},
		},
		Rules: stitch.Rules{
			Start: func(line string) ([]string, string, bool) {
				if !strings.Contains(line, "CR Note W.E.F") && !strings.Contains(line, "DR Note HANDLING") {
					return nil, "", false
				}
				m := foreignTxRE.FindStringSubmatch(line)
				if m == nil {
					return nil, "", false
				}
				// Keys: date, reference, CR/DR flag, amount, balance.
				return []string{m[1], m[2], m[3], m[5], m[6]}, m[3] + " Note " + m[4], true
			},
			// Only short trailing fragments continue a note description.
			MaxContLen: 40,
			MaxConts:   1,
		},
		Finalize: func(p stitch.Pending, meta Meta) (models.Row, bool) {
			if len(p.Keys) < 5 {
				return models.Row{}, false
			}
			amount := p.Keys[3]
			return models.Row{
				Date:        p.Keys[0],
				Year:        meta.YearOrGroup(),
				Description: p.Description(),
				Amount:      amount,
				Currency:    "SGD",
				NetAmount:   amount,
				Ref:         p.Keys[1],
				Balance:     p.Keys[4],
			}, true
		},
		Columns:   dividendColumns(),
		SheetName: "Sheet1",
		Summary:   true,
	}
}
