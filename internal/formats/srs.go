package formats

import (
	"regexp"

	"github.com/chongming-koh/AutomationInvest/internal/fields"
	"github.com/chongming-koh/AutomationInvest/internal/lookup"
	"github.com/chongming-koh/AutomationInvest/internal/models"
	"github.com/chongming-koh/AutomationInvest/internal/noise"
	"github.com/chongming-koh/AutomationInvest/internal/section"
	"github.com/chongming-koh/AutomationInvest/internal/stitch"
)

// SRS statements double every letter in their section headers (an
// artifact of the bold overprint in the source PDF).
const (
	srsStartMarker = "TTRRAANNSSAACCTTIIOONN DDEETTAAIILLSS"
	srsEndMarker   = "SECURITY INVESTMENT ACTIVITY"
)

// SRSNames maps SRS counter codes to display names.
var SRSNames = map[string]string{
	"1EG0":   "Nikko AM SGD Corp Bond ETF",
	"SBIETF": "ABF SINGAPORE Bond Index",
	"STETF":  "STI ETF",
	"1DH9":   "NetLink NBN Trust",
	"4H4M":   "ASCOTT RESIDENCE TRUST",
	"92FC":   "Vicom",
	"ASCEND": "Capitaland India Trust",
	"CMT":    "Capitaland Integrated Commercial Trust",
	"CRCT":   "CapitaLand Retail China Trust",
	"F-LITR": "Frasers Logistics Commerical",
	"HAWP":   "Haw Par",
	"KDCRET": "Keppel DC",
	"MCT":    "Mapletree Pan Asia",
	"MITR":   "Mapletree Industrial Trust",
	"OCBCBK": "OCBC",
	"PKREIT": "Parkway Life REITS",
	"RMEDIC": "Raffles Medical",
	"SGX":    "SGX",
	"STEL":   "Singtel",
}

// Dividend credit row: date token, description, amount, running balance.
// "13MAY CR DIVIDENDS FOR 92FC 13.75 19,067.06"
var srsTxRE = regexp.MustCompile(
	`^(\d{2}[A-Z]{3})\s+(CR DIVIDENDS FOR\s+.+?)\s+([0-9,]+\.\d{2})\s+([0-9,]+\.\d{2})\s*$`)

// SRS builds the Supplementary Retirement Scheme statement descriptor
// with the default counter table.
func SRS() *Format {
	return SRSWithNames(lookup.NewTable(SRSNames))
}

// SRSWithNames builds the SRS descriptor with a caller-supplied counter
// table.
func SRSWithNames(names *lookup.Table) *Format {
	return &Format{
		Name:        "srs",
		DisplayName: "SRS Statement",
		Hints:       []string{"SUPPLEMENTARY RETIREMENT SCHEME", srsStartMarker},
		Section: section.Spec{
			Start:        section.Tolerant(srsStartMarker),
			End:          section.Tolerant(srsEndMarker),
			StartLiteral: srsStartMarker,
			EndLiteral:   srsEndMarker,
			PerPage:      true,
		},
		Noise: &noise.RuleSet{
			Markers: []string{srsStartMarker, srsEndMarker},
		},
		Rules: stitch.Rules{
			Start: func(line string) ([]string, string, bool) {
				m := srsTxRE.FindStringSubmatch(line)
				if m == nil {
					return nil, "", false
				}
				// Keys: date, amount, running balance. The balance is kept
				// only so the row can carry it through for debugging.
				return []string{m[1], m[3], m[4]}, m[2], true
			},
			MaxConts: -1,
		},
		Finalize: func(p stitch.Pending, meta Meta) (models.Row, bool) {
			if len(p.Keys) < 3 {
				return models.Row{}, false
			}
			year := meta.YearOrGroup()
			yy := year
			if len(yy) == 4 {
				yy = yy[2:]
			}
			date, err := fields.FormatCompactDate(p.Keys[0], yy)
			if err != nil {
				return models.Row{}, false
			}
			amount := p.Keys[1]
			return models.Row{
				Date:        date,
				Year:        year,
				Description: names.CleanDescription(p.Description()),
				Amount:      amount,
				Currency:    "SGD",
				NetAmount:   amount,
				Balance:     p.Keys[2],
			}, true
		},
		Columns:   dividendColumns(),
		SheetName: "Sheet1",
		Summary:   true,
	}
}
