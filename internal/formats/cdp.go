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

const (
	cdpStartMarker = "Cash Transaction"
	cdpEndMarker   = "Your Securities Account is Linked To"
)

// CDPNames maps CDP issuer codes to display names.
var CDPNames = map[string]string{
	"CAPITA CHINA TR":  "CapitaLand Retail China Trust",
	"CAPLAND ASCOTT T": "ASCOTT RESIDENCE TRUST",
	"CAPLAND INDIA T":  "Capitaland India Trust",
	"CAPLAND INTCOM T": "Capitaland Integrated Commercial Trust",
	"CL ASCENDAS REIT": "Capitaland Ascendas",
	"DBS":              "DBS",
	"FIRST REIT":       "First Reits",
	"F & N":            "F&N",
	"FRASERS CPT TR":   "Frasers Centrepoint",
	"HAW PAR":          "Haw Par",
	"KEPPEL DC REIT":   "Keppel DC",
	"MAPLETREE IND TR": "Mapletree Industrial Trust",
	"MPLTR PAN TR":     "Mapletree Pan Asia",
	"NETLINK NBN TR":   "NetLink NBN Trust",
	"OCBC BANK":        "OCBC",
	"PARKWAYLIFE REIT": "Parkway Life REITS",
	"RAFFLES MEDICAL":  "Raffles Medical",
	"SGX":              "SGX",
	"STI ETF":          "STI ETF",
	"THAIBEV":          "Thai Beverage",
	"VICOM LTD":        "Vicom",
	"HONGKONG LAND":    "Hong Kong Land",
	"MANULIFEREIT USD": "Manulife US Reits",
}

// Dividend credit row:
// "14/11/2025 SGX Interim Cash Dividend - 600 units @ SGD 0.1075 64.50"
// The description must mention a dividend or distribution so interest
// and settlement rows never match.
var cdpTxRE = regexp.MustCompile(
	`(?i)^(\d{2}/\d{2}/\d{4})\s+(.+(?:Dividend|Distribution).+?)\s+(-?[0-9,]+\.\d{2})\s*$`)

// CDP builds the CDP monthly statement descriptor with the default
// issuer table.
func CDP() *Format {
	return CDPWithNames(lookup.NewTable(CDPNames))
}

// CDPWithNames builds the CDP descriptor with a caller-supplied issuer
// table.
func CDPWithNames(names *lookup.Table) *Format {
	return &Format{
		Name:        "cdp",
		DisplayName: "CDP Statement",
		Hints:       []string{"CENTRAL DEPOSITORY", "Cash Transaction"},
		Section: section.Spec{
			Start:        section.Tolerant(cdpStartMarker),
			End:          section.Tolerant(cdpEndMarker),
			StartLiteral: cdpStartMarker,
			EndLiteral:   cdpEndMarker,
			PerPage:      true,
		},
		// The row pattern is strict enough that stray section text never
		// matches; no noise table needed beyond the markers.
		Noise: &noise.RuleSet{
			Markers: []string{cdpStartMarker, cdpEndMarker},
		},
		Rules: stitch.Rules{
			Start: func(line string) ([]string, string, bool) {
				m := cdpTxRE.FindStringSubmatch(line)
				if m == nil {
					return nil, "", false
				}
				return []string{m[1], m[3]}, m[2], true
			},
			MaxConts: -1,
		},
		Finalize: func(p stitch.Pending, meta Meta) (models.Row, bool) {
			if len(p.Keys) < 2 {
				return models.Row{}, false
			}
			date, err := fields.FormatFullSlashDate(p.Keys[0])
			if err != nil {
				return models.Row{}, false
			}
			amount := p.Keys[1]
			return models.Row{
				Date:        date,
				Year:        meta.YearOrGroup(),
				Description: names.CleanDescription(p.Description()),
				Amount:      amount,
				Currency:    "SGD",
				NetAmount:   amount,
			}, true
		},
		Columns:   dividendColumns(),
		SheetName: "Sheet1",
		Summary:   true,
	}
}
