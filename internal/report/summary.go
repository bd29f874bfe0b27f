// Package report aggregates dividend rows into the per-security summary
// written to the second output sheet.
package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chongming-koh/AutomationInvest/internal/models"
)

type groupKey struct {
	Description string
	Ticker      string
	Year        string
	Date        string
	Currency    string
}

// Summarize groups rows by (description, ticker, year, date, currency)
// and sums the credit and net amounts, collapsing multiple payouts for
// the same security on the same date. Sums use decimal arithmetic and
// render with two fixed places. Input order determines group order, so
// re-running an unchanged batch yields identical output.
func Summarize(rows []models.Row) []models.Row {
	sums := make(map[groupKey][2]decimal.Decimal)
	var order []groupKey

	for _, r := range rows {
		key := groupKey{r.Description, r.Ticker, r.Year, r.Date, r.Currency}
		credit := parseAmount(r.Amount)
		net := parseAmount(r.NetAmount)
		if cur, ok := sums[key]; ok {
			sums[key] = [2]decimal.Decimal{cur[0].Add(credit), cur[1].Add(net)}
		} else {
			sums[key] = [2]decimal.Decimal{credit, net}
			order = append(order, key)
		}
	}

	out := make([]models.Row, 0, len(order))
	for _, key := range order {
		s := sums[key]
		out = append(out, models.Row{
			Description: key.Description,
			Ticker:      key.Ticker,
			Year:        key.Year,
			Date:        key.Date,
			Currency:    key.Currency,
			Amount:      s[0].StringFixed(2),
			NetAmount:   s[1].StringFixed(2),
		})
	}
	return out
}

// parseAmount reads a display amount ("1,234.56", "(16.84)") as a
// signed decimal; parenthesized credits keep their magnitude, matching
// the source convention where dividend credits are already positive.
func parseAmount(s string) decimal.Decimal {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "(")
	t = strings.TrimSuffix(t, ")")
	t = strings.ReplaceAll(t, ",", "")
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero
	}
	return d
}
