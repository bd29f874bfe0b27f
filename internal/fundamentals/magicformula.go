// Package fundamentals screens TIKR financial workbooks with the Magic
// Formula metrics: earnings yield and return on capital, computed from
// the latest (or a chosen) fiscal year column.
package fundamentals

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	incomeSheet  = "Income Statement"
	balanceSheet = "Balance Sheet"
)

var tickerRE = regexp.MustCompile(`(?i)TIKR\s*-\s*([A-Z0-9]+)\s*-\s*Financials`)

// TickerFromFilename pulls the ticker out of a TIKR export file name
// ("TIKR - D05 - Financials (2025).xlsx" -> "D05").
func TickerFromFilename(name string) (string, error) {
	m := tickerRE.FindStringSubmatch(name)
	if m == nil {
		return "", fmt.Errorf("could not extract ticker from filename %q", name)
	}
	return strings.ToUpper(m[1]), nil
}

var nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)

// normLabel canonicalizes a row label for matching: lowercase, hyphen
// variants and punctuation collapsed to single spaces.
func normLabel(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	t = nonAlnumRE.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// Company is one screened row of the output report.
type Company struct {
	Ticker                  string
	Name                    string
	OperatingIncome         float64
	MarketCap               float64
	CurrentDebt             float64
	LongTermDebt            float64
	TotalCurrentAssets      float64
	TotalCurrentLiabilities float64
	NetPPE                  float64

	EnterpriseValue float64
	EarningsYield   float64
	ReturnOnCapital float64
	CombinedRank    int
}

// computeDerived fills the Magic Formula metrics. A zero denominator
// yields a zero metric rather than an infinity.
func (c *Company) computeDerived() {
	nwc := c.TotalCurrentAssets - c.TotalCurrentLiabilities
	c.EnterpriseValue = c.MarketCap + c.CurrentDebt + c.LongTermDebt - nwc

	if c.EnterpriseValue != 0 {
		c.EarningsYield = c.OperatingIncome / c.EnterpriseValue
	}
	if denom := c.NetPPE + nwc; denom != 0 {
		c.ReturnOnCapital = c.OperatingIncome / denom
	}
}

// pickYearColumn chooses the value column from the sheet's date header
// row. TIKR headers are mm/dd/yy in row 1 from column B onward; the
// preferred year's last column wins, else the latest year's.
func pickYearColumn(rows [][]string, preferredYear int) (int, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("sheet is empty")
	}
	header := rows[0]

	yearCols := make(map[int][]int)
	for col := 1; col < len(header); col++ {
		d, err := time.Parse("01/02/06", strings.TrimSpace(header[col]))
		if err != nil {
			continue
		}
		y := d.Year()
		yearCols[y] = append(yearCols[y], col)
	}
	if len(yearCols) == 0 {
		return 0, fmt.Errorf("no mm/dd/yy date headers found in row 1")
	}

	if cols, ok := yearCols[preferredYear]; ok {
		return cols[len(cols)-1], nil
	}
	latest := 0
	for y := range yearCols {
		if y > latest {
			latest = y
		}
	}
	cols := yearCols[latest]
	return cols[len(cols)-1], nil
}

// findRowValue locates the first row whose label (column A) contains
// one of the variants after normalization, and parses its value cell.
// Missing rows and unparseable cells read as zero.
func findRowValue(rows [][]string, variants []string, col int) float64 {
	for _, v := range variants {
		want := normLabel(v)
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			if !strings.Contains(normLabel(row[0]), want) {
				continue
			}
			if col >= len(row) {
				return 0
			}
			return parseNumber(row[col])
		}
	}
	return 0
}

func parseNumber(s string) float64 {
	t := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if t == "" {
		return 0
	}
	neg := false
	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
		neg = true
		t = t[1 : len(t)-1]
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -v
	}
	return v
}

// ReadFinancials reads one TIKR workbook's income statement and balance
// sheet figures for the chosen year.
func ReadFinancials(path string, preferredYear int) (Company, error) {
	ticker, err := TickerFromFilename(filepath.Base(path))
	if err != nil {
		return Company{}, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return Company{}, fmt.Errorf("failed to open workbook %q: %w", path, err)
	}
	defer f.Close()

	inc, err := f.GetRows(incomeSheet)
	if err != nil {
		return Company{}, fmt.Errorf("%s: missing sheet %q: %w", ticker, incomeSheet, err)
	}
	incCol, err := pickYearColumn(inc, preferredYear)
	if err != nil {
		return Company{}, fmt.Errorf("%s income statement: %w", ticker, err)
	}

	bs, err := f.GetRows(balanceSheet)
	if err != nil {
		return Company{}, fmt.Errorf("%s: missing sheet %q: %w", ticker, balanceSheet, err)
	}
	bsCol, err := pickYearColumn(bs, preferredYear)
	if err != nil {
		return Company{}, fmt.Errorf("%s balance sheet: %w", ticker, err)
	}

	c := Company{
		Ticker:                  ticker,
		OperatingIncome:         findRowValue(inc, []string{"Operating Income"}, incCol),
		LongTermDebt:            findRowValue(bs, []string{"Long-Term Debt", "Long Term Debt"}, bsCol),
		TotalCurrentAssets:      findRowValue(bs, []string{"Total Current Assets"}, bsCol),
		TotalCurrentLiabilities: findRowValue(bs, []string{"Total Current Liabilities"}, bsCol),
		NetPPE:                  findRowValue(bs, []string{"Net Property Plant And Equipment", "Net Property Plant Equipment"}, bsCol),
		CurrentDebt:             findRowValue(bs, []string{"Current Debt"}, bsCol),
	}
	return c, nil
}

// MarketCapTable maps tickers to company names and market caps read
// from the exchange's market cap workbook. Caps are converted to
// millions to match the TIKR figures.
type MarketCapTable struct {
	names map[string]string
	caps  map[string]float64
}

// LoadMarketCaps reads the first sheet of the market cap workbook,
// locating the ticker, company name, and market cap columns by
// normalized header.
func LoadMarketCaps(path string) (*MarketCapTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open market cap workbook %q: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("market cap workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("market cap workbook is empty")
	}

	tickerCol, nameCol, capCol := -1, -1, -1
	for i, h := range rows[0] {
		switch normLabel(h) {
		case "ticker", "tickers":
			tickerCol = i
		case "company name", "company":
			nameCol = i
		case "mkt cap", "market cap", "market capitalization":
			capCol = i
		}
	}
	if tickerCol < 0 || nameCol < 0 || capCol < 0 {
		return nil, fmt.Errorf("market cap workbook needs Ticker, Company Name and Mkt Cap columns")
	}

	t := &MarketCapTable{names: make(map[string]string), caps: make(map[string]float64)}
	for _, row := range rows[1:] {
		if tickerCol >= len(row) {
			continue
		}
		ticker := strings.ToUpper(strings.TrimSpace(row[tickerCol]))
		if ticker == "" {
			continue
		}
		if nameCol < len(row) {
			t.names[ticker] = strings.TrimSpace(row[nameCol])
		}
		if capCol < len(row) {
			t.caps[ticker] = parseNumber(row[capCol]) / 1e6
		}
	}
	return t, nil
}

// Lookup returns the company name and market cap (in millions) for a
// ticker.
func (t *MarketCapTable) Lookup(ticker string) (name string, capMillions float64, ok bool) {
	key := strings.ToUpper(strings.TrimSpace(ticker))
	name, ok = t.names[key]
	return name, t.caps[key], ok
}

// Screen reads every TIKR workbook under tikrDir, joins market caps,
// computes the Magic Formula metrics, and returns the companies sorted
// by combined rank (best first).
func Screen(tikrDir, marketCapPath string, preferredYear int) ([]Company, error) {
	caps, err := LoadMarketCaps(marketCapPath)
	if err != nil {
		return nil, err
	}

	paths, err := filepath.Glob(filepath.Join(tikrDir, "TIKR - * - Financials*.xlsx"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no TIKR financial workbooks found in %s", tikrDir)
	}
	sort.Strings(paths)

	var companies []Company
	for _, path := range paths {
		c, err := ReadFinancials(path, preferredYear)
		if err != nil {
			return nil, err
		}
		if name, mcap, ok := caps.Lookup(c.Ticker); ok {
			c.Name = name
			c.MarketCap = mcap
		}
		c.computeDerived()
		companies = append(companies, c)
	}

	Rank(companies)
	return companies, nil
}

// Rank assigns combined ranks (earnings yield rank + return on capital
// rank, both descending) and sorts companies best first. Ties keep the
// incoming order.
func Rank(companies []Company) {
	eyRank := rankDesc(companies, func(c Company) float64 { return c.EarningsYield })
	rocRank := rankDesc(companies, func(c Company) float64 { return c.ReturnOnCapital })
	for i := range companies {
		companies[i].CombinedRank = eyRank[i] + rocRank[i]
	}
	sort.SliceStable(companies, func(a, b int) bool {
		return companies[a].CombinedRank < companies[b].CombinedRank
	})
}

func rankDesc(companies []Company, metric func(Company) float64) []int {
	idx := make([]int, len(companies))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return metric(companies[idx[a]]) > metric(companies[idx[b]])
	})
	ranks := make([]int, len(companies))
	for pos, i := range idx {
		ranks[i] = pos + 1
	}
	return ranks
}

// reportHeaders is the output column ordering of the screener workbook.
var reportHeaders = []string{
	"Ticker codes", "Company Name", "Operating Income", "Market Cap",
	"Current Debt", "Long Term Debt", "Total Current Assets",
	"Total Current Liabilities", "Enterprise Value",
	"Net Property Plant Equipment", "Earning Yield", "Return on Capital",
	"Combined Rank",
}

// WriteReport writes the screened companies to a single-sheet workbook.
func WriteReport(path string, companies []Company) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	for i, h := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, c := range companies {
		values := []interface{}{
			c.Ticker, c.Name, c.OperatingIncome, c.MarketCap,
			c.CurrentDebt, c.LongTermDebt, c.TotalCurrentAssets,
			c.TotalCurrentLiabilities, c.EnterpriseValue,
			c.NetPPE, c.EarningsYield, c.ReturnOnCapital,
			c.CombinedRank,
		}
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %q: %w", path, err)
	}
	return nil
}
