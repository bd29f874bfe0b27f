package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chongming-koh/AutomationInvest/internal/fundamentals"
)

func main() {
	tikrFlag := flag.String("tikr", "TIKR", "Directory of TIKR financial workbooks")
	capFlag := flag.String("marketcap", "MarketCap/SGX-MarketCap.xlsx", "Market cap workbook path")
	outputFlag := flag.String("output", "SGX-Magic-Formula.xlsx", "Output workbook path")
	yearFlag := flag.Int("year", 2025, "Preferred fiscal year column (falls back to latest)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Magic Formula screener

Reads TIKR financial workbooks, joins market caps, computes earnings
yield and return on capital, and writes a ranked workbook.

Usage:
  magicformula [flags]

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	companies, err := fundamentals.Screen(*tikrFlag, *capFlag, *yearFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Screened %d company workbook(s)\n", len(companies))
	for _, c := range companies {
		fmt.Printf("  %-8s EY %.4f  ROC %.4f  rank %d\n", c.Ticker, c.EarningsYield, c.ReturnOnCapital, c.CombinedRank)
	}

	if err := fundamentals.WriteReport(*outputFlag, companies); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved output to: %s\n", *outputFlag)
}
