package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chongming-koh/AutomationInvest/internal/api"
	"github.com/chongming-koh/AutomationInvest/internal/driver"
	"github.com/chongming-koh/AutomationInvest/internal/extractor"
	"github.com/chongming-koh/AutomationInvest/internal/formats"
	"github.com/chongming-koh/AutomationInvest/internal/models"
	"github.com/chongming-koh/AutomationInvest/internal/report"
	"github.com/chongming-koh/AutomationInvest/internal/writer"
)

const version = "1.0.0"

func main() {
	formatFlag := flag.String("format", "", "Statement format: uob, ocbc, amex, cdp, srs, foreign (auto-detected if omitted)")
	sourceFlag := flag.String("source", "", "Source directory to scan recursively for PDFs")
	outputFlag := flag.String("output", "", "Output file path (.xlsx or .csv; defaults to <format>.xlsx)")
	yearFlag := flag.String("year", "", "Year context for statements whose dates carry no year (SRS)")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of a batch conversion")
	addrFlag := flag.String("addr", ":8080", "Listen address for -serve")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Section Extractor

Converts semi-structured statement PDFs (credit card, CDP, SRS,
foreign custody) into normalized spreadsheet rows.

Usage:
  statements [flags] <input.pdf> [input2.pdf ...]
  statements [flags] -source <dir>
  statements -serve [-addr :8080]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Auto-detect format and convert one statement
  statements statement.pdf

  # Batch convert a folder tree of UOB statements
  statements -format=uob -source=./statements/uob -output=uob.xlsx

  # SRS statements need the year supplied
  statements -format=srs -year=2024 -source=./statements/srs

  # Serve the conversion API
  statements -serve -addr :8080
`)
	}

	flag.Parse()

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if *versionFlag {
		fmt.Printf("statements v%s\n", version)
		os.Exit(0)
	}

	if *serveFlag {
		fmt.Printf("Listening on %s\n", *addrFlag)
		if err := api.NewApp().Listen(*addrFlag); err != nil {
			fatalf("server failed: %v\n", err)
		}
		return
	}

	if *helpFlag || (flag.NArg() == 0 && *sourceFlag == "") {
		flag.Usage()
		os.Exit(0)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = findPDFs(*sourceFlag)
	}
	format := resolveFormat(*formatFlag, inputs)
	d := &driver.Driver{
		Format:  format,
		Extract: extractor.ExtractText,
		Year:    *yearFlag,
		Log:     log,
	}

	var batch *models.BatchResult
	var err error
	if *sourceFlag != "" {
		batch, err = d.Run(*sourceFlag)
		if err != nil {
			fatalf("%v\n", err)
		}
	} else {
		batch = &models.BatchResult{Scanned: flag.NArg()}
		for _, path := range flag.Args() {
			res := d.ProcessDocument(path, filepath.Dir(path))
			batch.Documents = append(batch.Documents, res)
			if res.Skipped {
				batch.Skipped++
				continue
			}
			batch.Rows = append(batch.Rows, res.Rows...)
		}
	}

	printBatch(batch)

	outPath := *outputFlag
	if outPath == "" {
		outPath = format.Name + ".xlsx"
	}
	if err := writeOutput(outPath, format, batch.Rows); err != nil {
		fatalf("%v\n", err)
	}
	fmt.Printf("Output: %s\n", outPath)
}

// findPDFs lists the PDFs under dir so auto-detection has candidates
// in batch mode.
func findPDFs(dir string) []string {
	if dir == "" {
		return nil
	}
	var paths []string
	filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err == nil && !entry.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths
}

// resolveFormat returns the requested format, auto-detecting from the
// first readable input when none was named.
func resolveFormat(name string, inputs []string) *formats.Format {
	if name != "" {
		f, err := formats.New(name)
		if err != nil {
			fatalf("%v\n", err)
		}
		return f
	}

	for _, path := range inputs {
		pages, err := extractor.ExtractText(path)
		if err != nil {
			continue
		}
		f, err := formats.AutoDetect(pages)
		if err != nil {
			continue
		}
		fmt.Printf("Auto-detected format: %s\n", f.DisplayName)
		return f
	}
	fatalf("could not auto-detect statement format; specify -format explicitly\n")
	return nil
}

func printBatch(batch *models.BatchResult) {
	for _, doc := range batch.Documents {
		if doc.Skipped {
			fmt.Printf("  %s: skipped (%s)\n", doc.Path, doc.Reason)
			continue
		}
		fmt.Printf("  %s: %d row(s)\n", doc.Path, len(doc.Rows))
	}
	fmt.Printf("Scanned %d document(s), skipped %d, extracted %d row(s)\n",
		batch.Scanned, batch.Skipped, len(batch.Rows))
	if len(batch.Rows) == 0 {
		fmt.Println("Warning: no rows extracted. Check the -format flag if auto-detection was used.")
	}
}

// writeOutput renders the batch rows to CSV or a workbook, depending on
// the output extension. Summary formats get a second workbook sheet.
func writeOutput(path string, format *formats.Format, rows []models.Row) error {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		w := &writer.CSVWriter{Columns: format.Columns}
		if err := w.WriteToFile(path, rows); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
		return nil
	}

	w := &writer.ExcelWriter{Columns: format.Columns, SheetName: format.SheetName}
	var summary []models.Row
	if format.Summary {
		w.SummarySheet = "Sheet2"
		summary = report.Summarize(rows)
	}
	if err := w.WriteFile(path, rows, summary); err != nil {
		return fmt.Errorf("workbook write failed: %w", err)
	}
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
