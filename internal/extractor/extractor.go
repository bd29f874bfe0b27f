// Package extractor turns a statement PDF into per-page text. It is the
// pipeline's opaque collaborator: everything downstream consumes only
// the ordered page strings.
//
// Extraction tries progressively cruder methods until one yields text
// that actually reads like a statement: the structured library, raw
// content-stream decoding with ToUnicode CMaps, the external pdftotext
// tool, and finally OCR for scanned documents.
package extractor

import (
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads a PDF and returns the text of each page in order.
func ExtractText(filePath string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && looksLikeStatement(pages) {
		return pages, nil
	}

	if rawPages, err := extractRaw(filePath); err == nil && looksLikeStatement(rawPages) {
		return rawPages, nil
	}

	if popplerPages, err := extractWithPdftotext(filePath); err == nil && looksLikeStatement(popplerPages) {
		return popplerPages, nil
	}

	if IsOCRAvailable() {
		if ocrPages, err := extractWithOCR(filePath); err == nil && looksLikeStatement(ocrPages) {
			return ocrPages, nil
		}
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w (the file may be image-based or use undecodable font encodings)", libErr)
	}
	return nil, fmt.Errorf("no readable text could be extracted from %s", filePath)
}

// statementWords are words that appear in virtually every statement this
// tooling handles. Extracted text containing none of them is garbage
// from an identity-encoded font, not a statement.
var statementWords = []string{
	"statement", "transaction", "account", "balance", "date", "total",
	"amount", "credit", "debit", "payment", "card", "bank", "dividend",
	"sgd", "singapore", "page",
}

// looksLikeStatement gates every extraction method: enough text, mostly
// readable ASCII, and at least one recognizable statement word.
func looksLikeStatement(pages []string) bool {
	total := 0
	for _, p := range pages {
		total += len(strings.TrimSpace(p))
	}
	if total <= 50 {
		return false
	}
	if readableRatio(pages) <= 0.6 {
		return false
	}
	lower := strings.ToLower(strings.Join(pages, " "))
	for _, w := range statementWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// readableRatio measures the share of plain ASCII text characters.
// The check is deliberately strict: unicode.IsLetter matches the
// accented garbage that identity-encoded fonts produce.
func readableRatio(pages []string) float64 {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
				readable++
			case unicode.IsSpace(r):
				readable++
			case strings.ContainsRune(`.,-/:;()'"$%&@#!?+=*`, r):
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n := r.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	if pages = pagesByRow(r, n); looksLikeStatement(pages) {
		return pages, nil
	}
	if pages = pagesByContent(r, n); looksLikeStatement(pages) {
		return pages, nil
	}
	if pages = pagesByPlainText(r, n); looksLikeStatement(pages) {
		return pages, nil
	}
	if whole := wholeDocPlainText(r); looksLikeStatement([]string{whole}) {
		return []string{whole}, nil
	}
	return pages, nil
}

// pagesByRow uses GetTextByRow, the method with the best layout
// preservation for well-formed PDFs.
func pagesByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// pagesByContent reconstructs rows from raw text-object coordinates:
// pieces sharing a Y position form a row, sorted left to right, with a
// wide X gap treated as a column separator.
func pagesByContent(r *pdf.Reader, numPages int) []string {
	type piece struct {
		x float64
		s string
	}
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]piece)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], piece{x: t.X, s: t.S})
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		// PDF Y runs bottom to top.
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		var lines []string
		for _, y := range ys {
			items := rows[y]
			sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })
			var b strings.Builder
			var prevX float64
			for j, it := range items {
				if j > 0 && it.x-prevX > 15 {
					b.WriteString("  ")
				}
				b.WriteString(it.s)
				prevX = it.x
			}
			if line := strings.TrimSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func pagesByPlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func wholeDocPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext shells out to poppler-utils, extracting each page
// separately so page boundaries survive.
func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := pdfinfoPageCount(filePath)
	if numPages == 0 {
		numPages = 1
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		p := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", p, "-l", p, filePath, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) > 0 {
		return pages, nil
	}

	out, err := exec.Command("pdftotext", "-layout", filePath, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	if text := strings.TrimSpace(string(out)); text != "" {
		return []string{text}, nil
	}
	return nil, fmt.Errorf("pdftotext produced no output")
}

func pdfinfoPageCount(filePath string) int {
	out, err := exec.Command("pdfinfo", filePath).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if rest, ok := strings.CutPrefix(line, "Pages:"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
				return n
			}
		}
	}
	return 0
}
