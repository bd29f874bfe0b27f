// Package lookup maps issuer codes from dividend statements to the
// display names used in the output workbook. Tables are immutable
// configuration passed in at construction so tests can substitute their
// own.
package lookup

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DividendPrefix is the fixed lead-in CDP/SRS statements print before
// the issuer code on a dividend credit line.
const DividendPrefix = "CR DIVIDENDS FOR"

// Table maps short issuer codes (or leading code words) to full names.
type Table struct {
	byCode map[string]string
	codes  []string
}

// NewTable copies entries into an immutable table.
func NewTable(entries map[string]string) *Table {
	t := &Table{byCode: make(map[string]string, len(entries))}
	for code, name := range entries {
		key := strings.ToUpper(strings.TrimSpace(code))
		t.byCode[key] = name
		t.codes = append(t.codes, key)
	}
	// Longer codes first so "CAPLAND INTCOM T" wins over "CAPLAND".
	sort.Slice(t.codes, func(i, j int) bool {
		if len(t.codes[i]) != len(t.codes[j]) {
			return len(t.codes[i]) > len(t.codes[j])
		}
		return t.codes[i] < t.codes[j]
	})
	return t
}

// CleanDescription strips the dividend prefix and resolves the leading
// issuer code to its display name. Resolution order: exact code, leading
// code prefix, then a fuzzy match for codes mangled by extraction.
// Unmapped text passes through cleaned.
func (t *Table) CleanDescription(raw string) string {
	desc := strings.TrimSpace(strings.ReplaceAll(raw, DividendPrefix, ""))
	if desc == "" {
		return desc
	}
	upper := strings.ToUpper(desc)

	if name, ok := t.byCode[upper]; ok {
		return name
	}
	for _, code := range t.codes {
		if strings.HasPrefix(upper, code) {
			return t.byCode[code]
		}
	}

	// Fuzzy fallback: the first token of the description against the code
	// list covers codes with dropped or glued characters.
	first := strings.Fields(upper)[0]
	matches := fuzzy.RankFindFold(first, t.codes)
	if len(matches) > 0 {
		sort.Sort(matches)
		best := matches[0]
		// Only accept near-misses; distance scales with code length.
		if best.Distance >= 0 && best.Distance <= len(best.Target)/3 {
			return t.byCode[best.Target]
		}
	}

	return desc
}

// Name resolves a bare code without prefix stripping.
func (t *Table) Name(code string) (string, bool) {
	name, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// Len reports the number of entries.
func (t *Table) Len() int {
	return len(t.byCode)
}
