// Package fields parses and normalizes the typed fields of a stitched
// record: dates, descriptions, and signed amounts.
package fields

import (
	"fmt"
	"regexp"
	"strings"
)

// Amount token at the end of a line, with optional CR/DR suffix
// (with or without a space before it).
var amountAtEndRE = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*\.\d{2})\s*(CR|DR)?$`)

// A line that is nothing but an amount, e.g. "7.00" or "16.84 CR".
var amountOnlyRE = regexp.MustCompile(`(?i)^(\d{1,3}(?:,\d{3})*\.\d{2})\s*(CR|DR)?$`)

var spaceRunRE = regexp.MustCompile(`\s+`)

// NormalizeAmount strips thousands separators and renders credits in the
// parenthesized convention: ("1,234.56", credit) -> "(1234.56)". A debit
// suffix is preserved verbatim after the number.
func NormalizeAmount(num string, credit bool) string {
	n := strings.TrimSpace(strings.ReplaceAll(num, ",", ""))
	if credit {
		return "(" + n + ")"
	}
	return n
}

// NormalizeSuffixed applies the CR/DR suffix convention: CR becomes the
// parenthesized form, DR stays appended, no suffix passes through.
func NormalizeSuffixed(num, suffix string) string {
	suf := strings.ToUpper(strings.TrimSpace(suffix))
	switch suf {
	case "CR":
		return NormalizeAmount(num, true)
	case "":
		return NormalizeAmount(num, false)
	default:
		return NormalizeAmount(num, false) + suf
	}
}

// AmountAtEnd splits a trailing amount token off a fragment. The amount
// is only accepted when description text precedes it; a fragment that is
// nothing but an amount is left alone for the bare-amount rule.
func AmountAtEnd(s string) (before, num, suffix string, ok bool) {
	m := amountAtEndRE.FindStringSubmatchIndex(s)
	if m == nil {
		return "", "", "", false
	}
	before = strings.TrimSpace(s[:m[0]])
	if before == "" {
		return "", "", "", false
	}
	num = s[m[2]:m[3]]
	if m[4] >= 0 {
		suffix = s[m[4]:m[5]]
	}
	return before, num, suffix, true
}

// BareAmount matches a line consisting solely of an amount with an
// optional CR/DR suffix.
func BareAmount(s string) (num, suffix string, ok bool) {
	m := amountOnlyRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// IsCredit reports whether a raw amount token carries the credit
// convention: a CR suffix or enclosing parentheses.
func IsCredit(num, suffix string) bool {
	if strings.EqualFold(strings.TrimSpace(suffix), "CR") {
		return true
	}
	n := strings.TrimSpace(num)
	return strings.HasPrefix(n, "(") && strings.HasSuffix(n, ")")
}

// CollapseSpaces trims and collapses internal whitespace runs to single
// spaces.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(spaceRunRE.ReplaceAllString(s, " "))
}

// JoinFragments joins record fragments with single spaces and collapses
// whitespace.
func JoinFragments(fragments []string) string {
	return CollapseSpaces(strings.Join(fragments, " "))
}

var monthByNumber = map[string]string{
	"01": "Jan", "02": "Feb", "03": "Mar", "04": "Apr",
	"05": "May", "06": "Jun", "07": "Jul", "08": "Aug",
	"09": "Sep", "10": "Oct", "11": "Nov", "12": "Dec",
}

var monthByAbbr = map[string]string{
	"JAN": "Jan", "FEB": "Feb", "MAR": "Mar", "APR": "Apr",
	"MAY": "May", "JUN": "Jun", "JUL": "Jul", "AUG": "Aug",
	"SEP": "Sep", "OCT": "Oct", "NOV": "Nov", "DEC": "Dec",
}

var monthNumberByAbbr = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// DateError marks a date token that matched no known calendar form. The
// affected record is dropped rather than emitting a partially-wrong row.
type DateError struct {
	Token string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("unrecognized date token %q", e.Token)
}

// FormatDotDate converts "DD.MM.YY" to its day-month display form plus a
// four-digit year: "25.10.20" -> ("25 OCT", "2020"). Two-digit years are
// taken as 20xx, matching the statements this tooling covers.
func FormatDotDate(token string) (dayMon, year string, err error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return "", "", &DateError{Token: token}
	}
	mon, ok := monthByNumber[parts[1]]
	if !ok {
		return "", "", &DateError{Token: token}
	}
	return parts[0] + " " + strings.ToUpper(mon), "20" + parts[2], nil
}

// FormatSlashDayMonth converts "DD/MM" (or "DD/MM/…") to "DD Mon":
// "02/04" -> "02 Apr". An unknown month number fails the record.
func FormatSlashDayMonth(token string) (string, error) {
	parts := strings.Split(strings.TrimSpace(token), "/")
	if len(parts) < 2 {
		return "", &DateError{Token: token}
	}
	dd := parts[0]
	if len(dd) == 1 {
		dd = "0" + dd
	}
	mm := parts[1]
	if len(mm) == 1 {
		mm = "0" + mm
	}
	mon, ok := monthByNumber[mm]
	if !ok {
		return "", &DateError{Token: token}
	}
	return dd + " " + mon, nil
}

// FormatFullSlashDate converts "DD/MM/YYYY" to "DD-Mon-YY":
// "14/11/2025" -> "14-Nov-25".
func FormatFullSlashDate(token string) (string, error) {
	parts := strings.Split(strings.TrimSpace(token), "/")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return "", &DateError{Token: token}
	}
	mon, ok := monthByNumber[parts[1]]
	if !ok {
		return "", &DateError{Token: token}
	}
	return parts[0] + "-" + mon + "-" + parts[2][2:], nil
}

// FormatCompactDate converts "DDMON" plus a two-digit year context to
// "DD-Mon-YY": ("13MAY", "24") -> "13-May-24". The year comes from
// outside the text (run configuration), never guessed from content.
func FormatCompactDate(token, yearContext string) (string, error) {
	s := strings.TrimSpace(token)
	if len(s) != 5 {
		return "", &DateError{Token: token}
	}
	mon, ok := monthByAbbr[strings.ToUpper(s[2:])]
	if !ok {
		return "", &DateError{Token: token}
	}
	return s[:2] + "-" + mon + "-" + yearContext, nil
}

// MonthNumber returns the 1-12 number for a 3-letter month abbreviation,
// or 0 when unknown.
func MonthNumber(abbr string) int {
	return monthNumberByAbbr[strings.ToUpper(abbr)]
}
