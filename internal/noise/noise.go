// Package noise classifies statement lines as boilerplate. Rule sets are
// per-format data so the classifier itself stays format-agnostic.
package noise

import (
	"regexp"
	"strings"

	"github.com/chongming-koh/AutomationInvest/internal/section"
)

// RuleSet holds one format's noise rules. Evaluation order follows the
// contract: empty line, marker equality, then substring/pattern rules,
// short-circuiting on the first match.
//
// Substring rules are tested against both the literal spaced form and a
// whitespace-stripped form of the line, because PDF extraction sometimes
// glues adjacent words together when line breaks are lost.
type RuleSet struct {
	// Markers are section header/footer literals that reappear on page
	// breaks. Matched whitespace- and case-insensitively.
	Markers []string
	// MarkerPatterns are tolerant marker regexes (same role as Markers).
	MarkerPatterns []*regexp.Regexp
	// Substrings match case-insensitively anywhere in the line.
	Substrings []string
	// Prefixes match case-insensitively at the start of the line.
	Prefixes []string
	// Patterns are free-form rules (page indicators, masked card numbers).
	Patterns []*regexp.Regexp
}

// IsNoise reports whether line is boilerplate. Pure predicate; the input
// is expected to be a single trimmed line.
func (r *RuleSet) IsNoise(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return true
	}

	upper := strings.ToUpper(s)
	compact := strings.ToUpper(section.Compact(s))

	for _, m := range r.Markers {
		if strings.EqualFold(s, m) {
			return true
		}
		if compact == strings.ToUpper(section.Compact(m)) {
			return true
		}
	}
	for _, p := range r.MarkerPatterns {
		if p.MatchString(s) {
			return true
		}
	}

	for _, sub := range r.Substrings {
		if strings.Contains(upper, strings.ToUpper(sub)) {
			return true
		}
		if strings.Contains(compact, strings.ToUpper(section.Compact(sub))) {
			return true
		}
	}
	for _, pre := range r.Prefixes {
		if strings.HasPrefix(upper, strings.ToUpper(pre)) {
			return true
		}
	}
	for _, p := range r.Patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Filter returns the trimmed lines of text with noise removed, in order.
// Order matters downstream: continuation association depends on adjacency.
func (r *RuleSet) Filter(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		s := strings.TrimSpace(ln)
		if r.IsNoise(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
