// Package section locates the region of interest inside extracted
// statement text. Markers are matched tolerantly because PDF extraction
// inserts spurious whitespace and line breaks inside multi-word headers,
// and sometimes glues adjacent words together entirely.
package section

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ErrStartMarkerMissing means the section header was not found; the
	// document should be skipped, not the batch.
	ErrStartMarkerMissing = errors.New("start marker not found")
	// ErrEndMarkerMissing means the closing marker was absent after the
	// start marker.
	ErrEndMarkerMissing = errors.New("end marker not found")
)

// Bounds is an inclusive character span into the searched text.
type Bounds struct {
	Start int
	End   int
}

// Spec describes how to find one format's section.
//
// Start/End are tolerant patterns (variable internal whitespace). The
// literals are used for the compacted fallback scan when the tolerant
// pattern fails, and by the noise classifier to drop repeated headers.
type Spec struct {
	Start        *regexp.Regexp
	End          *regexp.Regexp
	StartLiteral string
	EndLiteral   string

	// Repeated formats restate the section header on every page; use
	// BoundAll to collect every header…next-header-or-end segment.
	Repeated bool

	// PerPage formats carry an independent section on each page rather
	// than one table flowing across pages.
	PerPage bool
}

// Tolerant compiles a marker literal into a pattern that allows any run
// of whitespace (including none) between the literal's non-space
// characters. This survives both inserted line breaks and glued words.
func Tolerant(literal string) *regexp.Regexp {
	var parts []string
	for _, r := range literal {
		if unicode.IsSpace(r) {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	return regexp.MustCompile(`(?i)` + strings.Join(parts, `\s*`))
}

// Compact strips all whitespace from s.
func Compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Bound finds the first start marker and the first end marker after it,
// returning the inclusive span from start-match-begin to end-match-end.
func Bound(text string, spec Spec) (Bounds, error) {
	start, startEnd, ok := findStart(text, spec)
	if !ok {
		return Bounds{}, ErrStartMarkerMissing
	}

	end, ok := findEnd(text, startEnd, spec)
	if !ok {
		return Bounds{}, ErrEndMarkerMissing
	}

	return Bounds{Start: start, End: end}, nil
}

// BoundAll returns every non-overlapping segment for formats whose
// section header repeats on each page. Each segment runs from one start
// marker to the end marker or the next start marker, whichever comes
// first; the last runs to the end of the text when the end marker is
// absent. Text between an end marker and a later header (payment
// advice, promotions) belongs to no segment.
func BoundAll(text string, spec Spec) ([]Bounds, error) {
	starts := spec.Start.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		// Compacted fallback finds at most the first occurrence.
		s, _, ok := findStartCompacted(text, spec)
		if !ok {
			return nil, ErrStartMarkerMissing
		}
		starts = [][]int{{s, s}}
	}

	var segs []Bounds
	for i, m := range starts {
		limit := len(text)
		if i+1 < len(starts) {
			limit = starts[i+1][0]
		}
		seg := Bounds{Start: m[0], End: limit}
		if end, ok := findEnd(text[:limit], m[1], spec); ok {
			seg.End = end
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// Slice returns the text within b.
func Slice(text string, b Bounds) string {
	return text[b.Start:b.End]
}

func findStart(text string, spec Spec) (start, matchEnd int, ok bool) {
	if m := spec.Start.FindStringIndex(text); m != nil {
		return m[0], m[1], true
	}
	return findStartCompacted(text, spec)
}

// findStartCompacted strips all whitespace from both the text and the
// marker literal, finds the marker in the compacted text, then maps the
// compacted index back to the original text through a table recording
// the raw index of every non-space character.
func findStartCompacted(text string, spec Spec) (start, matchEnd int, ok bool) {
	if spec.StartLiteral == "" {
		return 0, 0, false
	}

	compactMarker := strings.ToLower(Compact(spec.StartLiteral))
	var compacted strings.Builder
	var rawIndex []int
	for i, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		compacted.WriteRune(unicode.ToLower(r))
		rawIndex = append(rawIndex, i)
	}

	idx := strings.Index(compacted.String(), compactMarker)
	if idx < 0 {
		return 0, 0, false
	}

	// Index into the compacted string is a byte offset; convert to a
	// rune position so it selects the right mapping-table entry.
	runeIdx := len([]rune(compacted.String()[:idx]))
	endRune := runeIdx + len([]rune(compactMarker)) - 1
	if endRune >= len(rawIndex) {
		endRune = len(rawIndex) - 1
	}
	return rawIndex[runeIdx], rawIndex[endRune] + 1, true
}

func findEnd(text string, from int, spec Spec) (end int, ok bool) {
	if spec.End == nil {
		return len(text), true
	}
	rest := text[from:]
	if m := spec.End.FindStringIndex(rest); m != nil {
		return from + m[1], true
	}
	// Compacted fallback for glued end markers.
	if spec.EndLiteral != "" {
		sub := Spec{StartLiteral: spec.EndLiteral}
		if _, me, found := findStartCompacted(rest, sub); found {
			return from + me, true
		}
	}
	return 0, false
}
