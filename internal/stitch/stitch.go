// Package stitch reassembles logical records from a filtered line
// stream. A record opens on a structural start line (typically a leading
// date token) and absorbs following continuation lines until the next
// start line or the end of the stream.
package stitch

import (
	"strings"

	"github.com/chongming-koh/AutomationInvest/internal/fields"
)

// StartFunc recognizes a record-start line, returning the matched key
// tokens and the remainder of the line.
type StartFunc func(line string) (keys []string, rest string, ok bool)

// Rules parameterize stitching for one statement format.
type Rules struct {
	Start StartFunc

	// IsNoise, when set, drops stray noise that survived filtering so it
	// is never absorbed as a continuation.
	IsNoise func(string) bool

	// SeedAmount splits a trailing amount token off the opening fragment
	// when description text precedes it.
	SeedAmount bool

	// BareAmount accepts an amount-only continuation line as the record's
	// amount — but only while no amount has been assigned. Once assigned,
	// amount-looking lines are description text (first-wins heuristic).
	BareAmount bool

	// CreditToken, when non-empty, names a single-token line (e.g. "CR")
	// that converts the nearest record's amount to the credit form instead
	// of being treated as text.
	CreditToken string

	// MaxContLen caps continuation line length; longer lines are dropped.
	// Zero means no cap.
	MaxContLen int

	// MaxConts caps how many continuation lines one record absorbs.
	// Zero means unlimited; negative disables continuations entirely
	// (single-line record formats).
	MaxConts int
}

// Pending is a record accumulator: key tokens plus ordered text
// fragments, with the amount pulled out once recognized.
type Pending struct {
	Keys      []string
	Fragments []string
	Amount    string // raw numeric token, thousands separators intact
	Suffix    string // "", "CR", or "DR"
	HasAmount bool
	conts     int
}

// NormalizedAmount renders the accumulated amount in the output
// convention, or "" when none was found.
func (p *Pending) NormalizedAmount() string {
	if !p.HasAmount {
		return ""
	}
	return fields.NormalizeSuffixed(p.Amount, p.Suffix)
}

// Description joins the fragments with single spaces, collapsed.
func (p *Pending) Description() string {
	return fields.JoinFragments(p.Fragments)
}

// Stitch walks the line stream and returns the completed records in
// order. Lines before the first record start are dropped.
func Stitch(lines []string, r Rules) []Pending {
	var out []Pending
	var cur *Pending

	flush := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if r.IsNoise != nil && r.IsNoise(line) {
			continue
		}

		// Standalone credit indicator: retarget the nearest amount rather
		// than opening or extending a record.
		if r.CreditToken != "" && strings.EqualFold(line, r.CreditToken) {
			if cur != nil && cur.HasAmount {
				cur.Suffix = "CR"
			} else if len(out) > 0 && out[len(out)-1].HasAmount {
				out[len(out)-1].Suffix = "CR"
			}
			continue
		}

		if keys, rest, ok := r.Start(line); ok {
			flush()
			cur = &Pending{Keys: keys}
			seed(cur, rest, r)
			continue
		}

		if cur == nil {
			continue // text before the first record
		}
		if r.MaxContLen > 0 && len(line) > r.MaxContLen {
			continue
		}
		if r.MaxConts < 0 || (r.MaxConts > 0 && cur.conts >= r.MaxConts) {
			continue
		}
		cur.conts++

		if r.BareAmount && !cur.HasAmount {
			if num, suffix, ok := fields.BareAmount(line); ok {
				cur.Amount = num
				cur.Suffix = strings.ToUpper(suffix)
				cur.HasAmount = true
				continue
			}
		}
		cur.Fragments = append(cur.Fragments, line)
	}

	flush()
	return out
}

func seed(p *Pending, rest string, r Rules) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return
	}
	if r.SeedAmount {
		if before, num, suffix, ok := fields.AmountAtEnd(rest); ok {
			p.Amount = num
			p.Suffix = strings.ToUpper(suffix)
			p.HasAmount = true
			p.Fragments = append(p.Fragments, before)
			return
		}
	}
	p.Fragments = append(p.Fragments, rest)
}
