package section

import (
	"strings"
	"testing"
)

func spec(start, end string) Spec {
	s := Spec{
		Start:        Tolerant(start),
		StartLiteral: start,
	}
	if end != "" {
		s.End = Tolerant(end)
		s.EndLiteral = end
	}
	return s
}

func TestTolerant(t *testing.T) {
	re := Tolerant("SUB TOTAL")
	for _, line := range []string{
		"SUB TOTAL",
		"SUB  TOTAL",
		"SUBTOTAL",
		"S U B T O T A L",
		"sub total",
	} {
		if !re.MatchString(line) {
			t.Errorf("Tolerant should match %q", line)
		}
	}
	if re.MatchString("SUB AMOUNT") {
		t.Error("Tolerant matched unrelated text")
	}
}

func TestCompact(t *testing.T) {
	if got := Compact("a b\tc\nd"); got != "abcd" {
		t.Errorf("Compact = %q, want %q", got, "abcd")
	}
}

func TestBound(t *testing.T) {
	text := "header junk\nTRANSACTION DETAILS\n01 JUN PAYMENT 5.00\nSUB TOTAL 5.00\ntrailer"
	b, err := Bound(text, spec("TRANSACTION DETAILS", "SUB TOTAL"))
	if err != nil {
		t.Fatalf("Bound error: %v", err)
	}
	got := Slice(text, b)
	if !strings.HasPrefix(got, "TRANSACTION DETAILS") {
		t.Errorf("section should start at the start marker, got %q", got)
	}
	if !strings.Contains(got, "01 JUN PAYMENT 5.00") {
		t.Errorf("section should contain the record lines, got %q", got)
	}
	if strings.Contains(got, "trailer") {
		t.Errorf("section should stop at the end marker, got %q", got)
	}
}

func TestBoundMissingStart(t *testing.T) {
	_, err := Bound("nothing to see here", spec("TRANSACTION DETAILS", "SUB TOTAL"))
	if err != ErrStartMarkerMissing {
		t.Errorf("err = %v, want ErrStartMarkerMissing", err)
	}
}

func TestBoundMissingEnd(t *testing.T) {
	_, err := Bound("TRANSACTION DETAILS\n01 JUN PAYMENT", spec("TRANSACTION DETAILS", "SUB TOTAL"))
	if err != ErrEndMarkerMissing {
		t.Errorf("err = %v, want ErrEndMarkerMissing", err)
	}
}

func TestBoundNoEndMarkerMeansEOF(t *testing.T) {
	text := "TRANSACTION DETAILS\n01 JUN PAYMENT 5.00"
	b, err := Bound(text, spec("TRANSACTION DETAILS", ""))
	if err != nil {
		t.Fatalf("Bound error: %v", err)
	}
	if b.End != len(text) {
		t.Errorf("End = %d, want len(text) %d", b.End, len(text))
	}
}

// Extraction sometimes glues header words together with the surrounding
// text so that even the tolerant pattern cannot anchor. The compacted
// scan must still find the marker and map the span back correctly.
func TestBoundCompactedFallback(t *testing.T) {
	// Marker characters interleaved with newlines inside other tokens.
	text := "xxT\nR A NSACTIONDET\nAILSyy\nrecord line 9.99\nS\nUBTOT\nALzz"
	sp := Spec{
		Start:        Tolerant("zzzz-never-matches"),
		StartLiteral: "TRANSACTION DETAILS",
		End:          Tolerant("qqqq-never-matches"),
		EndLiteral:   "SUB TOTAL",
	}
	b, err := Bound(text, sp)
	if err != nil {
		t.Fatalf("Bound error: %v", err)
	}
	got := Slice(text, b)
	if !strings.Contains(got, "record line 9.99") {
		t.Errorf("compacted fallback span = %q", got)
	}
	if strings.Contains(got, "zz") {
		t.Errorf("span should end at the compacted end marker, got %q", got)
	}
}

func TestBoundAllRepeatedSegments(t *testing.T) {
	text := "NEW TRANSACTIONS\nseg one line\nNEW TRANSACTIONS\nseg two line\nEND OF STATEMENT\ntrailer"
	sp := spec("NEW TRANSACTIONS", "END OF STATEMENT")
	segs, err := BoundAll(text, sp)
	if err != nil {
		t.Fatalf("BoundAll error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2", len(segs))
	}
	var all string
	for _, s := range segs {
		all += Slice(text, s)
	}
	if !strings.Contains(all, "seg one line") || !strings.Contains(all, "seg two line") {
		t.Errorf("segments lost record lines: %q", all)
	}
	if strings.Contains(all, "trailer") {
		t.Errorf("segments ran past the end marker: %q", all)
	}
	if strings.Count(all, "seg one line") != 1 {
		t.Errorf("segment overlap: %q", all)
	}
}

// Statements often carry payment advice or promotions between the end
// marker and the next page's restated header. That text belongs to no
// segment; a segment stops at the end marker even when a later header
// follows.
func TestBoundAllEndMarkerBeforeNextHeader(t *testing.T) {
	text := "HDR\nfirst record\nEND OF SECTION\npromo text between pages\nHDR\nsecond record\nEND OF SECTION"
	segs, err := BoundAll(text, spec("HDR", "END OF SECTION"))
	if err != nil {
		t.Fatalf("BoundAll error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2", len(segs))
	}
	for _, s := range segs {
		if strings.Contains(Slice(text, s), "promo text") {
			t.Errorf("inter-page text leaked into segment %q", Slice(text, s))
		}
	}
	if !strings.Contains(Slice(text, segs[0]), "first record") {
		t.Errorf("first segment = %q", Slice(text, segs[0]))
	}
	if !strings.Contains(Slice(text, segs[1]), "second record") {
		t.Errorf("second segment = %q", Slice(text, segs[1]))
	}
}

func TestBoundAllLastSegmentToEOF(t *testing.T) {
	text := "HDR\nfirst\nHDR\nsecond with no end marker"
	segs, err := BoundAll(text, spec("HDR", "NEVER PRESENT"))
	if err != nil {
		t.Fatalf("BoundAll error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2", len(segs))
	}
	if segs[1].End != len(text) {
		t.Errorf("last segment End = %d, want len(text) %d", segs[1].End, len(text))
	}
}

func TestBoundAllMissingStart(t *testing.T) {
	_, err := BoundAll("no markers here", spec("HDR", ""))
	if err != ErrStartMarkerMissing {
		t.Errorf("err = %v, want ErrStartMarkerMissing", err)
	}
}
