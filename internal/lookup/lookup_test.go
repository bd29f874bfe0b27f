package lookup

import "testing"

func testTable() *Table {
	return NewTable(map[string]string{
		"CAPLAND":          "CapitaLand Group",
		"CAPLAND INTCOM T": "CapitaLand Integrated Commercial Trust",
		"OCBC":             "OCBC Bank",
		"STENG":            "ST Engineering",
	})
}

func TestCleanDescriptionExact(t *testing.T) {
	tbl := testTable()
	if got := tbl.CleanDescription("CR DIVIDENDS FOR OCBC"); got != "OCBC Bank" {
		t.Errorf("got %q", got)
	}
}

func TestCleanDescriptionLongestPrefixWins(t *testing.T) {
	tbl := testTable()
	got := tbl.CleanDescription("CR DIVIDENDS FOR CAPLAND INTCOM T 1,000 UNITS")
	if got != "CapitaLand Integrated Commercial Trust" {
		t.Errorf("got %q, want the longer code's name", got)
	}
	got = tbl.CleanDescription("CR DIVIDENDS FOR CAPLAND 500 SHARES")
	if got != "CapitaLand Group" {
		t.Errorf("got %q", got)
	}
}

func TestCleanDescriptionFuzzyNearMiss(t *testing.T) {
	tbl := testTable()
	// Extraction dropped a letter from the code.
	if got := tbl.CleanDescription("CR DIVIDENDS FOR CAPLND"); got != "CapitaLand Group" {
		t.Errorf("got %q, want fuzzy resolution", got)
	}
}

func TestCleanDescriptionUnknownPassesThrough(t *testing.T) {
	tbl := testTable()
	got := tbl.CleanDescription("CR DIVIDENDS FOR ZZZQQQVVV HOLDINGS")
	if got != "ZZZQQQVVV HOLDINGS" {
		t.Errorf("got %q, want cleaned pass-through", got)
	}
}

func TestCleanDescriptionCaseInsensitive(t *testing.T) {
	tbl := testTable()
	if got := tbl.CleanDescription("steng"); got != "ST Engineering" {
		t.Errorf("got %q", got)
	}
}

func TestName(t *testing.T) {
	tbl := testTable()
	if name, ok := tbl.Name(" ocbc "); !ok || name != "OCBC Bank" {
		t.Errorf("Name = (%q, %v)", name, ok)
	}
	if _, ok := tbl.Name("NOPE"); ok {
		t.Error("unknown code resolved")
	}
}

func TestLen(t *testing.T) {
	if n := testTable().Len(); n != 4 {
		t.Errorf("Len = %d, want 4", n)
	}
}
