package formats

import (
	"testing"

	"github.com/chongming-koh/AutomationInvest/internal/stitch"
)

func TestNew(t *testing.T) {
	for _, name := range []string{"uob", "OCBC", " amex ", "cdp", "srs", "foreign"} {
		f, err := New(name)
		if err != nil {
			t.Errorf("New(%q) error: %v", name, err)
			continue
		}
		if f.Finalize == nil || f.Rules.Start == nil || f.Noise == nil {
			t.Errorf("New(%q) returned incomplete descriptor", name)
		}
	}
	if _, err := New("dbs"); err == nil {
		t.Error("unknown format should error")
	}
}

func TestAutoDetect(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{"uob", []string{"UNITED OVERSEAS BANK LIMITED\nstatement body"}, "uob"},
		{"amex", []string{"AMERICAN EXPRESS\nstatement body"}, "amex"},
		{"cdp", []string{"THE CENTRAL DEPOSITORY (PTE) LIMITED"}, "cdp"},
		{"srs glued header", []string{"TTRRAANNSSAACCTTIIOONNDDEETTAAIILLSS"}, "srs"},
		{"foreign", []string{"C u s t o d y S t a t e m e n t"}, "foreign"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := AutoDetect(tt.pages)
			if err != nil {
				t.Fatalf("AutoDetect error: %v", err)
			}
			if f.Name != tt.want {
				t.Errorf("detected %q, want %q", f.Name, tt.want)
			}
		})
	}
}

// Dividend statements name the banks whose cards we also parse; the
// more distinctive formats must win detection.
func TestAutoDetectOrderPrefersDividendFormats(t *testing.T) {
	pages := []string{"SUPPLEMENTARY RETIREMENT SCHEME\nCR DIVIDENDS FOR OCBCBK\nUNITED OVERSEAS BANK"}
	f, err := AutoDetect(pages)
	if err != nil {
		t.Fatalf("AutoDetect error: %v", err)
	}
	if f.Name != "srs" {
		t.Errorf("detected %q, want srs", f.Name)
	}
}

func TestAutoDetectUnknown(t *testing.T) {
	if _, err := AutoDetect([]string{"an unrelated document"}); err == nil {
		t.Error("expected detection failure")
	}
}

func TestUOBFinalizeUsesTransactionDate(t *testing.T) {
	f := UOB()
	p := stitch.Pending{
		Keys:      []string{"06 JUN", "07 JUN"},
		Fragments: []string{"CR INTEREST"},
		Amount:    "16.84",
		Suffix:    "CR",
		HasAmount: true,
	}
	row, ok := f.Finalize(p, Meta{Group: "2021"})
	if !ok {
		t.Fatal("Finalize rejected a valid record")
	}
	if row.Date != "07 JUN" {
		t.Errorf("Date = %q, want the transaction date", row.Date)
	}
	if row.Year != "2021" || row.Amount != "(16.84)" || row.Description != "CR INTEREST" {
		t.Errorf("row = %+v", row)
	}
}

func TestUOBFinalizeDropsAmountlessRecord(t *testing.T) {
	f := UOB()
	p := stitch.Pending{Keys: []string{"06 JUN", "07 JUN"}, Fragments: []string{"carry-over text"}}
	if _, ok := f.Finalize(p, Meta{}); ok {
		t.Error("record without an amount should be dropped")
	}
}

func TestAmexFinalizeDerivesYearFromDate(t *testing.T) {
	f := Amex()
	p := stitch.Pending{
		Keys:      []string{"31.01.21"},
		Fragments: []string{"PAYMENT BY TELEPHONE/INTERNET BANKING"},
		Amount:    "723.40",
		HasAmount: true,
	}
	row, ok := f.Finalize(p, Meta{Group: "ignored"})
	if !ok {
		t.Fatal("Finalize rejected a valid record")
	}
	if row.Date != "31 JAN" || row.Year != "2021" {
		t.Errorf("row = %+v", row)
	}
}

func TestAmexFinalizeDropsBadDate(t *testing.T) {
	f := Amex()
	p := stitch.Pending{Keys: []string{"31.13.21"}, Amount: "1.00", HasAmount: true}
	if _, ok := f.Finalize(p, Meta{}); ok {
		t.Error("unparseable date should drop the record")
	}
}

func TestOCBCFinalizePassesAmountVerbatim(t *testing.T) {
	f := OCBC()
	p := stitch.Pending{
		Keys:      []string{"02/04", "(241.75)"},
		Fragments: []string{"PAYMENT BY INTERNET"},
	}
	row, ok := f.Finalize(p, Meta{Group: "2023"})
	if !ok {
		t.Fatal("Finalize rejected a valid record")
	}
	if row.Date != "02 Apr" || row.Amount != "(241.75)" {
		t.Errorf("row = %+v", row)
	}
}

func TestCDPFinalizeResolvesIssuerName(t *testing.T) {
	f := CDP()
	p := stitch.Pending{
		Keys:      []string{"14/11/2025", "64.50"},
		Fragments: []string{"SGX Interim Cash Dividend - 600 units @ SGD 0.1075"},
	}
	row, ok := f.Finalize(p, Meta{Year: "2025"})
	if !ok {
		t.Fatal("Finalize rejected a valid record")
	}
	if row.Description != "SGX" {
		t.Errorf("Description = %q, want resolved issuer", row.Description)
	}
	if row.Date != "14-Nov-25" || row.Currency != "SGD" || row.NetAmount != "64.50" {
		t.Errorf("row = %+v", row)
	}
}

func TestSRSFinalizeNeedsYearContext(t *testing.T) {
	f := SRS()
	p := stitch.Pending{
		Keys:      []string{"13MAY", "13.75", "19,067.06"},
		Fragments: []string{"CR DIVIDENDS FOR 92FC"},
	}
	row, ok := f.Finalize(p, Meta{Year: "2024"})
	if !ok {
		t.Fatal("Finalize rejected a valid record")
	}
	if row.Date != "13-May-24" || row.Year != "2024" {
		t.Errorf("row = %+v", row)
	}
	if row.Description != "Vicom" {
		t.Errorf("Description = %q, want resolved counter name", row.Description)
	}
	if row.Balance != "19,067.06" {
		t.Errorf("Balance = %q", row.Balance)
	}
}

func TestForeignStartFiltersNoteTypes(t *testing.T) {
	f := Foreign()
	if _, _, ok := f.Rules.Start("19/11/2025 CRC7789419 CR Note W.E.F 22 MAY 31.07 31.07"); !ok {
		t.Error("W.E.F credit note should start a record")
	}
	if _, _, ok := f.Rules.Start("19/11/2025 DRC7789419 DR Note HANDLING 4.20 26.87"); !ok {
		t.Error("handling debit note should start a record")
	}
	if _, _, ok := f.Rules.Start("19/11/2025 CRC7789420 CR Note INTEREST 0.52 27.39"); ok {
		t.Error("interest note should not start a record")
	}
}
