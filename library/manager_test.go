package library

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func newManager(t *testing.T) *LibraryManager {
	t.Helper()
	mgr, err := NewLibraryManager(ManagerOptions{})
	if err != nil {
		t.Fatalf("mgr: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func day(s string) time.Time {
	d, _ := time.Parse(DateLayout, s)
	return d
}

func TestStudentRoundTrip(t *testing.T) {
	mgr := newManager(t)
	if _, replaced, err := mgr.AddPatron("Student", "Ana", "a@x.com", "CS"); err != nil || replaced {
		t.Fatalf("add patron: replaced=%v err=%v", replaced, err)
	}
	p, err := mgr.GetPatron("a@x.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.LoanLimit() != 5 {
		t.Fatalf("want limit 5, got %d", p.LoanLimit())
	}
}

func TestLendFlow(t *testing.T) {
	mgr := newManager(t)
	if _, err := mgr.AddItem("physical", "Dune", "Herbert", 1965, ItemDetails{Pages: 412, Condition: "worn"}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := mgr.AddItem("digital", "Go", "Pike", 2015, ItemDetails{FileSizeMB: 3, Format: "pdf"}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, _, err := mgr.AddPatron("faculty", "Ion", "i@x.com", "Math"); err != nil {
		t.Fatalf("add patron: %v", err)
	}

	loan, err := mgr.Lend("i@x.com", "Dune", day("2024-01-01"), day("2024-01-20"))
	if err != nil {
		t.Fatalf("lend physical: %v", err)
	}
	if loan.Posted() != 15 {
		t.Fatalf("want 15 posted, got %v", loan.Posted())
	}
	if _, err := mgr.Lend("i@x.com", "Go", day("2024-01-01"), day("2024-01-31")); err != nil {
		t.Fatalf("lend digital: %v", err)
	}

	p, _ := mgr.GetPatron("i@x.com")
	if p.PenaltyBalance() != 15 {
		t.Fatalf("want balance 15, got %v", p.PenaltyBalance())
	}
	if mgr.TotalLoans() != 2 {
		t.Fatalf("want 2 loans, got %d", mgr.TotalLoans())
	}
	history, err := mgr.History("i@x.com")
	if err != nil || len(history) != 2 {
		t.Fatalf("history: %v %v", history, err)
	}

	report, err := mgr.PenaltyReport()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report) != 1 || report[0].Loans != 2 || report[0].Posted != 15 || report[0].Accrued != 95 {
		t.Fatalf("unexpected report %+v", report[0])
	}

	stats, err := mgr.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats["library_penalties_posted_total"] != 15 {
		t.Fatalf("unexpected stats %v", stats)
	}
}

func TestLendMisses(t *testing.T) {
	mgr := newManager(t)
	mgr.AddPatron("student", "Ana", "a@x.com", "CS")

	if _, err := mgr.Lend("nobody@x.com", "Dune", day("2024-01-01"), day("2024-01-02")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for patron, got %v", err)
	}
	if _, err := mgr.Lend("a@x.com", "Dune", day("2024-01-01"), day("2024-01-02")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for item, got %v", err)
	}
	if mgr.TotalLoans() != 0 {
		t.Fatalf("no loan should be created")
	}
}

func TestSortedItems(t *testing.T) {
	mgr := newManager(t)
	for _, title := range []string{"C", "A", "B"} {
		if _, err := mgr.AddItem("digital", title, "X", 2000, ItemDetails{}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	items := mgr.SortedItems()
	if items[0].Title != "A" || items[1].Title != "B" || items[2].Title != "C" {
		t.Fatalf("not sorted: %v", items)
	}
}

func TestPrettyItemTruncates(t *testing.T) {
	it := Item{Kind: KindPhysical, Title: "A Very Long Title That Keeps Going On", Author: "Someone", Year: 1900}
	got := PrettyItem(it)
	if want := "physical  A Very Long Title That Keep... Someone                   1900  "; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyItemTruncatesOnRuneBoundary(t *testing.T) {
	it := Item{Kind: KindPhysical, Title: strings.Repeat("ă", 32), Author: "Ștefan Țiței", Year: 1900}
	got := PrettyItem(it)
	if !utf8.ValidString(got) {
		t.Fatalf("row is not valid UTF-8: %q", got)
	}
	want := "physical  " + strings.Repeat("ă", 27) + "... " + "Ștefan Țiței" + strings.Repeat(" ", 13) + " 1900  "
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if n := utf8.RuneCountInString(got); n != utf8.RuneCountInString(PrettyItem(Item{Kind: KindPhysical, Title: "x", Author: "y", Year: 1900})) {
		t.Fatalf("row width %d differs from an ASCII row", n)
	}
}

func TestJournalItemPrettyMatchesPrettyItem(t *testing.T) {
	it := Item{Kind: KindDigital, Title: "Amintiri din copilărie și alte povestiri", Author: "Ion Creangă", Year: 1892}
	ji := &JournalItem{Kind: "digital", Title: it.Title, Author: it.Author, Year: it.Year}
	if ji.Pretty() != PrettyItem(it) {
		t.Fatalf("search row %q differs from catalog row %q", ji.Pretty(), PrettyItem(it))
	}
}
