package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"library-loans/library"
)

// menu reads commands line by line and drives the LibraryManager.
type menu struct {
	sc     *bufio.Scanner
	out    io.Writer
	mgr    *library.LibraryManager
	prompt bool
}

func runMenu(in io.Reader, out io.Writer, mgr *library.LibraryManager, prompt bool) error {
	m := &menu{sc: bufio.NewScanner(in), out: out, mgr: mgr, prompt: prompt}

	m.println("Welcome to the Library Loan Manager!")
	m.println("Available commands:")
	m.println("  Patrons: add patron, list patrons, penalties, history")
	m.println("  Items: add item, list items, search items")
	m.println("  Loans: lend, total loans, report, stats")
	m.println("  System: exit")

	for {
		m.promptText("\n> ")
		if !m.sc.Scan() {
			break
		}
		cmd := strings.TrimSpace(m.sc.Text())

		switch cmd {
		case "":
			continue
		case "add patron":
			m.handleAddPatron()
		case "add item":
			m.handleAddItem()
		case "lend":
			m.handleLend()
		case "list patrons":
			m.handleListPatrons()
		case "list items":
			m.handleListItems()
		case "search items":
			m.handleSearchItems()
		case "total loans":
			m.println(fmt.Sprintf("Total loans: %d", m.mgr.TotalLoans()))
		case "penalties":
			m.handlePenalties()
		case "history":
			m.handleHistory()
		case "report":
			m.handleReport()
		case "stats":
			m.handleStats()
		case "exit":
			m.println("Goodbye!")
			return nil
		default:
			m.println("Unknown command. Type one of the available commands listed above.")
		}
	}
	return m.sc.Err()
}

// promptText writes s only when stdin is an interactive terminal, so piped
// scripts produce clean output.
func (m *menu) promptText(s string) {
	if m.prompt {
		fmt.Fprint(m.out, s)
	}
}

func (m *menu) println(s string) { fmt.Fprintln(m.out, s) }

// ask prompts for one line. ok is false when input is exhausted.
func (m *menu) ask(label string) (string, bool) {
	m.promptText(label + ": ")
	if !m.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.sc.Text()), true
}

func (m *menu) askInt(label string) (int, bool) {
	s, ok := m.ask(label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		m.println(fmt.Sprintf("Invalid number: %s", s))
		return 0, false
	}
	return n, true
}

func (m *menu) askDate(label string) (time.Time, bool) {
	s, ok := m.ask(label + " (YYYY-MM-DD)")
	if !ok {
		return time.Time{}, false
	}
	d, err := parseDate(s)
	if err != nil {
		m.println(fmt.Sprintf("Invalid date: %s", s))
		return time.Time{}, false
	}
	return d, true
}

// parseDate reads a calendar date as UTC midnight.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(library.DateLayout, strings.TrimSpace(s), time.UTC)
}

func (m *menu) handleAddPatron() {
	category, ok := m.ask("Category (Student/Faculty)")
	if !ok {
		return
	}
	name, ok := m.ask("Name")
	if !ok {
		return
	}
	email, ok := m.ask("Email")
	if !ok {
		return
	}
	label := "Department"
	if strings.EqualFold(category, "student") {
		label = "Faculty"
	}
	affiliation, ok := m.ask(label)
	if !ok {
		return
	}

	p, replaced, err := m.mgr.AddPatron(category, name, email, affiliation)
	if err != nil {
		m.println(fmt.Sprintf("Error: %v", err))
		return
	}
	if replaced {
		m.println(fmt.Sprintf("Patron %s replaced the previous registration for %s", p.Name, p.Email))
		return
	}
	m.println(fmt.Sprintf("Added %s %s (loan limit %d)", p.Category, p.Name, p.LoanLimit()))
}

func (m *menu) handleAddItem() {
	kind, ok := m.ask("Kind (Physical/Digital)")
	if !ok {
		return
	}
	if _, err := library.ParseItemKind(kind); err != nil {
		m.println(fmt.Sprintf("Error: %v", err))
		return
	}
	title, ok := m.ask("Title")
	if !ok {
		return
	}
	author, ok := m.ask("Author")
	if !ok {
		return
	}
	year, ok := m.askInt("Year published")
	if !ok {
		return
	}

	var d library.ItemDetails
	if k, _ := library.ParseItemKind(kind); k == library.KindPhysical {
		if d.Pages, ok = m.askInt("Pages"); !ok {
			return
		}
		if d.Condition, ok = m.ask("Condition (good/worn)"); !ok {
			return
		}
	} else {
		size, ok := m.ask("File size (MB)")
		if !ok {
			return
		}
		f, err := strconv.ParseFloat(size, 64)
		if err != nil {
			m.println(fmt.Sprintf("Invalid number: %s", size))
			return
		}
		d.FileSizeMB = f
		if d.Format, ok = m.ask("Format (PDF/EPUB)"); !ok {
			return
		}
	}

	it, err := m.mgr.AddItem(kind, title, author, year, d)
	if err != nil {
		m.println(fmt.Sprintf("Error: %v", err))
		return
	}
	m.println(fmt.Sprintf("Added %s item '%s'", it.Kind, it.Title))
}

func (m *menu) handleLend() {
	email, ok := m.ask("Patron email")
	if !ok {
		return
	}
	title, ok := m.ask("Item title")
	if !ok {
		return
	}
	borrow, ok := m.askDate("Borrow date")
	if !ok {
		return
	}
	ret, ok := m.askDate("Return date")
	if !ok {
		return
	}

	loan, err := m.mgr.Lend(email, title, borrow, ret)
	switch {
	case errors.Is(err, library.ErrNotFound):
		m.println(fmt.Sprintf("Not found: %v", err))
		return
	case err != nil:
		m.println(fmt.Sprintf("Error: %v", err))
		return
	}
	m.println(fmt.Sprintf("Loan %d created, penalty %.2f RON", loan.ID, loan.Penalty()))
	if loan.Posted() > 0 {
		m.println(fmt.Sprintf("%.2f RON added to %s's balance", loan.Posted(), email))
	}
}

func (m *menu) handleListPatrons() {
	patrons := m.mgr.GetAllPatrons()
	if len(patrons) == 0 {
		m.println("No patrons registered.")
		return
	}
	for _, p := range patrons {
		m.println(p.Summary())
	}
}

func (m *menu) handleListItems() {
	items := m.mgr.SortedItems()
	if len(items) == 0 {
		m.println("No items in catalog.")
		return
	}
	for _, it := range items {
		m.println(it.Summary())
	}
}

func (m *menu) handleSearchItems() {
	q, ok := m.ask("Query")
	if !ok {
		return
	}
	items, err := m.mgr.SearchItems(q)
	if err != nil {
		m.println(fmt.Sprintf("Error: %v", err))
		return
	}
	if len(items) == 0 {
		m.println(fmt.Sprintf("No items found matching '%s'.", q))
		return
	}
	m.println(fmt.Sprintf("Found %d item(s) matching '%s':", len(items), q))
	m.println(library.PrettyHeader())
	for _, ji := range items {
		m.println(ji.Pretty())
	}
}

func (m *menu) handlePenalties() {
	patrons := m.mgr.GetAllPatrons()
	if len(patrons) == 0 {
		m.println("No patrons registered.")
		return
	}
	for _, p := range patrons {
		m.println(fmt.Sprintf("Patron: %s, Penalty: %.2f RON", p.Email, p.PenaltyBalance()))
	}
}

func (m *menu) handleHistory() {
	email, ok := m.ask("Patron email")
	if !ok {
		return
	}
	history, err := m.mgr.History(email)
	if err != nil {
		m.println(fmt.Sprintf("Not found: %v", err))
		return
	}
	m.println(fmt.Sprintf("Loan history for %s:", email))
	if len(history) == 0 {
		m.println("No loans.")
		return
	}
	for _, rec := range history {
		m.println(fmt.Sprintf("Title: %s, Borrowed: %s, Returned: %s",
			rec.ItemTitle, rec.BorrowDate.Format(library.DateLayout), rec.ReturnDate.Format(library.DateLayout)))
	}
}

func (m *menu) handleReport() {
	lines, err := m.mgr.PenaltyReport()
	if err != nil {
		m.println(fmt.Sprintf("Error: %v", err))
		return
	}
	if len(lines) == 0 {
		m.println("No loans recorded.")
		return
	}
	m.println(fmt.Sprintf("%-30s %-6s %-12s %-12s", "Patron", "Loans", "Posted", "Accrued"))
	m.println(strings.Repeat("-", 63))
	for _, l := range lines {
		m.println(fmt.Sprintf("%-30s %-6d %-12.2f %-12.2f", l.Email, l.Loans, l.Posted, l.Accrued))
	}
}

func (m *menu) handleStats() {
	stats, err := m.mgr.Stats()
	if err != nil {
		m.println(fmt.Sprintf("Error: %v", err))
		return
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.println(fmt.Sprintf("%s %g", k, stats[k]))
	}
}
