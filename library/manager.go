package library

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// LibraryManager owns the catalog, the patron directory and the ledger for
// one process, and keeps the journal and metrics in step with them.
type LibraryManager struct {
	catalog *Catalog
	patrons *Directory
	ledger  *Ledger
	journal *Journal
	metrics *Metrics
	logger  *slog.Logger
}

// ManagerOptions configures NewLibraryManager. The zero value gives the
// default penalty policy, an in-memory journal and a silent logger.
type ManagerOptions struct {
	Policy     *PenaltyPolicy
	JournalDSN string
	Logger     *slog.Logger
}

func NewLibraryManager(opts ManagerOptions) (*LibraryManager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	policy := DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}

	journal, err := OpenJournal(opts.JournalDSN)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	metrics := NewMetrics()

	return &LibraryManager{
		catalog: NewCatalog(),
		patrons: NewDirectory(),
		ledger: NewLedger(
			WithPolicy(policy),
			WithLogger(logger),
			WithObserver(journal),
			WithObserver(metrics),
		),
		journal: journal,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Close closes the journal.
func (lm *LibraryManager) Close() error { return lm.journal.Close() }

func (lm *LibraryManager) Catalog() *Catalog { return lm.catalog }
func (lm *LibraryManager) Directory() *Directory { return lm.patrons }
func (lm *LibraryManager) Ledger() *Ledger { return lm.ledger }

// ------------------ Item helpers ------------------

// AddItem builds an item through the factory and inserts it.
func (lm *LibraryManager) AddItem(kind, title, author string, year int, d ItemDetails) (Item, error) {
	it, err := NewItem(kind, title, author, year, d)
	if err != nil {
		return Item{}, err
	}
	lm.catalog.Insert(it)
	if _, err := lm.journal.RecordItem(it); err != nil {
		lm.logger.Warn("journal write failed", slog.String("title", title), slog.String("error", err.Error()))
	}
	return it, nil
}

func (lm *LibraryManager) GetItem(title string) (Item, error) { return lm.catalog.FindByTitle(title) }

// SortedItems sorts the catalog by title and returns it.
func (lm *LibraryManager) SortedItems() []Item {
	lm.catalog.SortByTitle()
	return lm.catalog.All()
}

func (lm *LibraryManager) SearchItems(q string) ([]*JournalItem, error) {
	return lm.journal.SearchItems(q)
}

// ------------------ Patron helpers ------------------

// AddPatron builds a patron through the factory and registers it. replaced
// reports that an earlier patron with the same email was overwritten.
func (lm *LibraryManager) AddPatron(category, name, email, affiliation string) (p *Patron, replaced bool, err error) {
	p, err = NewPatron(category, name, email, affiliation)
	if err != nil {
		return nil, false, err
	}
	replaced = lm.patrons.Register(p)
	if replaced {
		lm.logger.Warn("patron replaced", slog.String("email", email))
	}
	return p, replaced, nil
}

func (lm *LibraryManager) GetPatron(email string) (*Patron, error) { return lm.patrons.Lookup(email) }
func (lm *LibraryManager) GetAllPatrons() []*Patron { return lm.patrons.All() }

// History returns the loan history of the patron registered under email.
func (lm *LibraryManager) History(email string) ([]LoanRecord, error) {
	p, err := lm.patrons.Lookup(email)
	if err != nil {
		return nil, err
	}
	return p.History(), nil
}

// ------------------ Circulation ------------------

// Lend creates a loan of the first item titled title to the patron
// registered under email.
func (lm *LibraryManager) Lend(email, title string, borrow, ret time.Time) (*Loan, error) {
	p, err := lm.patrons.Lookup(email)
	if err != nil {
		return nil, err
	}
	it, err := lm.catalog.FindByTitle(title)
	if err != nil {
		return nil, err
	}
	return lm.ledger.CreateLoan(it.Kind.String(), borrow, ret, it, p)
}

func (lm *LibraryManager) TotalLoans() int { return lm.ledger.TotalLoans() }

func (lm *LibraryManager) PenaltyReport() ([]*PenaltyLine, error) { return lm.journal.PenaltyReport() }

func (lm *LibraryManager) Stats() (map[string]float64, error) { return lm.metrics.Snapshot() }

// ------------------ Utilities ------------------

// PrettyHeader is the column header matching PrettyItem rows.
func PrettyHeader() string {
	return fmt.Sprintf("%-9s %-30s %-25s %-6s", "Kind", "Title", "Author", "Year") + "\n" + strings.Repeat("-", 73)
}

// PrettyItem formats an item for lists.
func PrettyItem(it Item) string { return prettyRow(it.Kind.String(), it.Title, it.Author, it.Year) }

// Pretty formats a search hit the same way PrettyItem formats a catalog item.
func (ji *JournalItem) Pretty() string { return prettyRow(ji.Kind, ji.Title, ji.Author, ji.Year) }

// fmt pads by rune count, so cutting on rune boundaries keeps columns aligned.
func prettyRow(kind, title, author string, year int) string {
	return fmt.Sprintf("%-9s %-30s %-25s %-6d", kind, truncate(title, 30), truncate(author, 25), year)
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
