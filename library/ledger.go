package library

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// LoanObserver is notified after every successful CreateLoan. posted is the
// amount debited to the patron by that loan.
type LoanObserver interface {
	ObserveLoan(l *Loan, posted float64) error
}

// Ledger creates loans and keeps every loan ever created.
type Ledger struct {
	mu         sync.Mutex
	policy     PenaltyPolicy
	logger     *slog.Logger
	observers  []LoanObserver
	nextID     int
	totalLoans int
	loans      []*Loan
}

type LedgerOption func(*Ledger)

func WithPolicy(p PenaltyPolicy) LedgerOption {
	return func(l *Ledger) { l.policy = p }
}

func WithLogger(logger *slog.Logger) LedgerOption {
	return func(l *Ledger) { l.logger = logger.With(slog.String("component", "ledger")) }
}

func WithObserver(o LoanObserver) LedgerOption {
	return func(l *Ledger) { l.observers = append(l.observers, o) }
}

func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{
		policy: DefaultPolicy(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Policy() PenaltyPolicy { return l.policy }

// CreateLoan lends item to patron from borrow to ret.
//
// kind must name the item's own kind. The patron's history always gets a
// record; for physical items any penalty due for ret is debited to the
// patron immediately, while digital loans never debit.
func (l *Ledger) CreateLoan(kind string, borrow, ret time.Time, item Item, patron *Patron) (*Loan, error) {
	k, err := ParseItemKind(kind)
	if err != nil {
		return nil, err
	}
	if k != item.Kind {
		return nil, &ValidationError{Type: "Loan", Field: "Kind", Reason: "does not match item " + item.Kind.String(), Value: kind}
	}
	if patron == nil {
		return nil, &ValidationError{Type: "Loan", Field: "Patron", Reason: "must not be nil"}
	}
	days, err := DaysBetween(borrow, ret)
	if err != nil {
		return nil, fmt.Errorf("create loan for %q: %w", item.Title, err)
	}

	l.mu.Lock()
	l.nextID++
	l.totalLoans++
	loan := &Loan{
		ID:          l.nextID,
		Item:        item,
		BorrowDate:  borrow,
		ReturnDate:  ret,
		PatronEmail: patron.Email,
		policy:      l.policy,
	}
	if k == KindPhysical {
		if due := l.policy.Charge(item, days); due > 0 {
			// due is never negative, so AddPenalty cannot fail here.
			_ = patron.AddPenalty(due)
			loan.posted = due
		}
	}
	patron.RecordLoan(LoanRecord{ItemTitle: item.Title, BorrowDate: borrow, ReturnDate: ret})
	l.loans = append(l.loans, loan)
	observers := l.observers
	l.mu.Unlock()

	l.logger.Debug("loan created",
		slog.Int("id", loan.ID),
		slog.String("kind", k.String()),
		slog.String("title", item.Title),
		slog.String("patron", patron.Email),
		slog.Int("days", days),
		slog.Float64("posted", loan.posted),
	)
	for _, o := range observers {
		if err := o.ObserveLoan(loan, loan.posted); err != nil {
			l.logger.Warn("loan observer failed", slog.Int("id", loan.ID), slog.String("error", err.Error()))
		}
	}
	return loan, nil
}

// TotalLoans is the number of loans created since the ledger was built.
func (l *Ledger) TotalLoans() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalLoans
}

// Loans returns every loan in creation order.
func (l *Ledger) Loans() []*Loan {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Loan, len(l.loans))
	copy(out, l.loans)
	return out
}

// LoansFor returns the loans made by the patron with the given email.
func (l *Ledger) LoansFor(email string) []*Loan {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*Loan
	for _, loan := range l.loans {
		if loan.PatronEmail == email {
			out = append(out, loan)
		}
	}
	return out
}
