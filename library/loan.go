package library

import (
	"fmt"
	"time"
)

// Loan binds a snapshot of an item to a patron and a date range. Loans are
// created by a Ledger and never change afterwards.
type Loan struct {
	ID         int
	Item       Item
	BorrowDate time.Time
	ReturnDate time.Time
	// PatronEmail is the handle of the borrower in the Directory.
	PatronEmail string

	policy PenaltyPolicy
	posted float64
}

func (l *Loan) Kind() ItemKind { return l.Item.Kind }

// ComputePenalty returns the penalty the loan would incur if returned on ret.
// It never touches the patron's balance.
func (l *Loan) ComputePenalty(ret time.Time) (float64, error) {
	days, err := DaysBetween(l.BorrowDate, ret)
	if err != nil {
		return 0, fmt.Errorf("loan %d: %w", l.ID, err)
	}
	return l.policy.Charge(l.Item, days), nil
}

// Penalty is the penalty for the loan's own return date.
func (l *Loan) Penalty() float64 {
	p, _ := l.ComputePenalty(l.ReturnDate) // the range was validated on creation
	return p
}

// Posted is the amount debited to the patron when the loan was created.
// It is always zero for digital items.
func (l *Loan) Posted() float64 { return l.posted }

// Patron resolves the borrower through the authoritative directory.
func (l *Loan) Patron(d *Directory) (*Patron, error) { return d.Lookup(l.PatronEmail) }

func (l *Loan) Summary() string {
	return fmt.Sprintf("Loan ID: %d, Borrowed: %s, Returned: %s, Patron: %s, Penalty: %.2f RON | %s",
		l.ID, l.BorrowDate.Format(DateLayout), l.ReturnDate.Format(DateLayout),
		l.PatronEmail, l.Penalty(), l.Item.Summary())
}
