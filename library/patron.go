package library

import (
	"fmt"
	"sync"
)

// Patron is a registered borrower. The Directory owns every registered
// patron; loans refer to one by email.
type Patron struct {
	Category Category
	Name     string
	Email    string
	// Affiliation is the faculty for a student and the department for a
	// faculty member.
	Affiliation string

	mu      sync.Mutex
	balance float64
	history []LoanRecord
}

// NewPatron builds the variant named by category. It does not register the
// patron anywhere.
func NewPatron(category, name, email, affiliation string) (*Patron, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, &ValidationError{Type: "Patron", Field: "Email", Reason: "must not be empty"}
	}
	return &Patron{Category: c, Name: name, Email: email, Affiliation: affiliation}, nil
}

// LoanLimit is the number of concurrent loans the patron's category allows.
func (p *Patron) LoanLimit() int {
	switch p.Category {
	case CategoryStudent:
		return 5
	case CategoryFaculty:
		return 10
	}
	return 0
}

// AddPenalty accrues amount onto the balance. There is no way to lower it.
func (p *Patron) AddPenalty(amount float64) error {
	if amount < 0 {
		return &ValidationError{Type: "Patron", Field: "Penalty", Reason: "must not be negative", Value: amount}
	}
	p.mu.Lock()
	p.balance += amount
	p.mu.Unlock()
	return nil
}

func (p *Patron) PenaltyBalance() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance
}

func (p *Patron) RecordLoan(rec LoanRecord) {
	p.mu.Lock()
	p.history = append(p.history, rec)
	p.mu.Unlock()
}

// History returns a copy of the loan history, oldest first.
func (p *Patron) History() []LoanRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]LoanRecord, len(p.history))
	copy(out, p.history)
	return out
}

func (p *Patron) Summary() string {
	s := fmt.Sprintf("Name: %s, Email: %s, Category: %s, Penalties: %.2f RON",
		p.Name, p.Email, p.Category, p.PenaltyBalance())
	switch p.Category {
	case CategoryStudent:
		s += ", Faculty: " + p.Affiliation
	case CategoryFaculty:
		s += ", Department: " + p.Affiliation
	}
	return s
}
