package library

import (
	"strings"
	"time"
)

// ItemKind tags the Item variants.
type ItemKind int

const (
	KindPhysical ItemKind = iota + 1
	KindDigital
)

func (k ItemKind) String() string {
	switch k {
	case KindPhysical:
		return "physical"
	case KindDigital:
		return "digital"
	default:
		return "unknown"
	}
}

// ParseItemKind accepts "physical"/"digital" in any case, plus the legacy
// menu tags "Fizica"/"Digitala".
func ParseItemKind(s string) (ItemKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "physical", "fizica":
		return KindPhysical, nil
	case "digital", "digitala":
		return KindDigital, nil
	}
	return 0, &ValidationError{Type: "Item", Field: "Kind", Reason: "unknown tag", Value: s, Err: ErrUnknownKind}
}

// Condition is the physical state of a Physical item.
type Condition int

const (
	ConditionGood Condition = iota
	ConditionWorn
)

func (c Condition) String() string {
	if c == ConditionWorn {
		return "worn"
	}
	return "good"
}

// ParseCondition accepts "good"/"worn" (and "buna"/"uzata"). An empty string
// means good.
func ParseCondition(s string) (Condition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "good", "buna":
		return ConditionGood, nil
	case "worn", "uzata":
		return ConditionWorn, nil
	}
	return 0, &ValidationError{Type: "Item", Field: "Condition", Reason: "unknown tag", Value: s, Err: ErrUnknownCondition}
}

// Category tags the Patron variants.
type Category int

const (
	CategoryStudent Category = iota + 1
	CategoryFaculty
)

func (c Category) String() string {
	switch c {
	case CategoryStudent:
		return "Student"
	case CategoryFaculty:
		return "Faculty"
	default:
		return "Unknown"
	}
}

// ParseCategory accepts "student"/"faculty" in any case, plus "Profesor".
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return CategoryStudent, nil
	case "faculty", "profesor":
		return CategoryFaculty, nil
	}
	return 0, &ValidationError{Type: "Patron", Field: "Category", Reason: "unknown tag", Value: s, Err: ErrUnknownCategory}
}

// LoanRecord is one entry in a patron's loan history.
type LoanRecord struct {
	ItemTitle  string
	BorrowDate time.Time
	ReturnDate time.Time
}

// DateLayout is the calendar-date format used for display and by the menu.
const DateLayout = "2006-01-02"
