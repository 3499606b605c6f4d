package library

import (
	"strings"
	"time"
)

// PenaltyFormula selects how physical items are charged.
type PenaltyFormula int

const (
	// FormulaProportional charges 1 per late day, plus a one-off 10 for worn items.
	FormulaProportional PenaltyFormula = iota
	// FormulaFlat charges 10 per late day, 20 for worn items.
	FormulaFlat
)

func (f PenaltyFormula) String() string {
	if f == FormulaFlat {
		return "flat"
	}
	return "proportional"
}

func ParsePenaltyFormula(s string) (PenaltyFormula, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "proportional":
		return FormulaProportional, nil
	case "flat":
		return FormulaFlat, nil
	}
	return 0, &ValidationError{Type: "PenaltyPolicy", Field: "Formula", Reason: "must be proportional or flat", Value: s}
}

// DefaultGraceDays is the number of elapsed days a loan may run without charge.
const DefaultGraceDays = 14

// PenaltyPolicy holds the ledger-wide charging rules.
type PenaltyPolicy struct {
	Formula   PenaltyFormula
	GraceDays int
}

func DefaultPolicy() PenaltyPolicy {
	return PenaltyPolicy{Formula: FormulaProportional, GraceDays: DefaultGraceDays}
}

// Charge returns the penalty for keeping it for elapsed days. Days up to and
// including the grace period are free. Under FormulaProportional a physical
// item is charged its own PenaltyRate for the late days; a digital item's
// PenaltyRate is a daily rate.
func (p PenaltyPolicy) Charge(it Item, elapsed int) float64 {
	late := elapsed - p.GraceDays
	if late <= 0 {
		return 0
	}
	switch it.Kind {
	case KindPhysical:
		if p.Formula == FormulaFlat {
			return float64(late) * it.flatRate()
		}
		return it.PenaltyRate(late)
	case KindDigital:
		return float64(late) * it.PenaltyRate(late)
	}
	return 0
}

// DaysBetween counts whole elapsed days from borrow to ret, flooring the
// clock difference to 24-hour units. Callers pass dates at UTC midnight, so
// the result matches calendar subtraction.
func DaysBetween(borrow, ret time.Time) (int, error) {
	if ret.Before(borrow) {
		return 0, ErrIllegalDateRange
	}
	return int(ret.Sub(borrow) / (24 * time.Hour)), nil
}
