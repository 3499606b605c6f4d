package library

import (
	"fmt"
	"strings"
)

// Item is anything a patron can borrow. Kind selects which of the
// variant fields are meaningful.
type Item struct {
	Kind   ItemKind
	Title  string
	Author string
	Year   int

	// Physical
	Pages     int
	Condition Condition

	// Digital
	FileSizeMB float64
	Format     string
}

// ItemDetails carries the variant-specific fields accepted by NewItem.
// Fields that do not apply to the requested kind are ignored.
type ItemDetails struct {
	Pages      int
	Condition  string
	FileSizeMB float64
	Format     string
}

// NewItem builds the variant named by kind. Unknown kind or condition tags
// yield a *ValidationError and no item.
func NewItem(kind, title, author string, year int, d ItemDetails) (Item, error) {
	k, err := ParseItemKind(kind)
	if err != nil {
		return Item{}, err
	}
	it := Item{Kind: k, Title: title, Author: author, Year: year}
	switch k {
	case KindPhysical:
		cond, err := ParseCondition(d.Condition)
		if err != nil {
			return Item{}, err
		}
		it.Pages = d.Pages
		it.Condition = cond
	case KindDigital:
		it.FileSizeMB = d.FileSizeMB
		it.Format = strings.ToUpper(strings.TrimSpace(d.Format))
	}
	return it, nil
}

// PenaltyRate is the item's own rate rule for a number of late days.
// Physical items charge one unit per day plus a flat 10 when worn; digital
// items have a constant rate of 5 per day.
func (it Item) PenaltyRate(daysLate int) float64 {
	switch it.Kind {
	case KindPhysical:
		rate := float64(daysLate) * 1.0
		if it.Condition == ConditionWorn {
			rate += 10
		}
		return rate
	case KindDigital:
		return 5.0
	}
	return 0
}

// flatRate is the legacy per-day charge for a physical item under FormulaFlat.
func (it Item) flatRate() float64 {
	if it.Condition == ConditionWorn {
		return 20
	}
	return 10
}

// Summary renders the item for the menu's listings.
func (it Item) Summary() string {
	s := fmt.Sprintf("Title: %s, Author: %s, Year: %d", it.Title, it.Author, it.Year)
	switch it.Kind {
	case KindPhysical:
		s += fmt.Sprintf(", Pages: %d, Condition: %s", it.Pages, it.Condition)
	case KindDigital:
		s += fmt.Sprintf(", File size: %g MB, Format: %s", it.FileSizeMB, it.Format)
	}
	return s
}
