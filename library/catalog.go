package library

import (
	"sort"
	"sync"
)

// Catalog is the ordered collection of items. Titles need not be unique.
type Catalog struct {
	mu    sync.Mutex
	items []Item
}

func NewCatalog() *Catalog { return &Catalog{} }

// Insert appends it at the end of the catalog.
func (c *Catalog) Insert(it Item) {
	c.mu.Lock()
	c.items = append(c.items, it)
	c.mu.Unlock()
}

// FindByTitle returns the first item, in current order, whose title equals
// title exactly.
func (c *Catalog) FindByTitle(title string) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.Title == title {
			return it, nil
		}
	}
	return Item{}, notFound("item", title)
}

// All returns a copy of the items in current order.
func (c *Catalog) All() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// SortByTitle reorders the catalog by title. Equal titles keep their
// relative order.
func (c *Catalog) SortByTitle() {
	c.mu.Lock()
	sort.SliceStable(c.items, func(i, j int) bool { return c.items[i].Title < c.items[j].Title })
	c.mu.Unlock()
}

func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
