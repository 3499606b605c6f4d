package library

import "sync"

// Directory is the email-keyed registry of patrons.
type Directory struct {
	mu      sync.Mutex
	byEmail map[string]*Patron
	order   []string
}

func NewDirectory() *Directory {
	return &Directory{byEmail: make(map[string]*Patron)}
}

// Register stores p under its email. A patron already registered with the
// same email is replaced, and replaced reports it.
func (d *Directory) Register(p *Patron) (replaced bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, replaced = d.byEmail[p.Email]; !replaced {
		d.order = append(d.order, p.Email)
	}
	d.byEmail[p.Email] = p
	return replaced
}

func (d *Directory) Lookup(email string) (*Patron, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.byEmail[email]; ok {
		return p, nil
	}
	return nil, notFound("patron", email)
}

// All returns the patrons in order of first registration.
func (d *Directory) All() []*Patron {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Patron, 0, len(d.order))
	for _, email := range d.order {
		out = append(out, d.byEmail[email])
	}
	return out
}

func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.byEmail)
}
