package types

import (
	"fmt"
	"slices"
)

// Catalogue is the ordered collection of entries from one successful load,
// plus the distinct element values in first-seen order.
// A Catalogue is never modified; reloads build a new one.
type Catalogue struct {
	entries  []Entry
	elements []string
	index    map[string]int
}

// EmptyCatalogue returns the catalogue held before anything is loaded.
func EmptyCatalogue() Catalogue {
	return Catalogue{}
}

// NewCatalogue builds a catalogue from entries, preserving their order.
// It fails with ErrDuplicateID when two entries share an id.
func NewCatalogue(entries []Entry) (Catalogue, error) {
	c := Catalogue{
		entries: slices.Clone(entries),
		index:   make(map[string]int, len(entries)),
	}
	seen := make(map[string]struct{})
	for i, e := range c.entries {
		if _, dup := c.index[e.ID()]; dup {
			return Catalogue{}, fmt.Errorf("%w: %q", ErrDuplicateID, e.ID())
		}
		c.index[e.ID()] = i
		if _, ok := seen[e.Element()]; ok || e.Element() == "" {
			continue
		}
		seen[e.Element()] = struct{}{}
		c.elements = append(c.elements, e.Element())
	}
	return c, nil
}

// Len returns the number of entries.
func (c Catalogue) Len() int { return len(c.entries) }

// At returns the i-th entry in stored order.
func (c Catalogue) At(i int) Entry { return c.entries[i] }

// Entries returns a copy of the entries in stored order.
func (c Catalogue) Entries() []Entry { return slices.Clone(c.entries) }

// Elements returns a copy of the distinct element values in first-seen order.
func (c Catalogue) Elements() []string { return slices.Clone(c.elements) }

// Equal reports whether both catalogues hold equal entries in the same order.
func (c Catalogue) Equal(other Catalogue) bool {
	return slices.EqualFunc(c.entries, other.entries, Entry.Equal)
}

// ByID looks an entry up by its id.
func (c Catalogue) ByID(id string) (Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}
