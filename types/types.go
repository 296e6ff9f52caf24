package types

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
)

// EntryFields carries the raw attribute values used to build an Entry.
type EntryFields struct {
	ID            string
	Name          string
	Symbol        string
	DateRange     string
	Element       string
	RulingPlanet  string
	Personality   []string
	Strengths     []string
	Weaknesses    []string
	Compatibility []string
	Origin        string
}

// Entry represents one zodiac sign of the catalogue.
// Entries are immutable: getters hand out copies of slice fields.
type Entry struct {
	id            string
	name          string
	symbol        string
	dateRange     string
	element       string
	rulingPlanet  string
	personality   []string
	strengths     []string
	weaknesses    []string
	compatibility []string
	origin        string
}

// NewEntry creates a new Entry from the given fields
func NewEntry(f EntryFields) Entry {
	return Entry{
		id:            f.ID,
		name:          f.Name,
		symbol:        f.Symbol,
		dateRange:     f.DateRange,
		element:       f.Element,
		rulingPlanet:  f.RulingPlanet,
		personality:   slices.Clone(f.Personality),
		strengths:     slices.Clone(f.Strengths),
		weaknesses:    slices.Clone(f.Weaknesses),
		compatibility: slices.Clone(f.Compatibility),
		origin:        f.Origin,
	}
}

// Getters for Entry fields
func (e Entry) ID() string              { return e.id }
func (e Entry) Name() string            { return e.name }
func (e Entry) Symbol() string          { return e.symbol }
func (e Entry) DateRange() string       { return e.dateRange }
func (e Entry) Element() string         { return e.element }
func (e Entry) RulingPlanet() string    { return e.rulingPlanet }
func (e Entry) Personality() []string   { return slices.Clone(e.personality) }
func (e Entry) Strengths() []string     { return slices.Clone(e.strengths) }
func (e Entry) Weaknesses() []string    { return slices.Clone(e.weaknesses) }
func (e Entry) Compatibility() []string { return slices.Clone(e.compatibility) }
func (e Entry) Origin() string          { return e.origin }

// Fields returns a copy of the entry's attribute values.
func (e Entry) Fields() EntryFields {
	return EntryFields{
		ID:            e.id,
		Name:          e.name,
		Symbol:        e.symbol,
		DateRange:     e.dateRange,
		Element:       e.element,
		RulingPlanet:  e.rulingPlanet,
		Personality:   e.Personality(),
		Strengths:     e.Strengths(),
		Weaknesses:    e.Weaknesses(),
		Compatibility: e.Compatibility(),
		Origin:        e.origin,
	}
}

// Equal reports whether two entries carry the same attribute values.
func (e Entry) Equal(other Entry) bool {
	return e.id == other.id &&
		e.name == other.name &&
		e.symbol == other.symbol &&
		e.dateRange == other.dateRange &&
		e.element == other.element &&
		e.rulingPlanet == other.rulingPlanet &&
		slices.Equal(e.personality, other.personality) &&
		slices.Equal(e.strengths, other.strengths) &&
		slices.Equal(e.weaknesses, other.weaknesses) &&
		slices.Equal(e.compatibility, other.compatibility) &&
		e.origin == other.origin
}

// list.Item interface implementation
func (e Entry) Title() string       { return e.name }
func (e Entry) Description() string { return e.dateRange + " • " + strings.Join(e.personality, ", ") }
func (e Entry) FilterValue() string { return e.name }

// Compile-time check that Entry implements list.Item
var _ list.Item = Entry{}

// FilterCriteria describes which entries are shown.
// An empty Element means no element filter.
type FilterCriteria struct {
	Query   string
	Element string
}

// EntrySource is the core abstraction for data access.
// Sync methods only, no bubbletea dependency.
type EntrySource interface {
	FetchEntries(ctx context.Context) ([]Entry, error)
	FetchRandomEntry(ctx context.Context) (Entry, error)
	FetchElements(ctx context.Context) ([]string, error)
	FetchEntry(ctx context.Context, name string) (Entry, error)
}
