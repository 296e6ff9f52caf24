package viewmodel

import (
	"slices"

	"github.com/qyinm/zodiactui/types"
)

// Snapshot is the read-only view state handed to the presentation layer.
// It is rebuilt on every mutation and never shares slices with the
// ViewModel that produced it.
type Snapshot struct {
	Catalogue types.Catalogue
	Results   []types.Entry
	Criteria  types.FilterCriteria
	Selection *types.Entry
	Status    types.Status
	Elements  []string
	Total     int
	Shown     int
}

// Selected returns the entry open in the detail view, if any.
func (s Snapshot) Selected() (types.Entry, bool) {
	if s.Selection == nil {
		return types.Entry{}, false
	}
	return *s.Selection, true
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Results = slices.Clone(s.Results)
	out.Elements = slices.Clone(s.Elements)
	if s.Selection != nil {
		sel := *s.Selection
		out.Selection = &sel
	}
	return out
}
