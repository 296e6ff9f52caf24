package dto

import (
	"github.com/qyinm/zodiactui/types"
)

func FromEntry(e types.Entry) Entry {
	f := e.Fields()
	return Entry{
		ID:            ID(f.ID),
		Name:          f.Name,
		Symbol:        f.Symbol,
		DateRange:     f.DateRange,
		Element:       f.Element,
		RulingPlanet:  f.RulingPlanet,
		Personality:   nonNil(f.Personality),
		Strengths:     nonNil(f.Strengths),
		Weaknesses:    nonNil(f.Weaknesses),
		Compatibility: nonNil(f.Compatibility),
		Origin:        f.Origin,
	}
}

func FromEntries(entries []types.Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromEntry(e))
	}
	return out
}

func ToEntry(d Entry) types.Entry {
	return types.NewEntry(types.EntryFields{
		ID:            string(d.ID),
		Name:          d.Name,
		Symbol:        d.Symbol,
		DateRange:     d.DateRange,
		Element:       d.Element,
		RulingPlanet:  d.RulingPlanet,
		Personality:   d.Personality,
		Strengths:     d.Strengths,
		Weaknesses:    d.Weaknesses,
		Compatibility: d.Compatibility,
		Origin:        d.Origin,
	})
}

func ToEntries(items []Entry) []types.Entry {
	out := make([]types.Entry, 0, len(items))
	for _, d := range items {
		out = append(out, ToEntry(d))
	}
	return out
}

// nonNil keeps empty lists encoding as [] instead of null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
