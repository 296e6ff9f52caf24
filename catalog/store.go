// Package catalog holds the loaded zodiac catalogue and the pure logic
// that filters it and picks entries out of it.
package catalog

import (
	"context"

	"github.com/qyinm/zodiactui/types"
)

// Store holds the catalogue of the last successful load.
// It is not safe for concurrent use; callers serialise access the way the
// UI update loop does.
type Store struct {
	source    types.EntrySource
	catalogue types.Catalogue
}

// NewStore creates a Store backed by source with an empty catalogue.
func NewStore(source types.EntrySource) *Store {
	return &Store{source: source, catalogue: types.EmptyCatalogue()}
}

// Catalogue returns the currently held catalogue.
func (s *Store) Catalogue() types.Catalogue { return s.catalogue }

// Load fetches every entry from the source once and replaces the catalogue.
// On failure the previous catalogue is kept and a *types.FetchError is returned.
func (s *Store) Load(ctx context.Context) (types.Catalogue, error) {
	entries, err := s.source.FetchEntries(ctx)
	if err != nil {
		return s.catalogue, types.NewFetchError("load catalogue", err)
	}
	return s.Replace(entries)
}

// Replace swaps in a catalogue built from entries. Invalid entry sets
// (duplicate ids) leave the held catalogue untouched.
func (s *Store) Replace(entries []types.Entry) (types.Catalogue, error) {
	c, err := types.NewCatalogue(entries)
	if err != nil {
		return s.catalogue, types.NewFetchError("load catalogue", err)
	}
	s.catalogue = c
	return c, nil
}
