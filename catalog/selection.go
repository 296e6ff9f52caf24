package catalog

import (
	"math/rand/v2"

	"github.com/qyinm/zodiactui/types"
)

// RandomSource yields a uniform integer in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Selection tracks the single entry shown in the detail view.
type Selection struct {
	rng     RandomSource
	current *types.Entry
}

// NewSelection creates an empty Selection. A nil rng uses math/rand/v2.
func NewSelection(rng RandomSource) *Selection {
	if rng == nil {
		rng = globalRand{}
	}
	return &Selection{rng: rng}
}

// Current returns the selected entry, if any.
func (s *Selection) Current() (types.Entry, bool) {
	if s.current == nil {
		return types.Entry{}, false
	}
	return *s.current, true
}

// Select replaces the selection with e. e need not be in the filtered view.
func (s *Selection) Select(e types.Entry) {
	s.current = &e
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.current = nil
}

// PickRandom selects an entry of c uniformly at random and returns it.
// Every entry has probability 1/c.Len() regardless of earlier picks.
// An empty catalogue fails with types.ErrEmptyCatalog and leaves the
// selection unchanged.
func (s *Selection) PickRandom(c types.Catalogue) (types.Entry, error) {
	e, err := Pick(c, s.rng)
	if err != nil {
		return types.Entry{}, err
	}
	s.Select(e)
	return e, nil
}

// Pick returns a uniformly random entry of c without touching any
// selection. A nil rng uses math/rand/v2.
func Pick(c types.Catalogue, rng RandomSource) (types.Entry, error) {
	if c.Len() == 0 {
		return types.Entry{}, types.ErrEmptyCatalog
	}
	if rng == nil {
		rng = globalRand{}
	}
	return c.At(rng.IntN(c.Len())), nil
}
