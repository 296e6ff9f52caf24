package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/qyinm/zodiactui/types"
)

// Apply returns the entries of c that match criteria, in catalogue order.
//
// A non-blank query keeps entries whose name contains it after Unicode case
// folding. A non-empty element keeps entries whose element is exactly equal.
// Both predicates must hold. Apply never mutates c and always returns a
// fresh slice.
func Apply(c types.Catalogue, criteria types.FilterCriteria) []types.Entry {
	query := strings.TrimSpace(criteria.Query)
	// cases.Caser keeps internal state, so each call gets its own.
	fold := cases.Fold()
	if query != "" {
		query = fold.String(query)
	}

	results := make([]types.Entry, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		e := c.At(i)
		if query != "" && !strings.Contains(fold.String(e.Name()), query) {
			continue
		}
		if criteria.Element != "" && e.Element() != criteria.Element {
			continue
		}
		results = append(results, e)
	}
	return results
}
