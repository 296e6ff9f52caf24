package ui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/qyinm/zodiactui/types"
)

// suggestions returns up to limit entry names that fuzzy-match query, best
// first. It backs the "did you mean" hint when a search finds nothing.
func suggestions(c types.Catalogue, query string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" || c.Len() == 0 || limit <= 0 {
		return nil
	}

	names := make([]string, 0, c.Len())
	for i := range c.Len() {
		names = append(names, c.At(i).Name())
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerAll(names))
	out := make([]string, 0, limit)
	for _, match := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, names[match.Index])
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
