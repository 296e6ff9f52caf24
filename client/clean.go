package client

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/qyinm/zodiactui/types"
)

// cleanEntries strips markup from the free-text fields of every entry.
func cleanEntries(entries []types.Entry) []types.Entry {
	out := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, cleanEntry(e))
	}
	return out
}

// cleanEntry returns e with HTML tags and entities in its text fields
// reduced to plain text. The dataset is hand-edited and some origin
// stories carry <em> or &amp; that a terminal cannot render.
func cleanEntry(e types.Entry) types.Entry {
	f := e.Fields()
	f.Origin = plainText(f.Origin)
	f.Personality = plainTexts(f.Personality)
	f.Strengths = plainTexts(f.Strengths)
	f.Weaknesses = plainTexts(f.Weaknesses)
	return types.NewEntry(f)
}

func plainTexts(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, plainText(s))
	}
	return out
}

// plainText returns s with markup removed and whitespace collapsed.
// Strings without '<' or '&' are returned unchanged.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
