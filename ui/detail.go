package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/qyinm/zodiactui/types"
)

// renderDetail lays out one entry for the detail viewport, wrapping prose
// to width.
func renderDetail(e types.Entry, width int) string {
	if width <= 0 {
		width = 80
	}
	textStyle := DetailTextStyle.Width(max(width-2, 1))

	var b strings.Builder
	title := e.Name()
	if e.Symbol() != "" {
		title = e.Symbol() + "  " + title
	}
	b.WriteString(DetailTitleStyle.Render(title))
	b.WriteString("\n")
	if e.DateRange() != "" {
		b.WriteString(DetailSubtitleStyle.Render(e.DateRange()))
		b.WriteString("\n")
	}

	facts := make([]string, 0, 2)
	if e.Element() != "" {
		facts = append(facts, "Element: "+elementStyle(e.Element()).Bold(true).Render(e.Element()))
	}
	if e.RulingPlanet() != "" {
		facts = append(facts, "Ruling planet: "+e.RulingPlanet())
	}
	if len(facts) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(facts, "   "))
		b.WriteString("\n")
	}

	sections := []struct {
		heading string
		items   []string
	}{
		{"Personality", e.Personality()},
		{"Strengths", e.Strengths()},
		{"Weaknesses", e.Weaknesses()},
		{"Compatible with", e.Compatibility()},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(DetailHeadingStyle.Render(s.heading))
		b.WriteString("\n")
		b.WriteString(textStyle.Render(strings.Join(s.items, " • ")))
		b.WriteString("\n")
	}

	if e.Origin() != "" {
		b.WriteString("\n")
		b.WriteString(DetailHeadingStyle.Render("Mythology"))
		b.WriteString("\n")
		b.WriteString(textStyle.Render(e.Origin()))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}
