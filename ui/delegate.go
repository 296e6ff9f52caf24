package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qyinm/zodiactui/types"
)

// EntryDelegate is a custom list delegate for rendering zodiac entries
type EntryDelegate struct{}

// Height returns the height of a list item (2 lines)
func (d EntryDelegate) Height() int {
	return 2
}

// Spacing returns the spacing between list items
func (d EntryDelegate) Spacing() int {
	return 1
}

// Update handles updates for the delegate (no-op for entries)
func (d EntryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a single entry
func (d EntryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(types.Entry)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	// Line 1: Symbol + Name                              Element
	symbol := entry.Symbol()
	if symbol == "" {
		symbol = "·"
	}
	symbolStr := symbol + " "
	elementStr := entry.Element()

	availableForName := m.Width() - lipgloss.Width(symbolStr) - lipgloss.Width(elementStr) - 1
	nameStr := fitWidth(entry.Name(), availableForName)

	var line1 string
	if isSelected {
		symbolStyle := lipgloss.NewStyle().Foreground(DraculaCyan).Bold(true)
		nameStyle := lipgloss.NewStyle().Foreground(DraculaPink).Bold(true)
		line1 = symbolStyle.Render(symbolStr) + nameStyle.Render(nameStr) + " " + elementStyle(elementStr).Bold(true).Render(elementStr)
	} else {
		symbolStyle := lipgloss.NewStyle().Foreground(DraculaComment)
		nameStyle := lipgloss.NewStyle().Foreground(DraculaCyan)
		line1 = symbolStyle.Render(symbolStr) + nameStyle.Render(nameStr) + " " + elementStyle(elementStr).Render(elementStr)
	}

	// Line 2: date range and personality (indented, dimmed)
	indent := "    "
	summary := truncate(entry.Description(), m.Width()-len(indent))
	line2 := indent + lipgloss.NewStyle().Foreground(DraculaComment).Render(summary)

	fmt.Fprint(w, line1+"\n"+line2)
}

// fitWidth truncates s to width cells, or pads it with spaces to exactly
// width cells.
func fitWidth(s string, width int) string {
	s = truncate(s, width)
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// truncate shortens s to at most width terminal cells, marking the cut
// with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
