package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qyinm/zodiactui/types"
	"github.com/qyinm/zodiactui/viewmodel"
)

// Message types for async operations

type catalogueMsg struct {
	token   viewmodel.LoadToken
	entries []types.Entry
	err     error
}

type elementsMsg struct {
	elements []string
	err      error
}

// fetchCatalogue returns a tea.Cmd that fetches the catalogue asynchronously
func fetchCatalogue(source types.EntrySource, token viewmodel.LoadToken) tea.Cmd {
	return func() tea.Msg {
		entries, err := source.FetchEntries(context.Background())
		return catalogueMsg{token: token, entries: entries, err: err}
	}
}

// fetchElements returns a tea.Cmd that fetches the element list asynchronously
func fetchElements(source types.EntrySource) tea.Cmd {
	return func() tea.Msg {
		elements, err := source.FetchElements(context.Background())
		return elementsMsg{elements: elements, err: err}
	}
}

type cacheClearSource interface {
	ClearCache()
}
