package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/qyinm/zodiactui/types"
	"github.com/qyinm/zodiactui/viewmodel"
)

// ViewState represents the current view mode
type ViewState int

const (
	ListView ViewState = iota
	DetailView
)

const appTitle = "♈ Zodiac Explorer"

// Model is the main TUI model. All catalogue, filter and selection state
// lives in the ViewModel; Model only mirrors its latest Snapshot into the
// bubbles components.
type Model struct {
	source   types.EntrySource
	vm       *viewmodel.ViewModel
	logger   *zap.Logger
	snap     viewmodel.Snapshot
	list     list.Model
	search   textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	state    ViewState
	detailID string
	width    int
	height   int
}

// NewModel creates a new Model reading from source.
func NewModel(source types.EntrySource, logger *zap.Logger, opts ...viewmodel.Option) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	l := list.New([]list.Item{}, EntryDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search by name"
	ti.CharLimit = 64

	s := spinner.New()
	s.Spinner = spinner.Dot

	vm := viewmodel.New(source, append([]viewmodel.Option{viewmodel.WithLogger(logger)}, opts...)...)

	return Model{
		source:   source,
		vm:       vm,
		logger:   logger,
		snap:     vm.Snapshot(),
		list:     l,
		search:   ti,
		viewport: viewport.New(0, 0),
		spinner:  s,
		help:     help.New(),
		keys:     keys,
		state:    ListView,
	}
}

// Snapshot returns the view state currently rendered.
func (m Model) Snapshot() viewmodel.Snapshot {
	return m.snap
}

// Init starts the first catalogue load.
func (m Model) Init() tea.Cmd {
	return m.reload()
}

// reload starts a catalogue load and an element-list fetch.
func (m Model) reload() tea.Cmd {
	token := m.vm.BeginLoad()
	m.logger.Debug("catalogue load started", zap.Uint64("token", uint64(token)))
	return tea.Batch(
		fetchCatalogue(m.source, token),
		fetchElements(m.source),
		m.spinner.Tick,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.sync()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanes()
		return m, nil

	case catalogueMsg:
		m.vm.FinishLoad(msg.token, msg.entries, msg.err)
		return m, nil

	case elementsMsg:
		m.vm.ApplyElements(msg.elements, msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.snap.Status.Kind != types.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

// updateSearch routes keys to the search box. Every edit updates the query
// immediately; enter and esc leave the box with the query kept.
func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.search.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.snap.Criteria.Query {
		m.vm.SetQuery(m.search.Value())
		m.list.ResetSelected()
	}
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizePanes()
		return m, nil

	case key.Matches(msg, m.keys.Random):
		if _, err := m.vm.RequestRandom(); err != nil {
			m.logger.Info("random pick failed", zap.Error(err))
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if clearable, ok := m.source.(cacheClearSource); ok {
			clearable.ClearCache()
		}
		return m, m.reload()
	}

	switch m.state {
	case DetailView:
		if key.Matches(msg, m.keys.Back) {
			m.vm.CloseSelection()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	default:
		switch {
		case key.Matches(msg, m.keys.Search):
			return m, m.search.Focus()

		case key.Matches(msg, m.keys.Back):
			if m.snap.Criteria.Query != "" {
				m.search.SetValue("")
				m.vm.SetQuery("")
			}
			return m, nil

		case key.Matches(msg, m.keys.Enter):
			if entry, ok := m.list.SelectedItem().(types.Entry); ok {
				if err := m.vm.SelectEntry(entry.ID()); err != nil {
					m.logger.Warn("select entry failed", zap.String("id", entry.ID()), zap.Error(err))
				}
			}
			return m, nil

		case key.Matches(msg, m.keys.NextElement):
			m.vm.SetElement(cycleElement(m.snap.Elements, m.snap.Criteria.Element, 1))
			m.list.ResetSelected()
			return m, nil

		case key.Matches(msg, m.keys.PrevElement):
			m.vm.SetElement(cycleElement(m.snap.Elements, m.snap.Criteria.Element, -1))
			m.list.ResetSelected()
			return m, nil

		case key.Matches(msg, m.keys.AllElements):
			m.vm.SetElement("")
			m.list.ResetSelected()
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
}

// cycleElement steps through "" (all) followed by elements, wrapping at
// both ends. An element no longer offered restarts from all.
func cycleElement(elements []string, current string, step int) string {
	options := append([]string{""}, elements...)
	i := slices.Index(options, current)
	if i < 0 {
		i = 0
	}
	n := len(options)
	return options[((i+step)%n+n)%n]
}

// sync copies the latest snapshot into the list and detail panes.
func (m *Model) sync() {
	m.snap = m.vm.Snapshot()

	items := make([]list.Item, 0, len(m.snap.Results))
	for _, e := range m.snap.Results {
		items = append(items, e)
	}
	m.list.SetItems(items)

	entry, ok := m.snap.Selected()
	if !ok {
		m.state = ListView
		m.detailID = ""
		return
	}
	m.state = DetailView
	m.viewport.SetContent(renderDetail(entry, m.viewport.Width))
	if entry.ID() != m.detailID {
		m.viewport.GotoTop()
		m.detailID = entry.ID()
	}
}

// View renders the current view
func (m Model) View() string {
	var body string
	switch m.state {
	case DetailView:
		body = m.viewport.View()
	default:
		if len(m.snap.Results) == 0 {
			body = m.emptyView()
		} else {
			body = m.list.View()
		}
	}

	sections := []string{
		m.headerView(),
		m.searchView(),
		body,
		m.statusView(),
		m.help.View(m.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	tabs := []string{TitleStyle.Render(appTitle)}
	for _, el := range append([]string{""}, m.snap.Elements...) {
		label := el
		if label == "" {
			label = "All"
		}
		if el == m.snap.Criteria.Element {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) searchView() string {
	if m.search.Focused() {
		return m.search.View()
	}
	if m.snap.Criteria.Query == "" {
		return SearchLabelStyle.Render("/ to search")
	}
	return SearchLabelStyle.Render("search: ") + SearchQueryStyle.Render(m.snap.Criteria.Query)
}

func (m Model) emptyView() string {
	if m.snap.Total == 0 {
		if m.snap.Status.Kind == types.StatusLoading {
			return EmptyStyle.Render("Loading zodiac signs...")
		}
		return EmptyStyle.Render("No zodiac signs loaded. Press R to reload.")
	}
	msg := "No zodiac signs found"
	if s := suggestions(m.snap.Catalogue, m.snap.Criteria.Query, 3); len(s) > 0 {
		styled := make([]string, 0, len(s))
		for _, name := range s {
			styled = append(styled, SuggestionStyle.Render(name))
		}
		msg += "\nDid you mean " + strings.Join(styled, ", ") + "?"
	}
	return EmptyStyle.Render(msg)
}

func (m Model) statusView() string {
	footer := fmt.Sprintf("Showing %d of %d zodiac signs", m.snap.Shown, m.snap.Total)
	switch m.snap.Status.Kind {
	case types.StatusLoading:
		return m.spinner.View() + " " + StatusBarStyle.Render("Loading zodiac signs... "+footer)
	case types.StatusError:
		return ErrorStyle.Render(m.snap.Status.String()) + "  " + StatusBarStyle.Render(footer)
	default:
		return StatusBarStyle.Render(footer)
	}
}

// resizePanes adjusts the dimensions of list and viewport based on window size
func (m *Model) resizePanes() {
	// Header, search line, status bar and help
	reserved := 3 + lipgloss.Height(m.help.View(m.keys))
	availableHeight := m.height - reserved
	if availableHeight < 0 {
		availableHeight = 0
	}

	m.list.SetSize(m.width, availableHeight)
	m.search.Width = m.width - len(m.search.Prompt) - 1
	m.help.Width = m.width

	m.viewport.Width = m.width
	m.viewport.Height = availableHeight
	if entry, ok := m.snap.Selected(); ok {
		m.viewport.SetContent(renderDetail(entry, m.width))
	}
}
