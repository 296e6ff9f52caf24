package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Search      key.Binding
	Enter       key.Binding
	Back        key.Binding
	NextElement key.Binding
	PrevElement key.Binding
	AllElements key.Binding
	Random      key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
	Back:        key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	NextElement: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "element")),
	PrevElement: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev element")),
	AllElements: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "all elements")),
	Random:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random")),
	Reload:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp returns short help key bindings (for help.Model)
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Enter, k.Back, k.NextElement, k.Random, k.Help, k.Quit}
}

// FullHelp returns full help key bindings
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Search, k.Enter, k.Back},
		{k.NextElement, k.PrevElement, k.AllElements},
		{k.Random, k.Reload},
		{k.Help, k.Quit},
	}
}
