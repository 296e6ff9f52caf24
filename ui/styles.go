package ui

import "github.com/charmbracelet/lipgloss"

// 16-color ANSI Dracula palette
var (
	DraculaForeground = lipgloss.AdaptiveColor{Light: "255", Dark: "255"}
	DraculaPurple     = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	DraculaPink       = lipgloss.AdaptiveColor{Light: "13", Dark: "13"}
	DraculaCyan       = lipgloss.AdaptiveColor{Light: "14", Dark: "14"}
	DraculaGreen      = lipgloss.AdaptiveColor{Light: "10", Dark: "10"}
	DraculaComment    = lipgloss.AdaptiveColor{Light: "7", Dark: "7"}
	DraculaOrange     = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	DraculaRed        = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}

	// Element tab bar styles
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(DraculaComment).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Padding(0, 1)

	// Search line
	SearchLabelStyle = lipgloss.NewStyle().
				Foreground(DraculaCyan)
	SearchQueryStyle = lipgloss.NewStyle().
				Foreground(DraculaForeground).
				Bold(true)

	// Detail view styles
	DetailTitleStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true)
	DetailSubtitleStyle = lipgloss.NewStyle().
				Foreground(DraculaCyan).
				Italic(true)
	DetailHeadingStyle = lipgloss.NewStyle().
				Foreground(DraculaOrange).
				Bold(true)
	DetailTextStyle = lipgloss.NewStyle().
			Foreground(DraculaForeground)

	// Empty state
	EmptyStyle = lipgloss.NewStyle().
			Foreground(DraculaComment).
			Padding(1, 2)
	SuggestionStyle = lipgloss.NewStyle().
			Foreground(DraculaCyan).
			Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(DraculaRed)
)

// elementColors tints entries by element. Unknown elements use the comment
// color.
var elementColors = map[string]lipgloss.AdaptiveColor{
	"Fire":  DraculaRed,
	"Earth": DraculaGreen,
	"Air":   DraculaCyan,
	"Water": DraculaPurple,
}

func elementStyle(element string) lipgloss.Style {
	c, ok := elementColors[element]
	if !ok {
		c = DraculaComment
	}
	return lipgloss.NewStyle().Foreground(c)
}
