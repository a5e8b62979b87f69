package workspace

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Background(lipgloss.Color("transparent")).
			Padding(0, 1)

	listStyle = lipgloss.NewStyle().
			MarginRight(1).
			Border(lipgloss.NormalBorder(), false, false, false, false).
			BorderForeground(lipgloss.Color("#334455"))

	editorStyle = lipgloss.NewStyle().
			MarginLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#334455"))

	focusedEditorStyle = editorStyle.Copy().
				BorderForeground(lipgloss.Color("#0AF"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("#0AF")).
			Foreground(lipgloss.Color("#FFF"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0AF"))

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCC")).
			Background(lipgloss.Color("#223"))

	wikiLinkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5AF")).
			Underline(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0AF", Dark: "#0AF"}).
			Render

	chatUserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AFA"))

	chatAssistantStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#CCC"))

	faintStyle = lipgloss.NewStyle().Faint(true)
)
