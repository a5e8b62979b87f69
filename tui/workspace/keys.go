package workspace

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	openNote    key.Binding
	newNote     key.Binding
	deleteNote  key.Binding
	togglePin   key.Binding
	toggleChat  key.Binding
	focusList   key.Binding
	save        key.Binding
	bold        key.Binding
	italic      key.Binding
	underline   key.Binding
	strike      key.Binding
	modEnter    key.Binding
	quit        key.Binding
	toggleHelp  key.Binding
	refreshList key.Binding
}

func newKeyMap() *keyMap {
	return &keyMap{
		openNote: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
		newNote: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "create"),
		),
		deleteNote: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),
		togglePin: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "pin"),
		),
		toggleChat: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "assistant"),
		),
		focusList: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to list"),
		),
		save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		bold: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "bold"),
		),
		italic: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "italic"),
		),
		underline: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "underline"),
		),
		strike: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "strikethrough"),
		),
		modEnter: key.NewBinding(
			key.WithKeys("alt+enter"),
			key.WithHelp("alt+↵", "exit code block"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "toggle help"),
		),
		refreshList: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
	}
}
