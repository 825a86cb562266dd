package notes

import "github.com/charmbracelet/bubbles/key"

type listKeyMap struct {
	openNote      key.Binding
	togglePin     key.Binding
	toggleTags    key.Binding
	nextTag       key.Binding
	togglePreview key.Binding
	followLink    key.Binding
	yankPath      key.Binding
	clearQuery    key.Binding
	quit          key.Binding
}

func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		openNote: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
		togglePin: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "pin/unpin"),
		),
		toggleTags: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "tags"),
		),
		nextTag: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "filter next tag"),
		),
		togglePreview: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "preview"),
		),
		followLink: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "follow link"),
		),
		yankPath: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "yank path"),
		),
		clearQuery: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
