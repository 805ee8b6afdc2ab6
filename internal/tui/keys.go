package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	AddTier    key.Binding
	NewItem    key.Binding
	DeleteItem key.Binding
	ClearPool  key.Binding
	Reset      key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		AddTier:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add tier")),
		NewItem:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new item")),
		DeleteItem: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete hovered item")),
		ClearPool:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear pool")),
		Reset:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset board")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddTier, k.NewItem, k.DeleteItem, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddTier, k.NewItem, k.DeleteItem},
		{k.ClearPool, k.Reset, k.Cancel},
		{k.Help, k.Quit},
	}
}
