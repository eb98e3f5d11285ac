package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	open   key.Binding
	back   key.Binding
	grab   key.Binding
	add    key.Binding
	edit   key.Binding
	del    key.Binding
	toggle key.Binding
	all    key.Binding
	play   key.Binding
	enrich key.Binding
	next   key.Binding
	yes    key.Binding
	no     key.Binding
	help   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		grab:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "move")),
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		del:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		toggle: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "watched")),
		all:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark all")),
		play:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		enrich: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh titles")),
		next:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.open, k.back},
		{k.grab, k.add, k.edit, k.del},
		{k.toggle, k.all, k.play, k.enrich},
		{k.help, k.quit},
	}
}
