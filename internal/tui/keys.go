package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the shell-wide bindings. Panels add their own on top.
type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Jump     key.Binding
	Theme    key.Binding
	Music    key.Binding
	NextSong key.Binding
	PrevSong key.Binding
	Menu     key.Binding
	Help     key.Binding
	Close    key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("right", " "), key.WithHelp("→/space", "next")),
		Prev:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "back")),
		Jump:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "jump")),
		Theme:    key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "dark mode")),
		Music:    key.NewBinding(key.WithKeys("m", "M"), key.WithHelp("m", "music")),
		NextSong: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next song")),
		PrevSong: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev song")),
		Menu:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "menu")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpKeys joins the shell bindings with the active panel's for the help
// bubble.
type helpKeys struct {
	shell keyMap
	panel []key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding {
	return []key.Binding{h.shell.Next, h.shell.Prev, h.shell.Menu, h.shell.Help, h.shell.Quit}
}

func (h helpKeys) FullHelp() [][]key.Binding {
	s := h.shell
	return [][]key.Binding{
		{s.Next, s.Prev, s.Jump, s.Menu},
		{s.Theme, s.Music, s.NextSong, s.PrevSong},
		{s.Help, s.Close, s.Quit},
		h.panel,
	}
}
