package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start   key.Binding
	Stop    key.Binding
	Load    key.Binding
	Analyze key.Binding
	Filter  key.Binding
	Clear   key.Binding
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Load:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "load")),
		Analyze: key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "analyze")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear logs")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "select")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Load, k.Up, k.Analyze, k.Filter, k.Clear, k.Quit}
}
