package viz

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard shortcuts of both screens.
type KeyMap struct {
	Start     key.Binding
	Next      key.Binding
	Prev      key.Binding
	New       key.Binding
	Faster    key.Binding
	Slower    key.Binding
	Pause     key.Binding
	Theme     key.Binding
	Copy      key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var DefaultKeyMap = KeyMap{
	Start: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	New: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "new input"),
	),
	Faster: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "faster"),
	),
	Slower: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "slower"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy csv"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

type formKeys struct{ KeyMap }

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Next, k.ForceQuit}
}

func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Start, k.Next, k.Prev}, {k.ForceQuit}}
}

type boardKeys struct{ KeyMap }

func (k boardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.New, k.Help, k.Quit}
}

func (k boardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Slower, k.Faster},
		{k.New, k.Theme, k.Copy},
		{k.Help, k.Quit},
	}
}
