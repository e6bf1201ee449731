package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Parent     key.Binding
	Enter      key.Binding
	Top        key.Binding
	Bottom     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Mark       key.Binding
	MarkAll    key.Binding
	ClearMarks key.Binding
	Delete     key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Refresh    key.Binding
	LargeFiles key.Binding
	Treemap    key.Binding
	Info       key.Binding
	Open       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Parent: key.NewBinding(
			key.WithKeys("left", "h", "backspace"),
			key.WithHelp("←/h", "parent"),
		),
		Enter: key.NewBinding(
			key.WithKeys("right", "l", "enter"),
			key.WithHelp("→/l", "enter"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Mark: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space", "mark"),
		),
		MarkAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "mark all"),
		),
		ClearMarks: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear marks"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		LargeFiles: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "large files"),
		),
		Treemap: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "treemap"),
		),
		Info: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "file info"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in file manager"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns a brief help string
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Parent, k.Enter, k.Mark, k.Delete, k.Quit}
}

// FullHelp returns all help bindings
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Parent, k.Enter},
		{k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Mark, k.MarkAll, k.ClearMarks, k.Delete},
		{k.Refresh, k.LargeFiles, k.Treemap, k.Info},
		{k.Open, k.Help, k.Quit},
	}
}
