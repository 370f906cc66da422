package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dashboard bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Switch   key.Binding
	Connect  key.Binding
	Snooze   key.Binding
	TierUp   key.Binding
	TierDown key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tier")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tier")),
		Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "today/board")),
		Connect:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect")),
		Snooze:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snooze")),
		TierUp:   key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "move to prev tier")),
		TierDown: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "move to next tier")),
		MoveUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Connect, k.Snooze, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Connect, k.Snooze, k.Reload},
		{k.TierUp, k.TierDown, k.MoveUp, k.MoveDown},
		{k.Switch, k.Help, k.Quit},
	}
}
