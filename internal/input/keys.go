package input

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

// KeyMap binds simulator keys to the front-panel buttons. It implements
// help.KeyMap.
type KeyMap struct {
	Prev  key.Binding
	Play  key.Binding
	Next  key.Binding
	Cycle key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←/p", "prev"),
		),
		Play: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "play/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("→/n", "next"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("m", "tab"),
			key.WithHelp("m/tab", "mode"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Play, k.Next, k.Cycle, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Play, k.Next}, {k.Cycle, k.Quit}}
}

// Button maps a key press to the button it stands for.
func (k KeyMap) Button(msg tea.KeyMsg) (domain.Button, bool) {
	switch {
	case key.Matches(msg, k.Prev):
		return domain.ButtonPrev, true
	case key.Matches(msg, k.Play):
		return domain.ButtonPlay, true
	case key.Matches(msg, k.Next):
		return domain.ButtonNext, true
	case key.Matches(msg, k.Cycle):
		return domain.ButtonCycle, true
	default:
		return 0, false
	}
}
