// Package remote exposes a running presentation over HTTP and websockets.
// It never touches presentation state directly: commands are posted to the
// event loop through a Commander and state flows back through Publish.
package remote

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/metcalfc/deck/internal/presentation"
)

// Commander accepts messages for the event loop. *tea.Program satisfies it.
type Commander interface {
	Send(msg tea.Msg)
}

// NextMsg asks the presenter to advance one slide.
type NextMsg struct{}

// PrevMsg asks the presenter to go back one slide.
type PrevMsg struct{}

// GoToMsg asks the presenter to jump to slide N.
type GoToMsg struct{ N int }

// ToggleMsg asks the presenter to flip a view flag.
type ToggleMsg struct{ Flag presentation.Flag }

// command is the JSON form of a message sent by a websocket client:
//
//	{"action": "next"}
//	{"action": "goto", "slide": 3}
//	{"action": "toggle", "flag": "laser"}
type command struct {
	Action string `json:"action"`
	Slide  int    `json:"slide,omitempty"`
	Flag   string `json:"flag,omitempty"`
}

// msg converts a client command into an event loop message.
func (c command) msg() (tea.Msg, bool) {
	switch c.Action {
	case "next":
		return NextMsg{}, true
	case "prev":
		return PrevMsg{}, true
	case "goto":
		if c.Slide < 1 {
			return nil, false
		}
		return GoToMsg{N: c.Slide}, true
	case "toggle":
		f, ok := presentation.ParseFlag(c.Flag)
		if !ok {
			return nil, false
		}
		return ToggleMsg{Flag: f}, true
	}
	return nil, false
}
