//go:build !gui

package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Laser  key.Binding
	Theme  key.Binding
	Notes  key.Binding
	Grid   key.Binding
	Answer key.Binding
	Run    key.Binding
	Reset  key.Binding
	Pause  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("right", " "), key.WithHelp("→/space", "next")),
		Prev:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev")),
		Laser:  key.NewBinding(key.WithKeys("l", "L"), key.WithHelp("l", "laser")),
		Theme:  key.NewBinding(key.WithKeys("t", "T"), key.WithHelp("t", "theme")),
		Notes:  key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "notes")),
		Grid:   key.NewBinding(key.WithKeys("g", "G"), key.WithHelp("g", "grid")),
		Answer: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "answer")),
		Run:    key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "run demo")),
		Reset:  key.NewBinding(key.WithKeys("x", "X"), key.WithHelp("x", "reset quiz/demo")),
		Pause:  key.NewBinding(key.WithKeys("p", "P"), key.WithHelp("p", "pause auto")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Laser, k.Theme, k.Notes, k.Grid, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Laser, k.Theme, k.Notes, k.Grid},
		{k.Answer, k.Run, k.Reset},
		{k.Pause, k.Help, k.Quit},
	}
}
