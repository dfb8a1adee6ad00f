// Package presentation holds the navigation and view-mode state of a running deck.
package presentation

import (
	"errors"
	"fmt"
)

// ErrNoSlides is returned when a State is created for an empty deck.
var ErrNoSlides = errors.New("presentation: deck has no slides")

// Flag names one of the independent view-mode toggles.
type Flag int

const (
	Laser Flag = iota
	Notes
	Theme
	Grid
)

// Flags lists every flag in display order.
var Flags = []Flag{Laser, Notes, Theme, Grid}

func (f Flag) String() string {
	switch f {
	case Laser:
		return "laser"
	case Notes:
		return "notes"
	case Theme:
		return "theme"
	case Grid:
		return "grid"
	}
	return fmt.Sprintf("flag(%d)", int(f))
}

// MarshalText encodes the flag by name so it can key JSON objects.
func (f Flag) MarshalText() ([]byte, error) {
	if f < Laser || f > Grid {
		return nil, fmt.Errorf("presentation: unknown flag %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText decodes a flag name.
func (f *Flag) UnmarshalText(b []byte) error {
	v, ok := ParseFlag(string(b))
	if !ok {
		return fmt.Errorf("presentation: unknown flag %q", b)
	}
	*f = v
	return nil
}

// ParseFlag maps a flag name back to its Flag.
func ParseFlag(name string) (Flag, bool) {
	for _, f := range Flags {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

// Change describes the state right after a successful navigation.
type Change struct {
	Current  int
	Total    int
	Progress float64
}

// Listener observes a State. Calls happen synchronously on the goroutine
// that mutated the state.
type Listener interface {
	SlideChanged(Change)
	FlagChanged(f Flag, on bool)
}

// Snapshot is a copy of the full state, suitable for rendering or encoding.
type Snapshot struct {
	Current  int           `json:"current"`
	Total    int           `json:"total"`
	Progress float64       `json:"progress"`
	Counter  string        `json:"counter"`
	Flags    map[Flag]bool `json:"flags"`
}

// State owns the current slide index and view-mode flags.
// It is not safe for concurrent use; drive it from a single event loop.
type State struct {
	current   int
	total     int
	progress  float64
	flags     [4]bool
	listeners []Listener
}

// New creates a State positioned on slide 1 of total.
func New(total int, listeners ...Listener) (*State, error) {
	if total < 1 {
		return nil, fmt.Errorf("%w (total=%d)", ErrNoSlides, total)
	}
	s := &State{
		current:   1,
		total:     total,
		listeners: listeners,
	}
	s.progress = s.ratio()
	return s, nil
}

// Subscribe adds a listener. It does not receive the current state.
func (s *State) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// GoTo selects slide n. Out-of-range requests are ignored and report false.
// Selecting the current slide again is valid and notifies listeners.
func (s *State) GoTo(n int) bool {
	if n < 1 || n > s.total {
		return false
	}
	s.current = n
	s.progress = s.ratio()

	c := Change{Current: s.current, Total: s.total, Progress: s.progress}
	for _, l := range s.listeners {
		l.SlideChanged(c)
	}
	return true
}

// Next advances one slide. There is no wraparound.
func (s *State) Next() bool {
	if s.current >= s.total {
		return false
	}
	return s.GoTo(s.current + 1)
}

// Previous goes back one slide. There is no wraparound.
func (s *State) Previous() bool {
	if s.current <= 1 {
		return false
	}
	return s.GoTo(s.current - 1)
}

// Toggle flips f and returns its new value.
func (s *State) Toggle(f Flag) bool {
	if f < Laser || f > Grid {
		return false
	}
	s.flags[f] = !s.flags[f]
	on := s.flags[f]
	for _, l := range s.listeners {
		l.FlagChanged(f, on)
	}
	return on
}

func (s *State) ToggleLaser() bool { return s.Toggle(Laser) }
func (s *State) ToggleNotes() bool { return s.Toggle(Notes) }
func (s *State) ToggleTheme() bool { return s.Toggle(Theme) }
func (s *State) ToggleGrid() bool  { return s.Toggle(Grid) }

// Flag reports whether f is on.
func (s *State) Flag(f Flag) bool {
	if f < Laser || f > Grid {
		return false
	}
	return s.flags[f]
}

func (s *State) LaserActive() bool  { return s.flags[Laser] }
func (s *State) NotesVisible() bool { return s.flags[Notes] }
func (s *State) LightTheme() bool   { return s.flags[Theme] }
func (s *State) GridVisible() bool  { return s.flags[Grid] }

// Current returns the 1-based index of the active slide.
func (s *State) Current() int { return s.current }

// Total returns the number of slides.
func (s *State) Total() int { return s.total }

// Progress returns Current/Total, always in (0, 1].
func (s *State) Progress() float64 { return s.progress }

// IsActive reports whether key is the active slide.
func (s *State) IsActive(key int) bool { return key == s.current }

// Counter formats the position as "current/total".
func (s *State) Counter() string {
	return fmt.Sprintf("%d/%d", s.current, s.total)
}

// Snapshot copies the state.
func (s *State) Snapshot() Snapshot {
	flags := make(map[Flag]bool, len(Flags))
	for _, f := range Flags {
		flags[f] = s.flags[f]
	}
	return Snapshot{
		Current:  s.current,
		Total:    s.total,
		Progress: s.progress,
		Counter:  s.Counter(),
		Flags:    flags,
	}
}

func (s *State) ratio() float64 {
	return float64(s.current) / float64(s.total)
}
