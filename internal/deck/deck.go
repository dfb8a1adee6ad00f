// Package deck loads the fixed set of slides a presentation runs over.
package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDeck is returned when a source yields no slides.
	ErrEmptyDeck = errors.New("deck: no slides")
	// ErrSlideKey is returned when slide keys are not exactly 1..n.
	ErrSlideKey = errors.New("deck: slide keys must be unique and run 1..n")
)

// Kind selects the extra behavior attached to a slide.
type Kind string

const (
	KindContent Kind = "content"
	KindIntro   Kind = "intro"
	KindDemo    Kind = "demo"
	KindQuiz    Kind = "quiz"
	KindFinale  Kind = "finale"
)

func (k Kind) valid() bool {
	switch k {
	case KindContent, KindIntro, KindDemo, KindQuiz, KindFinale:
		return true
	}
	return false
}

// Option is one answer of a quiz.
type Option struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

// QuizSpec describes a single-question quiz.
type QuizSpec struct {
	Question string   `yaml:"question"`
	Options  []Option `yaml:"options"`
}

// DemoSpec describes a code demo panel and the output shown when it runs.
type DemoSpec struct {
	Language string `yaml:"language"`
	Code     string `yaml:"code"`
	Preview  string `yaml:"preview"`
}

// Slide is one addressable unit of content. Key is 1-based.
type Slide struct {
	Key   int       `yaml:"-"`
	Title string    `yaml:"title"`
	Kind  Kind      `yaml:"kind"`
	Body  string    `yaml:"body"`
	Items []string  `yaml:"items"`
	Note  string    `yaml:"note"`
	Quiz  *QuizSpec `yaml:"quiz,omitempty"`
	Demo  *DemoSpec `yaml:"demo,omitempty"`
}

// Deck is an ordered, read-only collection of slides.
type Deck struct {
	Title  string  `yaml:"title"`
	Slides []Slide `yaml:"slides"`
}

// Len returns the number of slides.
func (d *Deck) Len() int { return len(d.Slides) }

// Slide returns the slide with the given key.
func (d *Deck) Slide(key int) (Slide, bool) {
	if key < 1 || key > len(d.Slides) {
		return Slide{}, false
	}
	return d.Slides[key-1], true
}

// Note returns the presenter note for key, if the slide has one.
func (d *Deck) Note(key int) (string, bool) {
	s, ok := d.Slide(key)
	if !ok || s.Note == "" {
		return "", false
	}
	return s.Note, true
}

// Titles lists slide titles in key order.
func (d *Deck) Titles() []string {
	out := make([]string, len(d.Slides))
	for i, s := range d.Slides {
		out[i] = s.Title
	}
	return out
}

// Validate checks that the deck is non-empty and keyed 1..n in order.
func (d *Deck) Validate() error {
	if len(d.Slides) == 0 {
		return ErrEmptyDeck
	}
	for i, s := range d.Slides {
		if s.Key != i+1 {
			return fmt.Errorf("%w: slide %d has key %d", ErrSlideKey, i+1, s.Key)
		}
		if !s.Kind.valid() {
			return fmt.Errorf("deck: slide %d: unknown kind %q", s.Key, s.Kind)
		}
	}
	return nil
}

// normalize assigns keys in source order, fills default kinds and titles.
func (d *Deck) normalize() {
	for i := range d.Slides {
		s := &d.Slides[i]
		s.Key = i + 1
		if s.Kind == "" {
			switch {
			case s.Quiz != nil:
				s.Kind = KindQuiz
			case s.Demo != nil:
				s.Kind = KindDemo
			default:
				s.Kind = KindContent
			}
		}
		if s.Title == "" {
			s.Title = fmt.Sprintf("Slide %d", s.Key)
		}
	}
	if d.Title == "" && len(d.Slides) > 0 {
		d.Title = d.Slides[0].Title
	}
}
