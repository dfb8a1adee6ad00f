package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/metcalfc/deck/internal/deck"
	"github.com/metcalfc/deck/internal/presentation"
	"github.com/metcalfc/deck/internal/remote"
	"github.com/metcalfc/deck/internal/widgets"
)

// Names of the periodic tasks both frontends run.
const (
	taskAdvance   = "auto-advance"
	taskRecording = "recording"
)

// session binds a deck to its presentation state and per-slide widgets.
// Both frontends drive it from their single event loop.
type session struct {
	deck    *deck.Deck
	state   *presentation.State
	quizzes map[int]*widgets.Quiz
	demos   map[int]*widgets.Demo
	logger  *zap.Logger
	remote  *remote.Server
}

func newSession(d *deck.Deck, logger *zap.Logger) (*session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &session{
		deck:    d,
		quizzes: make(map[int]*widgets.Quiz),
		demos:   make(map[int]*widgets.Demo),
		logger:  logger,
	}
	for _, sl := range d.Slides {
		if sl.Quiz != nil {
			s.quizzes[sl.Key] = widgets.NewQuiz(*sl.Quiz)
		}
		if sl.Demo != nil {
			s.demos[sl.Key] = widgets.NewDemo(*sl.Demo)
		}
	}

	state, err := presentation.New(d.Len(), s)
	if err != nil {
		return nil, err
	}
	s.state = state
	return s, nil
}

// slide returns the active slide.
func (s *session) slide() deck.Slide {
	sl, _ := s.deck.Slide(s.state.Current())
	return sl
}

// slideMarkdown is the markdown both frontends render for a slide.
func slideMarkdown(sl deck.Slide) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", sl.Title)
	if sl.Body != "" {
		sb.WriteString(sl.Body)
		sb.WriteString("\n\n")
	}
	if sl.Demo != nil && sl.Demo.Code != "" {
		fmt.Fprintf(&sb, "```%s\n%s\n```\n", sl.Demo.Language, sl.Demo.Code)
	}
	return sb.String()
}

// note returns the active slide's note, if it has one.
func (s *session) note() (string, bool) {
	return s.deck.Note(s.state.Current())
}

func (s *session) quiz() *widgets.Quiz { return s.quizzes[s.state.Current()] }
func (s *session) demo() *widgets.Demo { return s.demos[s.state.Current()] }

// answer picks option i (0-based) on the active quiz.
func (s *session) answer(i int) bool {
	q := s.quiz()
	if q == nil || !q.Answer(i) {
		return false
	}
	s.logger.Info("quiz answered",
		zap.Int("slide", s.state.Current()),
		zap.Int("choice", q.Choice()+1),
		zap.Bool("correct", q.Correct()))
	return true
}

func (s *session) runDemo(now time.Time) bool {
	d := s.demo()
	if d == nil {
		return false
	}
	d.Run(now)
	s.logger.Debug("demo run", zap.Int("slide", s.state.Current()))
	return true
}

// reset clears the active slide's demo preview or quiz answer.
func (s *session) reset() bool {
	if d := s.demo(); d != nil {
		d.Reset()
		return true
	}
	if q := s.quiz(); q != nil && q.Answered() {
		q.Reset()
		s.logger.Info("quiz reset", zap.Int("slide", s.state.Current()))
		return true
	}
	return false
}

// outline lists "key title" for every slide, marking the active one.
func (s *session) outline() []string {
	titles := s.deck.Titles()
	out := make([]string, len(titles))
	for i, t := range titles {
		mark := "  "
		if s.state.IsActive(i + 1) {
			mark = "▸ "
		}
		out[i] = fmt.Sprintf("%s%d %s", mark, i+1, t)
	}
	return out
}

// apply executes a remote command. It reports whether msg was one.
func (s *session) apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case remote.NextMsg:
		s.state.Next()
	case remote.PrevMsg:
		s.state.Previous()
	case remote.GoToMsg:
		s.state.GoTo(msg.N)
	case remote.ToggleMsg:
		s.state.Toggle(msg.Flag)
	default:
		return false
	}
	return true
}

func (s *session) SlideChanged(c presentation.Change) {
	s.logger.Info("slide changed",
		zap.Int("slide", c.Current),
		zap.Int("total", c.Total),
		zap.Float64("progress", c.Progress))
	s.publish()
}

func (s *session) FlagChanged(f presentation.Flag, on bool) {
	s.logger.Info("flag toggled", zap.Stringer("flag", f), zap.Bool("value", on))
	s.publish()
}

func (s *session) publish() {
	if s.remote != nil && s.state != nil {
		s.remote.Publish(s.state.Snapshot())
	}
}
