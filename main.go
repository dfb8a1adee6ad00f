//go:build !gui

package main

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/metcalfc/deck/internal/config"
	"github.com/metcalfc/deck/internal/deck"
	"github.com/metcalfc/deck/internal/effects"
	"github.com/metcalfc/deck/internal/presentation"
	"github.com/metcalfc/deck/internal/remote"
	"github.com/metcalfc/deck/internal/schedule"
	"github.com/metcalfc/deck/internal/widgets"
)

type frameMsg time.Time

// redrawMsg forces a render, e.g. when a demo flash ends.
type redrawMsg struct{}

// stage turns state changes into effects and render invalidation.
type stage struct {
	sess  *session
	scene *effects.Scene
	cache *slideCache
	clock func() time.Time
}

func (s *stage) SlideChanged(c presentation.Change) {
	now := s.clock()
	sl := s.sess.slide()
	s.scene.Reveal.Restart(now, len(sl.Items))
	if sl.Kind == deck.KindFinale {
		s.scene.Celebrate(now)
	}
	s.cache.invalidate()
}

func (s *stage) FlagChanged(f presentation.Flag, on bool) {
	switch f {
	case presentation.Laser:
		if on {
			s.scene.Laser.Activate(s.clock())
		}
	case presentation.Theme:
		s.cache.invalidate()
	}
}

type model struct {
	*session
	stage    *stage
	tasks    *schedule.Group
	advance  *schedule.Task
	blink    *schedule.Task
	keys     keyMap
	help     help.Model
	progress progress.Model
	interval time.Duration

	framing   bool
	recording bool
	quitting  bool
	width     int
	height    int
}

func newModel(sess *session, cfg *config.Config, clock func() time.Time) model {
	now := clock()
	scene := effects.NewScene(effects.Options{
		Particles: cfg.Effects.Particles,
		Confetti:  cfg.Effects.Confetti,
		Seed:      uint64(now.UnixNano()),
	}, now)
	st := &stage{sess: sess, scene: scene, cache: &slideCache{}, clock: clock}
	sess.state.Subscribe(st)
	if cfg.Theme == config.ThemeLight {
		sess.state.ToggleTheme()
	}
	scene.Reveal.Restart(now, len(sess.slide().Items))

	advance := schedule.New(taskAdvance, cfg.AutoAdvance)
	blink := schedule.New(taskRecording, cfg.RecordingBlink)

	return model{
		session:   sess,
		stage:     st,
		tasks:     schedule.NewGroup(advance, blink),
		advance:   advance,
		blink:     blink,
		keys:      defaultKeyMap(),
		help:      help.New(),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		interval:  cfg.FrameInterval(),
		framing:   true,
		recording: blink.Enabled(),
		width:     80,
		height:    24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.tasks.Start(), m.frame())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	now := m.stage.clock()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, now)

	case tea.MouseMsg:
		m.handleMouse(msg, now)
		return m, m.animate(now)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width
		m.help.Width = msg.Width
		m.stage.cache.invalidate()
		return m, nil

	case frameMsg:
		t := time.Time(msg)
		m.stage.scene.Step(t)
		if m.stage.scene.Animating(t) {
			return m, m.frame()
		}
		m.framing = false
		return m, nil

	case redrawMsg:
		return m, nil

	case schedule.TickMsg:
		task, next := m.tasks.Handle(msg)
		switch task {
		case m.advance:
			m.state.Next()
		case m.blink:
			m.recording = !m.recording
		}
		return m, tea.Batch(next, m.animate(now))
	}

	if m.apply(msg) {
		return m, m.animate(now)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.tasks.Stop()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.state.Next()

	case key.Matches(msg, m.keys.Prev):
		m.state.Previous()

	case key.Matches(msg, m.keys.Laser):
		m.state.ToggleLaser()

	case key.Matches(msg, m.keys.Theme):
		m.state.ToggleTheme()

	case key.Matches(msg, m.keys.Notes):
		m.state.ToggleNotes()

	case key.Matches(msg, m.keys.Grid):
		m.state.ToggleGrid()

	case key.Matches(msg, m.keys.Answer):
		if n, err := strconv.Atoi(msg.String()); err == nil {
			m.answer(n - 1)
		}

	case key.Matches(msg, m.keys.Run):
		if m.runDemo(now) {
			cmd = tea.Tick(widgets.FlashDuration, func(time.Time) tea.Msg { return redrawMsg{} })
		}

	case key.Matches(msg, m.keys.Reset):
		m.reset()

	case key.Matches(msg, m.keys.Pause):
		cmd = m.togglePause()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, tea.Batch(cmd, m.animate(now))
}

func (m *model) handleMouse(msg tea.MouseMsg, now time.Time) {
	x, y := msg.X, msg.Y-headerHeight
	switch {
	case msg.Action == tea.MouseActionMotion && m.state.LaserActive():
		m.stage.scene.Laser.Move(x, y, now)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.stage.scene.Sparks.Burst(x, y, now, sparkColor)
	}
}

// togglePause stops or restarts auto-advance.
func (m *model) togglePause() tea.Cmd {
	if !m.advance.Enabled() {
		return nil
	}
	if m.advance.Running() {
		m.advance.Stop()
		return nil
	}
	return m.advance.Start()
}

// animate starts the frame loop if effects are running and it is idle.
func (m *model) animate(now time.Time) tea.Cmd {
	if m.framing || !m.stage.scene.Animating(now) {
		return nil
	}
	m.framing = true
	return m.frame()
}

func (m model) frame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// present runs the terminal frontend, and the remote when configured,
// until the user quits or ctx is cancelled.
func present(ctx context.Context, a *app) error {
	sess, err := newSession(a.deck, a.logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if a.cfg.Effects.Mouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	m := newModel(sess, a.cfg, time.Now)
	p := tea.NewProgram(m, opts...)

	if addr := a.cfg.Remote.Addr; addr != "" {
		srv := remote.NewServer(p, sess.state.Snapshot(), a.logger)
		sess.remote = srv
		g.Go(func() error {
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				a.logger.Warn("remote disabled", zap.String("addr", addr), zap.Error(err))
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	return g.Wait()
}
