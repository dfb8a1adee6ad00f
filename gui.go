//go:build gui

package main

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/metcalfc/deck/internal/config"
	"github.com/metcalfc/deck/internal/effects"
	"github.com/metcalfc/deck/internal/presentation"
	"github.com/metcalfc/deck/internal/remote"
	"github.com/metcalfc/deck/internal/schedule"
	"github.com/metcalfc/deck/internal/widgets"
)

const (
	gridSpacing = 40
	laserSize   = 14
)

var (
	laserColor = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xcc}
	gridColor  = color.RGBA{R: 0x63, G: 0x66, B: 0xf1, A: 0x30}
)

// variantTheme pins the default theme to one variant so the theme flag,
// not the OS setting, decides light or dark.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t *variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

// laserLayer draws the laser dot over the slide while the laser flag is on.
type laserLayer struct {
	widget.BaseWidget
	dot    *canvas.Circle
	active bool
}

func newLaserLayer() *laserLayer {
	l := &laserLayer{dot: canvas.NewCircle(laserColor)}
	l.dot.Resize(fyne.NewSize(laserSize, laserSize))
	l.dot.Hide()
	l.ExtendBaseWidget(l)
	return l
}

func (l *laserLayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewWithoutLayout(l.dot))
}

func (l *laserLayer) setActive(on bool) {
	l.active = on
	if !on {
		l.dot.Hide()
	}
	l.dot.Refresh()
}

func (l *laserLayer) MouseIn(e *desktop.MouseEvent) { l.MouseMoved(e) }

func (l *laserLayer) MouseMoved(e *desktop.MouseEvent) {
	if !l.active {
		return
	}
	l.dot.Move(e.Position.Subtract(fyne.NewPos(laserSize/2, laserSize/2)))
	l.dot.Show()
	l.dot.Refresh()
}

func (l *laserLayer) MouseOut() {
	l.dot.Hide()
	l.dot.Refresh()
}

// presenter is the desktop frontend. All of its methods run on the fyne
// main thread.
type presenter struct {
	*session
	app     fyne.App
	window  fyne.Window
	reveal  effects.Reveal
	advance *schedule.Task
	blink   *schedule.Task

	recording bool
	syncing   bool

	title    *widget.Label
	status   *widget.Label
	body     *widget.RichText
	items    *widget.RichText
	panel    *fyne.Container
	notes    *widget.Label
	progress *widget.ProgressBar
	jump     *widget.Select
	grid     *canvas.Raster
	laser    *laserLayer
}

func newPresenter(sess *session, cfg *config.Config, a fyne.App, w fyne.Window) *presenter {
	p := &presenter{
		session:   sess,
		app:       a,
		window:    w,
		advance:   schedule.New(taskAdvance, cfg.AutoAdvance),
		blink:     schedule.New(taskRecording, cfg.RecordingBlink),
		title:     widget.NewLabel(""),
		status:    widget.NewLabel(""),
		body:      widget.NewRichTextFromMarkdown(""),
		items:     widget.NewRichTextFromMarkdown(""),
		panel:     container.NewVBox(),
		notes:     widget.NewLabel(""),
		progress:  widget.NewProgressBar(),
		laser:     newLaserLayer(),
		recording: cfg.RecordingBlink > 0,
	}
	p.title.TextStyle.Bold = true
	p.status.Alignment = fyne.TextAlignTrailing
	p.body.Wrapping = fyne.TextWrapWord
	p.items.Wrapping = fyne.TextWrapWord
	p.notes.Wrapping = fyne.TextWrapWord
	p.progress.TextFormatter = func() string { return p.state.Counter() }
	var options []string
	for i, t := range sess.deck.Titles() {
		options = append(options, fmt.Sprintf("%d. %s", i+1, t))
	}
	p.jump = widget.NewSelect(options, func(string) {
		if p.syncing {
			return
		}
		p.state.GoTo(p.jump.SelectedIndex() + 1)
		p.refresh()
	})
	p.grid = canvas.NewRasterWithPixels(func(x, y, _, _ int) color.Color {
		if x%gridSpacing == 0 || y%gridSpacing == 0 {
			return gridColor
		}
		return color.Transparent
	})
	p.grid.Hide()

	sess.state.Subscribe(p)
	if cfg.Theme == config.ThemeLight {
		sess.state.ToggleTheme()
	} else {
		p.applyTheme()
	}
	p.advance.Start()
	p.blink.Start()
	p.reveal.Restart(time.Now(), len(sess.slide().Items))
	return p
}

func (p *presenter) content() fyne.CanvasObject {
	button := func(label string, fn func()) *widget.Button {
		return widget.NewButton(label, func() {
			fn()
			p.refresh()
		})
	}
	toolbar := container.NewHBox(
		button("◀ Prev", func() { p.state.Previous() }),
		button("Next ▶", func() { p.state.Next() }),
		p.jump,
		layout.NewSpacer(),
		button("Laser", func() { p.state.ToggleLaser() }),
		button("Theme", func() { p.state.ToggleTheme() }),
		button("Grid", func() { p.state.ToggleGrid() }),
		button("Notes", func() { p.state.ToggleNotes() }),
	)

	header := container.NewBorder(nil, nil, p.title, p.status)
	slide := container.NewVScroll(container.NewVBox(p.body, p.items, p.panel))
	footer := container.NewVBox(p.notes, p.progress, toolbar)

	page := container.NewBorder(header, footer, nil, nil, slide)
	return container.NewStack(page, p.grid, p.laser)
}

// refresh redraws everything derived from the state.
func (p *presenter) refresh() {
	now := time.Now()
	sl := p.slide()

	p.title.SetText(p.deck.Title + " · " + sl.Title)

	var status []string
	if p.blink.Enabled() && p.recording {
		status = append(status, "● REC")
	}
	if p.advance.Enabled() && !p.advance.Running() {
		status = append(status, "[PAUSED]")
	}
	status = append(status, p.state.Counter())
	p.status.SetText(strings.Join(status, "   "))

	p.body.ParseMarkdown(slideMarkdown(sl))

	var items strings.Builder
	for i, item := range sl.Items {
		if i >= p.reveal.Visible(now) {
			break
		}
		fmt.Fprintf(&items, "- %s\n", item)
	}
	p.items.ParseMarkdown(items.String())

	p.panel.Objects = nil
	if q := p.quiz(); q != nil {
		p.panel.Objects = p.quizPanel(q)
	}
	if d := p.demo(); d != nil {
		p.panel.Objects = p.demoPanel(d, now)
	}
	p.panel.Refresh()

	if note, ok := p.note(); ok && p.state.NotesVisible() {
		p.notes.SetText("Notes: " + note)
		p.notes.Show()
	} else {
		p.notes.Hide()
	}

	p.progress.SetValue(p.state.Progress())

	for i := range p.deck.Slides {
		if p.state.IsActive(i+1) && p.jump.SelectedIndex() != i {
			p.syncing = true
			p.jump.SetSelectedIndex(i)
			p.syncing = false
		}
	}
}

func (p *presenter) quizPanel(q *widgets.Quiz) []fyne.CanvasObject {
	objs := []fyne.CanvasObject{widget.NewLabelWithStyle(q.Question, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})}
	for i, o := range q.Options {
		b := widget.NewButton(fmt.Sprintf("%d. %s", i+1, o.Text), func() {
			p.answer(i)
			p.refresh()
		})
		switch q.Mark(i) {
		case widgets.MarkCorrect:
			b.Importance = widget.SuccessImportance
		case widgets.MarkIncorrect:
			b.Importance = widget.DangerImportance
		}
		objs = append(objs, b)
	}
	if q.Answered() {
		if q.Correct() {
			objs = append(objs, widget.NewLabel("Correct! Well done."))
		} else {
			objs = append(objs, widget.NewLabel("Not quite. The right answer is marked."))
		}
		objs = append(objs, widget.NewButton("Try again", func() {
			p.reset()
			p.refresh()
		}))
	}
	return objs
}

func (p *presenter) demoPanel(d *widgets.Demo, now time.Time) []fyne.CanvasObject {
	run := widget.NewButton(d.Label(now), func() {
		p.runDemo(time.Now())
		p.refresh()
		time.AfterFunc(widgets.FlashDuration, func() { fyne.Do(p.refresh) })
	})
	if d.Flashing(now) {
		run.Importance = widget.SuccessImportance
	} else {
		run.Importance = widget.HighImportance
	}
	reset := widget.NewButton("Reset", func() {
		p.reset()
		p.refresh()
	})
	objs := []fyne.CanvasObject{container.NewHBox(run, reset)}
	if out, ok := d.Output(); ok {
		preview := widget.NewRichTextFromMarkdown(out)
		preview.Wrapping = fyne.TextWrapWord
		objs = append(objs, widget.NewCard("", "Preview", preview))
	}
	return objs
}

func (p *presenter) applyTheme() {
	variant := theme.VariantDark
	if p.state.LightTheme() {
		variant = theme.VariantLight
	}
	p.app.Settings().SetTheme(&variantTheme{Theme: theme.DefaultTheme(), variant: variant})
}

func (p *presenter) SlideChanged(presentation.Change) {
	p.reveal.Restart(time.Now(), len(p.slide().Items))
}

func (p *presenter) FlagChanged(f presentation.Flag, on bool) {
	switch f {
	case presentation.Laser:
		p.laser.setActive(on)
	case presentation.Theme:
		p.applyTheme()
	case presentation.Grid:
		if on {
			p.grid.Show()
		} else {
			p.grid.Hide()
		}
	}
}

func (p *presenter) handleKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyRight, fyne.KeySpace:
		p.state.Next()
	case fyne.KeyLeft:
		p.state.Previous()
	case fyne.KeyF:
		p.window.SetFullScreen(!p.window.FullScreen())
		return
	case fyne.KeyQ, fyne.KeyEscape:
		p.window.Close()
		return
	default:
		return
	}
	p.refresh()
}

func (p *presenter) handleRune(r rune) {
	switch r {
	case 'l', 'L':
		p.state.ToggleLaser()
	case 't', 'T':
		p.state.ToggleTheme()
	case 'n', 'N':
		p.state.ToggleNotes()
	case 'g', 'G':
		p.state.ToggleGrid()
	case 'r', 'R':
		if p.runDemo(time.Now()) {
			time.AfterFunc(widgets.FlashDuration, func() { fyne.Do(p.refresh) })
		}
	case 'x', 'X':
		p.reset()
	case 'p', 'P':
		if p.advance.Running() {
			p.advance.Stop()
		} else {
			p.advance.Start()
		}
	default:
		if r >= '1' && r <= '9' {
			p.answer(int(r - '1'))
			break
		}
		return
	}
	p.refresh()
}

// tick handles a periodic task firing.
func (p *presenter) tick(task *schedule.Task) {
	if !task.Running() {
		return
	}
	switch task {
	case p.advance:
		p.state.Next()
	case p.blink:
		p.recording = !p.recording
	}
	p.refresh()
}

// Send posts a remote command onto the fyne main thread.
func (p *presenter) Send(msg tea.Msg) {
	fyne.Do(func() {
		if p.apply(msg) {
			p.refresh()
		}
	})
}

func present(ctx context.Context, a *app) error {
	sess, err := newSession(a.deck, a.logger)
	if err != nil {
		return err
	}

	fa := fyneapp.New()
	w := fa.NewWindow("deck - " + a.deck.Title)
	p := newPresenter(sess, a.cfg, fa, w)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	for _, task := range []*schedule.Task{p.advance, p.blink} {
		run(func() {
			task.Run(ctx, func(time.Time) { fyne.Do(func() { p.tick(task) }) })
		})
	}
	frames := schedule.New("frames", a.cfg.FrameInterval())
	run(func() {
		frames.Run(ctx, func(now time.Time) {
			fyne.Do(func() {
				if !p.reveal.Done(now) {
					p.refresh()
				}
			})
		})
	})

	if addr := a.cfg.Remote.Addr; addr != "" {
		srv := remote.NewServer(p, sess.state.Snapshot(), a.logger)
		sess.remote = srv
		run(func() {
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				a.logger.Warn("remote disabled", zap.String("addr", addr), zap.Error(err))
			}
		})
	}

	w.Canvas().SetOnTypedKey(p.handleKey)
	w.Canvas().SetOnTypedRune(p.handleRune)
	w.SetOnClosed(cancel)
	w.SetContent(p.content())
	w.Resize(fyne.NewSize(1024, 700))
	p.refresh()

	w.ShowAndRun()
	cancel()
	wg.Wait()
	return nil
}
