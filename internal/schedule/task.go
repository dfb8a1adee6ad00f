// Package schedule runs the optional periodic tasks of a presentation
// (auto-advance, recording indicator) as cancellable bubbletea ticks.
package schedule

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is delivered when a task's interval elapses.
type TickMsg struct {
	Name string
	Time time.Time
	gen  int
}

// Task is a named periodic tick. Stopping a task bumps its generation so
// ticks already in flight are dropped when they arrive.
type Task struct {
	Name     string
	Interval time.Duration

	gen     int
	running bool
}

// New creates a stopped task. A zero or negative interval disables it.
func New(name string, interval time.Duration) *Task {
	return &Task{Name: name, Interval: interval}
}

// Enabled reports whether the task has a usable interval.
func (t *Task) Enabled() bool { return t.Interval > 0 }

// Running reports whether ticks are currently being scheduled.
func (t *Task) Running() bool { return t.running }

// Start schedules the first tick. Starting a running task restarts its period.
func (t *Task) Start() tea.Cmd {
	if !t.Enabled() {
		return nil
	}
	t.gen++
	t.running = true
	return t.tick()
}

// Stop cancels the task.
func (t *Task) Stop() {
	t.gen++
	t.running = false
}

// Handle reports whether msg is a live tick of this task and, if so,
// returns the command scheduling the next one.
func (t *Task) Handle(msg tea.Msg) (bool, tea.Cmd) {
	m, ok := msg.(TickMsg)
	if !ok || m.Name != t.Name || m.gen != t.gen || !t.running {
		return false, nil
	}
	return true, t.tick()
}

// Run calls fn every interval until ctx is done. It is the goroutine form
// used by frontends that have no bubbletea loop.
func (t *Task) Run(ctx context.Context, fn func(time.Time)) {
	if !t.Enabled() {
		return
	}
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fn(now)
		}
	}
}

// Tick returns the message a tick of the current generation carries.
// Feeding it to Handle fires the task without waiting on the timer.
func (t *Task) Tick(now time.Time) TickMsg {
	return TickMsg{Name: t.Name, Time: now, gen: t.gen}
}

func (t *Task) tick() tea.Cmd {
	msg := t.Tick(time.Time{})
	return tea.Tick(t.Interval, func(now time.Time) tea.Msg {
		msg.Time = now
		return msg
	})
}
