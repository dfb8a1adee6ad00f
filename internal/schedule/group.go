package schedule

import tea "github.com/charmbracelet/bubbletea"

// Group owns a set of tasks that share one lifecycle.
type Group struct {
	tasks []*Task
}

// NewGroup groups tasks; nil entries are skipped.
func NewGroup(tasks ...*Task) *Group {
	g := &Group{}
	for _, t := range tasks {
		if t != nil {
			g.tasks = append(g.tasks, t)
		}
	}
	return g
}

// Start starts every enabled task.
func (g *Group) Start() tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range g.tasks {
		if cmd := t.Start(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Stop cancels every task.
func (g *Group) Stop() {
	for _, t := range g.tasks {
		t.Stop()
	}
}

// Handle routes msg to the task it belongs to. It returns that task when
// the tick is live, together with the command for the next tick.
func (g *Group) Handle(msg tea.Msg) (*Task, tea.Cmd) {
	for _, t := range g.tasks {
		if fired, next := t.Handle(msg); fired {
			return t, next
		}
	}
	return nil, nil
}
