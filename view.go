//go:build !gui

package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/metcalfc/deck/internal/deck"
	"github.com/metcalfc/deck/internal/effects"
	"github.com/metcalfc/deck/internal/presentation"
	"github.com/metcalfc/deck/internal/widgets"
)

const (
	headerHeight  = 1
	maxBlockWidth = 76
)

var sparkColor = lipgloss.Color("#f59e0b")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6366f1"))

	recStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444")).
			Bold(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	flagOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10b981")).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b5cf6"))

	correctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10b981")).
			Bold(true)

	incorrectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#6366f1")).
			Padding(0, 1)

	flashStyle = buttonStyle.
			Background(lipgloss.Color("#10b981"))

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10b981")).
			Padding(0, 1)

	notesStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#f59e0b")).
			Padding(0, 1)
)

// palette holds the colors that follow the theme flag.
type palette struct {
	muted lipgloss.Color
	grid  lipgloss.Color
	style string
}

func themePalette(light bool) palette {
	if light {
		return palette{muted: "#555555", grid: "#c7c7d9", style: "light"}
	}
	return palette{muted: "#888888", grid: "#33334d", style: "dark"}
}

// slideCache holds the rendered markdown of the active slide. It is
// rebuilt on slide, theme or size changes.
type slideCache struct {
	valid   bool
	width   int
	body    []string
	preview []string
}

func (c *slideCache) invalidate() { c.valid = false }

func (c *slideCache) get(sl deck.Slide, width int, style string) *slideCache {
	if c.valid && c.width == width {
		return c
	}
	c.valid, c.width = true, width
	c.body = renderMarkdown(slideMarkdown(sl), width, style)
	c.preview = nil
	if sl.Demo != nil && sl.Demo.Preview != "" {
		c.preview = renderMarkdown(sl.Demo.Preview, width-4, style)
	}
	return c
}

func renderMarkdown(md string, width int, style string) []string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	out := md
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			out = rendered
		}
	}
	out = strings.Trim(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	now := m.stage.clock()
	colors := themePalette(m.state.LightTheme())
	blockWidth := max(min(m.width-4, maxBlockWidth), 10)
	left := max((m.width-blockWidth)/2, 0)

	var notes []string
	if m.state.NotesVisible() {
		if note, ok := m.note(); ok {
			notes = strings.Split(notesStyle.Width(blockWidth).Render("Notes: "+note), "\n")
		}
	}
	footer := []string{m.progress.ViewAs(m.state.Progress())}
	footer = append(footer, strings.Split(m.help.View(m.keys), "\n")...)
	if m.help.ShowAll {
		muted := lipgloss.NewStyle().Foreground(colors.muted)
		outline := ansi.Truncate(strings.Join(m.outline(), "  "), max(m.width, 1), "…")
		footer = append(footer, muted.Render(outline))
	}

	bodyHeight := max(m.height-headerHeight-len(notes)-len(footer), 1)
	content := m.content(now, blockWidth, colors)
	if len(content) > bodyHeight {
		content = content[:bodyHeight]
	}
	top := (bodyHeight - len(content)) / 2

	layers := m.stage.scene.Draw(effects.Frame{
		Width:     m.width,
		Height:    bodyHeight,
		Now:       now,
		Grid:      m.state.GridVisible(),
		GridColor: colors.grid,
		Pointer:   m.state.LaserActive(),
	})

	var sb strings.Builder
	sb.WriteString(m.statusLine(colors))
	for y := 0; y < bodyHeight; y++ {
		line := ""
		if i := y - top; i >= 0 && i < len(content) {
			line = content[i]
		}
		sb.WriteString("\n")
		sb.WriteString(composeRow(layers, y, left, blockWidth, line))
	}
	for _, l := range notes {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", left))
		sb.WriteString(l)
	}
	for _, l := range footer {
		sb.WriteString("\n")
		sb.WriteString(l)
	}
	return sb.String()
}

func (m model) statusLine(colors palette) string {
	muted := lipgloss.NewStyle().Foreground(colors.muted)

	leftText := titleStyle.Render(m.deck.Title)
	if t := m.slide().Title; t != "" && t != m.deck.Title {
		leftText += muted.Render(" · " + t)
	}

	var right []string
	if m.blink.Enabled() {
		if m.recording {
			right = append(right, recStyle.Render("● REC"))
		} else {
			right = append(right, "     ")
		}
	}
	if m.advance.Enabled() {
		if m.advance.Running() {
			right = append(right, muted.Render("▶ auto"))
		} else {
			right = append(right, pausedStyle.Render("[PAUSED]"))
		}
	}
	for _, f := range presentation.Flags {
		name := strings.ToUpper(f.String()[:1])
		if m.state.Flag(f) {
			right = append(right, flagOnStyle.Render(name))
		} else {
			right = append(right, muted.Render(name))
		}
	}
	right = append(right, muted.Render(m.state.Counter()))
	rightText := strings.Join(right, " ")

	gap := max(m.width-lipgloss.Width(leftText)-lipgloss.Width(rightText)-2, 1)
	return " " + leftText + strings.Repeat(" ", gap) + rightText
}

// content returns the lines of the active slide: rendered markdown, the
// items revealed so far, and the quiz or demo panel.
func (m model) content(now time.Time, width int, colors palette) []string {
	sl := m.slide()
	cache := m.stage.cache.get(sl, width, colors.style)

	lines := append([]string(nil), cache.body...)

	visible := m.stage.scene.Reveal.Visible(now)
	for i, item := range sl.Items {
		if i >= visible {
			break
		}
		lines = append(lines, itemStyle.Render("  ◆ ")+renderInline(item))
	}

	if q := m.quiz(); q != nil {
		lines = append(lines, "")
		lines = append(lines, quizLines(q)...)
	}
	if d := m.demo(); d != nil {
		lines = append(lines, "")
		lines = append(lines, demoLines(d, now, cache.preview, lipgloss.NewStyle().Foreground(colors.muted))...)
	}
	return lines
}

var strongPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// renderInline styles **strong** spans of a one-line item.
func renderInline(s string) string {
	return strongPattern.ReplaceAllStringFunc(s, func(m string) string {
		return lipgloss.NewStyle().Bold(true).Render(strings.Trim(m, "*"))
	})
}

func quizLines(q *widgets.Quiz) []string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render("  " + q.Question)}
	for i, o := range q.Options {
		text := fmt.Sprintf("  %d. %s", i+1, o.Text)
		switch q.Mark(i) {
		case widgets.MarkCorrect:
			text = correctStyle.Render(text + " ✓")
		case widgets.MarkIncorrect:
			text = incorrectStyle.Render(text + " ✗")
		}
		lines = append(lines, text)
	}
	if q.Answered() {
		lines = append(lines, "")
		if q.Correct() {
			lines = append(lines, correctStyle.Render("  Correct! Well done."))
		} else {
			lines = append(lines, incorrectStyle.Render("  Not quite. The right answer is marked."))
		}
	}
	return lines
}

func demoLines(d *widgets.Demo, now time.Time, preview []string, muted lipgloss.Style) []string {
	button := buttonStyle.Render(d.Label(now))
	if d.Flashing(now) {
		button = flashStyle.Render(d.Label(now))
	}
	lines := []string{"  " + button + muted.Render("  r run · x reset")}
	if _, ok := d.Output(); ok && len(preview) > 0 {
		box := previewStyle.Render(strings.Join(preview, "\n"))
		for _, l := range strings.Split(box, "\n") {
			lines = append(lines, "  "+l)
		}
	}
	return lines
}

// composeRow lays line over the backdrop at column left. Rows touched by
// the overlay are flattened to plain text so overlay cells can replace
// single columns.
func composeRow(l effects.Layers, y, left, width int, line string) string {
	full := l.Backdrop.Width
	if !l.Overlay.RowEmpty(y, 0, full) {
		return overlayRow(l, y, left, line)
	}
	if line == "" {
		return l.Backdrop.Row(y, 0, full)
	}

	w := lipgloss.Width(line)
	if w > width {
		line = ansi.Truncate(line, width, "")
		w = lipgloss.Width(line)
	}
	return l.Backdrop.Row(y, 0, left) +
		line + strings.Repeat(" ", width-w) +
		l.Backdrop.Row(y, left+width, full)
}

func overlayRow(l effects.Layers, y, left int, line string) string {
	base := l.Backdrop.Plain(y)
	for i, r := range []rune(ansi.Strip(line)) {
		if x := left + i; x >= 0 && x < len(base) {
			base[x] = r
		}
	}

	var sb strings.Builder
	for x, r := range base {
		if c := l.Overlay.At(x, y); c.Rune != 0 {
			sb.WriteString(lipgloss.NewStyle().Foreground(c.Color).Render(string(c.Rune)))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
