// Package effects implements the decorative, time-driven layers drawn
// around slides: particle field, confetti, laser pointer, click sparks and
// entrance reveals. Effects never feed back into navigation.
package effects

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the accent palette shared by particles, confetti and sparks.
var Palette = []lipgloss.Color{"#6366f1", "#8b5cf6", "#f59e0b", "#10b981", "#ef4444"}

// Cell is one character position on a Canvas. A zero Rune is empty.
type Cell struct {
	Rune  rune
	Color lipgloss.Color
}

// Canvas is a fixed-size grid of cells that effects draw into.
type Canvas struct {
	Width  int
	Height int
	cells  []Cell
}

// NewCanvas allocates an empty canvas. Negative sizes are treated as zero.
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	return &Canvas{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
}

// Set writes a cell; positions outside the canvas are ignored.
func (c *Canvas) Set(x, y int, r rune, color lipgloss.Color) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.cells[y*c.Width+x] = Cell{Rune: r, Color: color}
}

// At returns the cell at x, y.
func (c *Canvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return Cell{}
	}
	return c.cells[y*c.Width+x]
}

// Clear empties every cell.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// RowEmpty reports whether row y has no cells in [from, to).
func (c *Canvas) RowEmpty(y, from, to int) bool {
	for x := max(from, 0); x < min(to, c.Width); x++ {
		if c.At(x, y).Rune != 0 {
			return false
		}
	}
	return true
}

// Row renders cells [from, to) of row y. Empty cells render as spaces.
func (c *Canvas) Row(y, from, to int) string {
	from, to = max(from, 0), min(to, c.Width)
	if y < 0 || y >= c.Height || from >= to {
		return ""
	}

	var sb strings.Builder
	var run strings.Builder
	var runColor lipgloss.Color
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runColor == "" {
			sb.WriteString(run.String())
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(run.String()))
		}
		run.Reset()
	}

	for x := from; x < to; x++ {
		cell := c.At(x, y)
		r, color := cell.Rune, cell.Color
		if r == 0 {
			r, color = ' ', ""
		}
		if color != runColor {
			flush()
			runColor = color
		}
		run.WriteRune(r)
	}
	flush()
	return sb.String()
}

// Plain returns row y as runes, with spaces for empty cells.
func (c *Canvas) Plain(y int) []rune {
	out := make([]rune, c.Width)
	for x := range out {
		out[x] = ' '
		if r := c.At(x, y).Rune; r != 0 {
			out[x] = r
		}
	}
	return out
}

// DrawGrid draws a dotted alignment grid.
func DrawGrid(c *Canvas, color lipgloss.Color) {
	for y := 0; y < c.Height; y += 2 {
		for x := 0; x < c.Width; x += 4 {
			r := '·'
			if y%8 == 0 && x%16 == 0 {
				r = '+'
			}
			c.Set(x, y, r, color)
		}
	}
}
