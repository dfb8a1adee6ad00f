package effects

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	// ConfettiCount is the number of pieces in one burst.
	ConfettiCount = 100
	// ConfettiSpacing separates the release of consecutive pieces.
	ConfettiSpacing = 30 * time.Millisecond
	// ConfettiLifetime is how long a piece lives after its release.
	ConfettiLifetime = 5 * time.Second
)

var confettiGlyphs = []rune{'▪', '◆', '●', '▴', '■'}

type piece struct {
	col   float64
	start time.Time
	fall  time.Duration
	glyph rune
	color lipgloss.Color
}

// Confetti is a burst of falling pieces, released one after another.
type Confetti struct {
	rng    *rand.Rand
	pieces []piece
}

// NewConfetti creates an empty confetti layer.
func NewConfetti(rng *rand.Rand) *Confetti {
	return &Confetti{rng: rng}
}

// Burst schedules a new burst starting at now. Bursts accumulate.
func (c *Confetti) Burst(now time.Time) {
	for i := 0; i < ConfettiCount; i++ {
		c.pieces = append(c.pieces, piece{
			col:   c.rng.Float64(),
			start: now.Add(time.Duration(i) * ConfettiSpacing),
			fall:  time.Duration((c.rng.Float64()*3 + 2) * float64(time.Second)),
			glyph: confettiGlyphs[c.rng.IntN(len(confettiGlyphs))],
			color: Palette[c.rng.IntN(len(Palette))],
		})
	}
}

// Len returns the number of live pieces.
func (c *Confetti) Len() int { return len(c.pieces) }

// Active reports whether any piece is still alive.
func (c *Confetti) Active() bool { return len(c.pieces) > 0 }

// Step removes pieces past their lifetime.
func (c *Confetti) Step(now time.Time) {
	live := c.pieces[:0]
	for _, p := range c.pieces {
		if now.Before(p.start.Add(ConfettiLifetime)) {
			live = append(live, p)
		}
	}
	c.pieces = live
}

// Draw plots every released piece that is still falling.
func (c *Confetti) Draw(cv *Canvas, now time.Time) {
	if cv.Width == 0 || cv.Height == 0 {
		return
	}
	for _, p := range c.pieces {
		elapsed := now.Sub(p.start)
		if elapsed < 0 || elapsed > p.fall {
			continue
		}
		t := float64(elapsed) / float64(p.fall)
		x := int(p.col * float64(cv.Width-1))
		y := int(t * float64(cv.Height-1))
		cv.Set(x, y, p.glyph, p.color)
	}
}
