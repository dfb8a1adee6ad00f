package effects

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	// TrailLifetime is how long a trail dot stays on screen.
	TrailLifetime = time.Second
	// RippleDuration is the lifetime of one activation ring.
	RippleDuration = 800 * time.Millisecond
	// RippleSpacing separates the three activation rings.
	RippleSpacing = 200 * time.Millisecond
	rippleCount   = 3
	rippleRadius  = 6.0
	trailChance   = 0.2
)

var (
	laserColor  = lipgloss.Color("#ef4444")
	trailColor  = lipgloss.Color("#8b5cf6")
	rippleColor = lipgloss.Color("#6366f1")
)

type dot struct {
	x, y int
	born time.Time
}

// Laser is the pointer that follows the mouse while the laser flag is on.
type Laser struct {
	rng     *rand.Rand
	x, y    int
	placed  bool
	trail   []dot
	ripples []dot
}

// NewLaser creates a laser with no known position.
func NewLaser(rng *rand.Rand) *Laser {
	return &Laser{rng: rng}
}

// Position returns the pointer position, if the mouse has been seen.
func (l *Laser) Position() (x, y int, ok bool) {
	return l.x, l.y, l.placed
}

// Move records a mouse position. Some moves leave a trail dot behind.
func (l *Laser) Move(x, y int, now time.Time) {
	l.x, l.y, l.placed = x, y, true
	if l.rng.Float64() < trailChance {
		l.trail = append(l.trail, dot{x: x, y: y, born: now})
	}
}

// Activate plays the activation ripple around the pointer.
func (l *Laser) Activate(now time.Time) {
	for i := 0; i < rippleCount; i++ {
		l.ripples = append(l.ripples, dot{
			x:    l.x,
			y:    l.y,
			born: now.Add(time.Duration(i) * RippleSpacing),
		})
	}
}

// Active reports whether trail dots or ripples are still animating.
func (l *Laser) Active() bool { return len(l.trail)+len(l.ripples) > 0 }

// Step drops expired trail dots and ripples.
func (l *Laser) Step(now time.Time) {
	l.trail = expire(l.trail, now, TrailLifetime)
	l.ripples = expire(l.ripples, now, RippleDuration)
}

// Draw plots trail and ripples, and the pointer itself when visible.
func (l *Laser) Draw(c *Canvas, now time.Time, pointer bool) {
	for _, d := range l.trail {
		c.Set(d.x, d.y, '·', trailColor)
	}
	for _, r := range l.ripples {
		elapsed := now.Sub(r.born)
		if elapsed < 0 {
			continue
		}
		radius := 1 + float64(elapsed)/float64(RippleDuration)*rippleRadius
		drawRing(c, r.x, r.y, radius, '∘', rippleColor)
	}
	if pointer && l.placed {
		c.Set(l.x, l.y, '◉', laserColor)
	}
}

// drawRing plots a circle, doubling the horizontal radius since terminal
// cells are about twice as tall as they are wide.
func drawRing(c *Canvas, cx, cy int, radius float64, r rune, color lipgloss.Color) {
	steps := int(radius * 12)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Round(math.Cos(a)*radius*2))
		y := cy + int(math.Round(math.Sin(a)*radius))
		c.Set(x, y, r, color)
	}
}

func expire(dots []dot, now time.Time, life time.Duration) []dot {
	live := dots[:0]
	for _, d := range dots {
		if now.Before(d.born.Add(life)) {
			live = append(live, d)
		}
	}
	return live
}
