package effects

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	sparkCount   = 10
	sparkSpacing = 100 * time.Millisecond
	// SparkLifetime is how long one spark takes to fade out.
	SparkLifetime = 800 * time.Millisecond
)

type spark struct {
	x, y   float64
	vx, vy float64
	start  time.Time
	color  lipgloss.Color
}

// Sparks are short radial bursts spawned where the user clicks.
type Sparks struct {
	rng    *rand.Rand
	sparks []spark
}

// NewSparks creates an empty spark layer.
func NewSparks(rng *rand.Rand) *Sparks {
	return &Sparks{rng: rng}
}

// Burst emits ten sparks from x, y, one every 100ms.
func (s *Sparks) Burst(x, y int, now time.Time, color lipgloss.Color) {
	for i := 0; i < sparkCount; i++ {
		angle := s.rng.Float64() * math.Pi * 2
		velocity := 2 + s.rng.Float64()*2
		s.sparks = append(s.sparks, spark{
			x:     float64(x),
			y:     float64(y),
			vx:    math.Cos(angle) * velocity,
			vy:    math.Sin(angle) * velocity,
			start: now.Add(time.Duration(i) * sparkSpacing),
			color: color,
		})
	}
}

// Len returns the number of pending or visible sparks.
func (s *Sparks) Len() int { return len(s.sparks) }

// Active reports whether any spark is pending or visible.
func (s *Sparks) Active() bool { return len(s.sparks) > 0 }

// Step removes faded sparks.
func (s *Sparks) Step(now time.Time) {
	live := s.sparks[:0]
	for _, sp := range s.sparks {
		if now.Before(sp.start.Add(SparkLifetime)) {
			live = append(live, sp)
		}
	}
	s.sparks = live
}

// Draw plots each visible spark; it dims as it travels outward.
func (s *Sparks) Draw(c *Canvas, now time.Time) {
	for _, sp := range s.sparks {
		elapsed := now.Sub(sp.start)
		if elapsed < 0 {
			continue
		}
		t := float64(elapsed) / float64(SparkLifetime)
		x := int(math.Round(sp.x + sp.vx*t*2))
		y := int(math.Round(sp.y + sp.vy*t))
		r := '✦'
		if t > 0.5 {
			r = '·'
		}
		c.Set(x, y, r, sp.color)
	}
}
