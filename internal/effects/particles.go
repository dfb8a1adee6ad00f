package effects

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DefaultParticles is the size of the background particle field.
const DefaultParticles = 50

type particle struct {
	col      float64
	size     float64
	born     time.Time
	delay    time.Duration
	duration time.Duration
	color    lipgloss.Color
}

// Particles is a background field of particles drifting upward. Each
// particle is replaced by a fresh random one when its flight ends.
type Particles struct {
	rng *rand.Rand
	ps  []particle
}

// NewParticles seeds a field of n particles at time now.
func NewParticles(n int, rng *rand.Rand, now time.Time) *Particles {
	p := &Particles{rng: rng, ps: make([]particle, max(n, 0))}
	for i := range p.ps {
		p.ps[i] = p.spawn(now)
	}
	return p
}

func (p *Particles) spawn(now time.Time) particle {
	return particle{
		size:     p.rng.Float64()*4 + 2,
		col:      p.rng.Float64(),
		born:     now,
		delay:    time.Duration(p.rng.Float64() * float64(20*time.Second)),
		duration: time.Duration((p.rng.Float64()*10 + 10) * float64(time.Second)),
		color:    Palette[p.rng.IntN(len(Palette))],
	}
}

// Len returns the number of particles in the field.
func (p *Particles) Len() int { return len(p.ps) }

// Step respawns particles whose flight has ended.
func (p *Particles) Step(now time.Time) {
	for i, pt := range p.ps {
		if !now.Before(pt.born.Add(pt.delay + pt.duration)) {
			p.ps[i] = p.spawn(now)
		}
	}
}

// Draw plots every airborne particle.
func (p *Particles) Draw(c *Canvas, now time.Time) {
	if c.Width == 0 || c.Height == 0 {
		return
	}
	for _, pt := range p.ps {
		elapsed := now.Sub(pt.born) - pt.delay
		if elapsed < 0 || elapsed >= pt.duration {
			continue
		}
		t := float64(elapsed) / float64(pt.duration)
		x := int(pt.col * float64(c.Width-1))
		y := int((1 - t) * float64(c.Height-1))
		c.Set(x, y, particleGlyph(pt.size), pt.color)
	}
}

func particleGlyph(size float64) rune {
	switch {
	case size < 3.3:
		return '·'
	case size < 4.6:
		return '•'
	}
	return '●'
}
