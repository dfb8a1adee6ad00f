package effects

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Options configures which effects a Scene runs.
type Options struct {
	Particles int
	Confetti  bool
	Seed      uint64
}

// Layers are the two canvases produced for one frame. The backdrop sits
// behind slide content; the overlay is drawn over it.
type Layers struct {
	Backdrop *Canvas
	Overlay  *Canvas
}

// Scene owns every effect of a presentation. Particles and Confetti are
// nil when disabled.
type Scene struct {
	Particles *Particles
	Confetti  *Confetti
	Laser     *Laser
	Sparks    *Sparks
	Reveal    Reveal

	layers Layers
}

// NewScene builds the effects selected by opts.
func NewScene(opts Options, now time.Time) *Scene {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	s := &Scene{
		Laser:  NewLaser(rng),
		Sparks: NewSparks(rng),
	}
	if opts.Particles > 0 {
		s.Particles = NewParticles(opts.Particles, rng, now)
	}
	if opts.Confetti {
		s.Confetti = NewConfetti(rng)
	}
	return s
}

// Celebrate starts a confetti burst, when confetti is enabled.
func (s *Scene) Celebrate(now time.Time) bool {
	if s.Confetti == nil {
		return false
	}
	s.Confetti.Burst(now)
	return true
}

// Step advances every effect to now.
func (s *Scene) Step(now time.Time) {
	if s.Particles != nil {
		s.Particles.Step(now)
	}
	if s.Confetti != nil {
		s.Confetti.Step(now)
	}
	s.Laser.Step(now)
	s.Sparks.Step(now)
}

// Animating reports whether another frame would differ from this one.
func (s *Scene) Animating(now time.Time) bool {
	return (s.Particles != nil && s.Particles.Len() > 0) ||
		(s.Confetti != nil && s.Confetti.Active()) ||
		s.Laser.Active() ||
		s.Sparks.Active() ||
		!s.Reveal.Done(now)
}

// Frame holds the per-frame drawing switches.
type Frame struct {
	Width, Height int
	Now           time.Time
	Grid          bool
	GridColor     lipgloss.Color
	Pointer       bool
}

// Draw renders all effects for one frame.
func (s *Scene) Draw(f Frame) Layers {
	if s.layers.Backdrop == nil || s.layers.Backdrop.Width != f.Width || s.layers.Backdrop.Height != f.Height {
		s.layers = Layers{
			Backdrop: NewCanvas(f.Width, f.Height),
			Overlay:  NewCanvas(f.Width, f.Height),
		}
	} else {
		s.layers.Backdrop.Clear()
		s.layers.Overlay.Clear()
	}

	if f.Grid {
		DrawGrid(s.layers.Backdrop, f.GridColor)
	}
	if s.Particles != nil {
		s.Particles.Draw(s.layers.Backdrop, f.Now)
	}
	if s.Confetti != nil {
		s.Confetti.Draw(s.layers.Backdrop, f.Now)
	}
	s.Laser.Draw(s.layers.Overlay, f.Now, f.Pointer)
	s.Sparks.Draw(s.layers.Overlay, f.Now)
	return s.layers
}
