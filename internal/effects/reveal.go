package effects

import "time"

// RevealStep is the delay between consecutive items appearing.
const RevealStep = 200 * time.Millisecond

// Reveal staggers the entrance of a slide's items: item i appears at i*RevealStep.
type Reveal struct {
	start time.Time
	count int
}

// Restart replays the entrance for count items from now.
func (r *Reveal) Restart(now time.Time, count int) {
	r.start = now
	r.count = max(count, 0)
}

// Visible returns how many items are showing at now.
func (r *Reveal) Visible(now time.Time) int {
	if r.count == 0 || now.Before(r.start) {
		return 0
	}
	n := int(now.Sub(r.start)/RevealStep) + 1
	return min(n, r.count)
}

// Done reports whether every item is showing.
func (r *Reveal) Done(now time.Time) bool {
	return r.Visible(now) >= r.count
}
