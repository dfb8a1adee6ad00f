package widgets

import (
	"time"

	"github.com/metcalfc/deck/internal/deck"
)

// FlashDuration is how long the run button shows its "Executed" label.
const FlashDuration = 2 * time.Second

const (
	LabelRun      = "▶ Run Code"
	LabelExecuted = "✓ Executed"
)

// Demo is a scripted code panel: running it shows a canned preview.
type Demo struct {
	Language string
	Code     string

	preview   string
	output    string
	ranAt     time.Time
	hasOutput bool
}

// NewDemo builds a demo panel from its slide description.
func NewDemo(ds deck.DemoSpec) *Demo {
	return &Demo{
		Language: ds.Language,
		Code:     ds.Code,
		preview:  ds.Preview,
	}
}

// Run fills the preview and starts the "Executed" flash.
func (d *Demo) Run(now time.Time) {
	d.output = d.preview
	d.hasOutput = true
	d.ranAt = now
}

// Reset clears the preview.
func (d *Demo) Reset() {
	d.output = ""
	d.hasOutput = false
}

// Output returns the preview contents, if the demo has been run.
func (d *Demo) Output() (string, bool) {
	return d.output, d.hasOutput
}

// Label returns the run button label at time now.
func (d *Demo) Label(now time.Time) string {
	if !d.ranAt.IsZero() && now.Sub(d.ranAt) < FlashDuration {
		return LabelExecuted
	}
	return LabelRun
}

// Flashing reports whether the label still needs to revert.
func (d *Demo) Flashing(now time.Time) bool {
	return d.Label(now) == LabelExecuted
}
