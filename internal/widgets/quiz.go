// Package widgets holds the interactive panels a slide can carry.
package widgets

import "github.com/metcalfc/deck/internal/deck"

// Mark is the state shown next to a quiz option.
type Mark int

const (
	Unmarked Mark = iota
	MarkCorrect
	MarkIncorrect
)

// Quiz is a single-question quiz that accepts exactly one answer.
type Quiz struct {
	Question string
	Options  []deck.Option

	answered bool
	choice   int
}

// NewQuiz builds a quiz from its slide description.
func NewQuiz(qs deck.QuizSpec) *Quiz {
	return &Quiz{
		Question: qs.Question,
		Options:  append([]deck.Option(nil), qs.Options...),
		choice:   -1,
	}
}

// Answer records choice i (0-based). It reports whether the answer was
// accepted; once answered, the quiz ignores further clicks.
func (q *Quiz) Answer(i int) bool {
	if q.answered || i < 0 || i >= len(q.Options) {
		return false
	}
	q.answered = true
	q.choice = i
	return true
}

// Answered reports whether feedback is showing.
func (q *Quiz) Answered() bool { return q.answered }

// Choice returns the chosen option, or -1.
func (q *Quiz) Choice() int { return q.choice }

// Correct reports whether the chosen option was a correct one.
func (q *Quiz) Correct() bool {
	return q.answered && q.Options[q.choice].Correct
}

// Mark returns the marking of option i. Before an answer every option is
// unmarked; afterwards every option is marked by its own correctness.
func (q *Quiz) Mark(i int) Mark {
	if !q.answered || i < 0 || i >= len(q.Options) {
		return Unmarked
	}
	if q.Options[i].Correct {
		return MarkCorrect
	}
	return MarkIncorrect
}

// Reset clears the answer so the quiz can be asked again.
func (q *Quiz) Reset() {
	q.answered = false
	q.choice = -1
}
