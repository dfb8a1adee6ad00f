package widgets

import (
	"testing"
	"time"

	"github.com/metcalfc/deck/internal/deck"
	"github.com/stretchr/testify/assert"
)

func quizSpec() deck.QuizSpec {
	return deck.QuizSpec{
		Question: "Which element holds the main content?",
		Options: []deck.Option{
			{Text: "div"},
			{Text: "main", Correct: true},
			{Text: "section"},
		},
	}
}

func TestQuizAnswerOnce(t *testing.T) {
	q := NewQuiz(quizSpec())
	for i := range q.Options {
		assert.Equal(t, Unmarked, q.Mark(i))
	}
	assert.Equal(t, -1, q.Choice())

	assert.True(t, q.Answer(0))
	assert.True(t, q.Answered())
	assert.False(t, q.Correct())
	assert.Equal(t, []Mark{MarkIncorrect, MarkCorrect, MarkIncorrect},
		[]Mark{q.Mark(0), q.Mark(1), q.Mark(2)})

	assert.False(t, q.Answer(1), "further answers are ignored")
	assert.Equal(t, 0, q.Choice())
}

func TestQuizOutOfRange(t *testing.T) {
	q := NewQuiz(quizSpec())
	assert.False(t, q.Answer(-1))
	assert.False(t, q.Answer(3))
	assert.False(t, q.Answered())
	assert.Equal(t, Unmarked, q.Mark(7))
}

func TestQuizReset(t *testing.T) {
	q := NewQuiz(quizSpec())
	q.Answer(1)
	assert.True(t, q.Correct())
	q.Reset()
	assert.False(t, q.Answered())
	assert.True(t, q.Answer(2))
}

func TestQuizCopiesOptions(t *testing.T) {
	qs := quizSpec()
	q := NewQuiz(qs)
	qs.Options[0].Correct = true
	assert.False(t, q.Options[0].Correct)
}

func TestDemoRunAndReset(t *testing.T) {
	d := NewDemo(deck.DemoSpec{Language: "html", Code: "<h1>Welcome</h1>", Preview: "Welcome"})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	_, ok := d.Output()
	assert.False(t, ok)
	assert.Equal(t, LabelRun, d.Label(now))

	d.Run(now)
	out, ok := d.Output()
	assert.True(t, ok)
	assert.Equal(t, "Welcome", out)
	assert.Equal(t, LabelExecuted, d.Label(now.Add(time.Second)))
	assert.True(t, d.Flashing(now.Add(time.Second)))
	assert.Equal(t, LabelRun, d.Label(now.Add(FlashDuration)))

	d.Reset()
	_, ok = d.Output()
	assert.False(t, ok)
}
