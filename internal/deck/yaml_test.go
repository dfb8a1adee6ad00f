package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDeck = `title: Web Foundations
slides:
  - title: Welcome
    kind: intro
    body: Hello there.
    note: Greet the room.
  - title: Quiz
    quiz:
      question: Pick one
      options:
        - text: wrong
        - text: right
          correct: true
  - title: Demo
    demo:
      language: html
      code: <h1>Hi</h1>
      preview: Hi
  - items: [a, b]
`

func TestParseYAML(t *testing.T) {
	d, err := ParseYAML([]byte(yamlDeck))
	require.NoError(t, err)
	require.NoError(t, d.Validate())

	assert.Equal(t, "Web Foundations", d.Title)
	require.Equal(t, 4, d.Len())

	want := []struct {
		key   int
		title string
		kind  Kind
	}{
		{1, "Welcome", KindIntro},
		{2, "Quiz", KindQuiz},
		{3, "Demo", KindDemo},
		{4, "Slide 4", KindContent},
	}
	for _, w := range want {
		s, ok := d.Slide(w.key)
		require.True(t, ok)
		assert.Equal(t, w.key, s.Key)
		assert.Equal(t, w.title, s.Title)
		assert.Equal(t, w.kind, s.Kind)
	}

	quiz, _ := d.Slide(2)
	require.NotNil(t, quiz.Quiz)
	assert.True(t, quiz.Quiz.Options[1].Correct)
	assert.False(t, quiz.Quiz.Options[0].Correct)

	last, _ := d.Slide(4)
	assert.Equal(t, []string{"a", "b"}, last.Items)
}

func TestParseYAMLErrors(t *testing.T) {
	_, err := ParseYAML([]byte("title: nothing\n"))
	assert.ErrorIs(t, err, ErrEmptyDeck)

	_, err = ParseYAML([]byte("slides: [\n"))
	assert.Error(t, err)
}

func TestLoadYAMLRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slides:\n  - title: x\n    kind: movie\n"), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown kind")
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Deck{}).Validate(), ErrEmptyDeck)

	d := &Deck{Slides: []Slide{{Key: 1, Kind: KindContent}, {Key: 3, Kind: KindContent}}}
	assert.ErrorIs(t, d.Validate(), ErrSlideKey)

	d = &Deck{Slides: []Slide{{Key: 1, Kind: KindContent}, {Key: 1, Kind: KindContent}}}
	assert.ErrorIs(t, d.Validate(), ErrSlideKey)

	_, ok := d.Slide(0)
	assert.False(t, ok)
	_, ok = d.Slide(3)
	assert.False(t, ok)
}
