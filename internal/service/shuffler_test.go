package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

func sampleQuestion() entities.Question {
	return entities.Question{
		Text:         "Sky color?",
		Options:      []string{"Blue", "Red", "Green", "Yellow"},
		CorrectIndex: 0,
	}
}

func TestShufflerOptionsIsPermutation(t *testing.T) {
	s := NewShuffler()
	q := sampleQuestion()

	for i := 0; i < 200; i++ {
		options := s.Options(q, "q1")

		var texts []string
		correct := 0
		for pos, opt := range options {
			texts = append(texts, opt.Text)
			assert.Equal(t, entities.Letters[pos], opt.Letter)
			assert.Equal(t, "q1-"+opt.Letter, opt.ControlID)
			if opt.IsCorrect {
				correct++
				assert.Equal(t, "Blue", opt.Text)
			}
		}

		assert.ElementsMatch(t, q.Options, texts)
		assert.Equal(t, 1, correct)
	}
}

func TestShufflerCoversAllOrderings(t *testing.T) {
	s := NewShuffler()
	q := sampleQuestion()
	seen := make(map[string]int)

	for i := 0; i < 24000; i++ {
		options := s.Options(q, "q1")
		parts := make([]string, 0, len(options))
		for _, opt := range options {
			parts = append(parts, opt.Text)
		}
		seen[strings.Join(parts, "|")]++
	}

	require.Len(t, seen, 24)
	for order, n := range seen {
		assert.Greater(t, n, 600, "ordering %s is underrepresented", order)
	}
}

func TestShufflerFisherYatesWithFixedSource(t *testing.T) {
	// Always picking j=0 rotates the first element to the back step by step.
	s := &Shuffler{intn: func(int) int { return 0 }}

	options := []entities.RenderedOption{
		{Text: "A", IsCorrect: true},
		{Text: "B"},
		{Text: "C"},
		{Text: "D"},
	}
	s.Shuffle(options)

	got := make([]string, 0, len(options))
	for _, opt := range options {
		got = append(got, opt.Text)
	}
	assert.Equal(t, []string{"B", "C", "D", "A"}, got)
	assert.True(t, options[3].IsCorrect)
}

func TestShufflerOptionsIgnoresDesignatedPosition(t *testing.T) {
	s := &Shuffler{intn: func(n int) int { return n - 1 }}
	q := sampleQuestion()
	q.CorrectIndex = 2

	options := s.Options(q, "q7")
	correct, ok := entities.RenderedQuestion{Options: options}.CorrectOption()
	require.True(t, ok)
	assert.Equal(t, "Green", correct.Text)
	assert.Equal(t, "q7-"+correct.Letter, correct.ControlID)
}
