package service

import (
	"math/rand"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

// Shuffler reorders the options of a question.
type Shuffler struct {
	intn func(n int) int
}

// NewShuffler creates a shuffler backed by the process-wide random source.
func NewShuffler() *Shuffler {
	return &Shuffler{intn: rand.Intn}
}

// Shuffle permutes options in place with Fisher-Yates.
// Every option keeps its IsCorrect flag, only positions change.
func (s *Shuffler) Shuffle(options []entities.RenderedOption) {
	for i := len(options) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		options[i], options[j] = options[j], options[i]
	}
}

// Options builds the rendered options of q in a random order and assigns letters and control ids.
func (s *Shuffler) Options(q entities.Question, questionID string) [entities.OptionCount]entities.RenderedOption {
	var options [entities.OptionCount]entities.RenderedOption
	for i, text := range q.Options {
		if i == entities.OptionCount {
			break
		}
		options[i] = entities.RenderedOption{
			Text:      text,
			IsCorrect: i == q.CorrectIndex,
		}
	}

	s.Shuffle(options[:])

	for i := range options {
		letter := entities.Letters[i]
		options[i].Letter = letter
		options[i].ControlID = questionID + "-" + letter
	}

	return options
}
