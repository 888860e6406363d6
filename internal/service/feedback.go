package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

var (
	ErrAnswerKeyMissing = errors.New("no answer key entry for question")
	ErrInvalidLetter    = errors.New("invalid option letter")
)

const (
	msgCorrect   = "Correct!"
	msgIncorrect = "Incorrect. The correct answer is %s) %s."
)

// CheckAnswer grades the selected letter for a question of the session.
// A question without a key entry is logged and reported with ErrAnswerKeyMissing
// so the caller can skip feedback for it.
func (s *QuizService) CheckAnswer(session *entities.QuizSession, questionID, letter string) (entities.Feedback, error) {
	log := s.logger.With(
		zap.String("chapter", session.Chapter),
		zap.String("question_id", questionID),
	)

	correctLetter, ok := session.AnswerKey.Lookup(questionID)
	if !ok {
		log.Warn("answer key entry missing, skipping feedback")
		return entities.Feedback{}, ErrAnswerKeyMissing
	}

	q, ok := session.Question(questionID)
	if !ok {
		log.Warn("question missing from session, skipping feedback")
		return entities.Feedback{}, ErrAnswerKeyMissing
	}

	fb := entities.NewFeedback(q, letter)
	if fb.Selected == "" {
		return entities.Feedback{}, fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}

	fb.CheckAnswer(correctLetter)
	for _, opt := range q.Options {
		if opt.Letter == fb.CorrectLetter {
			fb.CorrectText = opt.Text
		}
	}

	if fb.Correct {
		fb.Message = msgCorrect
	} else {
		fb.Message = fmt.Sprintf(msgIncorrect, fb.CorrectLetter, fb.CorrectText)
	}

	return fb, nil
}

// Scorecard tracks the answer state of every question of one session.
// The first answer to a question decides its state; later answers only
// produce fresh feedback.
type Scorecard struct {
	states map[string]entities.QuestionState
	order  []string
}

// NewScorecard creates a scorecard with every question of the session unanswered.
func NewScorecard(session *entities.QuizSession) *Scorecard {
	sc := &Scorecard{
		states: make(map[string]entities.QuestionState, len(session.Questions)),
		order:  make([]string, 0, len(session.Questions)),
	}
	for _, q := range session.Questions {
		sc.states[q.ID] = entities.Unanswered
		sc.order = append(sc.order, q.ID)
	}
	return sc
}

// Record stores the outcome of fb unless the question was already answered.
// It returns the resulting state.
func (sc *Scorecard) Record(fb entities.Feedback) entities.QuestionState {
	state, ok := sc.states[fb.QuestionID]
	if !ok || state.Answered() {
		return state
	}
	if fb.Correct {
		state = entities.AnsweredCorrect
	} else {
		state = entities.AnsweredIncorrect
	}
	sc.states[fb.QuestionID] = state
	return state
}

// State returns the state of a question.
func (sc *Scorecard) State(questionID string) entities.QuestionState {
	return sc.states[questionID]
}

// Score returns correct and answered counts plus the number of questions.
func (sc *Scorecard) Score() (correct, answered, total int) {
	for _, id := range sc.order {
		switch sc.states[id] {
		case entities.AnsweredCorrect:
			correct++
			answered++
		case entities.AnsweredIncorrect:
			answered++
		}
	}
	return correct, answered, len(sc.order)
}
