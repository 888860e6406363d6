package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Feedback statuses.
const (
	StatusCorrect   = "correct"
	StatusIncorrect = "incorrect"
)

// QuizSession is one generated quiz: the view-model plus its answer key.
// It is owned by the caller and scoped to one page load or terminal run.
type QuizSession struct {
	ID        uuid.UUID          // unique session ID, used to namespace the rendered form
	Chapter   string             // chapter slug the quiz was generated from
	Title     string             // human readable chapter title
	Questions []RenderedQuestion // rendered questions in bank order
	AnswerKey AnswerKey          // question id -> correct letter
	Skipped   []ParseIssue       // bank items that were left out
	CreatedAt time.Time          // timestamp when the quiz was generated
}

// NewQuizSession creates an empty session for the given chapter.
func NewQuizSession(chapter, title string) *QuizSession {
	return &QuizSession{
		ID:        uuid.New(),
		Chapter:   chapter,
		Title:     title,
		CreatedAt: time.Now(),
	}
}

// Question returns the rendered question with the given id.
func (qs *QuizSession) Question(id string) (RenderedQuestion, bool) {
	for _, q := range qs.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return RenderedQuestion{}, false
}

// Feedback is what the user sees after selecting an option.
type Feedback struct {
	QuestionID    string // rendered question id
	Selected      string // selected letter
	CorrectLetter string // letter of the correct option
	CorrectText   string // text of the correct option
	Correct       bool   // whether the selection was correct
	Status        string // "correct" or "incorrect"
	Message       string // human readable status line
	Explanation   string // optional explanation
	Citation      string // optional citation
}

// NewFeedback creates feedback for a selection on the given question.
func NewFeedback(q RenderedQuestion, selected string) Feedback {
	return Feedback{
		QuestionID:  q.ID,
		Selected:    NormalizeLetter(selected),
		Explanation: q.Explanation,
		Citation:    q.Citation,
	}
}

// CheckAnswer compares the selection with the correct letter and sets the status.
func (f *Feedback) CheckAnswer(correctLetter string) {
	f.CorrectLetter = NormalizeLetter(correctLetter)
	f.Correct = f.Selected != "" && f.Selected == f.CorrectLetter
	if f.Correct {
		f.Status = StatusCorrect
		return
	}
	f.Status = StatusIncorrect
}

// NormalizeLetter lowercases and trims a letter, returning "" if it is not a-d.
func NormalizeLetter(letter string) string {
	letter = strings.ToLower(strings.TrimSpace(letter))
	for _, l := range Letters {
		if l == letter {
			return letter
		}
	}
	return ""
}

// QuestionState is the per-question answer state.
type QuestionState int

const (
	Unanswered QuestionState = iota
	AnsweredCorrect
	AnsweredIncorrect
)

func (s QuestionState) String() string {
	switch s {
	case AnsweredCorrect:
		return "answered_correct"
	case AnsweredIncorrect:
		return "answered_incorrect"
	default:
		return "unanswered"
	}
}

// Answered reports whether the state is terminal.
func (s QuestionState) Answered() bool {
	return s != Unanswered
}
