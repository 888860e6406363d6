// Package entities contains domain entities used across the application.
package entities

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Letters are the option letters in display order.
var Letters = [OptionCount]string{"a", "b", "c", "d"}

// Question is a single multiple-choice item from a question bank.
// It is read-only at runtime: rendering copies it, never mutates it.
type Question struct {
	Text         string   `json:"q"`           // question prompt
	Options      []string `json:"options"`     // answer options, exactly 4 for a valid question
	CorrectIndex int      `json:"answer"`      // index of the correct option (0-3)
	Explanation  string   `json:"explanation"` // optional explanation shown with feedback
	Citation     string   `json:"cite"`        // optional source reference shown with feedback
}

// CorrectText returns the text of the designated correct option.
func (q Question) CorrectText() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// RenderedOption is one option of a question as placed on screen.
type RenderedOption struct {
	ControlID string // per-question-per-position control id, e.g. "q3-b"
	Letter    string // assigned letter a-d
	Text      string
	IsCorrect bool
}

// RenderedQuestion is the view-model record a renderer consumes.
type RenderedQuestion struct {
	ID          string // "q1", "q2", ... in bank order
	Number      int
	Text        string
	Options     [OptionCount]RenderedOption
	Explanation string
	Citation    string
	FeedbackID  string
}

// CorrectOption returns the option flagged correct.
func (q RenderedQuestion) CorrectOption() (RenderedOption, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt, true
		}
	}
	return RenderedOption{}, false
}

// ParseIssue describes a bank item that was skipped.
type ParseIssue struct {
	Source string // "legacy" or "questions"
	Index  int    // zero-based position inside its source array
	Reason string
}
