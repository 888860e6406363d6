package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

// QuestionValidator checks structured questions before they are rendered.
type QuestionValidator struct {
	logger *zap.Logger
}

// NewQuestionValidator creates a new QuestionValidator.
func NewQuestionValidator(logger *zap.Logger) *QuestionValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionValidator{logger: logger}
}

// Validate returns the valid questions in order and an issue for every rejected one.
func (v *QuestionValidator) Validate(questions []entities.Question) ([]entities.Question, []entities.ParseIssue) {
	valid := make([]entities.Question, 0, len(questions))
	var issues []entities.ParseIssue

	for idx, q := range questions {
		if err := v.check(q); err != nil {
			v.logger.Warn("skipping invalid question",
				zap.Int("index", idx),
				zap.String("reason", err.Error()),
			)
			issues = append(issues, entities.ParseIssue{
				Source: SourceQuestions,
				Index:  idx,
				Reason: err.Error(),
			})
			continue
		}
		valid = append(valid, q)
	}

	return valid, issues
}

// WarnDuplicates logs questions whose text appears more than once. They are still rendered.
func (v *QuestionValidator) WarnDuplicates(questions []entities.Question) int {
	seen := make(map[string]int, len(questions))
	duplicates := 0
	for idx, q := range questions {
		key := normalize(q.Text)
		if first, ok := seen[key]; ok {
			duplicates++
			v.logger.Warn("duplicate question text",
				zap.Int("index", idx),
				zap.Int("first_index", first),
			)
			continue
		}
		seen[key] = idx
	}
	return duplicates
}

func (v *QuestionValidator) check(q entities.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) != entities.OptionCount {
		return fmt.Errorf("expected %d options, got %d", entities.OptionCount, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= entities.OptionCount {
		return fmt.Errorf("answer index %d out of range", q.CorrectIndex)
	}

	seen := make(map[string]struct{}, len(q.Options))
	for i, opt := range q.Options {
		key := normalize(opt)
		if key == "" {
			return fmt.Errorf("option %d is empty", i+1)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("option %d duplicates another option", i+1)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// normalize normalizes a string for comparison.
func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
