package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

// Issue sources.
const (
	SourceLegacy    = "legacy"
	SourceQuestions = "questions"
)

const questionLabel = "question:"

// LegacyParser converts two-line text blocks into questions.
type LegacyParser struct {
	logger *zap.Logger
}

// NewLegacyParser creates a parser that reports skipped blocks to logger.
func NewLegacyParser(logger *zap.Logger) *LegacyParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LegacyParser{logger: logger}
}

// Parse converts blocks of the form "question: <text>\n<correct>, <wrong>, <wrong>, <wrong>".
// The first answer is the correct one. Malformed blocks are skipped and reported.
func (p *LegacyParser) Parse(blocks []string) ([]entities.Question, []entities.ParseIssue) {
	questions := make([]entities.Question, 0, len(blocks))
	var issues []entities.ParseIssue

	for idx, block := range blocks {
		q, err := parseBlock(block)
		if err != nil {
			p.logger.Warn("skipping malformed question block",
				zap.Int("index", idx),
				zap.String("reason", err.Error()),
			)
			issues = append(issues, entities.ParseIssue{
				Source: SourceLegacy,
				Index:  idx,
				Reason: err.Error(),
			})
			continue
		}
		questions = append(questions, q)
	}

	return questions, issues
}

func parseBlock(block string) (entities.Question, error) {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	if len(lines) != 2 {
		return entities.Question{}, fmt.Errorf("expected 2 lines, got %d", len(lines))
	}

	head := strings.TrimSpace(lines[0])
	if len(head) < len(questionLabel) || !strings.EqualFold(head[:len(questionLabel)], questionLabel) {
		return entities.Question{}, fmt.Errorf("first line must start with %q", questionLabel)
	}

	text := strings.TrimSpace(head[len(questionLabel):])
	if text == "" {
		return entities.Question{}, fmt.Errorf("question text is empty")
	}

	parts := strings.Split(lines[1], ",")
	if len(parts) != entities.OptionCount {
		return entities.Question{}, fmt.Errorf("expected %d answers, got %d", entities.OptionCount, len(parts))
	}

	options := make([]string, 0, entities.OptionCount)
	seen := make(map[string]struct{}, entities.OptionCount)
	for _, part := range parts {
		answer := strings.TrimSpace(part)
		if answer == "" {
			return entities.Question{}, fmt.Errorf("answer %d is empty", len(options)+1)
		}
		key := normalize(answer)
		if _, ok := seen[key]; ok {
			return entities.Question{}, fmt.Errorf("answer %d duplicates another answer", len(options)+1)
		}
		seen[key] = struct{}{}
		options = append(options, answer)
	}

	return entities.Question{
		Text:         text,
		Options:      options,
		CorrectIndex: 0,
	}, nil
}
