package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

var (
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrMalformedBank        = errors.New("question bank contains malformed items")
)

// Options tunes quiz generation.
type Options struct {
	// Strict turns any skipped bank item into a generation error.
	Strict bool
}

type QuizService struct {
	chapters  ChapterRepository
	parser    *LegacyParser
	validator *QuestionValidator
	shuffler  *Shuffler
	logger    *zap.Logger
	opts      Options
}

func NewQuizService(chapters ChapterRepository, logger *zap.Logger, opts Options) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		chapters:  chapters,
		parser:    NewLegacyParser(logger),
		validator: NewQuestionValidator(logger),
		shuffler:  NewShuffler(),
		logger:    logger,
		opts:      opts,
	}
}

// Chapters returns every known chapter.
func (s *QuizService) Chapters(ctx context.Context) ([]*entities.Chapter, error) {
	return s.chapters.GetAll(ctx)
}

// GenerateQuiz loads a chapter by slug and generates a fresh quiz for it.
func (s *QuizService) GenerateQuiz(ctx context.Context, slug string) (*entities.QuizSession, error) {
	chapter, err := s.chapters.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get chapter %q: %w", slug, err)
	}
	return s.Generate(chapter)
}

// Generate turns a chapter into a quiz session: structured questions first, then legacy
// blocks, each with independently shuffled options. Invalid items are left out.
func (s *QuizService) Generate(chapter *entities.Chapter) (*entities.QuizSession, error) {
	log := s.logger.With(zap.String("chapter", chapter.Slug))

	typed, issues := s.validator.Validate(chapter.Questions)
	legacy, legacyIssues := s.parser.Parse(chapter.Legacy)
	issues = append(issues, legacyIssues...)

	if len(issues) > 0 {
		log.Warn("question bank has skipped items",
			zap.Int("skipped", len(issues)),
			zap.Int("total", chapter.Size()),
		)
		if s.opts.Strict {
			return nil, fmt.Errorf("chapter %q: %d skipped: %w", chapter.Slug, len(issues), ErrMalformedBank)
		}
	}

	questions := make([]entities.Question, 0, len(typed)+len(legacy))
	questions = append(questions, typed...)
	questions = append(questions, legacy...)
	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	s.validator.WarnDuplicates(questions)

	session := entities.NewQuizSession(chapter.Slug, chapter.Title)
	session.Skipped = issues
	session.Questions = make([]entities.RenderedQuestion, 0, len(questions))
	pairs := make([][2]string, 0, len(questions))

	for idx, q := range questions {
		number := idx + 1
		id := "q" + strconv.Itoa(number)

		rendered := entities.RenderedQuestion{
			ID:          id,
			Number:      number,
			Text:        q.Text,
			Options:     s.shuffler.Options(q, id),
			Explanation: q.Explanation,
			Citation:    q.Citation,
			FeedbackID:  id + "-feedback",
		}

		correct, _ := rendered.CorrectOption()
		pairs = append(pairs, [2]string{id, correct.Letter})
		session.Questions = append(session.Questions, rendered)
	}

	session.AnswerKey = entities.NewAnswerKey(pairs...)

	log.Debug("quiz generated",
		zap.String("session_id", session.ID.String()),
		zap.Int("questions", len(session.Questions)),
	)

	return session, nil
}
