package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

var errNotFound = errors.New("not found")

type fakeChapters struct {
	chapters []*entities.Chapter
}

func (f *fakeChapters) GetBySlug(_ context.Context, slug string) (*entities.Chapter, error) {
	for _, c := range f.chapters {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeChapters) GetAll(_ context.Context) ([]*entities.Chapter, error) {
	return f.chapters, nil
}

func mixedChapter() *entities.Chapter {
	return &entities.Chapter{
		Slug:  "hematology",
		Title: "Hematology",
		Questions: []entities.Question{
			{
				Text:         "Preferred CBC anticoagulant?",
				Options:      []string{"Sodium citrate", "K2EDTA", "Lithium heparin", "Sodium fluoride"},
				CorrectIndex: 1,
				Explanation:  "EDTA preserves morphology.",
				Citation:     "CLSI GP41",
			},
			{
				Text:         "Broken: three options",
				Options:      []string{"A", "B", "C"},
				CorrectIndex: 0,
			},
		},
		Legacy: []string{
			"question: Sky color?\nBlue, Red, Green, Yellow",
			"question: Broken?\nOne, Two, Three",
		},
	}
}

func TestGenerateBuildsSessionFromValidItems(t *testing.T) {
	svc := NewQuizService(&fakeChapters{}, nil, Options{})

	session, err := svc.Generate(mixedChapter())
	require.NoError(t, err)

	require.Len(t, session.Questions, 2)
	assert.Equal(t, "hematology", session.Chapter)
	assert.Equal(t, "Hematology", session.Title)
	assert.NotEqual(t, uuid.Nil, session.ID)

	assert.Equal(t, []string{"q1", "q2"}, session.AnswerKey.IDs())
	assert.Equal(t, 2, session.AnswerKey.Len())

	require.Len(t, session.Skipped, 2)
	assert.Equal(t, entities.ParseIssue{Source: SourceQuestions, Index: 1, Reason: session.Skipped[0].Reason}, session.Skipped[0])
	assert.Equal(t, SourceLegacy, session.Skipped[1].Source)
	assert.Equal(t, 1, session.Skipped[1].Index)

	first := session.Questions[0]
	assert.Equal(t, "q1", first.ID)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "q1-feedback", first.FeedbackID)
	assert.Equal(t, "EDTA preserves morphology.", first.Explanation)
	assert.Equal(t, "CLSI GP41", first.Citation)

	second := session.Questions[1]
	assert.Equal(t, "q2", second.ID)
	assert.Equal(t, "Sky color?", second.Text)
}

func TestGenerateKeepsSingleCorrectOptionMatchingKey(t *testing.T) {
	svc := NewQuizService(&fakeChapters{}, nil, Options{})
	chapter := mixedChapter()
	want := map[string]string{"q1": "K2EDTA", "q2": "Blue"}

	for i := 0; i < 100; i++ {
		session, err := svc.Generate(chapter)
		require.NoError(t, err)

		for _, q := range session.Questions {
			correct := 0
			var texts []string
			for _, opt := range q.Options {
				texts = append(texts, opt.Text)
				if opt.IsCorrect {
					correct++
					assert.Equal(t, want[q.ID], opt.Text)

					letter, ok := session.AnswerKey.Lookup(q.ID)
					require.True(t, ok)
					assert.Equal(t, opt.Letter, letter)
				}
			}
			assert.Equal(t, 1, correct)
			assert.Len(t, texts, entities.OptionCount)
		}
	}

	// Sources are never reordered in place.
	assert.Equal(t, "K2EDTA", chapter.Questions[0].Options[1])
}

func TestGenerateReshufflesIndependently(t *testing.T) {
	svc := NewQuizService(&fakeChapters{}, nil, Options{})
	chapter := &entities.Chapter{
		Slug:   "sky",
		Legacy: []string{"question: Sky color?\nBlue, Red, Green, Yellow"},
	}

	orders := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		session, err := svc.Generate(chapter)
		require.NoError(t, err)

		order := ""
		for _, opt := range session.Questions[0].Options {
			order += opt.Text + "|"
		}
		orders[order] = struct{}{}
	}

	assert.Greater(t, len(orders), 1)
}

func TestGenerateStrictRejectsMalformedBank(t *testing.T) {
	svc := NewQuizService(&fakeChapters{}, nil, Options{Strict: true})

	_, err := svc.Generate(mixedChapter())
	require.ErrorIs(t, err, ErrMalformedBank)
}

func TestGenerateNoValidQuestions(t *testing.T) {
	svc := NewQuizService(&fakeChapters{}, nil, Options{})

	_, err := svc.Generate(&entities.Chapter{
		Slug:   "empty",
		Legacy: []string{"not a question"},
	})
	require.ErrorIs(t, err, ErrNoQuestionsAvailable)
}

func TestGenerateQuizBySlug(t *testing.T) {
	repo := &fakeChapters{chapters: []*entities.Chapter{mixedChapter()}}
	svc := NewQuizService(repo, nil, Options{})

	session, err := svc.GenerateQuiz(context.Background(), "hematology")
	require.NoError(t, err)
	assert.Len(t, session.Questions, 2)

	_, err = svc.GenerateQuiz(context.Background(), "missing")
	require.ErrorIs(t, err, errNotFound)

	chapters, err := svc.Chapters(context.Background())
	require.NoError(t, err)
	assert.Len(t, chapters, 1)
}

func TestSkippedReport(t *testing.T) {
	svc := NewQuizService(&fakeChapters{}, nil, Options{})

	session, err := svc.Generate(mixedChapter())
	require.NoError(t, err)

	report := SkippedReport(session)
	assert.Contains(t, report, "hematology: skipped 2 malformed item(s)")
	assert.Contains(t, report, "questions[1]: expected 4 options, got 3")
	assert.Contains(t, report, "legacy[1]: expected 4 answers, got 3")

	session.Skipped = nil
	assert.Empty(t, SkippedReport(session))
}

func TestGenerateSkipsLegacyBlockWithDuplicateAnswers(t *testing.T) {
	svc := NewQuizService(&fakeChapters{}, nil, Options{})

	session, err := svc.Generate(&entities.Chapter{
		Slug: "sky",
		Legacy: []string{
			"question: Sky color?\nBlue, blue, Red, Green",
			"question: Sky color?\nBlue, Red, Green, Yellow",
		},
	})
	require.NoError(t, err)

	require.Len(t, session.Skipped, 1)
	assert.Equal(t, SourceLegacy, session.Skipped[0].Source)
	assert.Equal(t, 0, session.Skipped[0].Index)
	assert.Contains(t, session.Skipped[0].Reason, "duplicates")

	require.Len(t, session.Questions, 1)
	blue := 0
	for _, opt := range session.Questions[0].Options {
		if strings.EqualFold(opt.Text, "blue") {
			blue++
			assert.True(t, opt.IsCorrect)
		}
	}
	assert.Equal(t, 1, blue)
}
