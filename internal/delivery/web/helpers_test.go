package web

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
	"github.com/aliskhannn/labquiz/internal/repository"
	"github.com/aliskhannn/labquiz/internal/service"
)

func testChapter() *entities.Chapter {
	return &entities.Chapter{
		Slug:  "hematology",
		Title: "Hematology",
		Questions: []entities.Question{
			{
				Text:         "Which tube for a CBC? <EDTA>",
				Options:      []string{"Lavender", "Light blue", "Red", "Gray"},
				CorrectIndex: 0,
				Explanation:  `EDTA "preserves" cell morphology.`,
				Citation:     "CLSI GP41",
			},
		},
		Legacy: []string{
			"question: Sky color?\nBlue, Red, Green, Yellow",
		},
	}
}

func emptyChapter() *entities.Chapter {
	return &entities.Chapter{Slug: "empty", Title: "Empty"}
}

func newTestQuizzes(chapters ...*entities.Chapter) *service.QuizService {
	return service.NewQuizService(repository.NewChapterRepositoryFrom(chapters...), nil, service.Options{})
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}
