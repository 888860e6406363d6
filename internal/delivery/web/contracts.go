package web

import (
	"context"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

type QuizService interface {
	Chapters(ctx context.Context) ([]*entities.Chapter, error)
	GenerateQuiz(ctx context.Context, slug string) (*entities.QuizSession, error)
}
