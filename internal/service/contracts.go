package service

import (
	"context"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

// ChapterRepository provides read access to question banks.
type ChapterRepository interface {
	GetBySlug(ctx context.Context, slug string) (*entities.Chapter, error)
	GetAll(ctx context.Context) ([]*entities.Chapter, error)
}
