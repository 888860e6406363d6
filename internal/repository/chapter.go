package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

var (
	ErrChapterNotFound = errors.New("chapter not found")
	ErrNoChapters      = errors.New("no chapters found")
	ErrInvalidSlug     = errors.New("invalid chapter slug")
)

// CheckSlug returns ErrInvalidSlug unless slug is safe to use as a file name and URL segment.
func CheckSlug(slug string) error {
	if !entities.ValidSlug(slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}

// ChapterRepository provides access to question banks stored as JSON files,
// one chapter per file. The whole directory is loaded into memory once.
type ChapterRepository struct {
	chapters []*entities.Chapter
}

// NewChapterRepository loads every *.json file in dir.
func NewChapterRepository(dir string) (*ChapterRepository, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoChapters)
	}
	sort.Strings(paths)

	chapters := make([]*entities.Chapter, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		chapter, err := loadChapter(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[chapter.Slug]; ok {
			return nil, fmt.Errorf("duplicate chapter slug %q in %s and %s", chapter.Slug, prev, path)
		}
		seen[chapter.Slug] = path
		chapters = append(chapters, chapter)
	}

	return &ChapterRepository{chapters: chapters}, nil
}

// NewChapterRepositoryFrom wraps already loaded chapters.
func NewChapterRepositoryFrom(chapters ...*entities.Chapter) *ChapterRepository {
	return &ChapterRepository{chapters: chapters}
}

// GetBySlug retrieves a chapter by its slug.
func (r *ChapterRepository) GetBySlug(_ context.Context, slug string) (*entities.Chapter, error) {
	for _, c := range r.chapters {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, ErrChapterNotFound
}

// GetAll retrieves all chapters in file name order.
func (r *ChapterRepository) GetAll(_ context.Context) ([]*entities.Chapter, error) {
	return r.chapters, nil
}

func loadChapter(path string) (*entities.Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var chapter entities.Chapter
	if err = json.Unmarshal(data, &chapter); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chapter %s: %w", path, err)
	}

	if chapter.Slug == "" {
		chapter.Slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := CheckSlug(chapter.Slug); err != nil {
		return nil, fmt.Errorf("chapter %s: %w", path, err)
	}
	if chapter.Title == "" {
		chapter.Title = chapter.Slug
	}

	return &chapter, nil
}
