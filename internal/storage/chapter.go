package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

// ChapterSource loads chapters from their backing store.
type ChapterSource interface {
	GetBySlug(ctx context.Context, slug string) (*entities.Chapter, error)
	GetAll(ctx context.Context) ([]*entities.Chapter, error)
}

// ChapterCache keeps chapters in memory after the first load, so the preview
// server does not go back to the database on every page request.
type ChapterCache struct {
	source ChapterSource

	mu       sync.RWMutex
	chapters map[string]*entities.Chapter
	all      []*entities.Chapter
}

// NewChapterCache creates a new ChapterCache over source.
func NewChapterCache(source ChapterSource) *ChapterCache {
	return &ChapterCache{
		source:   source,
		chapters: make(map[string]*entities.Chapter),
	}
}

// GetBySlug returns a cached chapter or loads and stores it.
func (c *ChapterCache) GetBySlug(ctx context.Context, slug string) (*entities.Chapter, error) {
	c.mu.RLock()
	chapter, ok := c.chapters[slug]
	c.mu.RUnlock()
	if ok {
		return chapter, nil
	}

	chapter, err := c.source.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.chapters[slug] = chapter
	c.mu.Unlock()

	return chapter, nil
}

// GetAll returns the cached chapter list or loads it once.
func (c *ChapterCache) GetAll(ctx context.Context) ([]*entities.Chapter, error) {
	c.mu.RLock()
	all := c.all
	c.mu.RUnlock()
	if all != nil {
		return all, nil
	}

	all, err := c.source.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.all = all
	for _, chapter := range all {
		c.chapters[chapter.Slug] = chapter
	}
	c.mu.Unlock()

	return all, nil
}
