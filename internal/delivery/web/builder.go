package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

var ErrUnsafeSlug = errors.New("chapter slug is not safe as a file name")

// BuildResult describes one chapter of a static build.
type BuildResult struct {
	Chapter string
	Path    string
	Session *entities.QuizSession // nil when the chapter failed
	Err     error
}

// Builder writes one static page per chapter plus an index page.
type Builder struct {
	quizzes     QuizService
	renderer    *Renderer
	logger      *zap.Logger
	containerID string
}

// NewBuilder creates a new Builder.
func NewBuilder(quizzes QuizService, renderer *Renderer, logger *zap.Logger, containerID string) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		quizzes:     quizzes,
		renderer:    renderer,
		logger:      logger,
		containerID: containerID,
	}
}

// Build renders every chapter into dir. A chapter that cannot be generated is
// reported in its result and left out of the index; the others are still written.
func (b *Builder) Build(ctx context.Context, dir string) ([]BuildResult, error) {
	chapters, err := b.quizzes.Chapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	results := make([]BuildResult, 0, len(chapters))
	entries := make([]IndexEntry, 0, len(chapters))

	for _, c := range chapters {
		res := b.buildChapter(ctx, dir, c.Slug)
		results = append(results, res)
		if res.Err != nil {
			b.logger.Error("chapter not built",
				zap.String("chapter", c.Slug),
				zap.Error(res.Err),
			)
			continue
		}
		entries = append(entries, IndexEntry{
			Title: c.Title,
			Href:  filepath.Base(res.Path),
			Count: len(res.Session.Questions),
		})
	}

	var buf bytes.Buffer
	if err := b.renderer.Index(&buf, indexTitle, entries); err != nil {
		return results, err
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), buf.Bytes(), 0o644); err != nil {
		return results, err
	}

	if len(entries) == 0 && len(chapters) > 0 {
		return results, errors.New("no chapter could be built")
	}

	return results, nil
}

func (b *Builder) buildChapter(ctx context.Context, dir, slug string) BuildResult {
	res := BuildResult{Chapter: slug}
	if !entities.ValidSlug(slug) {
		res.Err = fmt.Errorf("%w: %q", ErrUnsafeSlug, slug)
		return res
	}
	res.Path = filepath.Join(dir, slug+".html")

	session, err := b.quizzes.GenerateQuiz(ctx, slug)
	if err != nil {
		res.Err = err
		return res
	}

	var buf bytes.Buffer
	if err := b.renderer.Page(&buf, session, b.containerID, "index.html"); err != nil {
		res.Err = err
		return res
	}

	if err := os.WriteFile(res.Path, buf.Bytes(), 0o644); err != nil {
		res.Err = err
		return res
	}

	res.Session = session
	b.logger.Info("chapter built",
		zap.String("chapter", slug),
		zap.Int("questions", len(session.Questions)),
		zap.Int("skipped", len(session.Skipped)),
	)
	return res
}
