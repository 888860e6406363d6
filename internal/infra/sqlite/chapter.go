package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
	"github.com/aliskhannn/labquiz/internal/repository"
)

// ChapterRepository reads chapters from a SQLite bank file.
type ChapterRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewChapterRepository creates a new ChapterRepository.
func NewChapterRepository(db *sql.DB, logger *zap.Logger) *ChapterRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChapterRepository{db: db, logger: logger}
}

// GetBySlug retrieves one chapter with its questions and legacy blocks.
func (r *ChapterRepository) GetBySlug(ctx context.Context, slug string) (*entities.Chapter, error) {
	query := `
		SELECT slug, title
		FROM chapters
		WHERE slug = ?
	`

	var c entities.Chapter
	if err := r.db.QueryRowContext(ctx, query, slug).Scan(&c.Slug, &c.Title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrChapterNotFound
		}
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	if err := repository.CheckSlug(c.Slug); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll retrieves every chapter ordered by position.
func (r *ChapterRepository) GetAll(ctx context.Context) ([]*entities.Chapter, error) {
	query := `
		SELECT slug, title
		FROM chapters
		ORDER BY position, slug
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}

	chapters, err := scanChapters(rows)
	if err != nil {
		return nil, err
	}

	for _, c := range chapters {
		if err := r.loadItems(ctx, c); err != nil {
			return nil, err
		}
	}
	return chapters, nil
}

// scanChapters reads and closes rows, so item queries can run afterwards.
func scanChapters(rows *sql.Rows) ([]*entities.Chapter, error) {
	defer rows.Close()

	var chapters []*entities.Chapter
	for rows.Next() {
		var c entities.Chapter
		if err := rows.Scan(&c.Slug, &c.Title); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		if err := repository.CheckSlug(c.Slug); err != nil {
			return nil, err
		}
		chapters = append(chapters, &c)
	}

	return chapters, rows.Err()
}

func (r *ChapterRepository) loadItems(ctx context.Context, c *entities.Chapter) error {
	questions, err := r.listQuestions(ctx, c.Slug)
	if err != nil {
		return err
	}
	legacy, err := r.listLegacyBlocks(ctx, c.Slug)
	if err != nil {
		return err
	}
	c.Questions = questions
	c.Legacy = legacy
	return nil
}

func (r *ChapterRepository) listQuestions(ctx context.Context, slug string) ([]entities.Question, error) {
	query := `
		SELECT position, prompt, options, answer_index,
		       COALESCE(explanation, ''), COALESCE(citation, '')
		FROM questions
		WHERE chapter_slug = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []entities.Question
	for rows.Next() {
		var (
			q        entities.Question
			position int
			options  string
		)
		if err := rows.Scan(&position, &q.Text, &options, &q.CorrectIndex, &q.Explanation, &q.Citation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			// Options stay empty, so validation skips the item.
			r.logger.Warn("cannot decode question options",
				zap.String("chapter", slug),
				zap.Int("position", position),
				zap.Error(err),
			)
			q.Options = nil
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func (r *ChapterRepository) listLegacyBlocks(ctx context.Context, slug string) ([]string, error) {
	query := `
		SELECT block
		FROM legacy_blocks
		WHERE chapter_slug = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("list legacy blocks: %w", err)
	}
	defer rows.Close()

	var blocks []string
	for rows.Next() {
		var block string
		if err := rows.Scan(&block); err != nil {
			return nil, fmt.Errorf("scan legacy block: %w", err)
		}
		blocks = append(blocks, block)
	}

	return blocks, rows.Err()
}
