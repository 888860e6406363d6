package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
	"github.com/aliskhannn/labquiz/internal/infra/postgres"
	filerepo "github.com/aliskhannn/labquiz/internal/repository"
)

// ReadTransactor runs a function inside a read-only snapshot.
type ReadTransactor interface {
	WithinReadTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// ChapterRepository reads question banks from PostgreSQL. It never writes.
type ChapterRepository struct {
	tx ReadTransactor
}

// NewChapterRepository creates a new ChapterRepository.
func NewChapterRepository(tx ReadTransactor) *ChapterRepository {
	return &ChapterRepository{tx: tx}
}

// GetBySlug retrieves one chapter with its questions and legacy blocks.
func (r *ChapterRepository) GetBySlug(ctx context.Context, slug string) (*entities.Chapter, error) {
	var chapter *entities.Chapter

	err := r.tx.WithinReadTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		c, err := getChapter(ctx, tx, slug)
		if err != nil {
			return err
		}
		if err := loadItems(ctx, tx, c); err != nil {
			return err
		}
		chapter = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return chapter, nil
}

// GetAll retrieves every chapter ordered by position.
func (r *ChapterRepository) GetAll(ctx context.Context) ([]*entities.Chapter, error) {
	var chapters []*entities.Chapter

	err := r.tx.WithinReadTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		list, err := listChapters(ctx, tx)
		if err != nil {
			return err
		}
		for _, c := range list {
			if err := loadItems(ctx, tx, c); err != nil {
				return err
			}
		}
		chapters = list
		return nil
	})
	if err != nil {
		return nil, err
	}

	return chapters, nil
}

func getChapter(ctx context.Context, db postgres.DBTX, slug string) (*entities.Chapter, error) {
	query := `
		SELECT slug, title
		FROM chapters
		WHERE slug = $1
	`

	var c entities.Chapter
	if err := db.QueryRow(ctx, query, slug).Scan(&c.Slug, &c.Title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, filerepo.ErrChapterNotFound
		}
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	if err := filerepo.CheckSlug(c.Slug); err != nil {
		return nil, err
	}

	return &c, nil
}

func listChapters(ctx context.Context, db postgres.DBTX) ([]*entities.Chapter, error) {
	query := `
		SELECT slug, title
		FROM chapters
		ORDER BY position, slug
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*entities.Chapter
	for rows.Next() {
		var c entities.Chapter
		if err := rows.Scan(&c.Slug, &c.Title); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		if err := filerepo.CheckSlug(c.Slug); err != nil {
			return nil, err
		}
		chapters = append(chapters, &c)
	}

	return chapters, rows.Err()
}

func loadItems(ctx context.Context, db postgres.DBTX, c *entities.Chapter) error {
	questions, err := listQuestions(ctx, db, c.Slug)
	if err != nil {
		return err
	}
	legacy, err := listLegacyBlocks(ctx, db, c.Slug)
	if err != nil {
		return err
	}
	c.Questions = questions
	c.Legacy = legacy
	return nil
}

func listQuestions(ctx context.Context, db postgres.DBTX, slug string) ([]entities.Question, error) {
	query := `
		SELECT prompt, options, answer_index,
		       COALESCE(explanation, ''), COALESCE(citation, '')
		FROM questions
		WHERE chapter_slug = $1
		ORDER BY position
	`

	rows, err := db.Query(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []entities.Question
	for rows.Next() {
		var q entities.Question
		if err := rows.Scan(&q.Text, &q.Options, &q.CorrectIndex, &q.Explanation, &q.Citation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func listLegacyBlocks(ctx context.Context, db postgres.DBTX, slug string) ([]string, error) {
	query := `
		SELECT block
		FROM legacy_blocks
		WHERE chapter_slug = $1
		ORDER BY position
	`

	rows, err := db.Query(ctx, query, slug)
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
