package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aliskhannn/labquiz/internal/config"
	"github.com/aliskhannn/labquiz/internal/delivery/terminal"
	"github.com/aliskhannn/labquiz/internal/delivery/web"
	"github.com/aliskhannn/labquiz/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/labquiz/internal/infra/postgres/repository"
	"github.com/aliskhannn/labquiz/internal/infra/sqlite"
	"github.com/aliskhannn/labquiz/internal/repository"
	"github.com/aliskhannn/labquiz/internal/service"
	"github.com/aliskhannn/labquiz/internal/storage"
)

// newChapterRepository opens the configured bank source. The returned func
// releases its resources.
func newChapterRepository(ctx context.Context, cfg *config.Config, lg *zap.Logger) (service.ChapterRepository, func(), error) {
	switch cfg.BankSource {
	case config.SourcePostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := pgrepo.NewChapterRepository(postgres.NewTransactor(pool))
		return storage.NewChapterCache(repo), pool.Close, nil
	case config.SourceSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo := sqlite.NewChapterRepository(db, lg)
		return storage.NewChapterCache(repo), func() { _ = db.Close() }, nil
	default:
		repo, err := repository.NewChapterRepository(cfg.BanksDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}

func runBuild(ctx context.Context, cfg *config.Config, quizzes *service.QuizService, renderer *web.Renderer, lg *zap.Logger) error {
	builder := web.NewBuilder(quizzes, renderer, lg, cfg.ContainerID)

	results, err := builder.Build(ctx, cfg.OutputDir)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: not built: %v\n", res.Chapter, res.Err)
			continue
		}
		fmt.Fprint(os.Stderr, service.SkippedReport(res.Session))
		fmt.Printf("%s -> %s (%d questions)\n", res.Chapter, res.Path, len(res.Session.Questions))
	}
	return err
}

func runInject(
	ctx context.Context,
	cfg *config.Config,
	quizzes *service.QuizService,
	renderer *web.Renderer,
	lg *zap.Logger,
	chapter, host, out string,
) error {
	if chapter == "" || host == "" {
		return errors.New("--chapter and --host are required")
	}
	if out == "" {
		out = host
	}

	page, err := os.ReadFile(host)
	if err != nil {
		return err
	}

	session, err := quizzes.GenerateQuiz(ctx, chapter)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stderr, service.SkippedReport(session))

	fragment, err := renderer.Fragment(session)
	if err != nil {
		return err
	}

	injected, err := web.NewInjector(renderer, lg).Inject(bytes.NewReader(page), cfg.ContainerID, fragment)
	if errors.Is(err, web.ErrContainerNotFound) {
		// The page keeps working without the quiz.
		fmt.Fprintf(os.Stderr, "%s: no element with id %q, page left unchanged\n", host, cfg.ContainerID)
		return nil
	}
	if err != nil {
		return err
	}

	return os.WriteFile(out, injected, 0o644)
}

func runTake(ctx context.Context, quizzes *service.QuizService, chapter string) error {
	if chapter == "" {
		return errors.New("--chapter is required")
	}

	session, err := quizzes.GenerateQuiz(ctx, chapter)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stderr, service.SkippedReport(session))

	_, err = terminal.NewRunner(quizzes, os.Stdin, os.Stdout).Run(session)
	return err
}
