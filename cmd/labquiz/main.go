package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/aliskhannn/labquiz/internal/config"
	"github.com/aliskhannn/labquiz/internal/delivery/web"
	"github.com/aliskhannn/labquiz/internal/logger"
	"github.com/aliskhannn/labquiz/internal/service"
)

const usage = `usage: labquiz <command> [flags]

commands:
  build    render every chapter to static HTML pages
  inject   render one chapter into the quiz container of an existing page
  take     take one chapter quiz in the terminal
  serve    serve freshly shuffled chapter pages for preview
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd := os.Args[1]
	flags := pflag.NewFlagSet(cmd, pflag.ExitOnError)
	flags.String("env", "local", "application environment")
	flags.String("bank-source", config.SourceFile, "where chapters are loaded from: file, sqlite or postgres")
	flags.String("banks-dir", "assets/banks", "directory with chapter JSON files")
	flags.String("sqlite-path", "assets/banks.db", "bank file for the sqlite source")
	flags.String("container-id", "quizForm", "id of the element the quiz is rendered into")
	flags.Bool("strict", false, "fail when a bank contains malformed items")

	var (
		chapter = flags.String("chapter", "", "chapter slug")
		host    = flags.String("host", "", "host HTML page (inject)")
		out     = flags.String("out", "", "output file, defaults to the host page (inject)")
	)

	switch cmd {
	case "build":
		flags.String("output-dir", "public", "directory for rendered pages")
	case "serve":
		flags.String("addr", ":8080", "HTTP listen address")
		flags.StringSlice("allowed-origins", nil, "origins allowed to fetch quiz fragments")
	case "inject", "take":
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err := flags.Parse(os.Args[2:]); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chapters, closeRepo, err := newChapterRepository(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to open question banks", zap.Error(err))
	}
	defer closeRepo()

	quizzes := service.NewQuizService(chapters, lg, service.Options{Strict: cfg.Strict})

	renderer, err := web.NewRenderer()
	if err != nil {
		lg.Fatal("failed to load templates", zap.Error(err))
	}

	switch cmd {
	case "build":
		err = runBuild(ctx, cfg, quizzes, renderer, lg)
	case "inject":
		err = runInject(ctx, cfg, quizzes, renderer, lg, *chapter, *host, *out)
	case "take":
		err = runTake(ctx, quizzes, *chapter)
	case "serve":
		server := web.NewServer(quizzes, renderer, lg, cfg.ContainerID, cfg.Server.AllowedOrigins)
		err = server.Run(ctx, cfg.Server.Addr, cfg.Server.ReadHeaderTimeout)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("command failed", zap.String("command", cmd), zap.Error(err))
		_ = lg.Sync()
		os.Exit(1)
	}
}
