package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/aliskhannn/labquiz/internal/repository"
	"github.com/aliskhannn/labquiz/internal/service"
)

const indexTitle = "Laboratory science self-quiz"

// Server serves rendered quiz pages. Every page request generates a new quiz,
// so options are reshuffled on each load. Answers never reach the server.
type Server struct {
	quizzes        QuizService
	renderer       *Renderer
	logger         *zap.Logger
	containerID    string
	allowedOrigins []string
}

// NewServer creates a new Server. allowedOrigins may fetch quiz fragments
// from other origins; when empty only same-origin requests work.
func NewServer(
	quizzes QuizService,
	renderer *Renderer,
	logger *zap.Logger,
	containerID string,
	allowedOrigins []string,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		quizzes:        quizzes,
		renderer:       renderer,
		logger:         logger,
		containerID:    containerID,
		allowedOrigins: allowedOrigins,
	}
}

// Routes returns the HTTP handler of the preview server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.withErrorHandling(s.handleIndex))
	r.Get("/chapters/{slug}", s.withErrorHandling(s.handleChapter))

	r.Group(func(r chi.Router) {
		if len(s.allowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.allowedOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodOptions},
				ExposedHeaders: []string{"Content-Length"},
				MaxAge:         300,
			}))
		}
		r.Get("/chapters/{slug}/fragment", s.withErrorHandling(s.handleFragment))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string, readHeaderTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) error {
	chapters, err := s.quizzes.Chapters(r.Context())
	if err != nil {
		return err
	}

	entries := make([]IndexEntry, 0, len(chapters))
	for _, c := range chapters {
		entries = append(entries, IndexEntry{
			Title: c.Title,
			Href:  "/chapters/" + c.Slug,
			Count: c.Size(),
		})
	}

	var buf bytes.Buffer
	if err := s.renderer.Index(&buf, indexTitle, entries); err != nil {
		return err
	}
	writeHTML(w, buf.Bytes())
	return nil
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) error {
	slug := chi.URLParam(r, "slug")

	session, err := s.quizzes.GenerateQuiz(r.Context(), slug)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.renderer.Page(&buf, session, s.containerID, "/"); err != nil {
		return err
	}
	writeHTML(w, buf.Bytes())
	return nil
}

// handleFragment returns the quiz markup and the feedback script without page
// chrome, for host pages that fetch a quiz and insert it themselves.
func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) error {
	session, err := s.quizzes.GenerateQuiz(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return err
	}

	fragment, err := s.renderer.Fragment(session)
	if err != nil {
		return err
	}
	script, err := s.renderer.Script()
	if err != nil {
		return err
	}

	writeHTML(w, []byte(string(fragment)+"\n"+string(script)))
	return nil
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrChapterNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoQuestionsAvailable), errors.Is(err, service.ErrMalformedBank):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
