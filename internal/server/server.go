package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/parse"
	"github.com/claude/liftsheet/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ProgramParser converts workbook bytes into a parsed program.
// Satisfied by *parse.Pipeline; tests substitute fakes.
type ProgramParser interface {
	Parse(ctx context.Context, workbookBytes []byte, displayName string) (*parse.Result, error)
}

// ProgramStore is the persistence surface the handlers need.
// Satisfied by *storage.DB.
type ProgramStore interface {
	InsertProgram(ctx context.Context, program *models.ParsedProgram) (uuid.UUID, error)
	ListPrograms(ctx context.Context) ([]models.ProgramSummary, error)
	GetProgram(ctx context.Context, programID uuid.UUID) (*models.StoredProgram, error)
	DeleteProgram(ctx context.Context, programID uuid.UUID) error
}

// Compile-time checks against the concrete implementations.
var (
	_ ProgramParser = (*parse.Pipeline)(nil)
	_ ProgramStore  = (*storage.DB)(nil)
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  ProgramStore
	parser ProgramParser
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store ProgramStore, parser ProgramParser, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		parser: parser,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/healthz", s.handleHealthz)

	s.router.Route("/api/v1/programs", func(r chi.Router) {
		r.Get("/", s.handleListPrograms)
		r.Get("/{id}", s.handleGetProgram)

		// Mutating routes require the API key.
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleUploadProgram)
			r.Delete("/{id}", s.handleDeleteProgram)
		})
	})
}
