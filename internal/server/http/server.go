// Package http exposes the service over HTTP/JSON: a chi router, the token
// middleware guarding the to-do routes, and typed request/response handling.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gotodo/internal/logging"
	"github.com/dmitrijs2005/gotodo/internal/server/config"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UserService is the authentication surface the handlers depend on.
type UserService interface {
	Register(ctx context.Context, userName, password, name string) (*models.User, error)
	Login(ctx context.Context, userName, password string) (string, error)
}

// TodoService is the to-do CRUD surface the handlers depend on.
type TodoService interface {
	Create(ctx context.Context, userID, title string) (*models.Todo, error)
	List(ctx context.Context, userID string) ([]*models.Todo, error)
	Get(ctx context.Context, userID, id string) (*models.Todo, error)
	Update(ctx context.Context, userID, id string, patch services.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, userID, id string) error
}

type Server struct {
	address         string
	logger          logging.Logger
	users           UserService
	todos           TodoService
	jwtSecret       []byte
	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, ts TodoService) *Server {
	return &Server{
		address:         cfg.EndpointAddr,
		logger:          l.With("module", "http_server"),
		users:           us,
		todos:           ts,
		jwtSecret:       []byte(cfg.SecretKey),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Router assembles the route tree. Signup and login are open; everything
// under the token middleware requires a valid bearer token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/todo", s.handleCreateTodo)
		r.Get("/todos", s.handleListTodos)
		r.Get("/todo/{id}", s.handleGetTodo)
		r.Put("/todo/{id}", s.handleUpdateTodo)
		r.Delete("/todo/{id}", s.handleDeleteTodo)
	})

	return r
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
