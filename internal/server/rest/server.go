// Package rest exposes the PropMan services over HTTP+JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/propman/internal/logging"
	"github.com/dmitrijs2005/propman/internal/server/models"
	"github.com/dmitrijs2005/propman/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// UserService is the part of services.UserService the handlers need.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// PropertyService is the part of services.PropertyService the handlers need.
type PropertyService interface {
	List(ctx context.Context, ownerID string) ([]models.Property, error)
	Create(ctx context.Context, ownerID string, in services.PropertyInput) (*models.Property, error)
	Get(ctx context.Context, ownerID, id string) (*models.Property, error)
	Update(ctx context.Context, ownerID, id string, in services.PropertyInput) (*models.Property, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type Server struct {
	address         string
	users           UserService
	properties      PropertyService
	logger          logging.Logger
	corsOrigins     []string
	shutdownTimeout time.Duration
}

func NewServer(address string, l logging.Logger, us UserService, ps PropertyService, corsOrigins []string, shutdownTimeout time.Duration) *Server {
	return &Server{
		address:         address,
		logger:          l.With("module", "rest_server"),
		users:           us,
		properties:      ps,
		corsOrigins:     corsOrigins,
		shutdownTimeout: shutdownTimeout,
	}
}

// Router builds the route tree. Trailing slashes are optional on every path.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.accessLog)
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.With(s.requireAuth).Get("/me", s.me)
	})

	r.Route("/api/properties", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.listProperties)
		r.Post("/", s.createProperty)
		r.Get("/{id}", s.getProperty)
		r.Put("/{id}", s.updateProperty)
		r.Delete("/{id}", s.deleteProperty)
	})

	return r
}

// Run serves until ctx is canceled, then drains in-flight requests for up to
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
