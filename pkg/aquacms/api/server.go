// Package api exposes the aqua-cms library over HTTP: public read routes
// served through the tag cache, jwtauth-guarded editor routes, the auth
// endpoints, and the rebuild trigger.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms"
	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/auth"
	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/cache"
)

// Server wraps the content and auth services for HTTP access
type Server struct {
	service     aquacms.Service
	authService *auth.Service
	tagCache    *cache.TagCache
	environment string
	logger      *slog.Logger
}

// Option represents a functional option for configuring the server
type Option func(*Server)

// WithEnvironment sets the runtime environment (development enables CORS).
func WithEnvironment(env string) Option {
	return func(s *Server) {
		s.environment = env
	}
}

// WithLogger sets the structured logger for request handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new HTTP server wrapper
func NewServer(service aquacms.Service, authService *auth.Service, tagCache *cache.TagCache, options ...Option) *Server {
	s := &Server{
		service:     service,
		authService: authService,
		tagCache:    tagCache,
		environment: "development",
	}

	for _, option := range options {
		option(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS for development
	if s.environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

				if r.Method == "OPTIONS" {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		// Public read surface
		r.Get("/news", s.handleListNews)
		r.Get("/news/{id}", s.handleGetNews)
		r.Get("/achievements", s.handleListAchievements)
		r.Get("/achievements/{id}", s.handleGetAchievement)

		// Rebuild trigger
		r.Get("/revalidate", s.handleRevalidateUsage)
		r.Group(func(r chi.Router) {
			r.Use(s.authService.Verifier())
			r.Use(s.authService.Authenticator())
			r.Post("/revalidate", s.handleRevalidate)
		})

		// Auth
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignUp)
			r.Post("/confirm", s.handleConfirmSignUp)
			r.Post("/signin", s.handleSignIn)
			r.Post("/signout", s.handleSignOut)

			r.Group(func(r chi.Router) {
				r.Use(s.authService.Verifier())
				r.Use(s.authService.Authenticator())
				r.Get("/me", s.handleCurrentUser)
			})
		})

		// Editor surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.authService.Verifier())
			r.Use(s.authService.Authenticator())

			r.Post("/contents", s.handleCreateContent)
			r.Get("/contents", s.handleListContents)
			r.Get("/contents/{id}", s.handleGetContent)
			r.Put("/contents/{id}", s.handleUpdateContent)
			r.Delete("/contents/{id}", s.handleDeleteContent)

			r.Post("/images", s.handleUploadImage)
			r.Delete("/images/*", s.handleDeleteImage)
		})
	})

	return r
}

// Health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status": "healthy", "environment": "%s"}`, s.environment)
}
