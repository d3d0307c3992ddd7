// internal/server/router.go
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bunkhaus/internal/auth"
	"bunkhaus/internal/inventory"
	"bunkhaus/internal/membership"
)

// Deps carries the wired services the router exposes.
type Deps struct {
	Inventory  inventory.Service
	Membership membership.Service
	Auth       auth.Service
	// AuthRequired gates the API routes behind a session token. Login
	// stays open either way.
	AuthRequired bool
	Logger       *slog.Logger
}

// NewRouter assembles the HTTP surface under /api/v1.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		auth.NewHandler(deps.Auth).Register(r)

		r.Group(func(r chi.Router) {
			if deps.AuthRequired {
				r.Use(auth.RequireSession(deps.Auth))
			}
			inventory.NewHandler(deps.Inventory).Register(r)
			membership.NewHandler(deps.Membership).Register(r)
		})
	})

	return r
}

// requestLogger logs method, path, status and latency for every
// request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
