// Package httpapi exposes the identity operations over HTTP under /api/auth,
// including the Google sign-in redirect flow.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/guard"
	"github.com/dmitrijs2005/gophid/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ExternalProvider runs the Google authorization code flow.
type ExternalProvider interface {
	AuthURL(ctx context.Context) (string, error)
	Exchange(ctx context.Context, code, state string) (services.ExternalAssertion, error)
}

type Handler struct {
	identity    *services.IdentityService
	guard       *guard.Guard
	google      ExternalProvider
	frontendURL string
	logger      logging.Logger
}

// NewHandler builds the HTTP handler. google may be nil when Google sign-in
// is not configured.
func NewHandler(identity *services.IdentityService, g *guard.Guard, google ExternalProvider, frontendURL string, logger logging.Logger) *Handler {
	return &Handler{
		identity:    identity,
		guard:       g,
		google:      google,
		frontendURL: frontendURL,
		logger:      logger.With("module", "http_server"),
	}
}

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)

	r.Get("/healthz", h.healthz)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Get("/google", h.googleStart)
		r.Get("/google/callback", h.googleCallback)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAccount)
			r.Get("/profile", h.profile)
		})
	})

	return r
}
