package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/directory"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/media"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced on mutations.
func NewRouter(svc *directory.Service, authEnabled bool, token string, mediaStore *media.Store) chi.Router {
	h := NewHandler(svc)
	ih := NewImageHandler(mediaStore)

	r := chi.NewRouter()

	// Read routes are public.
	r.Group(func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/{type}", h.List)
		r.Get("/{type}/{slug}", h.Detail)
		r.Get("/{type}/{slug}/references", h.References)
	})

	// Mutations require the admin token when auth is enabled.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Post("/{type}", h.Create)
		r.Put("/{type}/{slug}", h.Update)
		r.Delete("/{type}/{slug}", h.Delete)
		r.Post("/images", ih.Upload)
	})

	return r
}
