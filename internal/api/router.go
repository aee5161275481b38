package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/session"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(sess *session.Session, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(sess)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Listings.
	r.Get("/files", h.ListFiles)
	r.Get("/bookmarks/*", h.GetBookmarks)

	// Bookmark mutations.
	r.Post("/bookmarks/*", h.ToggleBookmark)
	r.Patch("/bookmarks/*", h.RelabelBookmark)
	r.Delete("/bookmarks/*", h.ClearFile)
	r.Delete("/bookmarks", h.ClearAll)

	// Editor events.
	r.Post("/changes/*", h.ApplyChange)
	r.Post("/active", h.ActiveEditor)

	// Navigation.
	r.Post("/navigate", h.Navigate)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
