package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/safedrive/safedrive/internal/logging"
)

// NewRouter assembles the API routes. The identity binder runs on every /api
// route but never rejects; endpoints that need an identity fail inside the
// services with ErrorNoIdentity, which maps to 401.
func NewRouter(h *Handler, jwtSecret []byte, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(identityBinder(h.users, jwtSecret, log))

		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Get("/users", h.listUsers)

		r.Route("/credentials", func(r chi.Router) {
			r.Get("/", h.listCredentials)
			r.Post("/", h.createCredential)
			r.Get("/search", h.searchCredentials)
			r.Get("/{id}", h.getCredential)
			r.Put("/{id}", h.updateCredential)
			r.Delete("/{id}", h.deleteCredential)
			r.Get("/{id}/password", h.revealCredentialPassword)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", h.listNotes)
			r.Post("/", h.createNote)
			r.Get("/search", h.searchNotes)
			r.Get("/{id}", h.getNote)
			r.Put("/{id}", h.updateNote)
			r.Delete("/{id}", h.deleteNote)
		})

		r.Route("/files", func(r chi.Router) {
			r.Get("/", h.listFiles)
			r.Post("/", h.uploadFile)
			r.Get("/search", h.searchFiles)
			r.Get("/storage", h.storageUsage)
			r.Get("/{id}/download", h.downloadFile)
			r.Delete("/{id}", h.deleteFile)
		})
	})

	return r
}
