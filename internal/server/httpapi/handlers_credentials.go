package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/safedrive/safedrive/internal/server/models"
)

type credentialCreateRequest struct {
	Service  string `json:"service" validate:"required,max=100"`
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
	URL      string `json:"url" validate:"omitempty,max=500"`
	Notes    string `json:"notes" validate:"max=1000"`
}

// credentialUpdateRequest allows an empty password: leaving it out keeps the
// stored one.
type credentialUpdateRequest struct {
	Service  string `json:"service" validate:"required,max=100"`
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password"`
	URL      string `json:"url" validate:"omitempty,max=500"`
	Notes    string `json:"notes" validate:"max=1000"`
}

// credentialResponse never carries the password, not even encrypted.
type credentialResponse struct {
	ID        string    `json:"id"`
	Service   string    `json:"service"`
	Username  string    `json:"username"`
	URL       string    `json:"url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type passwordResponse struct {
	Password string `json:"password"`
}

func toCredentialResponse(c *models.Credential) credentialResponse {
	return credentialResponse{
		ID:        c.ID,
		Service:   c.Service,
		Username:  c.Username,
		URL:       c.URL,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCredentialResponses(list []*models.Credential) []credentialResponse {
	out := make([]credentialResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCredentialResponse(c))
	}
	return out
}

func (h *Handler) createCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialCreateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	c, err := h.credentials.Create(r.Context(), req.Service, req.Username, req.Password, req.URL, req.Notes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toCredentialResponse(c))
}

func (h *Handler) listCredentials(w http.ResponseWriter, r *http.Request) {
	list, err := h.credentials.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCredentialResponses(list))
}

func (h *Handler) searchCredentials(w http.ResponseWriter, r *http.Request) {
	list, err := h.credentials.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCredentialResponses(list))
}

func (h *Handler) getCredential(w http.ResponseWriter, r *http.Request) {
	c, err := h.credentials.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCredentialResponse(c))
}

// revealCredentialPassword is the only endpoint that ever returns plaintext.
func (h *Handler) revealCredentialPassword(w http.ResponseWriter, r *http.Request) {
	plaintext, err := h.credentials.RevealPassword(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, passwordResponse{Password: plaintext})
}

func (h *Handler) updateCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialUpdateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	c, err := h.credentials.Update(r.Context(), chi.URLParam(r, "id"), req.Service, req.Username, req.Password, req.URL, req.Notes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toCredentialResponse(c))
}

func (h *Handler) deleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := h.credentials.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
