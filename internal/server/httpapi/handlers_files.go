package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/safedrive/safedrive/internal/server/models"
)

// maxUploadBytes caps multipart uploads at 50 MiB.
const maxUploadBytes = 50 << 20

type fileResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type storageUsageResponse struct {
	TotalBytes int64 `json:"total_bytes"`
}

func toFileResponse(f *models.File) fileResponse {
	return fileResponse{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		ContentType:  f.ContentType,
		Size:         f.Size,
		UploadedAt:   f.UploadedAt,
	}
}

func toFileResponses(list []*models.File) []fileResponse {
	out := make([]fileResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFileResponse(f))
	}
	return out
}

// uploadFile accepts a multipart form with a single "file" part.
func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "multipart form must contain a 'file' part")
		return
	}
	defer part.Close()

	contentType := header.Header.Get("Content-Type")

	f, err := h.files.Upload(r.Context(), header.Filename, contentType, header.Size, part)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.log.Info(r.Context(), "file uploaded", "file_id", f.ID, "size", f.Size)
	writeJSON(w, r, http.StatusCreated, toFileResponse(f))
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	list, err := h.files.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toFileResponses(list))
}

func (h *Handler) searchFiles(w http.ResponseWriter, r *http.Request) {
	list, err := h.files.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toFileResponses(list))
}

// downloadFile streams the blob back with the original name and content type.
func (h *Handler) downloadFile(w http.ResponseWriter, r *http.Request) {
	f, body, err := h.files.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.OriginalName))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		// headers are already out; log and let the client notice the short body
		h.log.Error(r.Context(), "file download interrupted", "file_id", f.ID, "error", err.Error())
	}
}

func (h *Handler) deleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.files.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) storageUsage(w http.ResponseWriter, r *http.Request) {
	total, err := h.files.TotalStorageUsed(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, storageUsageResponse{TotalBytes: total})
}
