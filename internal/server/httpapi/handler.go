// Package httpapi exposes the vault over a JSON HTTP API. All state flows
// through the request context: the identity binder resolves bearer tokens,
// and handlers stay thin translations between HTTP and the services.
package httpapi

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/safedrive/safedrive/internal/logging"
	"github.com/safedrive/safedrive/internal/server/models"
)

// UserService is the authentication surface consumed by the API.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// CredentialService is the stored-secret surface consumed by the API.
type CredentialService interface {
	Create(ctx context.Context, service, username, password, url, notes string) (*models.Credential, error)
	Get(ctx context.Context, id string) (*models.Credential, error)
	List(ctx context.Context) ([]*models.Credential, error)
	Search(ctx context.Context, query string) ([]*models.Credential, error)
	RevealPassword(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, id, service, username, password, url, notes string) (*models.Credential, error)
	Delete(ctx context.Context, id string) error
}

// NoteService is the notes surface consumed by the API.
type NoteService interface {
	Create(ctx context.Context, title, content string) (*models.Note, error)
	Get(ctx context.Context, id string) (*models.Note, error)
	List(ctx context.Context) ([]*models.Note, error)
	Search(ctx context.Context, query string) ([]*models.Note, error)
	Update(ctx context.Context, id, title, content string) (*models.Note, error)
	Delete(ctx context.Context, id string) error
}

// FileService is the file-storage surface consumed by the API.
type FileService interface {
	Upload(ctx context.Context, originalName, contentType string, size int64, body io.Reader) (*models.File, error)
	Download(ctx context.Context, id string) (*models.File, io.ReadCloser, error)
	List(ctx context.Context) ([]*models.File, error)
	Search(ctx context.Context, query string) ([]*models.File, error)
	Delete(ctx context.Context, id string) error
	TotalStorageUsed(ctx context.Context) (int64, error)
}

// Handler bundles the services behind the HTTP routes.
type Handler struct {
	users       UserService
	credentials CredentialService
	notes       NoteService
	files       FileService
	log         logging.Logger
	validate    *validator.Validate
}

func NewHandler(users UserService, credentials CredentialService, notes NoteService, files FileService, log logging.Logger) *Handler {
	return &Handler{
		users:       users,
		credentials: credentials,
		notes:       notes,
		files:       files,
		log:         log,
		validate:    validator.New(),
	}
}
