package files

import (
	"context"

	"github.com/safedrive/safedrive/internal/server/models"
)

// Repository persists file metadata; blob content lives in object storage.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id, userID string) (*models.File, error)
	List(ctx context.Context, userID string) ([]*models.File, error)
	Search(ctx context.Context, userID, query string) ([]*models.File, error)
	Delete(ctx context.Context, id, userID string) error
	TotalSize(ctx context.Context, userID string) (int64, error)
}
