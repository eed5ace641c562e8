package notes

import (
	"context"

	"github.com/safedrive/safedrive/internal/server/models"
)

// Repository persists notes, owner-scoped like credentials.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id, userID string) (*models.Note, error)
	List(ctx context.Context, userID string) ([]*models.Note, error)
	Search(ctx context.Context, userID, query string) ([]*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id, userID string) error
}
