package credentials

import (
	"context"

	"github.com/safedrive/safedrive/internal/server/models"
)

// Repository persists stored secrets. Every lookup that takes a userID is
// scoped to that owner; a row owned by someone else behaves exactly like a
// missing row.
type Repository interface {
	Create(ctx context.Context, credential *models.Credential) (*models.Credential, error)
	GetByID(ctx context.Context, id, userID string) (*models.Credential, error)
	List(ctx context.Context, userID string) ([]*models.Credential, error)
	Search(ctx context.Context, userID, query string) ([]*models.Credential, error)
	ExistsByService(ctx context.Context, userID, service string) (bool, error)
	Update(ctx context.Context, credential *models.Credential) error
	Delete(ctx context.Context, id, userID string) error
}
