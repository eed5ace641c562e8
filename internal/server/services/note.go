package services

import (
	"context"
	"database/sql"

	"github.com/safedrive/safedrive/internal/dbx"
	"github.com/safedrive/safedrive/internal/server/identity"
	"github.com/safedrive/safedrive/internal/server/models"
	"github.com/safedrive/safedrive/internal/server/repositories/repomanager"
)

// NoteService handles free-text notes with the same ownership scoping as
// credentials.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

func (s *NoteService) Create(ctx context.Context, title, content string) (*models.Note, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Notes(s.db).Create(ctx, &models.Note{
		UserID:  user.ID,
		Title:   title,
		Content: content,
	})
}

func (s *NoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Notes(s.db).GetByID(ctx, id, user.ID)
}

func (s *NoteService) List(ctx context.Context) ([]*models.Note, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Notes(s.db).List(ctx, user.ID)
}

func (s *NoteService) Search(ctx context.Context, query string) ([]*models.Note, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Notes(s.db).Search(ctx, user.ID, query)
}

// Update rewrites a note and returns the stored row, both inside one
// transaction.
func (s *NoteService) Update(ctx context.Context, id, title, content string) (*models.Note, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}

	var updated *models.Note
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)
		if err := repo.Update(ctx, &models.Note{ID: id, UserID: user.ID, Title: title, Content: content}); err != nil {
			return err
		}
		var err error
		updated, err = repo.GetByID(ctx, id, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	user, err := identity.Current(ctx)
	if err != nil {
		return err
	}
	return s.repomanager.Notes(s.db).Delete(ctx, id, user.ID)
}
