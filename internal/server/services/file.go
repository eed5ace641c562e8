package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/safedrive/safedrive/internal/common"
	"github.com/safedrive/safedrive/internal/server/identity"
	"github.com/safedrive/safedrive/internal/server/models"
	"github.com/safedrive/safedrive/internal/server/repositories/repomanager"
	"github.com/safedrive/safedrive/internal/server/storage"
)

// FileService stores uploaded blobs in object storage and their metadata in
// the database, owner-scoped like every other resource.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore) *FileService {
	return &FileService{db: db, repomanager: m, blobs: blobs}
}

// Upload streams the blob to object storage under a per-user key and then
// records its metadata. If the metadata insert fails the blob is removed
// again, best effort.
func (s *FileService) Upload(ctx context.Context, originalName, contentType string, size int64, body io.Reader) (*models.File, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(originalName) == "" {
		return nil, fmt.Errorf("%w: file must have a name", common.ErrorIncorrectInput)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: cannot upload empty file", common.ErrorIncorrectInput)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storage.MakeStorageKey(user.ID, originalName)

	if err := s.blobs.Put(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("error storing blob: %w", err)
	}

	f := &models.File{
		UserID:       user.ID,
		Filename:     path.Base(key),
		OriginalName: originalName,
		ContentType:  contentType,
		Size:         size,
		StorageKey:   key,
	}

	created, err := s.repomanager.Files(s.db).Create(ctx, f)
	if err != nil {
		_ = s.blobs.Delete(ctx, key)
		return nil, fmt.Errorf("error saving file metadata: %w", err)
	}

	return created, nil
}

// Download returns the metadata and an open blob reader; the caller owns
// closing the reader.
func (s *FileService) Download(ctx context.Context, id string) (*models.File, io.ReadCloser, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.repomanager.Files(s.db).GetByID(ctx, id, user.ID)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.blobs.Get(ctx, f.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading blob: %w", err)
	}

	return f, body, nil
}

func (s *FileService) Get(ctx context.Context, id string) (*models.File, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Files(s.db).GetByID(ctx, id, user.ID)
}

func (s *FileService) List(ctx context.Context) ([]*models.File, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Files(s.db).List(ctx, user.ID)
}

func (s *FileService) Search(ctx context.Context, query string) ([]*models.File, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Files(s.db).Search(ctx, user.ID, query)
}

// Delete removes the blob first, then the metadata row.
func (s *FileService) Delete(ctx context.Context, id string) error {
	user, err := identity.Current(ctx)
	if err != nil {
		return err
	}

	repo := s.repomanager.Files(s.db)

	f, err := repo.GetByID(ctx, id, user.ID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, f.StorageKey); err != nil {
		return fmt.Errorf("error deleting blob: %w", err)
	}

	return repo.Delete(ctx, id, user.ID)
}

// TotalStorageUsed reports the summed size of the acting identity's uploads.
func (s *FileService) TotalStorageUsed(ctx context.Context) (int64, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return 0, err
	}
	return s.repomanager.Files(s.db).TotalSize(ctx, user.ID)
}
