// Package files provides the PostgreSQL-backed repository for uploaded-file
// metadata.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safedrive/safedrive/internal/common"
	"github.com/safedrive/safedrive/internal/dbx"
	"github.com/safedrive/safedrive/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, f *models.File) (*models.File, error) {
	query :=
		`INSERT INTO files (user_id, filename, original_name, content_type, size, storage_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, uploaded_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		f.UserID, f.Filename, f.OriginalName, f.ContentType, f.Size, f.StorageKey).
		Scan(&f.ID, &f.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.File, error) {
	query :=
		`SELECT id, user_id, filename, original_name, content_type, size, storage_key, uploaded_at
		 FROM files
		 WHERE id = $1 AND user_id = $2
		 `

	f := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&f.ID, &f.UserID, &f.Filename, &f.OriginalName, &f.ContentType,
		&f.Size, &f.StorageKey, &f.UploadedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.File, error) {
	query :=
		`SELECT id, user_id, filename, original_name, content_type, size, storage_key, uploaded_at
		 FROM files
		 WHERE user_id = $1
		 ORDER BY uploaded_at DESC
		 `
	return r.selectMany(ctx, query, userID)
}

func (r *PostgresRepository) Search(ctx context.Context, userID, search string) ([]*models.File, error) {
	query :=
		`SELECT id, user_id, filename, original_name, content_type, size, storage_key, uploaded_at
		 FROM files
		 WHERE user_id = $1 AND original_name ILIKE '%' || $2 || '%'
		 ORDER BY uploaded_at DESC
		 `
	return r.selectMany(ctx, query, userID, search)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.File, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		var f models.File
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.Filename, &f.OriginalName, &f.ContentType,
			&f.Size, &f.StorageKey, &f.UploadedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM files WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// TotalSize reports the summed byte size of a user's uploads.
func (r *PostgresRepository) TotalSize(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COALESCE(SUM(size), 0) FROM files WHERE user_id = $1`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}
