// Package notes provides the PostgreSQL-backed repository for free-text notes.
package notes

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

func (r *PostgresRepository) Create(ctx context.Context, n *models.Note) (*models.Note, error) {
	query :=
		`INSERT INTO notes (user_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Content).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.Note, error) {
	query :=
		`SELECT id, user_id, title, content, created_at, updated_at FROM notes
		 WHERE id = $1 AND user_id = $2
		 `

	n := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Note, error) {
	query :=
		`SELECT id, user_id, title, content, created_at, updated_at FROM notes
		 WHERE user_id = $1
		 ORDER BY updated_at DESC
		 `
	return r.selectMany(ctx, query, userID)
}

func (r *PostgresRepository) Search(ctx context.Context, userID, search string) ([]*models.Note, error) {
	query :=
		`SELECT id, user_id, title, content, created_at, updated_at FROM notes
		 WHERE user_id = $1 AND (title ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')
		 ORDER BY updated_at DESC
		 `
	return r.selectMany(ctx, query, userID, search)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, n *models.Note) error {
	query :=
		`UPDATE notes
		 SET title = $3, content = $4, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Content)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	num, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if num == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	num, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if num == 0 {
		return common.ErrorNotFound
	}
	return nil
}
