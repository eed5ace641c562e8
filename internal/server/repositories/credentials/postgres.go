// Package credentials provides the PostgreSQL-backed repository for stored
// secrets.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/safedrive/safedrive/internal/common"
	"github.com/safedrive/safedrive/internal/dbx"
	"github.com/safedrive/safedrive/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a credential. The (user_id, service) unique constraint is
// the authority on duplicates under concurrency; a violation maps to
// ErrorDuplicateSecret so racing callers see the same answer as the
// application-level check.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	query :=
		`INSERT INTO credentials (user_id, service, username, encrypted_password, url, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		c.UserID, c.Service, c.Username, c.EncryptedPassword, c.URL, c.Notes).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorDuplicateSecret
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.Credential, error) {
	query :=
		`SELECT id, user_id, service, username, encrypted_password, url, notes, created_at, updated_at
		 FROM credentials
		 WHERE id = $1 AND user_id = $2
		 `

	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&c.ID, &c.UserID, &c.Service, &c.Username, &c.EncryptedPassword,
		&c.URL, &c.Notes, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Credential, error) {
	query :=
		`SELECT id, user_id, service, username, encrypted_password, url, notes, created_at, updated_at
		 FROM credentials
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `
	return r.selectMany(ctx, query, userID)
}

// Search matches case-insensitive substrings on service or username,
// scoped to the owner.
func (r *PostgresRepository) Search(ctx context.Context, userID, search string) ([]*models.Credential, error) {
	query :=
		`SELECT id, user_id, service, username, encrypted_password, url, notes, created_at, updated_at
		 FROM credentials
		 WHERE user_id = $1 AND (service ILIKE '%' || $2 || '%' OR username ILIKE '%' || $2 || '%')
		 ORDER BY created_at DESC
		 `
	return r.selectMany(ctx, query, userID, search)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Credential, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select credentials: %w", err)
	}
	defer rows.Close()

	var result []*models.Credential
	for rows.Next() {
		var c models.Credential
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Service, &c.Username, &c.EncryptedPassword,
			&c.URL, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ExistsByService(ctx context.Context, userID, service string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM credentials WHERE user_id = $1 AND service = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, service).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Update rewrites the mutable fields of a credential owned by c.UserID.
// Zero rows affected means absent-or-foreign, reported as ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, c *models.Credential) error {
	query :=
		`UPDATE credentials
		 SET service = $3, username = $4, encrypted_password = $5, url = $6, notes = $7, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Service, c.Username, c.EncryptedPassword, c.URL, c.Notes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorDuplicateSecret
		}
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

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM credentials WHERE id = $1 AND user_id = $2`

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
