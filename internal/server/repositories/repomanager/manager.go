package repomanager

import (
	"context"
	"database/sql"

	"github.com/safedrive/safedrive/internal/dbx"
	"github.com/safedrive/safedrive/internal/server/repositories/credentials"
	"github.com/safedrive/safedrive/internal/server/repositories/files"
	"github.com/safedrive/safedrive/internal/server/repositories/notes"
	"github.com/safedrive/safedrive/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run the same repositories inside or outside a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	Notes(db dbx.DBTX) notes.Repository
	Files(db dbx.DBTX) files.Repository
}
