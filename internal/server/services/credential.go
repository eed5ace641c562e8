package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safedrive/safedrive/internal/common"
	"github.com/safedrive/safedrive/internal/cryptox"
	"github.com/safedrive/safedrive/internal/dbx"
	"github.com/safedrive/safedrive/internal/server/identity"
	"github.com/safedrive/safedrive/internal/server/models"
	"github.com/safedrive/safedrive/internal/server/repositories/repomanager"
)

// CredentialService orchestrates the credential vault: passwords are
// encrypted before persisting and decrypted only by RevealPassword. Every
// operation resolves the acting identity from the request context and scopes
// its queries by that identity's ID; a credential owned by someone else is
// indistinguishable from a missing one.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.Cipher
}

func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher) *CredentialService {
	return &CredentialService{db: db, repomanager: m, cipher: cipher}
}

// Create stores a new secret for the acting identity. A second secret for
// the same service fails with ErrorDuplicateSecret; the check-then-insert is
// backed by the (user_id, service) unique constraint, so a racing duplicate
// gets the same error from the insert itself.
func (s *CredentialService) Create(ctx context.Context, service, username, password, url, notes string) (*models.Credential, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Credentials(s.db)

	exists, err := repo.ExistsByService(ctx, user.ID, service)
	if err != nil {
		return nil, fmt.Errorf("error checking for duplicate: %w", err)
	}
	if exists {
		return nil, common.ErrorDuplicateSecret
	}

	encrypted, err := s.cipher.Encrypt(password)
	if err != nil {
		return nil, err
	}

	return repo.Create(ctx, &models.Credential{
		UserID:            user.ID,
		Service:           service,
		Username:          username,
		EncryptedPassword: encrypted,
		URL:               url,
		Notes:             notes,
	})
}

// Get returns one credential scoped to the acting identity.
func (s *CredentialService) Get(ctx context.Context, id string) (*models.Credential, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Credentials(s.db).GetByID(ctx, id, user.ID)
}

// List returns the acting identity's credentials, newest first.
func (s *CredentialService) List(ctx context.Context) ([]*models.Credential, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Credentials(s.db).List(ctx, user.ID)
}

// Search matches case-insensitive substrings on service or username within
// the acting identity's credentials.
func (s *CredentialService) Search(ctx context.Context, query string) ([]*models.Credential, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Credentials(s.db).Search(ctx, user.ID, query)
}

// RevealPassword decrypts and returns the stored password. This is the only
// path that ever returns plaintext.
func (s *CredentialService) RevealPassword(ctx context.Context, id string) (string, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return "", err
	}

	c, err := s.repomanager.Credentials(s.db).GetByID(ctx, id, user.ID)
	if err != nil {
		return "", err
	}

	return s.cipher.Decrypt(c.EncryptedPassword)
}

// Update rewrites a credential's fields inside one transaction, so the
// returned row is exactly what was written. An empty password keeps the
// stored ciphertext; a non-empty one is re-encrypted.
func (s *CredentialService) Update(ctx context.Context, id, service, username, password, url, notes string) (*models.Credential, error) {
	user, err := identity.Current(ctx)
	if err != nil {
		return nil, err
	}

	var updated *models.Credential
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Credentials(tx)

		existing, err := repo.GetByID(ctx, id, user.ID)
		if err != nil {
			return err
		}

		existing.Service = service
		existing.Username = username
		existing.URL = url
		existing.Notes = notes

		if password != "" {
			encrypted, err := s.cipher.Encrypt(password)
			if err != nil {
				return err
			}
			existing.EncryptedPassword = encrypted
		}

		if err := repo.Update(ctx, existing); err != nil {
			return err
		}

		updated, err = repo.GetByID(ctx, id, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a credential owned by the acting identity.
func (s *CredentialService) Delete(ctx context.Context, id string) error {
	user, err := identity.Current(ctx)
	if err != nil {
		return err
	}
	return s.repomanager.Credentials(s.db).Delete(ctx, id, user.ID)
}
