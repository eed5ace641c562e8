package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/safedrive/safedrive/internal/common"
	"github.com/safedrive/safedrive/internal/dbx"
	"github.com/safedrive/safedrive/internal/server/identity"
	"github.com/safedrive/safedrive/internal/server/models"
	"github.com/safedrive/safedrive/internal/server/repositories/credentials"
	"github.com/safedrive/safedrive/internal/server/repositories/files"
	"github.com/safedrive/safedrive/internal/server/repositories/notes"
	"github.com/safedrive/safedrive/internal/server/repositories/users"
)

// In-memory repositories backing the service tests. They reproduce the
// contract of the postgres implementations: owner scoping, ErrorNotFound for
// absent or foreign rows, and uniqueness errors on duplicates.

type fakeRepoManager struct {
	users       *fakeUsersRepo
	credentials *fakeCredentialsRepo
	notes       *fakeNotesRepo
	files       *fakeFilesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:       &fakeUsersRepo{byID: map[string]*models.User{}},
		credentials: &fakeCredentialsRepo{byID: map[string]*models.Credential{}},
		notes:       &fakeNotesRepo{byID: map[string]*models.Note{}},
		files:       &fakeFilesRepo{byID: map[string]*models.File{}},
	}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                  { return m.users }
func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentials.Repository      { return m.credentials }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notes.Repository                  { return m.notes }
func (m *fakeRepoManager) Files(db dbx.DBTX) files.Repository                  { return m.files }

type fakeUsersRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*models.User
}

func (r *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	r.seq++
	u := *user
	u.ID = fmt.Sprintf("user-%d", r.seq)
	r.byID[u.ID] = &u
	return &u, nil
}

func (r *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeUsersRepo) SetRole(ctx context.Context, id string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Role = role
	return nil
}

type fakeCredentialsRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*models.Credential
}

func (r *fakeCredentialsRepo) Create(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.UserID == credential.UserID && c.Service == credential.Service {
			return nil, common.ErrorDuplicateSecret
		}
	}
	r.seq++
	c := *credential
	c.ID = fmt.Sprintf("cred-%d", r.seq)
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeCredentialsRepo) GetByID(ctx context.Context, id, userID string) (*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (r *fakeCredentialsRepo) List(ctx context.Context, userID string) ([]*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Credential
	for _, c := range r.byID {
		if c.UserID == userID {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *fakeCredentialsRepo) Search(ctx context.Context, userID, query string) ([]*models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []*models.Credential
	for _, c := range r.byID {
		if c.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(c.Service), q) || strings.Contains(strings.ToLower(c.Username), q) {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *fakeCredentialsRepo) ExistsByService(ctx context.Context, userID, service string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.UserID == userID && c.Service == service {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCredentialsRepo) Update(ctx context.Context, credential *models.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[credential.ID]
	if !ok || existing.UserID != credential.UserID {
		return common.ErrorNotFound
	}
	c := *credential
	r.byID[c.ID] = &c
	return nil
}

func (r *fakeCredentialsRepo) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeNotesRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*models.Note
}

func (r *fakeNotesRepo) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n := *note
	n.ID = fmt.Sprintf("note-%d", r.seq)
	r.byID[n.ID] = &n
	out := n
	return &out, nil
}

func (r *fakeNotesRepo) GetByID(ctx context.Context, id, userID string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	out := *n
	return &out, nil
}

func (r *fakeNotesRepo) List(ctx context.Context, userID string) ([]*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Note
	for _, n := range r.byID {
		if n.UserID == userID {
			nn := *n
			out = append(out, &nn)
		}
	}
	return out, nil
}

func (r *fakeNotesRepo) Search(ctx context.Context, userID, query string) ([]*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []*models.Note
	for _, n := range r.byID {
		if n.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			nn := *n
			out = append(out, &nn)
		}
	}
	return out, nil
}

func (r *fakeNotesRepo) Update(ctx context.Context, note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[note.ID]
	if !ok || existing.UserID != note.UserID {
		return common.ErrorNotFound
	}
	n := *note
	r.byID[n.ID] = &n
	return nil
}

func (r *fakeNotesRepo) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeFilesRepo struct {
	mu        sync.Mutex
	seq       int
	byID      map[string]*models.File
	createErr error
}

func (r *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	f := *file
	f.ID = fmt.Sprintf("file-%d", r.seq)
	r.byID[f.ID] = &f
	out := f
	return &out, nil
}

func (r *fakeFilesRepo) GetByID(ctx context.Context, id, userID string) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok || f.UserID != userID {
		return nil, common.ErrorNotFound
	}
	out := *f
	return &out, nil
}

func (r *fakeFilesRepo) List(ctx context.Context, userID string) ([]*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.File
	for _, f := range r.byID {
		if f.UserID == userID {
			ff := *f
			out = append(out, &ff)
		}
	}
	return out, nil
}

func (r *fakeFilesRepo) Search(ctx context.Context, userID, query string) ([]*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []*models.File
	for _, f := range r.byID {
		if f.UserID == userID && strings.Contains(strings.ToLower(f.OriginalName), q) {
			ff := *f
			out = append(out, &ff)
		}
	}
	return out, nil
}

func (r *fakeFilesRepo) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok || f.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeFilesRepo) TotalSize(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, f := range r.byID {
		if f.UserID == userID {
			total += f.Size
		}
	}
	return total, nil
}

// fakeBlobStore keeps blobs in a map so upload/download round-trips can be
// asserted without an S3 backend.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (b *fakeBlobStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	if b.putErr != nil {
		return b.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func (b *fakeBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *fakeBlobStore) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func ctxWithUser(user *models.User) context.Context {
	return identity.Bind(context.Background(), user)
}
