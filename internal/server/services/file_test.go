package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safedrive/safedrive/internal/common"
	"github.com/safedrive/safedrive/internal/server/models"
)

func TestFileService_UploadAndDownload(t *testing.T) {
	m := newFakeRepoManager()
	blobs := newFakeBlobStore()
	s := NewFileService(nil, m, blobs)
	owner := &models.User{ID: "user-1"}

	content := "some pdf bytes"
	f, err := s.Upload(ctxWithUser(owner), "report.pdf", "application/pdf", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", f.OriginalName)
	assert.Equal(t, "user-1", f.UserID)
	assert.True(t, strings.HasPrefix(f.StorageKey, "users/user-1/"))

	meta, body, err := s.Download(ctxWithUser(owner), f.ID)
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
	assert.Equal(t, "application/pdf", meta.ContentType)
}

func TestFileService_Upload_NoIdentity(t *testing.T) {
	m := newFakeRepoManager()
	s := NewFileService(nil, m, newFakeBlobStore())

	_, err := s.Upload(context.Background(), "report.pdf", "application/pdf", 3, strings.NewReader("abc"))
	assert.ErrorIs(t, err, common.ErrorNoIdentity)
}

func TestFileService_Upload_RejectsEmpty(t *testing.T) {
	m := newFakeRepoManager()
	s := NewFileService(nil, m, newFakeBlobStore())
	ctx := ctxWithUser(&models.User{ID: "user-1"})

	_, err := s.Upload(ctx, "   ", "text/plain", 3, strings.NewReader("abc"))
	assert.ErrorIs(t, err, common.ErrorIncorrectInput)

	_, err = s.Upload(ctx, "empty.txt", "text/plain", 0, strings.NewReader(""))
	assert.ErrorIs(t, err, common.ErrorIncorrectInput)
}

func TestFileService_Upload_CleansUpBlobOnMetadataFailure(t *testing.T) {
	m := newFakeRepoManager()
	m.files.createErr = errors.New("insert failed")
	blobs := newFakeBlobStore()
	s := NewFileService(nil, m, blobs)

	_, err := s.Upload(ctxWithUser(&models.User{ID: "user-1"}), "report.pdf", "application/pdf", 3, strings.NewReader("abc"))
	require.Error(t, err)
	assert.Empty(t, blobs.objects)
}

func TestFileService_CrossUserAccessLooksMissing(t *testing.T) {
	m := newFakeRepoManager()
	blobs := newFakeBlobStore()
	s := NewFileService(nil, m, blobs)

	f, err := s.Upload(ctxWithUser(&models.User{ID: "user-1"}), "report.pdf", "application/pdf", 3, strings.NewReader("abc"))
	require.NoError(t, err)

	other := ctxWithUser(&models.User{ID: "user-2"})
	_, _, err = s.Download(other, f.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = s.Delete(other, f.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFileService_DeleteRemovesBlob(t *testing.T) {
	m := newFakeRepoManager()
	blobs := newFakeBlobStore()
	s := NewFileService(nil, m, blobs)
	ctx := ctxWithUser(&models.User{ID: "user-1"})

	f, err := s.Upload(ctx, "report.pdf", "application/pdf", 3, strings.NewReader("abc"))
	require.NoError(t, err)
	require.Len(t, blobs.objects, 1)

	require.NoError(t, s.Delete(ctx, f.ID))
	assert.Empty(t, blobs.objects)

	_, err = s.Get(ctx, f.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFileService_TotalStorageUsed(t *testing.T) {
	m := newFakeRepoManager()
	blobs := newFakeBlobStore()
	s := NewFileService(nil, m, blobs)
	ctx := ctxWithUser(&models.User{ID: "user-1"})

	_, err := s.Upload(ctx, "a.txt", "text/plain", 3, strings.NewReader("abc"))
	require.NoError(t, err)
	_, err = s.Upload(ctx, "b.txt", "text/plain", 5, strings.NewReader("defgh"))
	require.NoError(t, err)

	// other users do not count towards the total
	_, err = s.Upload(ctxWithUser(&models.User{ID: "user-2"}), "c.txt", "text/plain", 100, strings.NewReader(strings.Repeat("x", 100)))
	require.NoError(t, err)

	total, err := s.TotalStorageUsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), total)
}
