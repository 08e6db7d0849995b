package storage_test

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"testing"

	"go-cvnetwork-backend/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsManagedPath(t *testing.T) {
	t.Run("Should accept uploads paths", func(t *testing.T) {
		assert.True(t, storage.IsManagedPath("/uploads/avatars/u1/a.jpg"))
		assert.True(t, storage.IsManagedPath("/uploads/projects/42/img.jpg"))
	})

	t.Run("Should reject anything outside the uploads prefix", func(t *testing.T) {
		assert.False(t, storage.IsManagedPath("/etc/passwd"))
		assert.False(t, storage.IsManagedPath("uploads/a.jpg"))
		assert.False(t, storage.IsManagedPath(""))
	})

	t.Run("Should reject traversal attempts", func(t *testing.T) {
		assert.False(t, storage.IsManagedPath("/uploads/../etc/passwd"))
		assert.False(t, storage.IsManagedPath("/uploads/avatars/../../secret"))
	})
}

func TestSaveAndRemove(t *testing.T) {
	store := storage.NewStore(t.TempDir(), 10*1024*1024)

	// Minimal valid PNG
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	logical, err := store.SaveImage(buf.Bytes(), "avatars/user-1")
	require.NoError(t, err)
	assert.True(t, storage.IsManagedPath(logical))

	fsPath, err := store.FilePath(logical)
	require.NoError(t, err)
	_, err = os.Stat(fsPath)
	assert.NoError(t, err, "saved file should exist on disk")

	t.Run("Remove deletes the file", func(t *testing.T) {
		require.NoError(t, store.Remove(logical))
		_, err := os.Stat(fsPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Remove is idempotent for missing files", func(t *testing.T) {
		assert.NoError(t, store.Remove(logical))
	})

	t.Run("Remove refuses unmanaged paths", func(t *testing.T) {
		assert.ErrorIs(t, store.Remove("/etc/passwd"), storage.ErrUnmanagedPath)
	})
}

func TestSaveImageRejectsGarbage(t *testing.T) {
	store := storage.NewStore(t.TempDir(), 1024)

	_, err := store.SaveImage([]byte("definitely not an image"), "avatars/u")
	assert.Error(t, err)
}
