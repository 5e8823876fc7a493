package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms"
	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/storage/fs"
)

func setupBackend(t *testing.T) (aquacms.BlobStore, string) {
	t.Helper()

	baseDir := t.TempDir()
	backend, err := fs.New(fs.Config{
		BaseDir:   baseDir,
		URLPrefix: "https://cdn.example.com/images",
	})
	require.NoError(t, err)
	return backend, baseDir
}

func TestNew(t *testing.T) {
	t.Run("requires base dir", func(t *testing.T) {
		_, err := fs.New(fs.Config{})
		assert.Error(t, err)
	})

	t.Run("creates base dir", func(t *testing.T) {
		baseDir := filepath.Join(t.TempDir(), "nested", "storage")
		_, err := fs.New(fs.Config{BaseDir: baseDir})
		require.NoError(t, err)

		info, err := os.Stat(baseDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestUploadDownloadDelete(t *testing.T) {
	backend, baseDir := setupBackend(t)
	ctx := context.Background()

	err := backend.UploadWithParams(ctx, strings.NewReader("jpeg bytes"), aquacms.UploadParams{
		ObjectKey: "news-images/1-cover.jpg",
		MimeType:  "image/jpeg",
	})
	require.NoError(t, err)

	t.Run("download", func(t *testing.T) {
		rc, err := backend.Download(ctx, "news-images/1-cover.jpg")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", string(data))
	})

	t.Run("meta", func(t *testing.T) {
		meta, err := backend.GetObjectMeta(ctx, "news-images/1-cover.jpg")
		require.NoError(t, err)
		assert.Equal(t, int64(len("jpeg bytes")), meta.Size)
	})

	t.Run("delete removes file and empty directories", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, "news-images/1-cover.jpg"))

		_, err := backend.Download(ctx, "news-images/1-cover.jpg")
		assert.Error(t, err)

		_, err = os.Stat(filepath.Join(baseDir, "news-images"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete unknown key", func(t *testing.T) {
		assert.Error(t, backend.Delete(ctx, "missing"))
	})
}

func TestFsPublicURL(t *testing.T) {
	backend, _ := setupBackend(t)
	ctx := context.Background()

	url, err := backend.PublicURL(ctx, "news-images/1-cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/news-images/1-cover.jpg", url)

	t.Run("requires url prefix", func(t *testing.T) {
		bare, err := fs.New(fs.Config{BaseDir: t.TempDir()})
		require.NoError(t, err)

		_, err = bare.PublicURL(ctx, "k")
		assert.Error(t, err)
	})
}
