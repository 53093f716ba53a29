package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
)

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/media")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "recipes/images/a.png", "image/png", []byte("png")))
	data, err := os.ReadFile(filepath.Join(dir, "recipes", "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "/media/recipes/images/a.png", store.URL("recipes/images/a.png"))

	require.NoError(t, store.Delete(ctx, "recipes/images/a.png"))
	assert.NoFileExists(t, filepath.Join(dir, "recipes", "images", "a.png"))
	// deleting twice is fine
	require.NoError(t, store.Delete(ctx, "recipes/images/a.png"))
}

func TestLocalStoreStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(filepath.Join(dir, "media"), "/media/")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "../../escape.png", "image/png", []byte("x")))
	assert.FileExists(t, filepath.Join(dir, "media", "escape.png"))
	assert.NoFileExists(t, filepath.Join(dir, "escape.png"))

	assert.Error(t, store.Put(ctx, "/", "image/png", []byte("x")))
}

func TestNewObjectStoreDefaultsToLocal(t *testing.T) {
	store, err := NewObjectStore(context.Background(), &config.Config{MediaDir: t.TempDir(), MediaURL: "/media/"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)
}

func TestS3StoreURL(t *testing.T) {
	store := NewS3Store(&config.S3Config{BucketName: "foodgram-media", Region: "us-east-1"})
	assert.Equal(t, "https://foodgram-media.s3.amazonaws.com/recipes/images/a.png", store.URL("recipes/images/a.png"))
}
