package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func newServer(t *testing.T, mediaDir string) *Server {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	store := service.NewLocalStore(mediaDir, "/media/")
	cfg := &config.Config{
		ServerHost:  "localhost",
		ServerPort:  "0",
		MediaURL:    "/media/",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	return New(cfg, db, store, api.Services{
		Auth:      service.NewAuthService(db, "test-secret", time.Hour, nil),
		Users:     service.NewUserService(db),
		Catalog:   service.NewCatalogService(db),
		Recipes:   service.NewRecipeService(db, service.NewImageService(store)),
		Relations: service.NewRelationService(db),
		Shopping:  service.NewShoppingService(db),
	}, api.Options{})
}

func TestNew(t *testing.T) {
	srv := newServer(t, t.TempDir())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServesMedia(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "recipes", "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipes", "images", "a.png"), []byte("png"), 0o644))
	srv := newServer(t, dir)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/recipes/images/a.png", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t, t.TempDir())

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := newServer(t, t.TempDir())

	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestMediaPrefix(t *testing.T) {
	tests := map[string]string{
		"/media/":                        "/media",
		"/uploads":                       "/uploads",
		"https://cdn.example.com/files/": "/files",
		"":                               "/media",
		"/":                              "/media",
	}
	for in, want := range tests {
		assert.Equal(t, want, mediaPrefix(in), in)
	}
}
