package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)
	images := service.NewImageService(service.NewLocalStore(t.TempDir(), "/media/"))

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	RegisterRoutes(router, db, Services{
		Auth:      auth,
		Users:     service.NewUserService(db),
		Catalog:   service.NewCatalogService(db),
		Recipes:   service.NewRecipeService(db, images),
		Relations: service.NewRelationService(db),
		Shopping:  service.NewShoppingService(db),
	}, Options{PageSize: 2})

	return &testServer{router: router, db: db, auth: auth}
}

// login creates a user and returns it with a bearer token.
func (s *testServer) login(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, s.db, username)
	return user, s.tokenFor(t, user)
}

func (s *testServer) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := s.auth.GenerateToken(user.ID)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
