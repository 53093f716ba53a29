package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/", func(c *gin.Context) {
		_ = c.Error(err)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &service.ValidationError{Field: "cooking_time", Message: "must be greater than or equal to 1"}, http.StatusBadRequest},
		{"duplicate name", service.ErrDuplicateName, http.StatusBadRequest},
		{"already exists", fmt.Errorf("favorite: %w", service.ErrAlreadyExists), http.StatusBadRequest},
		{"self reference", service.ErrSelfReference, http.StatusBadRequest},
		{"credentials", service.ErrInvalidCredentials, http.StatusBadRequest},
		{"token", service.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"not found", fmt.Errorf("recipe 1: %w", service.ErrNotFound), http.StatusNotFound},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serveError(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	_, body := serveError(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal Server Error", body.Error)
}

func TestErrorHandlerReportsField(t *testing.T) {
	_, body := serveError(t, &service.ValidationError{Field: "amount", Message: "must be less than or equal to 1000000"})
	assert.Equal(t, "amount", body.Field)
	assert.Equal(t, "must be less than or equal to 1000000", body.Error)
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestErrorHandlerLeavesWrittenResponses(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": false})
		_ = c.Error(errors.New("logged only"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"ok":false}`, w.Body.String())
}
