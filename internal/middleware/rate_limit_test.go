package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRateLimitMiddleware(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	limiter := NewRateLimiter(client, RateLimitConfig{
		Window:    time.Hour,
		Limit:     2,
		KeyPrefix: "rate_limit:test",
	})

	alice, bob := uuid.New(), uuid.New()
	router := gin.New()
	router.POST("/:user", func(c *gin.Context) {
		id, _ := uuid.Parse(c.Param("user"))
		c.Set(userIDKey, id)
	}, limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	post := func(id uuid.UUID) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/"+id.String(), nil))
		return w
	}

	w := post(alice)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusCreated, post(alice).Code)

	w = post(alice)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// counters are per user
	assert.Equal(t, http.StatusCreated, post(bob).Code)
}

func TestRateLimitRequiresUser(t *testing.T) {
	limiter := NewRateLimiter(nil, RateLimitConfig{Window: time.Minute, Limit: 1})
	router := gin.New()
	router.POST("/", limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
