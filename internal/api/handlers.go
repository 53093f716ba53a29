package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services groups everything the handlers call into.
type Services struct {
	Auth      service.IAuthService
	Users     service.IUserService
	Catalog   service.ICatalogService
	Recipes   service.IRecipeService
	Relations service.IRelationService
	Shopping  service.IShoppingService
}

// Options tunes the routes.
type Options struct {
	PageSize int
	// RecipeLimiter throttles recipe creation; nil disables it
	RecipeLimiter *middleware.RateLimiter
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, svc Services, opts Options) {
	if opts.PageSize < 1 {
		opts.PageSize = 6
	}
	router.GET("/health", HealthCheck(db))

	p := &presenter{recipes: svc.Recipes, relations: svc.Relations}
	requireAuth := middleware.AuthMiddleware(svc.Auth)
	optionalAuth := middleware.OptionalAuth(svc.Auth)

	api := router.Group("/api")
	NewAuthHandler(svc.Auth).RegisterRoutes(api, requireAuth)
	NewUserHandler(svc.Auth, svc.Users, svc.Relations, p, opts.PageSize).RegisterRoutes(api, requireAuth, optionalAuth)
	NewCatalogHandler(svc.Catalog).RegisterRoutes(api)
	NewRecipeHandler(svc.Recipes, svc.Relations, svc.Shopping, p, opts.PageSize, opts.RecipeLimiter).RegisterRoutes(api, requireAuth, optionalAuth)
}

// HealthCheck reports whether the API and its database are up
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// currentUser is only called behind AuthMiddleware
func currentUser(c *gin.Context) uuid.UUID {
	id, _ := middleware.UserID(c)
	return id
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", name, raw, service.ErrNotFound)
	}
	return id, nil
}

func uintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s %q: %w", name, raw, service.ErrNotFound)
	}
	return uint(id), nil
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}
