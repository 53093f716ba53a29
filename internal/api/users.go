package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	authService     service.IAuthService
	userService     service.IUserService
	relationService service.IRelationService
	presenter       *presenter
	pageSize        int
}

func NewUserHandler(auth service.IAuthService, users service.IUserService, relations service.IRelationService, p *presenter, pageSize int) *UserHandler {
	return &UserHandler{
		authService:     auth,
		userService:     users,
		relationService: relations,
		presenter:       p,
		pageSize:        pageSize,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.GET("", optionalAuth, h.ListUsers)
		users.POST("", h.Register)
		users.GET("/me", requireAuth, h.Me)
		users.POST("/set_password", requireAuth, h.SetPassword)
		users.GET("/subscriptions", requireAuth, h.Subscriptions)
		users.GET("/:id", optionalAuth, h.GetUser)
		users.POST("/:id/subscribe", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	params, err := parsePage(c, h.pageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), params.limit, params.offset())
	if err != nil {
		_ = c.Error(err)
		return
	}
	results, err := h.presenter.users(c.Request.Context(), middleware.Viewer(c), users)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := newPage(c, params, total, results)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, userResponse(*user, false))
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), currentUser(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, userResponse(*user, false))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.authService.SetPassword(c.Request.Context(), currentUser(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	resp, err := h.presenter.user(c.Request.Context(), middleware.Viewer(c), *user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Subscriptions lists the authors the current user follows. ?recipes_limit=
// caps the recipes shown per author.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	params, err := parsePage(c, h.pageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipesLimit, err := parseRecipesLimit(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	authors, total, err := h.userService.Subscriptions(ctx, currentUser(c), params.limit, params.offset())
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := make([]types.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		sub, err := h.presenter.subscription(ctx, author, recipesLimit)
		if err != nil {
			_ = c.Error(err)
			return
		}
		results = append(results, sub)
	}

	page, err := newPage(c, params, total, results)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipesLimit, err := parseRecipesLimit(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	author, err := h.relationService.Follow(c.Request.Context(), currentUser(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	sub, err := h.presenter.subscription(c.Request.Context(), *author, recipesLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.relationService.Unfollow(c.Request.Context(), currentUser(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseRecipesLimit returns -1 (no limit) when the parameter is absent.
func parseRecipesLimit(c *gin.Context) (int, error) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &service.ValidationError{Field: "recipes_limit", Message: "must be a non-negative integer"}
	}
	return n, nil
}
