package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_list.txt"

type RecipeHandler struct {
	recipeService   service.IRecipeService
	relationService service.IRelationService
	shoppingService service.IShoppingService
	presenter       *presenter
	pageSize        int
	limiter         *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	relations service.IRelationService,
	shopping service.IShoppingService,
	p *presenter,
	pageSize int,
	limiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipes,
		relationService: relations,
		shoppingService: shopping,
		presenter:       p,
		pageSize:        pageSize,
		limiter:         limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	create := []gin.HandlerFunc{requireAuth}
	if h.limiter != nil {
		create = append(create, h.limiter.RateLimitMiddleware())
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.POST("", create...)
		recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.PATCH("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", requireAuth, h.AddFavorite)
		recipes.DELETE("/:id/favorite", requireAuth, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", requireAuth, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", requireAuth, h.RemoveFromCart)
	}
}

// ListRecipes supports ?author=<uuid>, repeated ?tags=<slug> (any match),
// ?is_favorited=1 and ?is_in_shopping_cart=1.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	params, err := parsePage(c, h.pageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}
	filter, err := parseRecipeFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	viewer := middleware.Viewer(c)
	recipes, total, err := h.recipeService.ListRecipes(ctx, viewer, filter, params.limit, params.offset())
	if err != nil {
		_ = c.Error(err)
		return
	}
	results, err := h.presenter.recipeList(ctx, viewer, recipes)
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

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := currentUser(c)
	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respondRecipe(c, http.StatusCreated, recipe)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req types.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), currentUser(c), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), currentUser(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.link(c, h.relationService.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.unlink(c, h.relationService.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.link(c, h.relationService.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.unlink(c, h.relationService.RemoveFromCart)
}

// DownloadShoppingCart sends the aggregated ingredients of every recipe in
// the user's cart as a plain text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	lines, err := h.shoppingService.Compute(c.Request.Context(), currentUser(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.Render(lines)))
}

func (h *RecipeHandler) link(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)) {
	id, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	recipe, err := add(c.Request.Context(), currentUser(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, h.presenter.shortRecipe(*recipe))
}

func (h *RecipeHandler) unlink(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	id, err := uuidParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := remove(c.Request.Context(), currentUser(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	resp, err := h.presenter.recipe(c.Request.Context(), middleware.Viewer(c), *recipe)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(status, resp)
}

func parseRecipeFilter(c *gin.Context) (types.RecipeFilter, error) {
	var filter types.RecipeFilter
	if raw := c.Query("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, &service.ValidationError{Field: "author", Message: "must be a valid user id"}
		}
		filter.AuthorID = &id
	}
	filter.TagSlugs = c.QueryArray("tags")
	filter.Favorited = queryFlag(c, "is_favorited")
	filter.InCart = queryFlag(c, "is_in_shopping_cart")
	return filter, nil
}

func queryFlag(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}
