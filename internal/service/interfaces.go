package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GenerateToken(userID uuid.UUID) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// IUserService defines the interface for user lookups
type IUserService interface {
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	Subscriptions(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]models.User, int64, error)
}

// ICatalogService defines the interface for ingredient and tag reads
type ICatalogService interface {
	FilterIngredients(ctx context.Context, substr string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	GetIngredientByName(ctx context.Context, name string) (*models.Ingredient, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error
	ListRecipes(ctx context.Context, viewer *uuid.UUID, filter types.RecipeFilter, limit, offset int) ([]models.Recipe, int64, error)
	RecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, int64, error)
	ImageURL(key string) string
}

// IRelationService defines the interface for favorites, cart and follows
type IRelationService interface {
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
	Follow(ctx context.Context, followerID, authorID uuid.UUID) (*models.User, error)
	Unfollow(ctx context.Context, followerID, authorID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, authorID uuid.UUID) (bool, error)
	Following(ctx context.Context, viewerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	RecipeFlags(ctx context.Context, viewerID uuid.UUID, recipeIDs []uuid.UUID) (favorited, inCart map[uuid.UUID]bool, err error)
}

// IShoppingService defines the interface for shopping list aggregation
type IShoppingService interface {
	Compute(ctx context.Context, userID uuid.UUID) ([]ShoppingLine, error)
}

// IImageService defines the interface for recipe image storage
type IImageService interface {
	Save(ctx context.Context, dataURI string) (string, error)
	Discard(ctx context.Context, key string)
	URL(key string) string
}
