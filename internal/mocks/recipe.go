package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, actorID, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error {
	return m.Called(ctx, actorID, recipeID).Error(0)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, viewer *uuid.UUID, filter types.RecipeFilter, limit, offset int) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, viewer, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) RecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, authorID, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) ImageURL(key string) string {
	return m.Called(key).String(0)
}

// MockRelationService is a mock implementation of the favorites, cart and
// follow ledgers
type MockRelationService struct {
	mock.Mock
}

func (m *MockRelationService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRelationService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockRelationService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRelationService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockRelationService) Follow(ctx context.Context, followerID, authorID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, followerID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRelationService) Unfollow(ctx context.Context, followerID, authorID uuid.UUID) error {
	return m.Called(ctx, followerID, authorID).Error(0)
}

func (m *MockRelationService) IsFollowing(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRelationService) Following(ctx context.Context, viewerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, viewerID, authorIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockRelationService) RecipeFlags(ctx context.Context, viewerID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, map[uuid.UUID]bool, error) {
	args := m.Called(ctx, viewerID, recipeIDs)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Get(1).(map[uuid.UUID]bool), args.Error(2)
}

// MockShoppingService is a mock implementation of the shopping list service
type MockShoppingService struct {
	mock.Mock
}

func (m *MockShoppingService) Compute(ctx context.Context, userID uuid.UUID) ([]service.ShoppingLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ShoppingLine), args.Error(1)
}
