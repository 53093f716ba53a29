package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// RelationService exposes the favorite, cart and follow ledgers with the
// existence checks of their endpoints.
type RelationService struct {
	db        *gorm.DB
	favorites *Ledger[models.Favorite]
	cart      *Ledger[models.CartItem]
	follows   *Ledger[models.Follow]
}

var _ IRelationService = (*RelationService)(nil)

// NewRelationService creates a new RelationService instance
func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{
		db:        db,
		favorites: NewFavoriteLedger(db),
		cart:      NewCartLedger(db),
		follows:   NewFollowLedger(db),
	}
}

// AddFavorite marks recipeID as a favorite of userID and returns the recipe.
func (s *RelationService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.favorites.Add(ctx, userID, recipeID); err != nil {
		return nil, err
	}
	return recipe, nil
}

// RemoveFavorite unmarks a favorite
func (s *RelationService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.recipe(ctx, recipeID); err != nil {
		return err
	}
	return s.favorites.Remove(ctx, userID, recipeID)
}

// AddToCart puts recipeID into the user's shopping cart and returns the recipe.
func (s *RelationService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.cart.Add(ctx, userID, recipeID); err != nil {
		return nil, err
	}
	return recipe, nil
}

// RemoveFromCart takes recipeID out of the user's shopping cart
func (s *RelationService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.recipe(ctx, recipeID); err != nil {
		return err
	}
	return s.cart.Remove(ctx, userID, recipeID)
}

// Follow subscribes followerID to authorID and returns the author.
func (s *RelationService) Follow(ctx context.Context, followerID, authorID uuid.UUID) (*models.User, error) {
	if followerID == authorID {
		return nil, ErrSelfReference
	}
	author, err := s.user(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.follows.Add(ctx, followerID, authorID); err != nil {
		return nil, err
	}
	return author, nil
}

// Unfollow removes a subscription
func (s *RelationService) Unfollow(ctx context.Context, followerID, authorID uuid.UUID) error {
	if followerID == authorID {
		return ErrSelfReference
	}
	if _, err := s.user(ctx, authorID); err != nil {
		return err
	}
	return s.follows.Remove(ctx, followerID, authorID)
}

// IsFollowing reports whether followerID is subscribed to authorID.
func (s *RelationService) IsFollowing(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	return s.follows.Exists(ctx, followerID, authorID)
}

// Following returns which of authorIDs the viewer is subscribed to.
func (s *RelationService) Following(ctx context.Context, viewerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return s.follows.Linked(ctx, viewerID, authorIDs)
}

// RecipeFlags returns, for the viewer, which of recipeIDs are favorited and
// which are in the shopping cart.
func (s *RelationService) RecipeFlags(ctx context.Context, viewerID uuid.UUID, recipeIDs []uuid.UUID) (favorited, inCart map[uuid.UUID]bool, err error) {
	if favorited, err = s.favorites.Linked(ctx, viewerID, recipeIDs); err != nil {
		return nil, nil, err
	}
	if inCart, err = s.cart.Linked(ctx, viewerID, recipeIDs); err != nil {
		return nil, nil, err
	}
	return favorited, inCart, nil
}

func (s *RelationService) recipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *RelationService) user(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}
