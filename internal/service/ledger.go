package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// Ledger manages one (subject, object) relation backed by a table with a
// composite unique index on the two columns. Add and Remove are single
// conditional writes, so concurrent callers cannot both succeed.
type Ledger[T any] struct {
	db        *gorm.DB
	name      string
	subject   string
	object    string
	newRecord func(subject, object uuid.UUID) *T
}

// NewFavoriteLedger tracks user-favorites-recipe links.
func NewFavoriteLedger(db *gorm.DB) *Ledger[models.Favorite] {
	return &Ledger[models.Favorite]{
		db:      db,
		name:    "favorite",
		subject: "user_id",
		object:  "recipe_id",
		newRecord: func(user, recipe uuid.UUID) *models.Favorite {
			return &models.Favorite{UserID: user, RecipeID: recipe}
		},
	}
}

// NewCartLedger tracks user-carts-recipe links.
func NewCartLedger(db *gorm.DB) *Ledger[models.CartItem] {
	return &Ledger[models.CartItem]{
		db:      db,
		name:    "shopping cart item",
		subject: "user_id",
		object:  "recipe_id",
		newRecord: func(user, recipe uuid.UUID) *models.CartItem {
			return &models.CartItem{UserID: user, RecipeID: recipe}
		},
	}
}

// NewFollowLedger tracks user-follows-user links.
func NewFollowLedger(db *gorm.DB) *Ledger[models.Follow] {
	return &Ledger[models.Follow]{
		db:      db,
		name:    "subscription",
		subject: "follower_id",
		object:  "followee_id",
		newRecord: func(follower, followee uuid.UUID) *models.Follow {
			return &models.Follow{FollowerID: follower, FolloweeID: followee}
		},
	}
}

// Add inserts the link, or returns ErrAlreadyExists if it is present.
func (l *Ledger[T]) Add(ctx context.Context, subject, object uuid.UUID) error {
	result := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(l.newRecord(subject, object))
	if result.Error != nil {
		return fmt.Errorf("failed to add %s: %w", l.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", l.name, ErrAlreadyExists)
	}
	return nil
}

// Remove deletes the link, or returns ErrNotFound if it is absent.
func (l *Ledger[T]) Remove(ctx context.Context, subject, object uuid.UUID) error {
	result := l.db.WithContext(ctx).
		Where(l.subject+" = ? AND "+l.object+" = ?", subject, object).
		Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("failed to remove %s: %w", l.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", l.name, ErrNotFound)
	}
	return nil
}

// Exists reports whether the link is present.
func (l *Ledger[T]) Exists(ctx context.Context, subject, object uuid.UUID) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(new(T)).
		Where(l.subject+" = ? AND "+l.object+" = ?", subject, object).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", l.name, err)
	}
	return count > 0, nil
}

// Linked returns the subset of objects that subject is linked to.
func (l *Ledger[T]) Linked(ctx context.Context, subject uuid.UUID, objects []uuid.UUID) (map[uuid.UUID]bool, error) {
	linked := make(map[uuid.UUID]bool, len(objects))
	if len(objects) == 0 {
		return linked, nil
	}
	var ids []uuid.UUID
	err := l.db.WithContext(ctx).Model(new(T)).
		Where(l.subject+" = ? AND "+l.object+" IN ?", subject, objects).
		Pluck(l.object, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s links: %w", l.name, err)
	}
	for _, id := range ids {
		linked[id] = true
	}
	return linked, nil
}

// Objects returns every object subject is linked to, newest link first.
func (l *Ledger[T]) Objects(ctx context.Context, subject uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := l.db.WithContext(ctx).Model(new(T)).
		Where(l.subject+" = ?", subject).
		Order("created_at DESC, id DESC").
		Pluck(l.object, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s links: %w", l.name, err)
	}
	return ids, nil
}

// Subquery selects the objects subject is linked to, for use in IN clauses.
func (l *Ledger[T]) Subquery(db *gorm.DB, subject uuid.UUID) *gorm.DB {
	return db.Model(new(T)).Select(l.object).Where(l.subject+" = ?", subject)
}
