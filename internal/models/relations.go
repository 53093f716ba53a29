package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite, CartItem and Follow are independent join records. Each pair is
// unique so that inserts can be made conditional on the index.

type Favorite struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe,priority:1"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe,priority:2;index"`
	CreatedAt time.Time
}

func (Favorite) TableName() string {
	return "favorites"
}

type CartItem struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe,priority:1"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe,priority:2;index"`
	CreatedAt time.Time
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Follow struct {
	ID         uint      `gorm:"primarykey"`
	FollowerID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair,priority:1"`
	FolloweeID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair,priority:2;index"`
	CreatedAt  time.Time
}

func (Follow) TableName() string {
	return "follows"
}
