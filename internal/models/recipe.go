package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinCookingTime = 1
	MaxCookingTime = 10080 // one week, in minutes

	MinAmount = 1
	MaxAmount = 1_000_000

	MaxTextLength = 20000
	MaxNameLength = 200
)

type Recipe struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	AuthorID    uuid.UUID          `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_author_name,priority:1" json:"author_id"`
	Author      User               `gorm:"foreignKey:AuthorID" json:"author"`
	Name        string             `gorm:"size:200;not null;uniqueIndex:idx_recipe_author_name,priority:2" json:"name"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	CookingTime int                `gorm:"not null;check:cooking_time >= 1 AND cooking_time <= 10080" json:"cooking_time"`
	Image       string             `gorm:"size:255" json:"image"`
	PubDate     time.Time          `gorm:"autoCreateTime;index" json:"pub_date"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is one (ingredient, amount) line owned by a recipe.
type RecipeIngredient struct {
	ID           uint       `gorm:"primarykey" json:"-"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient,priority:1" json:"-"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient,priority:2;index" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
	Amount       int        `gorm:"not null;check:amount >= 1 AND amount <= 1000000" json:"amount"`
}

// RecipeTag is the join row behind Recipe.Tags.
type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	TagID    uint      `gorm:"primaryKey;index"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
