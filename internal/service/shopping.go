package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingLine is one aggregated ingredient of a shopping list.
type ShoppingLine struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Total           int64
}

// ShoppingService aggregates the ingredient lines of a user's cart.
type ShoppingService struct {
	db *gorm.DB
}

var _ IShoppingService = (*ShoppingService)(nil)

// NewShoppingService creates a new ShoppingService instance
func NewShoppingService(db *gorm.DB) *ShoppingService {
	return &ShoppingService{db: db}
}

// Compute sums the amounts of every ingredient line of every recipe in the
// user's cart, one result per ingredient. Lines are ordered by ingredient
// name compared byte-wise (so case-sensitive), ties broken by ingredient id.
// An empty cart yields an empty list.
func (s *ShoppingService) Compute(ctx context.Context, userID uuid.UUID) ([]ShoppingLine, error) {
	var lines []ShoppingLine
	err := s.db.WithContext(ctx).
		Table("cart_items").
		Select("ingredients.id AS ingredient_id, ingredients.name AS name, "+
			"ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = cart_items.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("cart_items.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute shopping list: %w", err)
	}

	// collation differs between drivers, so order here
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].IngredientID < lines[j].IngredientID
	})
	return lines, nil
}

// Render formats lines as the downloadable report, one ingredient per line.
func Render(lines []ShoppingLine) string {
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, " - %s (%s) - %d\n", l.Name, l.MeasurementUnit, l.Total)
	}
	return b.String()
}
