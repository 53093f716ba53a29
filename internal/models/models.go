// Package models contains the gorm-mapped tables of the recipe store.
package models

// All lists every table model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&CartItem{},
		&Follow{},
	}
}
