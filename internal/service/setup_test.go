package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type fixture struct {
	db        *gorm.DB
	recipes   *RecipeService
	relations *RelationService
	shopping  *ShoppingService
	mediaDir  string

	author *models.User
	reader *models.User

	salt, pepper, flour *models.Ingredient
	breakfast, lunch    *models.Tag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	mediaDir := t.TempDir()
	images := NewImageService(NewLocalStore(mediaDir, "/media/"))

	return &fixture{
		db:        db,
		recipes:   NewRecipeService(db, images),
		relations: NewRelationService(db),
		shopping:  NewShoppingService(db),
		mediaDir:  mediaDir,
		author:    testhelpers.CreateUser(t, db, "author"),
		reader:    testhelpers.CreateUser(t, db, "reader"),
		salt:      testhelpers.CreateIngredient(t, db, "Salt", "g"),
		pepper:    testhelpers.CreateIngredient(t, db, "Pepper", "g"),
		flour:     testhelpers.CreateIngredient(t, db, "flour", "kg"),
		breakfast: testhelpers.CreateTag(t, db, "Breakfast", "breakfast"),
		lunch:     testhelpers.CreateTag(t, db, "Lunch", "lunch"),
	}
}

func (f *fixture) createRecipe(t *testing.T, author uuid.UUID, name string, lines ...types.IngredientLine) *models.Recipe {
	t.Helper()
	if len(lines) == 0 {
		lines = []types.IngredientLine{{ID: f.salt.ID, Amount: 5}}
	}
	recipe, err := f.recipes.CreateRecipe(context.Background(), author, &types.CreateRecipeRequest{
		Name:        name,
		Text:        "Mix everything.",
		CookingTime: 10,
		Ingredients: lines,
	})
	require.NoError(t, err)
	return recipe
}
