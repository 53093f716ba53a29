package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestShoppingListEmptyCart(t *testing.T) {
	f := newFixture(t)
	f.createRecipe(t, f.author.ID, "Soup")

	lines, err := f.shopping.Compute(context.Background(), f.reader.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, "", Render(lines))
}

func TestShoppingListSumsSharedIngredients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soup := f.createRecipe(t, f.author.ID, "Soup",
		types.IngredientLine{ID: f.salt.ID, Amount: 5},
		types.IngredientLine{ID: f.pepper.ID, Amount: 1},
	)
	stew := f.createRecipe(t, f.author.ID, "Stew",
		types.IngredientLine{ID: f.salt.ID, Amount: 3},
	)
	// in someone else's cart only
	bread := f.createRecipe(t, f.author.ID, "Bread",
		types.IngredientLine{ID: f.flour.ID, Amount: 2},
	)

	_, err := f.relations.AddToCart(ctx, f.reader.ID, soup.ID)
	require.NoError(t, err)
	_, err = f.relations.AddToCart(ctx, f.reader.ID, stew.ID)
	require.NoError(t, err)
	_, err = f.relations.AddToCart(ctx, f.author.ID, bread.ID)
	require.NoError(t, err)

	lines, err := f.shopping.Compute(ctx, f.reader.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, ShoppingLine{IngredientID: f.pepper.ID, Name: "Pepper", MeasurementUnit: "g", Total: 1}, lines[0])
	assert.Equal(t, ShoppingLine{IngredientID: f.salt.ID, Name: "Salt", MeasurementUnit: "g", Total: 8}, lines[1])

	assert.Equal(t, " - Pepper (g) - 1\n - Salt (g) - 8\n", Render(lines))
}

func TestShoppingListOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	apple := testhelpers.CreateIngredient(t, f.db, "apple", "pcs")
	zest := testhelpers.CreateIngredient(t, f.db, "Zest", "g")

	recipe := f.createRecipe(t, f.author.ID, "Pie",
		types.IngredientLine{ID: apple.ID, Amount: 3},
		types.IngredientLine{ID: f.flour.ID, Amount: 1},
		types.IngredientLine{ID: zest.ID, Amount: 2},
		types.IngredientLine{ID: f.salt.ID, Amount: 1},
	)
	_, err := f.relations.AddToCart(ctx, f.reader.ID, recipe.ID)
	require.NoError(t, err)

	lines, err := f.shopping.Compute(ctx, f.reader.ID)
	require.NoError(t, err)

	var names []string
	for _, l := range lines {
		names = append(names, l.Name)
	}
	// byte order puts upper case before lower case
	assert.Equal(t, []string{"Salt", "Zest", "apple", "flour"}, names)
}

func TestRenderFormat(t *testing.T) {
	lines := []ShoppingLine{
		{IngredientID: 1, Name: "Milk", MeasurementUnit: "ml", Total: 200},
		{IngredientID: 2, Name: "Milk", MeasurementUnit: "g", Total: 50},
	}
	assert.Equal(t, " - Milk (ml) - 200\n - Milk (g) - 50\n", Render(lines))
}
