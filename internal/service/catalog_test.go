package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestFilterIngredients(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	testhelpers.CreateIngredient(t, db, "Salt", "g")
	testhelpers.CreateIngredient(t, db, "Rock Salt", "g")
	testhelpers.CreateIngredient(t, db, "Pepper", "g")
	svc := NewCatalogService(db)
	ctx := context.Background()

	found, err := svc.FilterIngredients(ctx, "salt")
	require.NoError(t, err)
	var names []string
	for _, i := range found {
		names = append(names, i.Name)
	}
	assert.Equal(t, []string{"Rock Salt", "Salt"}, names)

	all, err := svc.FilterIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := svc.FilterIngredients(ctx, "sugar")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFilterIngredientsMatchesLiterally(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	testhelpers.CreateIngredient(t, db, "Salt", "g")
	testhelpers.CreateIngredient(t, db, "Pepper", "g")
	testhelpers.CreateIngredient(t, db, "Соль", "г")
	testhelpers.CreateIngredient(t, db, "50% cream", "ml")
	svc := NewCatalogService(db)
	ctx := context.Background()

	for substr, want := range map[string][]string{
		"_":    nil,
		`\`:    nil,
		"%":    {"50% cream"},
		"0%":   {"50% cream"},
		"соль": {"Соль"},
		"СОЛ":  {"Соль"},
		"SALT": {"Salt"},
	} {
		found, err := svc.FilterIngredients(ctx, substr)
		require.NoError(t, err, substr)
		var names []string
		for _, i := range found {
			names = append(names, i.Name)
		}
		assert.Equal(t, want, names, substr)
	}
}

func TestGetIngredient(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	svc := NewCatalogService(db)
	ctx := context.Background()

	got, err := svc.GetIngredient(ctx, salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "g", got.MeasurementUnit)

	byName, err := svc.GetIngredientByName(ctx, "Salt")
	require.NoError(t, err)
	assert.Equal(t, salt.ID, byName.ID)

	_, err = svc.GetIngredient(ctx, salt.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetIngredientByName(ctx, "salt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTags(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	lunch := testhelpers.CreateTag(t, db, "Lunch", "lunch")
	testhelpers.CreateTag(t, db, "Breakfast", "breakfast")
	svc := NewCatalogService(db)
	ctx := context.Background()

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)
	assert.Equal(t, "lunch", tags[1].Slug)

	got, err := svc.GetTag(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Name)

	_, err = svc.GetTag(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
