package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)
	salt := testhelpers.CreateIngredient(t, s.db, "Salt", "g")
	testhelpers.CreateIngredient(t, s.db, "Sea salt", "g")
	testhelpers.CreateIngredient(t, s.db, "Pepper", "g")
	lunch := testhelpers.CreateTag(t, s.db, "Lunch", "lunch")
	testhelpers.CreateTag(t, s.db, "Breakfast", "breakfast")

	w := s.do(t, http.MethodGet, "/api/ingredients?name=SALT", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ingredients := decode[[]types.IngredientResponse](t, w)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "Salt", ingredients[0].Name)

	w = s.do(t, http.MethodGet, "/api/ingredients", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]types.IngredientResponse](t, w), 3)

	w = s.do(t, http.MethodGet, "/api/ingredients/"+strconv.FormatUint(uint64(salt.ID), 10), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "g", decode[types.IngredientResponse](t, w).MeasurementUnit)

	w = s.do(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tags := decode[[]types.TagResponse](t, w)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)

	w = s.do(t, http.MethodGet, "/api/tags/"+strconv.FormatUint(uint64(lunch.ID), 10), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lunch", decode[types.TagResponse](t, w).Slug)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/tags/999", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/tags/abc", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/ingredients/0", "", nil).Code)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
