package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTagsEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	createTag(t, env.db, "breakfast")
	createTag(t, env.db, "dinner")

	w := env.request(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []map[string]any
	decodeJSON(t, w, &tags)
	assert.Len(t, tags, 2)
}

func TestGetTagEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	tag := createTag(t, env.db, "breakfast")

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/tags/%d", tag.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.Equal(t, "breakfast", resp["slug"])

	w = env.request(t, http.MethodGet, "/api/tags/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListIngredientsEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	createIngredient(t, env.db, "flour", "g")
	createIngredient(t, env.db, "flaxseed", "g")
	createIngredient(t, env.db, "milk", "ml")

	w := env.request(t, http.MethodGet, "/api/ingredients?name=fl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ingredients []map[string]any
	decodeJSON(t, w, &ingredients)
	assert.Len(t, ingredients, 2)
}
