package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidSort(t *testing.T) {
	for _, s := range ValidSorts() {
		assert.True(t, IsValidSort(s), s)
	}
	assert.Len(t, ValidSorts(), 7)
	assert.False(t, IsValidSort("cheapest"))
	assert.False(t, IsValidSort(""))
	assert.False(t, IsValidSort("PRICE_ASC"))
}

func TestProduct_Normalize_FillsEmptyCollections(t *testing.T) {
	var p Product
	p.Normalize()

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))
	for _, key := range []string{"subcategories", "activity_types", "seasons", "sustainability_features", "special_features", "images"} {
		assert.Equal(t, "[]", string(raw[key]), key)
	}
	assert.Equal(t, "{}", string(raw["specs"]))
}

func TestProduct_IDOmittedWhenUnset(t *testing.T) {
	out, err := json.Marshal(Product{Title: "Tent", Category: "Camping"})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))
	_, hasID := raw["id"]
	assert.False(t, hasID)
	_, hasCreated := raw["created_at"]
	assert.False(t, hasCreated)
	assert.Equal(t, "null", string(raw["description"]))
}

func TestProduct_SetID(t *testing.T) {
	var p Product
	p.SetID("abc")
	assert.Equal(t, "abc", p.ID)
}

func TestReview_Normalize(t *testing.T) {
	var r Review
	r.Normalize()
	assert.NotNil(t, r.Photos)
	assert.NotNil(t, r.Videos)
	assert.NotNil(t, r.Ratings)
}
