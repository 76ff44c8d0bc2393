package index

import (
	"encoding/json"
	"testing"

	"github.com/meilisearch/meilisearch-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHit_FullDocument(t *testing.T) {
	raw := meilisearch.Hit{
		"id":            json.RawMessage(`"r1"`),
		"title":         json.RawMessage(`"Paneer Tikka"`),
		"ingredients":   json.RawMessage(`["paneer","yogurt"]`),
		"instructions":  json.RawMessage(`"Marinate and grill."`),
		"cuisine":       json.RawMessage(`"North Indian"`),
		"diet":          json.RawMessage(`"Vegetarian"`),
		"course":        json.RawMessage(`"Appetizer"`),
		"cook_minutes":  json.RawMessage(`25`),
		"total_minutes": json.RawMessage(`40`),
		"_rankingScore": json.RawMessage(`0.87`),
	}

	hit, err := decodeHit(raw)
	require.NoError(t, err)

	assert.Equal(t, "r1", hit.Recipe.ID)
	assert.Equal(t, "Paneer Tikka", hit.Recipe.Title)
	assert.Equal(t, []string{"paneer", "yogurt"}, hit.Recipe.Ingredients)
	assert.Equal(t, "North Indian", hit.Recipe.Cuisine)
	assert.Equal(t, 25, hit.Recipe.CookMinutes)
	assert.Equal(t, 40, hit.Recipe.TotalMinutes)
	assert.InDelta(t, 0.87, hit.Score, 1e-9)
}

func TestDecodeHit_MissingOptionalFields(t *testing.T) {
	raw := meilisearch.Hit{
		"id":    json.RawMessage(`"r2"`),
		"title": json.RawMessage(`"Plain rice"`),
	}

	hit, err := decodeHit(raw)
	require.NoError(t, err)

	assert.Equal(t, "r2", hit.Recipe.ID)
	assert.NotNil(t, hit.Recipe.Ingredients)
	assert.Empty(t, hit.Recipe.Ingredients)
	assert.Zero(t, hit.Recipe.CookMinutes)
	assert.Zero(t, hit.Score)
}

func TestDecodeHit_MalformedFieldFails(t *testing.T) {
	raw := meilisearch.Hit{
		"id":           json.RawMessage(`"r3"`),
		"cook_minutes": json.RawMessage(`"not a number"`),
	}

	_, err := decodeHit(raw)
	assert.Error(t, err)
}
