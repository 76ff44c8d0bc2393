package search

import (
	"context"
	"errors"
	"testing"

	"recipe-search/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieve_BothStrategiesSucceed(t *testing.T) {
	lex := &fakeLexical{hits: []Hit{recipeHit("1", "A", "rice")}}
	sem := &fakeSemantic{hits: []Hit{recipeHit("2", "B", "dal")}}

	r := NewRetriever(lex, sem, &fakeEmbedder{}, 50)

	result, err := r.Retrieve(context.Background(), "rice", "rice")
	require.NoError(t, err)

	assert.False(t, result.Partial)
	assert.Len(t, result.Lexical, 1)
	assert.Len(t, result.Semantic, 1)
}

func TestRetrieve_EmbedderFailureDegradesToLexical(t *testing.T) {
	lex := &fakeLexical{hits: []Hit{recipeHit("1", "A", "rice")}}
	sem := &fakeSemantic{hits: []Hit{recipeHit("2", "B", "dal")}}

	r := NewRetriever(lex, sem, &fakeEmbedder{err: errors.New("embedding service down")}, 50)

	result, err := r.Retrieve(context.Background(), "rice", "rice")
	require.NoError(t, err)

	// Embedding failure counts as a semantic strategy failure
	assert.True(t, result.Partial)
	assert.Len(t, result.Lexical, 1)
	assert.Empty(t, result.Semantic)
}

func TestRetrieve_BothFail(t *testing.T) {
	lex := &fakeLexical{err: errors.New("down")}
	sem := &fakeSemantic{err: errors.New("down")}

	r := NewRetriever(lex, sem, &fakeEmbedder{}, 50)

	_, err := r.Retrieve(context.Background(), "rice", "rice")
	assert.ErrorIs(t, err, common.ErrRetrievalUnavailable)
}
