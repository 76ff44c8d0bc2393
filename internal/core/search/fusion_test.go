package search

import (
	"testing"

	"recipe-search/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hit(id string) Hit {
	return Hit{Recipe: common.Recipe{ID: id, Title: "recipe " + id}}
}

func TestFuse_CombinesBothRankings(t *testing.T) {
	f := NewFuser(0.3, 0.7, 60)

	lexical := []Hit{hit("a"), hit("b"), hit("c")}
	semantic := []Hit{hit("b"), hit("d")}

	fused := f.Fuse(lexical, semantic)

	require.Len(t, fused, 4)

	byID := make(map[string]ScoredCandidate)
	for _, c := range fused {
		byID[c.Recipe.ID] = c
	}

	// b appears in both lists and carries both ranks
	assert.Equal(t, 2, byID["b"].LexicalRank)
	assert.Equal(t, 1, byID["b"].SemanticRank)
	assert.InDelta(t, 0.3/62+0.7/61, byID["b"].FusedScore, 1e-12)

	// a is lexical-only
	assert.Equal(t, 1, byID["a"].LexicalRank)
	assert.Equal(t, 0, byID["a"].SemanticRank)
	assert.InDelta(t, 0.3/61, byID["a"].FusedScore, 1e-12)

	// d is semantic-only
	assert.Equal(t, 0, byID["d"].LexicalRank)
	assert.Equal(t, 2, byID["d"].SemanticRank)
	assert.InDelta(t, 0.7/62, byID["d"].FusedScore, 1e-12)
}

func TestFuse_DualPresenceBeatsSingleList(t *testing.T) {
	f := NewFuser(0.3, 0.7, 60)

	lexical := []Hit{hit("both"), hit("lexonly")}
	semantic := []Hit{hit("both")}

	fused := f.Fuse(lexical, semantic)

	require.NotEmpty(t, fused)
	assert.Equal(t, "both", fused[0].Recipe.ID)
}

func TestFuse_SemanticWeightDominates(t *testing.T) {
	f := NewFuser(0.3, 0.7, 60)

	// Same rank position on opposite sides: semantic weight should win
	lexical := []Hit{hit("lex")}
	semantic := []Hit{hit("sem")}

	fused := f.Fuse(lexical, semantic)

	require.Len(t, fused, 2)
	assert.Equal(t, "sem", fused[0].Recipe.ID)
	assert.Equal(t, "lex", fused[1].Recipe.ID)
}

func TestFuse_TieBreakByLexicalRankThenID(t *testing.T) {
	// Equal weights make mirrored rank positions score identically
	f := NewFuser(0.5, 0.5, 60)

	lexical := []Hit{hit("x"), hit("y")}
	semantic := []Hit{hit("y"), hit("x")}

	fused := f.Fuse(lexical, semantic)

	require.Len(t, fused, 2)
	assert.InDelta(t, fused[0].FusedScore, fused[1].FusedScore, 1e-12)
	// x holds lexical rank 1 and wins the tie
	assert.Equal(t, "x", fused[0].Recipe.ID)
}

func TestFuse_Deterministic(t *testing.T) {
	f := NewFuser(0.3, 0.7, 60)

	lexical := []Hit{hit("a"), hit("b"), hit("c"), hit("d")}
	semantic := []Hit{hit("d"), hit("c"), hit("b"), hit("a")}

	first := f.Fuse(lexical, semantic)
	for i := 0; i < 10; i++ {
		again := f.Fuse(lexical, semantic)
		assert.Equal(t, first, again)
	}
}

func TestFuse_EmptyInputs(t *testing.T) {
	f := NewFuser(0.3, 0.7, 60)

	assert.Empty(t, f.Fuse(nil, nil))

	onlyLex := f.Fuse([]Hit{hit("a")}, nil)
	require.Len(t, onlyLex, 1)
	assert.InDelta(t, 0.3/61, onlyLex[0].FusedScore, 1e-12)
}
