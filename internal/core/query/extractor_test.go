package query

import (
	"testing"

	"recipe-search/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultLexicon())
}

func TestExtract_IncludeExcludeAndTime(t *testing.T) {
	c, err := newTestExtractor().Extract("paneer without onion under 30 minutes", "en")
	require.NoError(t, err)

	assert.Contains(t, c.Include, "paneer")
	assert.Contains(t, c.Exclude, "onion")
	require.NotNil(t, c.MaxCookMinutes)
	assert.Equal(t, 30, *c.MaxCookMinutes)
	assert.NotContains(t, c.Include, "onion")
}

func TestExtract_EmptyQuery(t *testing.T) {
	_, err := newTestExtractor().Extract("   ", "en")
	assert.ErrorIs(t, err, common.ErrEmptyQuery)
}

func TestExtract_DevanagariNegation(t *testing.T) {
	c, err := newTestExtractor().Extract("पनीर बिना प्याज़", "hi")
	require.NoError(t, err)

	assert.Contains(t, c.Include, "paneer")
	assert.Contains(t, c.Exclude, "onion")
}

func TestExtract_TransliteratedKeBina(t *testing.T) {
	// Postpositional "ke bina" marks the following ingredient as excluded
	c, err := newTestExtractor().Extract("sabzi ke bina pyaz", "en")
	require.NoError(t, err)

	assert.Contains(t, c.Include, "sabzi")
	assert.Contains(t, c.Exclude, "onion")
}

func TestExtract_NegationSkipsFillerWords(t *testing.T) {
	// Filler words between the marker and the noun must not defeat the
	// negation, and the noun must not leak into the include set
	c, err := newTestExtractor().Extract("paneer without any onion", "en")
	require.NoError(t, err)

	assert.Contains(t, c.Exclude, "onion")
	assert.Contains(t, c.Include, "paneer")
	assert.NotContains(t, c.Include, "onion")

	c, err = newTestExtractor().Extract("curry with no the garlic", "en")
	require.NoError(t, err)
	assert.Contains(t, c.Exclude, "garlic")
}

func TestExtract_DietAndCuisine(t *testing.T) {
	c, err := newTestExtractor().Extract("jain gujarati sabzi", "en")
	require.NoError(t, err)

	assert.Contains(t, c.Diet, "Jain")
	assert.Contains(t, c.Cuisine, "Gujarati")
	assert.Contains(t, c.Include, "sabzi")
}

func TestExtract_CourseDetection(t *testing.T) {
	c, err := newTestExtractor().Extract("quick breakfast dosa", "en")
	require.NoError(t, err)

	assert.Contains(t, c.Course, "Breakfast")
	assert.Contains(t, c.Include, "dosa")
}

func TestExtract_HourAndMinuteNormalization(t *testing.T) {
	c, err := newTestExtractor().Extract("biryani under 1 hour 30 minutes", "en")
	require.NoError(t, err)

	require.NotNil(t, c.MaxCookMinutes)
	assert.Equal(t, 90, *c.MaxCookMinutes)
}

func TestExtract_MinuteAbbreviation(t *testing.T) {
	c, err := newTestExtractor().Extract("dal under 45 min", "en")
	require.NoError(t, err)

	require.NotNil(t, c.MaxCookMinutes)
	assert.Equal(t, 45, *c.MaxCookMinutes)
}

func TestExtract_TotalTimeGoesToTotalBudget(t *testing.T) {
	c, err := newTestExtractor().Extract("biryani total time 60 minutes", "en")
	require.NoError(t, err)

	require.NotNil(t, c.MaxTotalMinutes)
	assert.Equal(t, 60, *c.MaxTotalMinutes)
	assert.Nil(t, c.MaxCookMinutes)
}

func TestExtract_UnknownExcludedIngredientKept(t *testing.T) {
	// Unknown terms after a negation marker still become exact-match exclusions
	c, err := newTestExtractor().Extract("curry without asafoetida", "en")
	require.NoError(t, err)

	assert.Contains(t, c.Exclude, "asafoetida")
}

func TestExtract_VariantsMapToCanonical(t *testing.T) {
	c, err := newTestExtractor().Extract("aloo gobi without mirchi", "en")
	require.NoError(t, err)

	assert.Contains(t, c.Include, "potato")
	assert.Contains(t, c.Include, "cauliflower")
	assert.Contains(t, c.Exclude, "chili")
}

func TestExtract_ExcludeWinsOverInclude(t *testing.T) {
	c, err := newTestExtractor().Extract("onion curry without onion", "en")
	require.NoError(t, err)

	assert.Contains(t, c.Exclude, "onion")
	assert.NotContains(t, c.Include, "onion")
}

func TestExtract_ConfidenceScaling(t *testing.T) {
	e := newTestExtractor()

	// No recognizable constraints: zero confidence
	none, err := e.Extract("something wonderful today", "en")
	require.NoError(t, err)
	assert.Equal(t, 0.0, none.Confidence)
	assert.True(t, none.IsEmpty())

	// Three of six categories matched
	half, err := e.Extract("paneer without onion under 30 minutes", "en")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, half.Confidence, 1e-9)

	// Confidence stays within [0,1]
	full, err := e.Extract("jain punjabi dinner paneer without onion under 20 minutes", "en")
	require.NoError(t, err)
	assert.LessOrEqual(t, full.Confidence, 1.0)
	assert.InDelta(t, 1.0, full.Confidence, 1e-9)
}

func TestMergeInterpretation_UnionsAndScalars(t *testing.T) {
	rule := NewConstraints()
	rule.Include["paneer"] = struct{}{}
	thirty := 30
	rule.MaxCookMinutes = &thirty
	rule.Confidence = 0.5

	twenty := 20
	merged := MergeInterpretation(rule, &Interpretation{
		Include:        []string{"spinach"},
		Exclude:        []string{"onion"},
		MaxCookMinutes: &twenty,
		Confidence:     0.9,
	})

	assert.Contains(t, merged.Include, "paneer")
	assert.Contains(t, merged.Include, "spinach")
	assert.Contains(t, merged.Exclude, "onion")
	// Higher LLM confidence wins the scalar conflict
	require.NotNil(t, merged.MaxCookMinutes)
	assert.Equal(t, 20, *merged.MaxCookMinutes)
	assert.Equal(t, 0.9, merged.Confidence)
}

func TestMergeInterpretation_RuleScalarKeptWhenMoreConfident(t *testing.T) {
	rule := NewConstraints()
	thirty := 30
	rule.MaxCookMinutes = &thirty
	rule.Confidence = 0.8

	twenty := 20
	merged := MergeInterpretation(rule, &Interpretation{
		MaxCookMinutes: &twenty,
		Confidence:     0.4,
	})

	require.NotNil(t, merged.MaxCookMinutes)
	assert.Equal(t, 30, *merged.MaxCookMinutes)
}

func TestMergeInterpretation_ExclusionWinsOverlap(t *testing.T) {
	rule := NewConstraints()
	rule.Include["onion"] = struct{}{}
	rule.Confidence = 0.3

	merged := MergeInterpretation(rule, &Interpretation{
		Exclude:    []string{"onion"},
		Confidence: 0.7,
	})

	assert.Contains(t, merged.Exclude, "onion")
	assert.NotContains(t, merged.Include, "onion")
}

func TestMergeInterpretation_NilInterpretation(t *testing.T) {
	rule := NewConstraints()
	rule.Include["rice"] = struct{}{}

	merged := MergeInterpretation(rule, nil)
	assert.Contains(t, merged.Include, "rice")
}
