package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExpander() *Expander {
	return NewExpander(DefaultLexicon())
}

func includeCanonicals(ec ExpandedConstraints) []string {
	out := make([]string, 0, len(ec.Include))
	for _, tv := range ec.Include {
		out = append(out, tv.Canonical)
	}
	return out
}

func excludeCanonicals(ec ExpandedConstraints) []string {
	out := make([]string, 0, len(ec.Exclude))
	for _, tv := range ec.Exclude {
		out = append(out, tv.Canonical)
	}
	return out
}

func TestExpand_VariantsForKnownTerm(t *testing.T) {
	c := NewConstraints()
	c.Include["onion"] = struct{}{}

	ec := newTestExpander().Expand(c)

	require.Len(t, ec.Include, 1)
	assert.Equal(t, "onion", ec.Include[0].Canonical)
	assert.Contains(t, ec.Include[0].Variants, "pyaz")
	assert.Contains(t, ec.Include[0].Variants, "kanda")
	assert.Contains(t, ec.Include[0].Variants, "प्याज़")
}

func TestExpand_UnknownTermIsItsOwnVariant(t *testing.T) {
	c := NewConstraints()
	c.Exclude["asafoetida"] = struct{}{}

	ec := newTestExpander().Expand(c)

	require.Len(t, ec.Exclude, 1)
	assert.Equal(t, "asafoetida", ec.Exclude[0].Canonical)
	assert.Equal(t, []string{"asafoetida"}, ec.Exclude[0].Variants)
}

func TestExpand_JainImplicitExclusions(t *testing.T) {
	c := NewConstraints()
	c.Diet["jain"] = struct{}{}

	ec := newTestExpander().Expand(c)

	excluded := excludeCanonicals(ec)
	assert.Contains(t, excluded, "onion")
	assert.Contains(t, excluded, "garlic")
	assert.Contains(t, excluded, "potato")
	assert.Equal(t, []string{"Jain"}, ec.Diet)
}

func TestExpand_ExplicitIncludeOverridesImplicitExclusion(t *testing.T) {
	c := NewConstraints()
	c.Diet["jain"] = struct{}{}
	c.Include["onion"] = struct{}{}

	ec := newTestExpander().Expand(c)

	assert.Contains(t, includeCanonicals(ec), "onion")
	assert.NotContains(t, excludeCanonicals(ec), "onion")
	// Other implicit exclusions survive
	assert.Contains(t, excludeCanonicals(ec), "garlic")
}

func TestExpand_ExplicitExclusionWinsOverInclude(t *testing.T) {
	c := NewConstraints()
	c.Include["paneer"] = struct{}{}
	c.Exclude["paneer"] = struct{}{}

	ec := newTestExpander().Expand(c)

	assert.NotContains(t, includeCanonicals(ec), "paneer")
	assert.Contains(t, excludeCanonicals(ec), "paneer")
}

func TestExpand_VeganImplicitExclusions(t *testing.T) {
	c := NewConstraints()
	c.Diet["vegan"] = struct{}{}

	ec := newTestExpander().Expand(c)

	excluded := excludeCanonicals(ec)
	assert.Contains(t, excluded, "paneer")
	assert.Contains(t, excluded, "ghee")
	assert.Contains(t, excluded, "egg")
}

func TestExpand_DeterministicOrdering(t *testing.T) {
	c := NewConstraints()
	c.Include["tomato"] = struct{}{}
	c.Include["onion"] = struct{}{}
	c.Include["garlic"] = struct{}{}

	e := newTestExpander()
	first := e.Expand(c)
	second := e.Expand(c)

	assert.Equal(t, first.Include, second.Include)
	assert.Equal(t, []string{"garlic", "onion", "tomato"}, includeCanonicals(first))
}

func TestExpand_CategoryDisplayNames(t *testing.T) {
	c := NewConstraints()
	c.Cuisine["punjabi"] = struct{}{}
	c.Course["snacks"] = struct{}{}

	ec := newTestExpander().Expand(c)

	assert.Equal(t, []string{"Punjabi"}, ec.Cuisine)
	assert.Equal(t, []string{"Snack"}, ec.Course)
}

func TestExpand_TimeBudgetsCopied(t *testing.T) {
	c := NewConstraints()
	thirty := 30
	c.MaxCookMinutes = &thirty

	ec := newTestExpander().Expand(c)

	require.NotNil(t, ec.MaxCookMinutes)
	assert.Equal(t, 30, *ec.MaxCookMinutes)

	// Mutating the copy must not leak back
	*ec.MaxCookMinutes = 99
	assert.Equal(t, 30, *c.MaxCookMinutes)
}

func TestNormalizeTerm_DiacriticsAndPlurals(t *testing.T) {
	assert.Equal(t, "tomato", NormalizeTerm("Tomatoes"))
	assert.Equal(t, "chili", NormalizeTerm("chilis"))
	assert.Equal(t, "jalapeno", NormalizeTerm("jalapeño"))
	// Devanagari vowel signs survive normalization untouched
	assert.Equal(t, "प्याज़", NormalizeTerm("प्याज़"))
}
