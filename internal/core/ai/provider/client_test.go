package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterpretation_PlainJSON(t *testing.T) {
	interp, err := parseInterpretation(`{"translated_text":"paneer without onion","include":["paneer"],"exclude":["onion"],"confidence":0.9}`)
	require.NoError(t, err)

	assert.Equal(t, "paneer without onion", interp.TranslatedText)
	assert.Equal(t, []string{"paneer"}, interp.Include)
	assert.Equal(t, []string{"onion"}, interp.Exclude)
	assert.Equal(t, 0.9, interp.Confidence)
}

func TestParseInterpretation_MarkdownFence(t *testing.T) {
	content := "Here is the interpretation:\n```json\n{\"include\":[\"dal\"],\"confidence\":0.8}\n```"

	interp, err := parseInterpretation(content)
	require.NoError(t, err)

	assert.Equal(t, []string{"dal"}, interp.Include)
}

func TestParseInterpretation_UnquotedKeysRepaired(t *testing.T) {
	interp, err := parseInterpretation(`{include:["rice"],confidence:0.7}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"rice"}, interp.Include)
	assert.Equal(t, 0.7, interp.Confidence)
}

func TestParseInterpretation_ConfidenceClamped(t *testing.T) {
	high, err := parseInterpretation(`{"confidence":1.8}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, high.Confidence)

	low, err := parseInterpretation(`{"confidence":-0.3}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, low.Confidence)
}

func TestParseInterpretation_MaxCookMinutes(t *testing.T) {
	interp, err := parseInterpretation(`{"max_cook_minutes":30,"confidence":0.9}`)
	require.NoError(t, err)

	require.NotNil(t, interp.MaxCookMinutes)
	assert.Equal(t, 30, *interp.MaxCookMinutes)
}

func TestParseInterpretation_Garbage(t *testing.T) {
	_, err := parseInterpretation("I could not interpret this query.")
	assert.Error(t, err)
}
