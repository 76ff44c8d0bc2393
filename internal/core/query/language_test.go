package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage_Devanagari(t *testing.T) {
	lang, confidence := DetectLanguage("पनीर बिना प्याज़ के")
	assert.Equal(t, "hi", lang)
	assert.GreaterOrEqual(t, confidence, 0.6)
}

func TestDetectLanguage_Tamil(t *testing.T) {
	lang, confidence := DetectLanguage("வெங்காயம் இல்லாமல்")
	assert.Equal(t, "ta", lang)
	assert.GreaterOrEqual(t, confidence, 0.6)
}

func TestDetectLanguage_Bengali(t *testing.T) {
	lang, _ := DetectLanguage("পেঁয়াজ ছাড়া রেসিপি")
	assert.Equal(t, "bn", lang)
}

func TestDetectLanguage_EnglishFallback(t *testing.T) {
	lang, confidence := DetectLanguage("paneer without onion")
	assert.Equal(t, "en", lang)
	assert.Equal(t, 0.5, confidence)
}

func TestDetectLanguage_TransliteratedHindiIsEnglish(t *testing.T) {
	// Romanized Hindi has no Devanagari characters, so it reads as English
	lang, _ := DetectLanguage("pyaz ke bina paneer")
	assert.Equal(t, "en", lang)
}

func TestDetectLanguage_MixedBelowThreshold(t *testing.T) {
	// Mostly Latin with a couple of Devanagari tokens stays English
	lang, _ := DetectLanguage("quick paneer recipe with प्याज़")
	assert.Equal(t, "en", lang)
}

func TestDetectLanguage_EmptyInput(t *testing.T) {
	lang, confidence := DetectLanguage("   ")
	assert.Equal(t, "en", lang)
	assert.Equal(t, 0.5, confidence)
}
