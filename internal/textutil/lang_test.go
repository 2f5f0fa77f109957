package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLangCode(t *testing.T) {
	cases := map[string]string{
		"hu":          "hu",
		"hu-HU":       "hu",
		"HU_hu":       "hu",
		"EN":          "en",
		"tr":          "tr",
		"de-AT":       "de",
		"el":          "el",
		"":            "en",
		"  ":          "en",
		"pt-br":       "pt-br",
		"x-very-long": "x-very-l",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeLangCode(in), "input %q", in)
	}
}

func TestDetectLangGreekScript(t *testing.T) {
	assert.Equal(t, "el", DetectLang("Ορός προσώπου για ευαίσθητο δέρμα"))
}

func TestDetectLangHungarianLetters(t *testing.T) {
	assert.Equal(t, "hu", DetectLang("Bőrnyugtató szérum érzékeny bőrre"))
}

func TestDetectLangTurkish(t *testing.T) {
	assert.Equal(t, "tr", DetectLang("Hassas ciltler için yatıştırıcı serum"))
}

func TestDetectLangGermanKeywords(t *testing.T) {
	assert.Equal(t, "de", DetectLang("Ein Serum mit der Kraft der Natur und die beste Pflege"))
}

func TestDetectLangDefaultsToEnglish(t *testing.T) {
	assert.Equal(t, "en", DetectLang("Calming serum for sensitive skin"))
	assert.Equal(t, "en", DetectLang(""))
	assert.Equal(t, "en", DetectLang("   "))
}
