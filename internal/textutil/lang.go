package textutil

import "strings"

// knownLangs are the short codes the platform ships translations for.
var knownLangs = []string{"tr", "hu", "en", "de", "el"}

// NormalizeLangCode canonicalizes a language tag to a short code. Known
// codes match by prefix ("hu-HU" -> "hu"); anything else is lowercased and
// capped at 8 characters; empty input falls back to "en".
func NormalizeLangCode(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" {
		return "en"
	}
	for _, code := range knownLangs {
		if t == code || strings.HasPrefix(t, code+"-") || strings.HasPrefix(t, code+"_") {
			return code
		}
	}
	if len(t) > 8 {
		t = t[:8]
	}
	return t
}

// DetectLang guesses the language of a text sample using script ranges and
// a few high-frequency keywords. It is only used to seed a new shop's
// default language, so a coarse guess is acceptable. Defaults to "en".
func DetectLang(text string) string {
	if strings.TrimSpace(text) == "" {
		return "en"
	}
	for _, r := range text {
		if r >= 0x0370 && r <= 0x03FF {
			return "el"
		}
	}
	lower := strings.ToLower(text)
	// Letters unique to one of the supported Latin-script languages.
	if strings.ContainsAny(lower, "őű") {
		return "hu"
	}
	if strings.ContainsAny(lower, "ışğ") {
		return "tr"
	}
	if strings.ContainsAny(lower, "ß") {
		return "de"
	}
	// Shared diacritics need keyword confirmation. Greek never reaches this
	// point; the script range above already decided it.
	hungarian := countKeywords(lower, []string{" és ", " egy ", " nem ", " hogy ", " az "})
	turkish := countKeywords(lower, []string{" ve ", " bir ", " için ", " ile ", " bu "})
	german := countKeywords(lower, []string{" und ", " der ", " die ", " das ", " mit "})
	best, bestLang := 0, "en"
	for lang, n := range map[string]int{"hu": hungarian, "tr": turkish, "de": german} {
		if n > best {
			best, bestLang = n, lang
		}
	}
	if best >= 2 {
		return bestLang
	}
	return "en"
}

func countKeywords(text string, words []string) int {
	n := 0
	for _, w := range words {
		n += strings.Count(text, w)
	}
	return n
}
