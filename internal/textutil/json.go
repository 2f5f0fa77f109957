package textutil

import (
	"errors"
	"strings"
)

// ErrNoJSONObject is returned when a model response contains no JSON object.
var ErrNoJSONObject = errors.New("no JSON object in response")

// StripCodeFences removes a surrounding markdown code fence, with or without
// a language tag. Models routinely fence JSON even when told not to.
func StripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		// drop the language tag line ("json", "JSON", ...)
		first := strings.TrimSpace(t[:i])
		if len(first) <= 8 {
			t = t[i+1:]
		}
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// ExtractJSONObject pulls the first-`{`-to-last-`}` span out of a model
// response, after stripping code fences. The result is not guaranteed to be
// valid JSON; it is the caller's job to parse and validate it.
func ExtractJSONObject(s string) (string, error) {
	t := StripCodeFences(s)
	start := strings.IndexByte(t, '{')
	end := strings.LastIndexByte(t, '}')
	if start < 0 || end < start {
		return "", ErrNoJSONObject
	}
	return t[start : end+1], nil
}
