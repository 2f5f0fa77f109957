package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"shoprag/internal/domain"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims a string and folds any run of whitespace into a
// single space.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// SourceSnapshotHash hashes a source-language snapshot after normalizing
// whitespace in every text field and deep-sorting JSON object keys. Two
// snapshots that differ only in whitespace or key order hash identically,
// which is what makes the hash usable for change detection.
func SourceSnapshotHash(snap domain.ProductSnapshot) string {
	data, err := json.Marshal(snap)
	if err != nil {
		// A snapshot of plain strings and maps cannot fail to marshal.
		return hashHex(nil)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return hashHex(data)
	}
	canonical := stableJSON(canonicalize(v))
	return hashHex([]byte(canonical))
}

// EmbeddingContentHash hashes a rendered embedding document. The document
// builder already normalizes whitespace, so a plain hash of the collapsed
// text suffices.
func EmbeddingContentHash(document string) string {
	return hashHex([]byte(CollapseWhitespace(document)))
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// canonicalize normalizes whitespace in every string and recurses through
// objects and arrays. Array order is preserved: FAQ entries and usage steps
// are natural-language lists whose order carries meaning.
func canonicalize(v any) any {
	switch t := v.(type) {
	case string:
		return CollapseWhitespace(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = canonicalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = canonicalize(val)
		}
		return out
	default:
		return v
	}
}

// stableJSON renders a value with object keys emitted in sorted order.
// encoding/json already sorts map keys, but we build the string by hand so
// the output never depends on marshaler internals changing between releases.
func stableJSON(v any) string {
	var b strings.Builder
	writeStable(&b, v)
	return b.String()
}

func writeStable(b *strings.Builder, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			kd, _ := json.Marshal(k)
			b.Write(kd)
			b.WriteByte(':')
			writeStable(b, t[k])
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeStable(b, e)
		}
		b.WriteByte(']')
	default:
		d, _ := json.Marshal(t)
		b.Write(d)
	}
}
