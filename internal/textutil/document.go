package textutil

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"shoprag/internal/domain"
)

// Caps keep the rendered document inside a predictable token budget.
const (
	maxSpecs       = 30
	maxFAQ         = 10
	maxDocumentLen = 24000
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	htmlEntities = strings.NewReplacer(
		"&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">",
		"&quot;", `"`, "&#39;", "'",
	)
)

// StripHTML removes tags and decodes the common entities, leaving plain
// text with collapsed whitespace.
func StripHTML(s string) string {
	return CollapseWhitespace(htmlEntities.Replace(htmlTagRe.ReplaceAllString(s, " ")))
}

// BuildEmbeddingDocument renders a snapshot into the line-oriented plain
// text that gets embedded. The rendering is deterministic: the same
// snapshot and variants always produce byte-identical output, which is what
// makes content-hash comparisons meaningful across re-runs. Returns "" for
// an empty snapshot.
func BuildEmbeddingDocument(snap domain.ProductSnapshot, variants []string) string {
	var lines []string

	if t := CollapseWhitespace(snap.Title); t != "" {
		lines = append(lines, "Title: "+t)
	}
	if d := StripHTML(snap.DescriptionHTML); d != "" {
		lines = append(lines, "Description: "+d)
	}
	if len(snap.Specs) > 0 {
		keys := make([]string, 0, len(snap.Specs))
		for k := range snap.Specs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > maxSpecs {
			keys = keys[:maxSpecs]
		}
		lines = append(lines, "Specs:")
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("- %s: %s", CollapseWhitespace(k), CollapseWhitespace(snap.Specs[k])))
		}
	}
	if len(snap.FAQ) > 0 {
		faq := snap.FAQ
		if len(faq) > maxFAQ {
			faq = faq[:maxFAQ]
		}
		lines = append(lines, "FAQ:")
		for _, e := range faq {
			q := CollapseWhitespace(e.Question)
			a := StripHTML(e.Answer)
			if q == "" && a == "" {
				continue
			}
			lines = append(lines, "Q: "+q, "A: "+a)
		}
	}
	if len(variants) > 0 {
		var vs []string
		for _, v := range variants {
			if cv := CollapseWhitespace(v); cv != "" {
				vs = append(vs, cv)
			}
		}
		if len(vs) > 0 {
			lines = append(lines, "Variants: "+strings.Join(vs, ", "))
		}
	}

	doc := strings.Join(lines, "\n")
	if len(doc) > maxDocumentLen {
		doc = doc[:maxDocumentLen]
	}
	return doc
}

// Truncate shortens a string to at most n bytes, appending an ellipsis when
// anything was cut. Used for log fields, not for hashed content.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
