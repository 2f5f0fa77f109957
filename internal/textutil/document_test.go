package textutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoprag/internal/domain"
)

func TestBuildEmbeddingDocumentSections(t *testing.T) {
	snap := domain.ProductSnapshot{
		Title:           "Calming Serum",
		DescriptionHTML: "<p>Apply <b>nightly</b> on clean skin.</p>",
		Specs:           map[string]string{"volume": "30 ml", "brand": "Acme"},
		FAQ:             []domain.FAQEntry{{Question: "Vegan?", Answer: "<p>Yes.</p>"}},
	}
	doc := BuildEmbeddingDocument(snap, []string{"30 ml", "50 ml"})

	assert.Contains(t, doc, "Title: Calming Serum")
	assert.Contains(t, doc, "Description: Apply nightly on clean skin.")
	assert.Contains(t, doc, "- brand: Acme")
	assert.Contains(t, doc, "- volume: 30 ml")
	assert.Contains(t, doc, "Q: Vegan?")
	assert.Contains(t, doc, "A: Yes.")
	assert.Contains(t, doc, "Variants: 30 ml, 50 ml")
	assert.NotContains(t, doc, "<p>")
}

func TestBuildEmbeddingDocumentDeterministic(t *testing.T) {
	snap := domain.ProductSnapshot{
		Title: "Serum",
		Specs: map[string]string{"c": "3", "a": "1", "b": "2"},
	}
	first := BuildEmbeddingDocument(snap, nil)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildEmbeddingDocument(snap, nil))
	}
}

func TestBuildEmbeddingDocumentCaps(t *testing.T) {
	snap := domain.ProductSnapshot{Title: "X", Specs: map[string]string{}}
	for i := 0; i < 40; i++ {
		snap.Specs[fmt.Sprintf("spec-%02d", i)] = "v"
	}
	for i := 0; i < 15; i++ {
		snap.FAQ = append(snap.FAQ, domain.FAQEntry{Question: fmt.Sprintf("q%d", i), Answer: "a"})
	}
	doc := BuildEmbeddingDocument(snap, nil)
	assert.Equal(t, 30, strings.Count(doc, "- spec-"))
	assert.Equal(t, 10, strings.Count(doc, "Q: "))
}

func TestBuildEmbeddingDocumentTruncates(t *testing.T) {
	snap := domain.ProductSnapshot{DescriptionHTML: strings.Repeat("very long text ", 3000)}
	doc := BuildEmbeddingDocument(snap, nil)
	require.LessOrEqual(t, len(doc), 24000)
}

func TestBuildEmbeddingDocumentEmpty(t *testing.T) {
	assert.Equal(t, "", BuildEmbeddingDocument(domain.ProductSnapshot{}, nil))
	assert.Equal(t, "", BuildEmbeddingDocument(domain.ProductSnapshot{DescriptionHTML: "<p>  </p>"}, nil))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "A & B", StripHTML("<div>A &amp;\n<span>B</span></div>"))
}
