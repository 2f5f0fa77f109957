package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shoprag/internal/domain"
)

func TestSourceSnapshotHashWhitespaceStable(t *testing.T) {
	a := domain.ProductSnapshot{Title: " Test Product "}
	b := domain.ProductSnapshot{Title: "Test   Product"}
	assert.Equal(t, SourceSnapshotHash(a), SourceSnapshotHash(b))
}

func TestSourceSnapshotHashNestedWhitespace(t *testing.T) {
	a := domain.ProductSnapshot{
		Title: "Serum",
		Specs: map[string]string{"volume": " 30  ml "},
		FAQ:   []domain.FAQEntry{{Question: "How  often?", Answer: "Nightly. "}},
	}
	b := domain.ProductSnapshot{
		Title: "Serum",
		Specs: map[string]string{"volume": "30 ml"},
		FAQ:   []domain.FAQEntry{{Question: "How often?", Answer: "Nightly."}},
	}
	assert.Equal(t, SourceSnapshotHash(a), SourceSnapshotHash(b))
}

func TestSourceSnapshotHashDetectsChange(t *testing.T) {
	a := domain.ProductSnapshot{Title: "Calming Serum"}
	b := domain.ProductSnapshot{Title: "Calming Serum", DescriptionHTML: "<p>Apply nightly.</p>"}
	assert.NotEqual(t, SourceSnapshotHash(a), SourceSnapshotHash(b))
}

func TestSourceSnapshotHashFAQOrderMatters(t *testing.T) {
	// FAQ is a natural-language list; reordering it is a real content change.
	a := domain.ProductSnapshot{FAQ: []domain.FAQEntry{{Question: "a"}, {Question: "b"}}}
	b := domain.ProductSnapshot{FAQ: []domain.FAQEntry{{Question: "b"}, {Question: "a"}}}
	assert.NotEqual(t, SourceSnapshotHash(a), SourceSnapshotHash(b))
}

func TestEmbeddingContentHashCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, EmbeddingContentHash("Title: X\n\n  Description: Y"), EmbeddingContentHash("Title: X Description: Y"))
	assert.NotEqual(t, EmbeddingContentHash("Title: X"), EmbeddingContentHash("Title: Y"))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a\tb\n\nc "))
	assert.Equal(t, "", CollapseWhitespace(" \n\t "))
}
