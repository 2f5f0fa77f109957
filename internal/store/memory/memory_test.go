package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoprag/internal/domain"
)

func seedEmbedding(t *testing.T, s *Store, shopID, productID, lang string, vec []float32) {
	t.Helper()
	require.NoError(t, s.Embeddings().Upsert(context.Background(), domain.ProductEmbedding{
		ShopID:      shopID,
		ProductID:   productID,
		Lang:        lang,
		Model:       "text-embedding-3-small",
		Vector:      vec,
		ContentHash: "hash-" + productID,
	}))
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	s := NewStore()
	seedEmbedding(t, s, "shop-1", "far", "hu", []float32{0, 1, 0})
	seedEmbedding(t, s, "shop-1", "near", "hu", []float32{1, 0, 0})
	seedEmbedding(t, s, "shop-1", "mid", "hu", []float32{1, 1, 0})

	hits, err := s.Embeddings().Search(context.Background(), domain.SearchQuery{
		ShopID:     "shop-1",
		Lang:       "hu",
		Model:      "text-embedding-3-small",
		Vector:     []float32{1, 0, 0},
		MatchCount: 2,
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].ProductID)
	assert.Equal(t, "mid", hits[1].ProductID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)
	assert.InDelta(t, 0.7071, hits[1].Similarity, 1e-3)
}

func TestSearchScopesByShopLangAndModel(t *testing.T) {
	s := NewStore()
	seedEmbedding(t, s, "shop-1", "p1", "hu", []float32{1, 0, 0})
	seedEmbedding(t, s, "shop-2", "p2", "hu", []float32{1, 0, 0})
	seedEmbedding(t, s, "shop-1", "p3", "tr", []float32{1, 0, 0})

	hits, err := s.Embeddings().Search(context.Background(), domain.SearchQuery{
		ShopID:     "shop-1",
		Lang:       "hu",
		Model:      "text-embedding-3-small",
		Vector:     []float32{1, 0, 0},
		MatchCount: 10,
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "p1", hits[0].ProductID)
}

func TestSearchJoinsProductAndI18n(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.PutProduct(domain.Product{ShopID: "shop-1", ID: "p1", Name: "Calming Serum"})
	require.NoError(t, s.I18n().Upsert(ctx, domain.ProductI18n{
		ShopID:    "shop-1",
		ProductID: "p1",
		Lang:      "hu",
		Snapshot:  domain.ProductSnapshot{Title: "Nyugtató Szérum"},
	}))
	seedEmbedding(t, s, "shop-1", "p1", "hu", []float32{1, 0, 0})

	hits, err := s.Embeddings().Search(ctx, domain.SearchQuery{
		ShopID:     "shop-1",
		Lang:       "hu",
		Model:      "text-embedding-3-small",
		Vector:     []float32{1, 0, 0},
		MatchCount: 5,
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Calming Serum", hits[0].Name)
	assert.Equal(t, "Nyugtató Szérum", hits[0].Title)
}

func TestEmbeddingMetaRoundTrip(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, ok, err := s.Embeddings().GetMeta(ctx, "shop-1", "p1", "hu", "text-embedding-3-small")
	require.NoError(t, err)
	assert.False(t, ok)

	seedEmbedding(t, s, "shop-1", "p1", "hu", []float32{1, 0, 0})
	hash, ok, err := s.Embeddings().GetMeta(ctx, "shop-1", "p1", "hu", "text-embedding-3-small")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hash-p1", hash)
}
