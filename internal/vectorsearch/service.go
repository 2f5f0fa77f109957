package vectorsearch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"shoprag/internal/domain"
	"shoprag/internal/textutil"
)

// Service persists and queries per-language product embeddings. All
// operations are scoped by shop; tenant isolation is enforced at every call
// site, not assumed of the store.
type Service struct {
	repo domain.ProductEmbeddingRepository
	log  zerolog.Logger
}

// NewService creates a vector search service.
func NewService(repo domain.ProductEmbeddingRepository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// UpsertProductEmbedding writes a vector keyed by
// (shop, product, lang, model). Idempotent.
func (s *Service) UpsertProductEmbedding(ctx context.Context, row domain.ProductEmbedding) error {
	row.Lang = textutil.NormalizeLangCode(row.Lang)
	if err := s.repo.Upsert(ctx, row); err != nil {
		return fmt.Errorf("upsert embedding: %w", err)
	}
	return nil
}

// GetExistingEmbeddingMeta returns only the stored content hash for the
// change-detection short-circuit. Callers must not re-embed when it matches
// the freshly computed hash. ok=false means no row exists yet.
func (s *Service) GetExistingEmbeddingMeta(ctx context.Context, shopID, productID, lang, model string) (string, bool, error) {
	return s.repo.GetMeta(ctx, shopID, productID, textutil.NormalizeLangCode(lang), model)
}

// SearchByLanguage runs a similarity search scoped to shop and language and
// joins in the product display name and localized title/description. An
// empty result is not an error. Each hit carries both similarity (higher is
// better) and distance (lower is better); they present one ranking.
func (s *Service) SearchByLanguage(ctx context.Context, q domain.SearchQuery) ([]domain.RetrievedProduct, error) {
	q.Lang = textutil.NormalizeLangCode(q.Lang)
	if q.MatchCount <= 0 {
		q.MatchCount = 5
	}
	results, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search by language: %w", err)
	}
	return results, nil
}
