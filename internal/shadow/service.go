package shadow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"shoprag/internal/config"
	"shoprag/internal/domain"
	"shoprag/internal/i18n"
	"shoprag/internal/settings"
	"shoprag/internal/textutil"
	"shoprag/internal/vectorsearch"
)

// Service populates the multi-language translation and embedding store on
// product content changes, without yet serving answers from it. The sync is
// idempotent and re-entrant: with unchanged content a repeat run performs
// zero translation and zero embedding calls, only hash comparisons.
type Service struct {
	products domain.ProductRepository
	settings *settings.Service
	i18n     *i18n.Service
	embedder domain.TextEmbedder
	vectors  *vectorsearch.Service
	flags    *config.FlagCache
	log      zerolog.Logger
}

// NewService creates a shadow write service.
func NewService(
	products domain.ProductRepository,
	settingsSvc *settings.Service,
	i18nSvc *i18n.Service,
	embedder domain.TextEmbedder,
	vectors *vectorsearch.Service,
	flags *config.FlagCache,
	log zerolog.Logger,
) *Service {
	return &Service{
		products: products,
		settings: settingsSvc,
		i18n:     i18nSvc,
		embedder: embedder,
		vectors:  vectors,
		flags:    flags,
		log:      log,
	}
}

// SyncProduct translates and embeds one product across the shop's enabled
// languages. No-op when the shadow-write flag is off or the product is
// missing or empty. Per-language embedding failures are logged and do not
// fail the sync; this is a background consistency mechanism, not a
// user-facing request.
func (s *Service) SyncProduct(ctx context.Context, shopID, productID string) error {
	if !s.flags.Get().ShadowWrite {
		return nil
	}

	product, err := s.products.Get(ctx, shopID, productID)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		s.log.Debug().Str("shop_id", shopID).Str("product_id", productID).Msg("product missing, nothing to sync")
		return nil
	}
	sourceText := product.SourceText()
	if sourceText == "" {
		s.log.Debug().Str("shop_id", shopID).Str("product_id", productID).Msg("product has no usable text, nothing to sync")
		return nil
	}

	shopSettings, err := s.settings.GetOrCreate(ctx, shopID, sourceText)
	if err != nil {
		return fmt.Errorf("resolve shop settings: %w", err)
	}
	langs := settings.LangsFor(shopSettings)

	snapshot := sourceSnapshot(product)
	outcomes, err := s.i18n.UpsertTranslations(ctx, i18n.UpsertTranslationsRequest{
		ShopID:         shopID,
		ProductID:      productID,
		SourceSnapshot: snapshot,
		SourceLang:     shopSettings.DefaultLang,
		EnabledLangs:   langs,
	})
	if err != nil {
		return fmt.Errorf("upsert translations: %w", err)
	}
	for _, o := range outcomes {
		if o.Skipped && o.Reason == domain.SkipReasonTranslationError {
			s.log.Warn().Str("shop_id", shopID).Str("product_id", productID).Str("lang", o.Lang).Msg("translation skipped with error during sync")
		}
	}

	// Embeddings come strictly after the i18n pass: they are generated
	// from the already-translated row content.
	model := s.embedder.Model()
	for _, lang := range langs {
		if err := s.syncEmbedding(ctx, shopID, productID, lang, model, product.Variants); err != nil {
			s.log.Warn().Err(err).
				Str("shop_id", shopID).
				Str("product_id", productID).
				Str("lang", lang).
				Msg("embedding sync failed for language")
		}
	}
	return nil
}

func (s *Service) syncEmbedding(ctx context.Context, shopID, productID, lang, model string, variants []string) error {
	row, err := s.i18n.GetProductI18n(ctx, shopID, productID, lang)
	if err != nil {
		return fmt.Errorf("load i18n row: %w", err)
	}
	if row == nil {
		return nil
	}

	document := textutil.BuildEmbeddingDocument(row.Snapshot, variants)
	if document == "" {
		return nil
	}
	contentHash := textutil.EmbeddingContentHash(document)

	stored, ok, err := s.vectors.GetExistingEmbeddingMeta(ctx, shopID, productID, lang, model)
	if err != nil {
		return fmt.Errorf("load embedding meta: %w", err)
	}
	if ok && stored == contentHash {
		// Unchanged content: the primary cost control of the pipeline.
		return nil
	}

	vector, err := s.embedder.EmbedText(ctx, shopID, document)
	if err != nil {
		return fmt.Errorf("embed document: %w", err)
	}
	return s.vectors.UpsertProductEmbedding(ctx, domain.ProductEmbedding{
		ShopID:      shopID,
		ProductID:   productID,
		Lang:        lang,
		Model:       model,
		Vector:      vector,
		ContentHash: contentHash,
		UpdatedAt:   time.Now().UTC(),
	})
}

func sourceSnapshot(p *domain.Product) domain.ProductSnapshot {
	return domain.ProductSnapshot{
		Title:           p.Name,
		DescriptionHTML: p.DescriptionHTML,
		Specs:           p.Specs,
		FAQ:             p.FAQ,
	}
}
