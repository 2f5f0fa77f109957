package i18n

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"shoprag/internal/domain"
	"shoprag/internal/textutil"
)

// Service maintains one translated snapshot per (shop, product, language).
type Service struct {
	repo       domain.ProductI18nRepository
	translator domain.Translator
	log        zerolog.Logger
}

// NewService creates a product i18n service.
func NewService(repo domain.ProductI18nRepository, translator domain.Translator, log zerolog.Logger) *Service {
	return &Service{repo: repo, translator: translator, log: log}
}

// UpsertTranslationsRequest carries one upsert pass over a product's
// enabled languages.
type UpsertTranslationsRequest struct {
	ShopID         string
	ProductID      string
	SourceSnapshot domain.ProductSnapshot
	SourceLang     string
	EnabledLangs   []string
}

// UpsertTranslations refreshes the i18n rows for all enabled languages.
// The source-language row is always upserted verbatim; target languages are
// skipped when locked or when the stored source hash is unchanged, and a
// translation failure for one language never aborts the others. The
// returned outcome list is what the shadow writer consumes.
func (s *Service) UpsertTranslations(ctx context.Context, req UpsertTranslationsRequest) ([]domain.UpsertOutcome, error) {
	sourceLang := textutil.NormalizeLangCode(req.SourceLang)
	langs := dedupeWithSourceFirst(sourceLang, req.EnabledLangs)
	sourceHash := textutil.SourceSnapshotHash(req.SourceSnapshot)

	existing, err := s.repo.ListByLangs(ctx, req.ShopID, req.ProductID, langs)
	if err != nil {
		// Proceeding with unknown prior state could silently skip needed
		// translations, so this one propagates.
		return nil, fmt.Errorf("list i18n rows: %w", err)
	}
	byLang := make(map[string]domain.ProductI18n, len(existing))
	for _, row := range existing {
		byLang[row.Lang] = row
	}

	now := time.Now().UTC()
	outcomes := make([]domain.UpsertOutcome, 0, len(langs))
	for _, lang := range langs {
		prior, exists := byLang[lang]

		if lang == sourceLang {
			// Ground truth, not a translation: always kept in sync.
			row := domain.ProductI18n{
				ShopID:     req.ShopID,
				ProductID:  req.ProductID,
				Lang:       lang,
				Snapshot:   req.SourceSnapshot,
				SourceLang: sourceLang,
				SourceHash: sourceHash,
				UpdatedAt:  now,
			}
			if exists {
				row.Locked = prior.Locked
				row.CreatedAt = prior.CreatedAt
			} else {
				row.CreatedAt = now
			}
			if err := s.repo.Upsert(ctx, row); err != nil {
				return nil, fmt.Errorf("upsert source i18n row: %w", err)
			}
			outcomes = append(outcomes, domain.UpsertOutcome{Lang: lang})
			continue
		}

		if exists && prior.Locked {
			outcomes = append(outcomes, domain.UpsertOutcome{Lang: lang, Skipped: true, Reason: domain.SkipReasonLocked})
			continue
		}
		if exists && prior.SourceHash == sourceHash {
			outcomes = append(outcomes, domain.UpsertOutcome{Lang: lang, Skipped: true, Reason: domain.SkipReasonSameSourceHash})
			continue
		}

		translated, err := s.translator.TranslateProductSnapshot(ctx, req.ShopID, req.SourceSnapshot, sourceLang, lang)
		if err != nil {
			s.log.Warn().Err(err).
				Str("shop_id", req.ShopID).
				Str("product_id", req.ProductID).
				Str("lang", lang).
				Msg("translation failed, skipping language")
			outcomes = append(outcomes, domain.UpsertOutcome{Lang: lang, Skipped: true, Reason: domain.SkipReasonTranslationError})
			continue
		}
		row := domain.ProductI18n{
			ShopID:     req.ShopID,
			ProductID:  req.ProductID,
			Lang:       lang,
			Snapshot:   translated,
			SourceLang: sourceLang,
			SourceHash: sourceHash,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if exists {
			row.CreatedAt = prior.CreatedAt
		}
		if err := s.repo.Upsert(ctx, row); err != nil {
			s.log.Warn().Err(err).
				Str("shop_id", req.ShopID).
				Str("product_id", req.ProductID).
				Str("lang", lang).
				Msg("i18n upsert failed, skipping language")
			outcomes = append(outcomes, domain.UpsertOutcome{Lang: lang, Skipped: true, Reason: domain.SkipReasonTranslationError})
			continue
		}
		outcomes = append(outcomes, domain.UpsertOutcome{Lang: lang})
	}
	return outcomes, nil
}

// GetProductI18n returns the row for one (shop, product, lang), or nil when
// none exists. "No data yet" is an expected steady state, not an error.
func (s *Service) GetProductI18n(ctx context.Context, shopID, productID, lang string) (*domain.ProductI18n, error) {
	return s.repo.Get(ctx, shopID, productID, textutil.NormalizeLangCode(lang))
}

// GetProductI18nMany returns the rows for a batch of product IDs in one
// language. Missing products are simply absent from the result.
func (s *Service) GetProductI18nMany(ctx context.Context, shopID string, productIDs []string, lang string) ([]domain.ProductI18n, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	return s.repo.ListByProducts(ctx, shopID, productIDs, textutil.NormalizeLangCode(lang))
}

func dedupeWithSourceFirst(sourceLang string, enabled []string) []string {
	langs := []string{sourceLang}
	seen := map[string]bool{sourceLang: true}
	for _, l := range enabled {
		n := textutil.NormalizeLangCode(l)
		if !seen[n] {
			seen[n] = true
			langs = append(langs, n)
		}
	}
	return langs
}
