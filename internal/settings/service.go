package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"shoprag/internal/domain"
	"shoprag/internal/textutil"
)

// Service is the read-through shop settings store. Settings are created
// lazily on first access with the default language inferred from seedText.
type Service struct {
	repo domain.ShopSettingsRepository
	log  zerolog.Logger
}

// NewService creates a shop settings service.
func NewService(repo domain.ShopSettingsRepository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetOrCreate returns the shop's settings, creating them on first access.
// seedText, when present, seeds language detection for the default source
// language; an empty seed defaults to "en". Creation races resolve by
// re-reading: settings only widen over time, so a duplicate insert conflict
// is benign.
func (s *Service) GetOrCreate(ctx context.Context, shopID, seedText string) (*domain.ShopSettings, error) {
	existing, err := s.repo.Get(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("get shop settings: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	lang := textutil.DetectLang(seedText)
	now := time.Now().UTC()
	created := &domain.ShopSettings{
		ShopID:              shopID,
		DefaultLang:         lang,
		EnabledLangs:        []string{lang},
		MultiLangRAGEnabled: false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		// Likely lost a concurrent-create race; the winner's row is fine.
		again, getErr := s.repo.Get(ctx, shopID)
		if getErr == nil && again != nil {
			return again, nil
		}
		return nil, fmt.Errorf("create shop settings: %w", err)
	}
	s.log.Info().Str("shop_id", shopID).Str("default_lang", lang).Msg("created shop settings")
	return created, nil
}

// LangsFor returns the default language plus every enabled language,
// normalized and deduped, with the default first.
func LangsFor(st *domain.ShopSettings) []string {
	langs := []string{textutil.NormalizeLangCode(st.DefaultLang)}
	seen := map[string]bool{langs[0]: true}
	for _, l := range st.EnabledLangs {
		n := textutil.NormalizeLangCode(l)
		if !seen[n] {
			seen[n] = true
			langs = append(langs, n)
		}
	}
	return langs
}
