package facts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shoprag/internal/domain"
)

// Store persists facts snapshots with a single-active-pointer history:
// inserting a new snapshot deactivates the prior active one.
type Store struct {
	repo domain.ProductFactsRepository
	log  zerolog.Logger
}

// NewStore creates a facts store.
func NewStore(repo domain.ProductFactsRepository, log zerolog.Logger) *Store {
	return &Store{repo: repo, log: log}
}

// PersistProductFactsSnapshot stores the structured outcome of an
// enrichment run. Invalid snapshots are persisted too, for audit; runs that
// produced no parsed facts at all have nothing to persist and return nil.
func (s *Store) PersistProductFactsSnapshot(ctx context.Context, merchantID, productID string, result *domain.EnrichmentResult) (*domain.ProductFactsSnapshot, error) {
	if result == nil || result.Facts == nil {
		return nil, nil
	}
	snap := &domain.ProductFactsSnapshot{
		ID:               uuid.NewString(),
		MerchantID:       merchantID,
		ProductID:        productID,
		SchemaVersion:    SchemaVersion,
		Facts:            *result.Facts,
		Valid:            result.Mode == domain.EnrichmentStructuredFacts,
		ValidationErrors: result.ValidationErrors,
		Active:           true,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, snap); err != nil {
		return nil, fmt.Errorf("insert facts snapshot: %w", err)
	}
	return snap, nil
}

// GetActiveProductFactsContext renders the active validated snapshot as RAG
// context. Returns "" when no validated snapshot exists; callers fall back
// to the summary enrichment in that case.
func (s *Store) GetActiveProductFactsContext(ctx context.Context, merchantID, productID string) (string, error) {
	snap, err := s.repo.GetActive(ctx, merchantID, productID)
	if err != nil {
		return "", fmt.Errorf("get active facts snapshot: %w", err)
	}
	if snap == nil || !snap.Valid {
		return "", nil
	}
	return RenderFactsContext(&snap.Facts), nil
}

// RenderFactsContext renders structured facts into deterministic
// line-oriented text for prompting.
func RenderFactsContext(f *domain.ProductFacts) string {
	var lines []string
	add := func(label string, values []string) {
		if len(values) > 0 {
			lines = append(lines, label+": "+strings.Join(values, ", "))
		}
	}

	if f.Identity.Title != "" {
		lines = append(lines, "Title: "+f.Identity.Title)
	}
	if f.Identity.Brand != "" {
		lines = append(lines, "Brand: "+f.Identity.Brand)
	}
	if f.Identity.Category != "" {
		lines = append(lines, "Category: "+f.Identity.Category)
	}
	if f.Identity.VolumeValue != nil {
		lines = append(lines, fmt.Sprintf("Volume: %g %s", *f.Identity.VolumeValue, f.Identity.VolumeUnit))
	}
	add("Skin types", f.SkinTypes)
	add("Key ingredients", f.KeyIngredients)
	add("Other ingredients", f.OtherIngredients)
	add("Benefits", f.Benefits)
	if len(f.UsageSteps) > 0 {
		lines = append(lines, "Usage:")
		for i, step := range f.UsageSteps {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, step))
		}
	}
	if f.UsageFrequency != "" {
		lines = append(lines, "Frequency: "+f.UsageFrequency)
	}
	add("Warnings", f.Warnings)
	add("Claims", f.Claims)
	if len(f.Evidence) > 0 {
		lines = append(lines, "Evidence:")
		for _, q := range f.Evidence {
			line := `- "` + q.Quote + `"`
			if q.FactKey != "" {
				line += " (" + q.FactKey + ")"
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
