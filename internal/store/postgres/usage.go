package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shoprag/internal/domain"
)

// UsageRepo implements domain.UsageRecorder. Recording is best effort:
// failures are logged, never propagated; accounting must not break the
// user-facing path.
type UsageRepo struct {
	s   *Store
	log zerolog.Logger
}

// Usage returns the usage event recorder.
func (s *Store) Usage(log zerolog.Logger) *UsageRepo { return &UsageRepo{s: s, log: log} }

func (r *UsageRepo) Record(ctx context.Context, e domain.UsageEvent) {
	const q = `
		INSERT INTO ai_usage_events
			(id, shop_id, stage, model, prompt_tokens, completion_tokens, estimated_cost, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.s.pool.Exec(ctx, q,
		uuid.NewString(), e.ShopID, e.Stage, e.Model,
		e.PromptTokens, e.CompletionTokens, e.EstimatedCost, e.OccurredAt,
	)
	if err != nil {
		r.log.Warn().Err(err).Str("stage", e.Stage).Msg("failed to record usage event")
	}
}
