package usage

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shoprag/internal/domain"
)

// Pipeline stages tagged on usage events.
const (
	StageEmbedding       = "embedding"
	StageTranslation     = "translation"
	StageAnswer          = "answer"
	StageFactsExtraction = "facts_extraction"
	StageFactsSummary    = "facts_summary"
)

// Per-1M-token prices in USD. Unknown models cost zero rather than failing;
// accounting must never break the calling path.
var pricePerMillion = map[string]struct{ in, out float64 }{
	"gpt-4o":                 {2.50, 10.00},
	"gpt-4o-mini":            {0.15, 0.60},
	"text-embedding-3-small": {0.02, 0},
	"text-embedding-3-large": {0.13, 0},
}

// EstimateCost returns the estimated USD cost of a model call.
func EstimateCost(model string, u domain.TokenUsage) float64 {
	p, ok := pricePerMillion[model]
	if !ok {
		return 0
	}
	return (float64(u.PromptTokens)*p.in + float64(u.CompletionTokens)*p.out) / 1e6
}

// NewEvent builds a usage event for one model call.
func NewEvent(shopID, stage, model string, u domain.TokenUsage) domain.UsageEvent {
	return domain.UsageEvent{
		ShopID:           shopID,
		Stage:            stage,
		Model:            model,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		EstimatedCost:    EstimateCost(model, u),
		OccurredAt:       time.Now().UTC(),
	}
}

// LogRecorder writes usage events to the structured log. It is the default
// recorder when no persistent one is wired.
type LogRecorder struct {
	log zerolog.Logger
}

// NewLogRecorder creates a recorder that logs events at debug level.
func NewLogRecorder(log zerolog.Logger) *LogRecorder {
	return &LogRecorder{log: log}
}

// Record implements domain.UsageRecorder.
func (r *LogRecorder) Record(_ context.Context, e domain.UsageEvent) {
	r.log.Debug().
		Str("shop_id", e.ShopID).
		Str("stage", e.Stage).
		Str("model", e.Model).
		Int("prompt_tokens", e.PromptTokens).
		Int("completion_tokens", e.CompletionTokens).
		Float64("estimated_cost", e.EstimatedCost).
		Msg("ai usage")
}

// Nop discards all events.
type Nop struct{}

// Record implements domain.UsageRecorder.
func (Nop) Record(context.Context, domain.UsageEvent) {}
