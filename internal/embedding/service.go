package embedding

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"shoprag/internal/config"
	"shoprag/internal/domain"
	"shoprag/internal/usage"
)

// modelDimensions is the authoritative model→dimension table. A model
// missing here is a configuration defect and must fail hard.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
}

// Service wraps the embedding backend with model resolution from runtime
// flags and strict dimension validation.
type Service struct {
	client   domain.EmbeddingClient
	flags    *config.FlagCache
	recorder domain.UsageRecorder
	log      zerolog.Logger
}

// NewService creates an embedding service.
func NewService(client domain.EmbeddingClient, flags *config.FlagCache, recorder domain.UsageRecorder, log zerolog.Logger) *Service {
	if recorder == nil {
		recorder = usage.Nop{}
	}
	return &Service{client: client, flags: flags, recorder: recorder, log: log}
}

// Model returns the currently configured embedding model.
func (s *Service) Model() string {
	return s.flags.Get().EmbeddingModel
}

// Dimension returns the vector dimension for the configured model. Pure
// config lookup, no I/O.
func (s *Service) Dimension() (int, error) {
	return DimensionFor(s.Model())
}

// DimensionFor returns the vector dimension for a model name.
func DimensionFor(model string) (int, error) {
	dim, ok := modelDimensions[model]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnsupportedModel, model)
	}
	return dim, nil
}

// EmbedText embeds text with the configured model and validates the
// returned vector's length. A mismatched dimension aborts: storing a
// wrong-dimension vector is worse than storing none.
func (s *Service) EmbedText(ctx context.Context, shopID, text string) ([]float32, error) {
	model := s.Model()
	want, err := DimensionFor(model)
	if err != nil {
		return nil, err
	}
	vec, tokens, err := s.client.Embed(ctx, text, model)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	s.recorder.Record(ctx, usage.NewEvent(shopID, usage.StageEmbedding, model, tokens))
	if len(vec) != want {
		return nil, fmt.Errorf("%w: model %q returned %d, want %d", domain.ErrDimensionMismatch, model, len(vec), want)
	}
	return vec, nil
}
