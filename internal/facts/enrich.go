package facts

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"shoprag/internal/config"
	"shoprag/internal/domain"
	"shoprag/internal/usage"
)

const extractionSystemPrompt = `You extract structured product facts from raw product text.
Respond with JSON only, exactly this shape:
{
  "identity": {"title": "", "brand": "", "category": "", "volume_value": 0, "volume_unit": ""},
  "skin_types": [],
  "key_ingredients": [],
  "other_ingredients": [],
  "benefits": [],
  "usage_steps": [],
  "usage_frequency": "",
  "warnings": [],
  "claims": [],
  "unknowns": [],
  "evidence": [{"quote": "", "fact_key": ""}]
}
Rules:
- Only state facts present in the text; put anything uncertain into "unknowns".
- Omit "volume_value" entirely when the text states no volume.
- Each evidence quote must be a literal substring of the input text.`

const summarySystemPrompt = `You summarize raw product text into a short, keyword-rich paragraph
suitable as retrieval context. Keep every concrete fact (sizes, ingredients,
usage, warnings); do not invent anything. Respond with the summary only.`

// Enricher runs the three-tier product enrichment state machine:
// structured_facts, then summary_fallback, then raw_fallback. It always
// produces usable context; only the quality degrades.
type Enricher struct {
	chat     domain.ChatClient
	flags    *config.FlagCache
	recorder domain.UsageRecorder
	log      zerolog.Logger
}

// NewEnricher creates a product facts enricher.
func NewEnricher(chat domain.ChatClient, flags *config.FlagCache, recorder domain.UsageRecorder, log zerolog.Logger) *Enricher {
	if recorder == nil {
		recorder = usage.Nop{}
	}
	return &Enricher{chat: chat, flags: flags, recorder: recorder, log: log}
}

// EnrichProductDataDetailed extracts structured facts from rawText, falling
// back to a free-form summary on parse or validation failure and to the raw
// text when the API itself fails. Every model call emits a usage event,
// whether or not its output wins.
func (e *Enricher) EnrichProductDataDetailed(ctx context.Context, merchantID, productID, rawText string) *domain.EnrichmentResult {
	model := e.flags.Get().CompletionModel

	resp, err := e.chat.Complete(ctx, domain.ChatRequest{
		Model:       model,
		Temperature: 0,
		Messages: []domain.ChatMessage{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: rawText},
		},
	})
	if err != nil {
		// Network/auth/rate-limit: degrade to no enrichment rather than
		// fail the caller.
		e.log.Warn().Err(err).Str("merchant_id", merchantID).Str("product_id", productID).Msg("facts extraction call failed, using raw text")
		return &domain.EnrichmentResult{Mode: domain.EnrichmentRawFallback, Text: rawText}
	}
	e.recorder.Record(ctx, usage.NewEvent(merchantID, usage.StageFactsExtraction, model, resp.Usage))

	parsed, parseErr := ParseFacts(resp.Content)
	if parseErr != nil {
		e.log.Warn().Err(parseErr).Str("merchant_id", merchantID).Str("product_id", productID).Msg("facts response unparseable, trying summary fallback")
		return e.summarize(ctx, merchantID, productID, rawText, nil, nil)
	}

	if validationErrors := ValidateFacts(parsed); len(validationErrors) > 0 {
		e.log.Warn().
			Strs("validation_errors", validationErrors).
			Str("merchant_id", merchantID).
			Str("product_id", productID).
			Msg("facts failed business validation, trying summary fallback")
		return e.summarize(ctx, merchantID, productID, rawText, parsed, validationErrors)
	}

	return &domain.EnrichmentResult{
		Mode:  domain.EnrichmentStructuredFacts,
		Text:  RenderFactsContext(parsed),
		Facts: parsed,
	}
}

// summarize is the second tier. invalidFacts and validationErrors carry the
// failed structured attempt through for audit persistence.
func (e *Enricher) summarize(ctx context.Context, merchantID, productID, rawText string, invalidFacts *domain.ProductFacts, validationErrors []string) *domain.EnrichmentResult {
	model := e.flags.Get().CompletionModel
	resp, err := e.chat.Complete(ctx, domain.ChatRequest{
		Model:       model,
		Temperature: 0.3,
		Messages: []domain.ChatMessage{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: rawText},
		},
	})
	if err != nil {
		e.log.Warn().Err(err).Str("merchant_id", merchantID).Str("product_id", productID).Msg("summary fallback call failed, using raw text")
		return &domain.EnrichmentResult{
			Mode:             domain.EnrichmentRawFallback,
			Text:             rawText,
			Facts:            invalidFacts,
			ValidationErrors: validationErrors,
		}
	}
	e.recorder.Record(ctx, usage.NewEvent(merchantID, usage.StageFactsSummary, model, resp.Usage))

	summary := strings.TrimSpace(resp.Content)
	if summary == "" {
		summary = rawText
	}
	return &domain.EnrichmentResult{
		Mode:             domain.EnrichmentSummaryFallback,
		Text:             summary,
		Facts:            invalidFacts,
		ValidationErrors: validationErrors,
	}
}
