package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"shoprag/internal/config"
	"shoprag/internal/domain"
	"shoprag/internal/textutil"
	"shoprag/internal/usage"
)

const systemPrompt = `You are a professional e-commerce product translator.
Rules:
- Do NOT translate brand names, SKUs, model numbers, measurements, numbers, URLs, email addresses or code.
- Preserve all HTML tags exactly; translate only the text nodes between them.
- In specs_json, preserve the JSON keys exactly; translate only the values.
- Output JSON only, no commentary.`

// Service translates product snapshots and free text via chat completions.
// It implements domain.Translator.
type Service struct {
	chat     domain.ChatClient
	flags    *config.FlagCache
	recorder domain.UsageRecorder
	log      zerolog.Logger
}

// NewService creates a translation service.
func NewService(chat domain.ChatClient, flags *config.FlagCache, recorder domain.UsageRecorder, log zerolog.Logger) *Service {
	if recorder == nil {
		recorder = usage.Nop{}
	}
	return &Service{chat: chat, flags: flags, recorder: recorder, log: log}
}

// TranslateProductSnapshot translates a snapshot between languages. Same
// source and target is a no-op. The model reply is parsed leniently: a
// field that fails to parse keeps the original value.
func (s *Service) TranslateProductSnapshot(ctx context.Context, shopID string, snap domain.ProductSnapshot, sourceLang, targetLang string) (domain.ProductSnapshot, error) {
	src := textutil.NormalizeLangCode(sourceLang)
	tgt := textutil.NormalizeLangCode(targetLang)
	if src == tgt || snap.Empty() {
		return snap, nil
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return snap, fmt.Errorf("encode snapshot: %w", err)
	}
	user := fmt.Sprintf(
		"Translate this product content from %s to %s.\nRespond with exactly this JSON shape: {\"title\", \"description_html\", \"specs_json\", \"faq_json\"}.\n\n%s",
		src, tgt, payload,
	)

	resp, err := s.chat.Complete(ctx, domain.ChatRequest{
		Model:       s.flags.Get().CompletionModel,
		Temperature: 0,
		Messages: []domain.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return snap, fmt.Errorf("translate snapshot %s->%s: %w", src, tgt, err)
	}
	s.recorder.Record(ctx, usage.NewEvent(shopID, usage.StageTranslation, s.flags.Get().CompletionModel, resp.Usage))

	parsed, err := parseSnapshotResponse(resp.Content)
	if err != nil {
		s.log.Warn().Err(err).Str("source", src).Str("target", tgt).Msg("unparseable translation response, keeping original snapshot")
		return snap, nil
	}
	return applyParsed(snap, parsed), nil
}

// TranslateText translates a single piece of text. Empty input and same
// language are no-ops; a missing model response falls back to the input.
func (s *Service) TranslateText(ctx context.Context, shopID, text, sourceLang, targetLang string) (string, error) {
	src := textutil.NormalizeLangCode(sourceLang)
	tgt := textutil.NormalizeLangCode(targetLang)
	if strings.TrimSpace(text) == "" || src == tgt {
		return text, nil
	}

	user := fmt.Sprintf("Translate from %s to %s. Respond with the translation only.\n\n%s", src, tgt, text)
	resp, err := s.chat.Complete(ctx, domain.ChatRequest{
		Model:       s.flags.Get().CompletionModel,
		Temperature: 0,
		Messages: []domain.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return text, fmt.Errorf("translate text %s->%s: %w", src, tgt, err)
	}
	s.recorder.Record(ctx, usage.NewEvent(shopID, usage.StageTranslation, s.flags.Get().CompletionModel, resp.Usage))

	out := strings.TrimSpace(resp.Content)
	if out == "" {
		return text, nil
	}
	return out, nil
}
