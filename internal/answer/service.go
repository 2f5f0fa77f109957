package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shoprag/internal/config"
	"shoprag/internal/domain"
	"shoprag/internal/settings"
	"shoprag/internal/textutil"
	"shoprag/internal/usage"
	"shoprag/internal/vectorsearch"
)

// Request is one customer question scoped to a shop.
type Request struct {
	ShopID   string
	Question string
	UserLang string
}

// Service answers customer questions from retrieved product evidence.
// Retrieval runs in the user's language first and falls back to the shop's
// source language when the in-language evidence is weak; new products are
// translated asynchronously and may not yet have a target-language
// embedding, so the source language is the retrieval floor.
type Service struct {
	settings   *settings.Service
	vectors    *vectorsearch.Service
	embedder   domain.TextEmbedder
	translator domain.Translator
	chat       domain.ChatClient
	flags      *config.FlagCache
	recorder   domain.UsageRecorder
	matchCount int
	log        zerolog.Logger
}

// NewService creates an answer service. matchCount caps retrieval size.
func NewService(
	settingsSvc *settings.Service,
	vectors *vectorsearch.Service,
	embedder domain.TextEmbedder,
	translator domain.Translator,
	chat domain.ChatClient,
	flags *config.FlagCache,
	recorder domain.UsageRecorder,
	matchCount int,
	log zerolog.Logger,
) *Service {
	if recorder == nil {
		recorder = usage.Nop{}
	}
	if matchCount <= 0 {
		matchCount = 5
	}
	return &Service{
		settings:   settingsSvc,
		vectors:    vectors,
		embedder:   embedder,
		translator: translator,
		chat:       chat,
		flags:      flags,
		recorder:   recorder,
		matchCount: matchCount,
		log:        log,
	}
}

// Answer retrieves evidence for the question and generates a grounded
// answer in the user's language. Internal failures are not swallowed here;
// shadow-read callers comparing this path against the legacy one wrap it in
// their own recovery.
func (s *Service) Answer(ctx context.Context, req Request) (*domain.AnswerResult, error) {
	start := time.Now()
	userLang := textutil.NormalizeLangCode(req.UserLang)
	flags := s.flags.Get()

	queryVector, err := s.embedder.EmbedText(ctx, req.ShopID, req.Question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	evidence, err := s.vectors.SearchByLanguage(ctx, domain.SearchQuery{
		ShopID:     req.ShopID,
		Lang:       userLang,
		Model:      s.embedder.Model(),
		Vector:     queryVector,
		MatchCount: s.matchCount,
	})
	if err != nil {
		return nil, fmt.Errorf("search evidence: %w", err)
	}

	usedFallback := false
	fallbackLang := ""
	if weakEvidence(evidence, flags.MinSimilarity) {
		shopSettings, err := s.settings.GetOrCreate(ctx, req.ShopID, "")
		if err != nil {
			return nil, fmt.Errorf("resolve shop settings: %w", err)
		}
		sourceLang := textutil.NormalizeLangCode(shopSettings.DefaultLang)
		if sourceLang != userLang {
			sourceEvidence, err := s.vectors.SearchByLanguage(ctx, domain.SearchQuery{
				ShopID:     req.ShopID,
				Lang:       sourceLang,
				Model:      s.embedder.Model(),
				Vector:     queryVector,
				MatchCount: s.matchCount,
			})
			if err != nil {
				return nil, fmt.Errorf("search fallback evidence: %w", err)
			}
			if !weakEvidence(sourceEvidence, flags.MinSimilarity) {
				usedFallback = true
				fallbackLang = sourceLang
				evidence = s.translateEvidence(ctx, req.ShopID, sourceEvidence, sourceLang, userLang)
			}
		}
	}

	answerText, tokens, err := s.generate(ctx, req.Question, userLang, evidence, flags.CompletionModel)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	s.recorder.Record(ctx, usage.NewEvent(req.ShopID, usage.StageAnswer, flags.CompletionModel, tokens))

	return &domain.AnswerResult{
		Answer:        answerText,
		LangDetected:  userLang,
		UsedFallback:  usedFallback,
		FallbackLang:  fallbackLang,
		CitedProducts: citedProducts(evidence),
		LatencyMS:     time.Since(start).Milliseconds(),
	}, nil
}

// weakEvidence: nothing retrieved, or the best hit scores below threshold.
func weakEvidence(results []domain.RetrievedProduct, minSimilarity float64) bool {
	return len(results) == 0 || results[0].Similarity < minSimilarity
}

// translateEvidence brings source-language evidence into the user's
// language; the user must never see source-language text in a
// language-mismatched answer. Per-item translation failures keep the
// original text rather than dropping the hit.
func (s *Service) translateEvidence(ctx context.Context, shopID string, results []domain.RetrievedProduct, sourceLang, userLang string) []domain.RetrievedProduct {
	out := make([]domain.RetrievedProduct, len(results))
	for i, r := range results {
		translated := r
		if title, err := s.translator.TranslateText(ctx, shopID, r.Title, sourceLang, userLang); err == nil {
			translated.Title = title
		} else {
			s.log.Warn().Err(err).Str("product_id", r.ProductID).Msg("evidence title translation failed")
		}
		if desc, err := s.translator.TranslateText(ctx, shopID, textutil.StripHTML(r.DescriptionHTML), sourceLang, userLang); err == nil {
			translated.DescriptionHTML = desc
		} else {
			s.log.Warn().Err(err).Str("product_id", r.ProductID).Msg("evidence description translation failed")
		}
		out[i] = translated
	}
	return out
}

func (s *Service) generate(ctx context.Context, question, userLang string, evidence []domain.RetrievedProduct, model string) (string, domain.TokenUsage, error) {
	system := fmt.Sprintf(
		"You answer customer questions about products. Use ONLY the provided context. If the context is insufficient, say you don't know. Answer in %s.",
		userLang,
	)
	resp, err := s.chat.Complete(ctx, domain.ChatRequest{
		Model:       model,
		Temperature: 0.2,
		Messages: []domain.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: buildContext(evidence) + "\n\nQuestion: " + question},
		},
	})
	if err != nil {
		return "", domain.TokenUsage{}, err
	}
	return strings.TrimSpace(resp.Content), resp.Usage, nil
}

func buildContext(evidence []domain.RetrievedProduct) string {
	if len(evidence) == 0 {
		return "Context: (no matching products)"
	}
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, r := range evidence {
		b.WriteString(fmt.Sprintf("%d. Product: %s\n", i+1, r.Name))
		if t := textutil.CollapseWhitespace(r.Title); t != "" {
			b.WriteString("   Title: " + t + "\n")
		}
		if d := textutil.StripHTML(r.DescriptionHTML); d != "" {
			b.WriteString("   Description: " + textutil.Truncate(d, 800) + "\n")
		}
	}
	return b.String()
}

func citedProducts(evidence []domain.RetrievedProduct) []string {
	ids := make([]string, 0, len(evidence))
	seen := make(map[string]bool, len(evidence))
	for _, r := range evidence {
		if !seen[r.ProductID] {
			seen[r.ProductID] = true
			ids = append(ids, r.ProductID)
		}
	}
	return ids
}
