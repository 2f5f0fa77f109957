package domain

import "time"

// FAQEntry is a single question/answer pair attached to a product.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ProductSnapshot is the translatable unit of product content. It is never
// persisted on its own; it is what gets translated, hashed and rendered into
// an embedding document.
type ProductSnapshot struct {
	Title           string            `json:"title"`
	DescriptionHTML string            `json:"description_html"`
	Specs           map[string]string `json:"specs_json"`
	FAQ             []FAQEntry        `json:"faq_json"`
}

// Empty reports whether the snapshot carries no content at all.
func (s ProductSnapshot) Empty() bool {
	return s.Title == "" && s.DescriptionHTML == "" && len(s.Specs) == 0 && len(s.FAQ) == 0
}

// Product is the source-of-truth product row the pipeline derives everything
// from. EnrichedText is the output of the facts/enrichment pipeline, when any.
type Product struct {
	ShopID          string
	ID              string
	Name            string
	DescriptionHTML string
	Specs           map[string]string
	FAQ             []FAQEntry
	RawText         string
	EnrichedText    string
	Variants        []string
}

// SourceText returns the best available free text for this product:
// enriched text, else raw text, else the display name.
func (p Product) SourceText() string {
	if p.EnrichedText != "" {
		return p.EnrichedText
	}
	if p.RawText != "" {
		return p.RawText
	}
	return p.Name
}

// ShopSettings holds per-shop language configuration. Created lazily on
// first access; EnabledLangs always contains DefaultLang.
//
// MultiLangRAGEnabled is the per-shop cutover gate. The pipeline itself
// does not consult it: writes stay flag-gated globally and answers serve
// whoever calls them, so the serving integration that routes customer
// traffic between the legacy path and this one owns the check.
type ShopSettings struct {
	ShopID              string
	DefaultLang         string
	EnabledLangs        []string
	MultiLangRAGEnabled bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ProductI18n is one translated snapshot per (shop, product, lang).
// SourceHash is the hash of the source-language snapshot at translation
// time. A locked row is a manual override and is never overwritten.
type ProductI18n struct {
	ShopID     string
	ProductID  string
	Lang       string
	Snapshot   ProductSnapshot
	SourceLang string
	SourceHash string
	Locked     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductEmbedding is one vector per (shop, product, lang, model).
// ContentHash is the hash of the embedding document the vector was built
// from and gates re-embedding.
type ProductEmbedding struct {
	ShopID      string
	ProductID   string
	Lang        string
	Model       string
	Vector      []float32
	ContentHash string
	UpdatedAt   time.Time
}

// RetrievedProduct is a similarity search hit joined with display fields for
// the matched language. Similarity and Distance present the same underlying
// ranking (similarity = 1 - distance for cosine); callers pick a convention.
type RetrievedProduct struct {
	ProductID       string
	Name            string
	Title           string
	DescriptionHTML string
	Similarity      float64
	Distance        float64
}

// SearchQuery scopes a similarity search to one shop, language and model.
type SearchQuery struct {
	ShopID     string
	Lang       string
	Model      string
	Vector     []float32
	MatchCount int
}

// Skip reasons reported by UpsertTranslations.
const (
	SkipReasonLocked           = "locked"
	SkipReasonSameSourceHash   = "same_source_hash"
	SkipReasonTranslationError = "translation_error"
)

// UpsertOutcome is the per-language result of an i18n upsert pass.
type UpsertOutcome struct {
	Lang    string `json:"lang"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// AnswerResult is the response of the multi-language answer path.
type AnswerResult struct {
	Answer        string   `json:"answer"`
	LangDetected  string   `json:"lang_detected"`
	UsedFallback  bool     `json:"used_fallback"`
	FallbackLang  string   `json:"fallback_lang,omitempty"`
	CitedProducts []string `json:"cited_products"`
	LatencyMS     int64    `json:"latency_ms"`
}

// Enrichment modes, in order of preference.
const (
	EnrichmentStructuredFacts = "structured_facts"
	EnrichmentSummaryFallback = "summary_fallback"
	EnrichmentRawFallback     = "raw_fallback"
)

// FactsIdentity is the identity block of extracted product facts.
// VolumeValue is nil when the source text states no volume.
type FactsIdentity struct {
	Title       string   `json:"title"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	VolumeValue *float64 `json:"volume_value,omitempty"`
	VolumeUnit  string   `json:"volume_unit,omitempty"`
}

// EvidenceQuote anchors a fact to a literal quote from the source text.
type EvidenceQuote struct {
	Quote   string `json:"quote"`
	FactKey string `json:"fact_key,omitempty"`
}

// ProductFacts is the schema-constrained extraction result.
type ProductFacts struct {
	Identity         FactsIdentity   `json:"identity"`
	SkinTypes        []string        `json:"skin_types,omitempty"`
	KeyIngredients   []string        `json:"key_ingredients,omitempty"`
	OtherIngredients []string        `json:"other_ingredients,omitempty"`
	Benefits         []string        `json:"benefits,omitempty"`
	UsageSteps       []string        `json:"usage_steps,omitempty"`
	UsageFrequency   string          `json:"usage_frequency,omitempty"`
	Warnings         []string        `json:"warnings,omitempty"`
	Claims           []string        `json:"claims,omitempty"`
	Unknowns         []string        `json:"unknowns,omitempty"`
	Evidence         []EvidenceQuote `json:"evidence,omitempty"`
}

// ProductFactsSnapshot is an append-only facts row; at most one row per
// (merchant, product) is active at a time.
type ProductFactsSnapshot struct {
	ID               string
	MerchantID       string
	ProductID        string
	SchemaVersion    int
	Facts            ProductFacts
	Valid            bool
	ValidationErrors []string
	Active           bool
	CreatedAt        time.Time
}

// EnrichmentResult is the outcome of the three-tier enrichment pipeline.
// Text is always usable as RAG context regardless of Mode.
type EnrichmentResult struct {
	Mode             string
	Text             string
	Facts            *ProductFacts
	ValidationErrors []string
}

// TokenUsage is the token accounting a model call reports.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
}

// UsageEvent is one AI-usage accounting record. Every model call emits one,
// whether or not its output was ultimately used.
type UsageEvent struct {
	ShopID           string
	Stage            string
	Model            string
	PromptTokens     int
	CompletionTokens int
	EstimatedCost    float64
	OccurredAt       time.Time
}
