package domain

import (
	"context"
	"errors"
)

// ErrUnsupportedModel indicates a model name with no known embedding
// dimension. This is a deployment defect, not a runtime condition.
var ErrUnsupportedModel = errors.New("unsupported embedding model")

// ErrDimensionMismatch indicates the embedding backend returned a vector of
// the wrong length. A wrong-dimension vector would corrupt similarity
// search, so callers must abort rather than store it.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// ChatMessage is a single chat-completion message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a chat-completion call.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

// ChatResponse carries the completion text and token accounting.
// The contract is "plain text that is usually valid or fenced JSON";
// callers parse defensively.
type ChatResponse struct {
	Content string
	Usage   TokenUsage
}

// ChatClient issues chat completions.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// EmbeddingClient converts text into a vector using the named model.
type EmbeddingClient interface {
	Embed(ctx context.Context, text, model string) ([]float32, TokenUsage, error)
}

// TextEmbedder is the embedding surface the retrieval services consume:
// the model is resolved from runtime flags, the dimension is validated.
// shopID attributes the call's usage to a tenant.
type TextEmbedder interface {
	EmbedText(ctx context.Context, shopID, text string) ([]float32, error)
	Model() string
}

// Translator translates product snapshots and free text between languages.
// Implementations must preserve brand names, SKUs, numbers, units, URLs and
// HTML tags, and fall back to the input on partial failures. shopID
// attributes the call's usage to a tenant.
type Translator interface {
	TranslateProductSnapshot(ctx context.Context, shopID string, snap ProductSnapshot, sourceLang, targetLang string) (ProductSnapshot, error)
	TranslateText(ctx context.Context, shopID, text, sourceLang, targetLang string) (string, error)
}

// ShopSettingsRepository stores per-shop settings keyed by shop ID.
// Get returns (nil, nil) on miss.
type ShopSettingsRepository interface {
	Get(ctx context.Context, shopID string) (*ShopSettings, error)
	Create(ctx context.Context, settings *ShopSettings) error
}

// ProductRepository is the read side of the source-of-truth product store.
// Get returns (nil, nil) on miss.
type ProductRepository interface {
	Get(ctx context.Context, shopID, productID string) (*Product, error)
}

// ProductI18nRepository stores translated snapshots keyed by
// (shop, product, lang). Get returns (nil, nil) on miss.
type ProductI18nRepository interface {
	Get(ctx context.Context, shopID, productID, lang string) (*ProductI18n, error)
	ListByLangs(ctx context.Context, shopID, productID string, langs []string) ([]ProductI18n, error)
	ListByProducts(ctx context.Context, shopID string, productIDs []string, lang string) ([]ProductI18n, error)
	Upsert(ctx context.Context, row ProductI18n) error
}

// ProductEmbeddingRepository stores vectors keyed by
// (shop, product, lang, model) and serves similarity search scoped to the
// same shop and language. GetMeta returns ok=false on miss.
type ProductEmbeddingRepository interface {
	Upsert(ctx context.Context, row ProductEmbedding) error
	GetMeta(ctx context.Context, shopID, productID, lang, model string) (contentHash string, ok bool, err error)
	Search(ctx context.Context, q SearchQuery) ([]RetrievedProduct, error)
}

// ProductFactsRepository stores facts snapshots. Insert must deactivate the
// prior active row for the same (merchant, product) atomically.
// GetActive returns (nil, nil) on miss.
type ProductFactsRepository interface {
	Insert(ctx context.Context, snap *ProductFactsSnapshot) error
	GetActive(ctx context.Context, merchantID, productID string) (*ProductFactsSnapshot, error)
}

// UsageRecorder records AI usage events. Recording is best effort:
// implementations log failures and never propagate them.
type UsageRecorder interface {
	Record(ctx context.Context, event UsageEvent)
}
