package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoprag/internal/config"
	"shoprag/internal/domain"
)

type fakeChat struct {
	reply string
	err   error
	calls int
}

func (f *fakeChat) Complete(_ context.Context, _ domain.ChatRequest) (domain.ChatResponse, error) {
	f.calls++
	if f.err != nil {
		return domain.ChatResponse{}, f.err
	}
	return domain.ChatResponse{Content: f.reply, Usage: domain.TokenUsage{PromptTokens: 10, CompletionTokens: 5}}, nil
}

type captureRecorder struct{ events []domain.UsageEvent }

func (c *captureRecorder) Record(_ context.Context, e domain.UsageEvent) {
	c.events = append(c.events, e)
}

func newService(chat domain.ChatClient) *Service {
	return NewService(chat, config.NewFlagCache(time.Minute), nil, zerolog.Nop())
}

func TestTranslateSnapshotSameLanguageNoOp(t *testing.T) {
	chat := &fakeChat{}
	svc := newService(chat)

	snap := domain.ProductSnapshot{Title: "Serum"}
	out, err := svc.TranslateProductSnapshot(context.Background(), "shop-1", snap, "hu-HU", "hu")
	require.NoError(t, err)
	assert.Equal(t, snap, out)
	assert.Zero(t, chat.calls)
}

func TestTranslateSnapshot(t *testing.T) {
	chat := &fakeChat{reply: "```json\n" + `{"title":"Nyugtató Szérum","description_html":"<p>Éjszaka használd.</p>","specs_json":{"volume":"30 ml"},"faq_json":[{"question":"Vegán?","answer":"Igen."}]}` + "\n```"}
	svc := newService(chat)

	snap := domain.ProductSnapshot{
		Title:           "Calming Serum",
		DescriptionHTML: "<p>Apply nightly.</p>",
		Specs:           map[string]string{"volume": "30 ml"},
		FAQ:             []domain.FAQEntry{{Question: "Vegan?", Answer: "Yes."}},
	}
	out, err := svc.TranslateProductSnapshot(context.Background(), "shop-1", snap, "en", "hu")
	require.NoError(t, err)
	assert.Equal(t, "Nyugtató Szérum", out.Title)
	assert.Equal(t, "<p>Éjszaka használd.</p>", out.DescriptionHTML)
	assert.Equal(t, "30 ml", out.Specs["volume"])
	require.Len(t, out.FAQ, 1)
	assert.Equal(t, "Vegán?", out.FAQ[0].Question)
}

func TestTranslateSnapshotPartialFieldFallback(t *testing.T) {
	// specs_json has the wrong type; only that field keeps the original.
	chat := &fakeChat{reply: `{"title":"Nyugtató Szérum","description_html":42,"specs_json":"oops","faq_json":[]}`}
	svc := newService(chat)

	snap := domain.ProductSnapshot{
		Title:           "Calming Serum",
		DescriptionHTML: "<p>Apply nightly.</p>",
		Specs:           map[string]string{"volume": "30 ml"},
	}
	out, err := svc.TranslateProductSnapshot(context.Background(), "shop-1", snap, "en", "hu")
	require.NoError(t, err)
	assert.Equal(t, "Nyugtató Szérum", out.Title)
	assert.Equal(t, "<p>Apply nightly.</p>", out.DescriptionHTML)
	assert.Equal(t, map[string]string{"volume": "30 ml"}, out.Specs)
}

func TestTranslateSnapshotUnparseableKeepsOriginal(t *testing.T) {
	chat := &fakeChat{reply: "sorry, I cannot help with that"}
	svc := newService(chat)

	snap := domain.ProductSnapshot{Title: "Calming Serum"}
	out, err := svc.TranslateProductSnapshot(context.Background(), "shop-1", snap, "en", "hu")
	require.NoError(t, err)
	assert.Equal(t, snap, out)
}

func TestTranslateSnapshotAPIError(t *testing.T) {
	svc := newService(&fakeChat{err: errors.New("rate limited")})
	snap := domain.ProductSnapshot{Title: "Calming Serum"}
	_, err := svc.TranslateProductSnapshot(context.Background(), "shop-1", snap, "en", "hu")
	assert.Error(t, err)
}

func TestTranslateTextNoOps(t *testing.T) {
	chat := &fakeChat{}
	svc := newService(chat)

	out, err := svc.TranslateText(context.Background(), "shop-1", "", "en", "hu")
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = svc.TranslateText(context.Background(), "shop-1", "hello", "en", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Zero(t, chat.calls)
}

func TestTranslateTextEmptyResponseFallsBack(t *testing.T) {
	svc := newService(&fakeChat{reply: "   "})
	out, err := svc.TranslateText(context.Background(), "shop-1", "hello", "en", "hu")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestTranslateText(t *testing.T) {
	svc := newService(&fakeChat{reply: "szia"})
	out, err := svc.TranslateText(context.Background(), "shop-1", "hello", "en", "hu")
	require.NoError(t, err)
	assert.Equal(t, "szia", out)
}

func TestTranslateRecordsUsagePerShop(t *testing.T) {
	rec := &captureRecorder{}
	svc := NewService(&fakeChat{reply: "szia"}, config.NewFlagCache(time.Minute), rec, zerolog.Nop())

	_, err := svc.TranslateText(context.Background(), "shop-1", "hello", "en", "hu")
	require.NoError(t, err)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "shop-1", rec.events[0].ShopID)
	assert.Equal(t, "translation", rec.events[0].Stage)
	assert.Equal(t, 10, rec.events[0].PromptTokens)
}
