package settings

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoprag/internal/domain"
	"shoprag/internal/store/memory"
)

func TestGetOrCreateInfersLanguageFromSeed(t *testing.T) {
	svc := NewService(memory.NewStore(), zerolog.Nop())

	st, err := svc.GetOrCreate(context.Background(), "shop-1", "Bőrnyugtató szérum érzékeny bőrre")
	require.NoError(t, err)
	assert.Equal(t, "hu", st.DefaultLang)
	assert.Equal(t, []string{"hu"}, st.EnabledLangs)
	assert.False(t, st.MultiLangRAGEnabled)
}

func TestGetOrCreateDefaultsToEnglishWithoutSeed(t *testing.T) {
	svc := NewService(memory.NewStore(), zerolog.Nop())
	st, err := svc.GetOrCreate(context.Background(), "shop-1", "")
	require.NoError(t, err)
	assert.Equal(t, "en", st.DefaultLang)
}

func TestGetOrCreateIsReadThrough(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, zerolog.Nop())

	first, err := svc.GetOrCreate(context.Background(), "shop-1", "Bőrnyugtató szérum érzékeny bőrre")
	require.NoError(t, err)

	// A later call with a different seed must not re-detect.
	second, err := svc.GetOrCreate(context.Background(), "shop-1", "English text now")
	require.NoError(t, err)
	assert.Equal(t, first.DefaultLang, second.DefaultLang)
}

func TestLangsFor(t *testing.T) {
	st := &domain.ShopSettings{
		DefaultLang:  "hu",
		EnabledLangs: []string{"tr", "hu-HU", "en", "tr"},
	}
	assert.Equal(t, []string{"hu", "tr", "en"}, LangsFor(st))
}
