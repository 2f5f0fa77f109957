package facts

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoprag/internal/domain"
	"shoprag/internal/store/memory"
)

func validFacts() *domain.ProductFacts {
	v := 30.0
	return &domain.ProductFacts{
		Identity: domain.FactsIdentity{
			Title:       "Calming Serum",
			Brand:       "Dermalab",
			VolumeValue: &v,
			VolumeUnit:  "ml",
		},
		KeyIngredients: []string{"panthenol"},
	}
}

func TestPersistProductFactsSnapshot(t *testing.T) {
	mem := memory.NewStore()
	store := NewStore(mem.Facts(), zerolog.Nop())
	ctx := context.Background()

	snap, err := store.PersistProductFactsSnapshot(ctx, "m1", "p1", &domain.EnrichmentResult{
		Mode:  domain.EnrichmentStructuredFacts,
		Facts: validFacts(),
	})
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.NotEmpty(t, snap.ID)
	assert.True(t, snap.Valid)
	assert.True(t, snap.Active)
	assert.Equal(t, SchemaVersion, snap.SchemaVersion)
}

func TestPersistNothingWithoutFacts(t *testing.T) {
	store := NewStore(memory.NewStore().Facts(), zerolog.Nop())

	snap, err := store.PersistProductFactsSnapshot(context.Background(), "m1", "p1", &domain.EnrichmentResult{
		Mode: domain.EnrichmentRawFallback,
		Text: "raw text",
	})
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestPersistMovesActivePointer(t *testing.T) {
	mem := memory.NewStore()
	store := NewStore(mem.Facts(), zerolog.Nop())
	ctx := context.Background()

	first, err := store.PersistProductFactsSnapshot(ctx, "m1", "p1", &domain.EnrichmentResult{
		Mode:  domain.EnrichmentStructuredFacts,
		Facts: validFacts(),
	})
	require.NoError(t, err)

	updated := validFacts()
	updated.Identity.Title = "Calming Serum v2"
	second, err := store.PersistProductFactsSnapshot(ctx, "m1", "p1", &domain.EnrichmentResult{
		Mode:  domain.EnrichmentStructuredFacts,
		Facts: updated,
	})
	require.NoError(t, err)

	active, err := mem.Facts().GetActive(ctx, "m1", "p1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	history := mem.FactsHistory("m1", "p1")
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].ID)
	assert.False(t, history[0].Active, "prior snapshot is deactivated, not deleted")
}

func TestPersistInvalidSnapshotForAudit(t *testing.T) {
	mem := memory.NewStore()
	store := NewStore(mem.Facts(), zerolog.Nop())
	ctx := context.Background()

	invalid := validFacts()
	invalid.Identity.Title = ""
	snap, err := store.PersistProductFactsSnapshot(ctx, "m1", "p1", &domain.EnrichmentResult{
		Mode:             domain.EnrichmentSummaryFallback,
		Facts:            invalid,
		ValidationErrors: []string{"identity.title is empty"},
	})
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.False(t, snap.Valid)
	assert.Equal(t, []string{"identity.title is empty"}, snap.ValidationErrors)

	// Invalid snapshots never serve as context.
	text, err := store.GetActiveProductFactsContext(ctx, "m1", "p1")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGetActiveProductFactsContext(t *testing.T) {
	mem := memory.NewStore()
	store := NewStore(mem.Facts(), zerolog.Nop())
	ctx := context.Background()

	text, err := store.GetActiveProductFactsContext(ctx, "m1", "p1")
	require.NoError(t, err)
	assert.Empty(t, text, "no snapshot yet")

	_, err = store.PersistProductFactsSnapshot(ctx, "m1", "p1", &domain.EnrichmentResult{
		Mode:  domain.EnrichmentStructuredFacts,
		Facts: validFacts(),
	})
	require.NoError(t, err)

	text, err = store.GetActiveProductFactsContext(ctx, "m1", "p1")
	require.NoError(t, err)
	assert.Contains(t, text, "Title: Calming Serum")
	assert.Contains(t, text, "Volume: 30 ml")

	// Tenant scoping: another merchant sees nothing.
	text, err = store.GetActiveProductFactsContext(ctx, "m2", "p1")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestValidateFacts(t *testing.T) {
	assert.Empty(t, ValidateFacts(validFacts()))

	missingTitle := validFacts()
	missingTitle.Identity.Title = "  "
	errs := ValidateFacts(missingTitle)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "identity.title")

	zeroVolume := validFacts()
	*zeroVolume.Identity.VolumeValue = 0
	errs = ValidateFacts(zeroVolume)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "volume_value")

	// Absent volume is fine; only an explicit non-positive one fails.
	noVolume := validFacts()
	noVolume.Identity.VolumeValue = nil
	noVolume.Identity.VolumeUnit = ""
	assert.Empty(t, ValidateFacts(noVolume))

	badUnit := validFacts()
	badUnit.Identity.VolumeUnit = "gallons"
	errs = ValidateFacts(badUnit)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "volume_unit")
}

func TestParseFacts(t *testing.T) {
	f, err := ParseFacts("Here you go:\n```json\n" + `{"identity":{"title":"Serum","volume_value":30,"volume_unit":"ml"}}` + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Serum", f.Identity.Title)
	require.NotNil(t, f.Identity.VolumeValue)
	assert.Equal(t, 30.0, *f.Identity.VolumeValue)

	noVolume, err := ParseFacts(`{"identity":{"title":"Serum"}}`)
	require.NoError(t, err)
	assert.Nil(t, noVolume.Identity.VolumeValue, "omitted volume stays absent, not zero")

	_, err = ParseFacts("no json here")
	assert.Error(t, err)
}
