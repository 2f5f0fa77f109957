package memory

import (
	"context"
	"sort"
	"sync"

	"shoprag/internal/domain"
)

// Store is an in-memory implementation of every repository interface, using
// brute-force cosine similarity for search. It backs tests and the CLI demo
// path; Postgres is the production store.
type Store struct {
	mu         sync.RWMutex
	settings   map[string]domain.ShopSettings
	products   map[string]domain.Product
	i18n       map[string]domain.ProductI18n
	embeddings map[string]domain.ProductEmbedding
	facts      []domain.ProductFactsSnapshot
	events     []domain.UsageEvent
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		settings:   make(map[string]domain.ShopSettings),
		products:   make(map[string]domain.Product),
		i18n:       make(map[string]domain.ProductI18n),
		embeddings: make(map[string]domain.ProductEmbedding),
	}
}

func key(parts ...string) string {
	k := parts[0]
	for _, p := range parts[1:] {
		k += "\x00" + p
	}
	return k
}

// --- domain.ShopSettingsRepository ---

func (s *Store) Get(_ context.Context, shopID string) (*domain.ShopSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.settings[shopID]; ok {
		cp := st
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) Create(_ context.Context, settings *domain.ShopSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.ShopID] = *settings
	return nil
}

// --- domain.ProductRepository ---

// PutProduct seeds a product row.
func (s *Store) PutProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[key(p.ShopID, p.ID)] = p
}

func (s *Store) GetProduct(_ context.Context, shopID, productID string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.products[key(shopID, productID)]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

// Products adapts the store to domain.ProductRepository.
func (s *Store) Products() domain.ProductRepository { return productRepo{s} }

type productRepo struct{ s *Store }

func (r productRepo) Get(ctx context.Context, shopID, productID string) (*domain.Product, error) {
	return r.s.GetProduct(ctx, shopID, productID)
}

// --- domain.ProductI18nRepository ---

func (s *Store) I18n() domain.ProductI18nRepository { return i18nRepo{s} }

type i18nRepo struct{ s *Store }

func (r i18nRepo) Get(_ context.Context, shopID, productID, lang string) (*domain.ProductI18n, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.i18n[key(shopID, productID, lang)]; ok {
		cp := row
		return &cp, nil
	}
	return nil, nil
}

func (r i18nRepo) ListByLangs(_ context.Context, shopID, productID string, langs []string) ([]domain.ProductI18n, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.ProductI18n
	for _, lang := range langs {
		if row, ok := r.s.i18n[key(shopID, productID, lang)]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r i18nRepo) ListByProducts(_ context.Context, shopID string, productIDs []string, lang string) ([]domain.ProductI18n, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.ProductI18n
	for _, id := range productIDs {
		if row, ok := r.s.i18n[key(shopID, id, lang)]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r i18nRepo) Upsert(_ context.Context, row domain.ProductI18n) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.i18n[key(row.ShopID, row.ProductID, row.Lang)] = row
	return nil
}

// LockI18nRow flips the locked flag on an existing row (test helper; in
// production this is a dashboard action).
func (s *Store) LockI18nRow(shopID, productID, lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(shopID, productID, lang)
	if row, ok := s.i18n[k]; ok {
		row.Locked = true
		s.i18n[k] = row
	}
}

// --- domain.ProductEmbeddingRepository ---

func (s *Store) Embeddings() domain.ProductEmbeddingRepository { return embeddingRepo{s} }

type embeddingRepo struct{ s *Store }

func (r embeddingRepo) Upsert(_ context.Context, row domain.ProductEmbedding) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.embeddings[key(row.ShopID, row.ProductID, row.Lang, row.Model)] = row
	return nil
}

func (r embeddingRepo) GetMeta(_ context.Context, shopID, productID, lang, model string) (string, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.embeddings[key(shopID, productID, lang, model)]; ok {
		return row.ContentHash, true, nil
	}
	return "", false, nil
}

func (r embeddingRepo) Search(_ context.Context, q domain.SearchQuery) ([]domain.RetrievedProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var hits []domain.RetrievedProduct
	for _, row := range r.s.embeddings {
		if row.ShopID != q.ShopID || row.Lang != q.Lang || row.Model != q.Model {
			continue
		}
		sim := cosine(row.Vector, q.Vector)
		hit := domain.RetrievedProduct{
			ProductID:  row.ProductID,
			Similarity: sim,
			Distance:   1 - sim,
		}
		if p, ok := r.s.products[key(q.ShopID, row.ProductID)]; ok {
			hit.Name = p.Name
		}
		if i18nRow, ok := r.s.i18n[key(q.ShopID, row.ProductID, q.Lang)]; ok {
			hit.Title = i18nRow.Snapshot.Title
			hit.DescriptionHTML = i18nRow.Snapshot.DescriptionHTML
		}
		hits = append(hits, hit)
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if q.MatchCount > 0 && len(hits) > q.MatchCount {
		hits = hits[:q.MatchCount]
	}
	return hits, nil
}

// --- domain.ProductFactsRepository ---

func (s *Store) Facts() domain.ProductFactsRepository { return factsRepo{s} }

type factsRepo struct{ s *Store }

func (r factsRepo) Insert(_ context.Context, snap *domain.ProductFactsSnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.facts {
		prior := &r.s.facts[i]
		if prior.MerchantID == snap.MerchantID && prior.ProductID == snap.ProductID {
			prior.Active = false
		}
	}
	r.s.facts = append(r.s.facts, *snap)
	return nil
}

func (r factsRepo) GetActive(_ context.Context, merchantID, productID string) (*domain.ProductFactsSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := len(r.s.facts) - 1; i >= 0; i-- {
		snap := r.s.facts[i]
		if snap.MerchantID == merchantID && snap.ProductID == productID && snap.Active {
			return &snap, nil
		}
	}
	return nil, nil
}

// FactsHistory returns every stored snapshot for a product, oldest first.
func (s *Store) FactsHistory(merchantID, productID string) []domain.ProductFactsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ProductFactsSnapshot
	for _, snap := range s.facts {
		if snap.MerchantID == merchantID && snap.ProductID == productID {
			out = append(out, snap)
		}
	}
	return out
}

// --- domain.UsageRecorder ---

func (s *Store) Record(_ context.Context, e domain.UsageEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// UsageEvents returns all recorded events.
func (s *Store) UsageEvents() []domain.UsageEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UsageEvent, len(s.events))
	copy(out, s.events)
	return out
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (sqrt(na) * sqrt(nb))
}

func sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 8; i++ {
		z = 0.5 * (z + x/z)
	}
	return z
}
