package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"shoprag/internal/domain"
)

// EmbeddingRepo implements domain.ProductEmbeddingRepository over a
// pgvector column with cosine distance.
type EmbeddingRepo struct{ s *Store }

// Embeddings returns the product embedding repository.
func (s *Store) Embeddings() *EmbeddingRepo { return &EmbeddingRepo{s} }

func (r *EmbeddingRepo) Upsert(ctx context.Context, row domain.ProductEmbedding) error {
	const q = `
		INSERT INTO product_embeddings (shop_id, product_id, lang, model, embedding, content_hash, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (shop_id, product_id, lang, model) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			content_hash = EXCLUDED.content_hash,
			updated_at = EXCLUDED.updated_at`
	_, err := r.s.pool.Exec(ctx, q,
		row.ShopID, row.ProductID, row.Lang, row.Model,
		pgvector.NewVector(row.Vector), row.ContentHash, row.UpdatedAt,
	)
	return err
}

func (r *EmbeddingRepo) GetMeta(ctx context.Context, shopID, productID, lang, model string) (string, bool, error) {
	const q = `
		SELECT content_hash
		FROM product_embeddings
		WHERE shop_id = $1 AND product_id = $2 AND lang = $3 AND model = $4`
	var hash string
	err := r.s.pool.QueryRow(ctx, q, shopID, productID, lang, model).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return hash, true, nil
}

// Search runs cosine search scoped to (shop, lang, model) and joins the
// product display name plus the localized snapshot fields for the same
// language. Similarity and distance derive from the single cosine metric.
func (r *EmbeddingRepo) Search(ctx context.Context, q domain.SearchQuery) ([]domain.RetrievedProduct, error) {
	const sql = `
		SELECT e.product_id,
		       COALESCE(p.name, ''),
		       COALESCE(i.snapshot->>'title', ''),
		       COALESCE(i.snapshot->>'description_html', ''),
		       1 - (e.embedding <=> $4) AS similarity,
		       e.embedding <=> $4 AS distance
		FROM product_embeddings e
		LEFT JOIN products p ON p.shop_id = e.shop_id AND p.id = e.product_id
		LEFT JOIN product_i18n i ON i.shop_id = e.shop_id AND i.product_id = e.product_id AND i.lang = e.lang
		WHERE e.shop_id = $1 AND e.lang = $2 AND e.model = $3
		ORDER BY e.embedding <=> $4
		LIMIT $5`
	rows, err := r.s.pool.Query(ctx, sql, q.ShopID, q.Lang, q.Model, pgvector.NewVector(q.Vector), q.MatchCount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RetrievedProduct
	for rows.Next() {
		var hit domain.RetrievedProduct
		if err := rows.Scan(&hit.ProductID, &hit.Name, &hit.Title, &hit.DescriptionHTML, &hit.Similarity, &hit.Distance); err != nil {
			return nil, err
		}
		out = append(out, hit)
	}
	return out, rows.Err()
}
