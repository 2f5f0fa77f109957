package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shoprag/internal/domain"
)

// ProductRepo implements domain.ProductRepository. Specs and FAQ live in
// jsonb columns on the products table.
type ProductRepo struct{ s *Store }

// Products returns the product repository.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s} }

func (r *ProductRepo) Get(ctx context.Context, shopID, productID string) (*domain.Product, error) {
	const q = `
		SELECT shop_id, id, name,
		       COALESCE(description_html, ''), COALESCE(specs, '{}'::jsonb), COALESCE(faq, '[]'::jsonb),
		       COALESCE(raw_text, ''), COALESCE(enriched_text, ''), COALESCE(variants, '{}')
		FROM products
		WHERE shop_id = $1 AND id = $2`
	var p domain.Product
	err := r.s.pool.QueryRow(ctx, q, shopID, productID).Scan(
		&p.ShopID, &p.ID, &p.Name,
		&p.DescriptionHTML, &p.Specs, &p.FAQ,
		&p.RawText, &p.EnrichedText, &p.Variants,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
