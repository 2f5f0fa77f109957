package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shoprag/internal/domain"
)

// I18nRepo implements domain.ProductI18nRepository. The snapshot is stored
// as one jsonb column; the hash and lock flag get their own columns because
// the skip logic filters on them.
type I18nRepo struct{ s *Store }

// I18n returns the product i18n repository.
func (s *Store) I18n() *I18nRepo { return &I18nRepo{s} }

const i18nColumns = `shop_id, product_id, lang, snapshot, source_lang, source_hash, locked, created_at, updated_at`

func scanI18n(row pgx.Row) (*domain.ProductI18n, error) {
	var r domain.ProductI18n
	err := row.Scan(
		&r.ShopID, &r.ProductID, &r.Lang, &r.Snapshot,
		&r.SourceLang, &r.SourceHash, &r.Locked, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *I18nRepo) Get(ctx context.Context, shopID, productID, lang string) (*domain.ProductI18n, error) {
	const q = `
		SELECT ` + i18nColumns + `
		FROM product_i18n
		WHERE shop_id = $1 AND product_id = $2 AND lang = $3`
	row, err := scanI18n(r.s.pool.QueryRow(ctx, q, shopID, productID, lang))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return row, err
}

func (r *I18nRepo) ListByLangs(ctx context.Context, shopID, productID string, langs []string) ([]domain.ProductI18n, error) {
	const q = `
		SELECT ` + i18nColumns + `
		FROM product_i18n
		WHERE shop_id = $1 AND product_id = $2 AND lang = ANY($3)`
	rows, err := r.s.pool.Query(ctx, q, shopID, productID, langs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectI18n(rows)
}

func (r *I18nRepo) ListByProducts(ctx context.Context, shopID string, productIDs []string, lang string) ([]domain.ProductI18n, error) {
	const q = `
		SELECT ` + i18nColumns + `
		FROM product_i18n
		WHERE shop_id = $1 AND product_id = ANY($2) AND lang = $3`
	rows, err := r.s.pool.Query(ctx, q, shopID, productIDs, lang)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectI18n(rows)
}

func (r *I18nRepo) Upsert(ctx context.Context, row domain.ProductI18n) error {
	const q = `
		INSERT INTO product_i18n (` + i18nColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (shop_id, product_id, lang) DO UPDATE SET
			snapshot = EXCLUDED.snapshot,
			source_lang = EXCLUDED.source_lang,
			source_hash = EXCLUDED.source_hash,
			updated_at = EXCLUDED.updated_at`
	_, err := r.s.pool.Exec(ctx, q,
		row.ShopID, row.ProductID, row.Lang, row.Snapshot,
		row.SourceLang, row.SourceHash, row.Locked, row.CreatedAt, row.UpdatedAt,
	)
	return err
}

func collectI18n(rows pgx.Rows) ([]domain.ProductI18n, error) {
	var out []domain.ProductI18n
	for rows.Next() {
		row, err := scanI18n(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}
