package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shoprag/internal/domain"
)

// FactsRepo implements domain.ProductFactsRepository. History is
// append-only; the insert and the deactivation of the prior active row run
// in one transaction so there is never more than one active snapshot.
type FactsRepo struct{ s *Store }

// Facts returns the product facts repository.
func (s *Store) Facts() *FactsRepo { return &FactsRepo{s} }

func (r *FactsRepo) Insert(ctx context.Context, snap *domain.ProductFactsSnapshot) error {
	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const deactivate = `
		UPDATE product_facts_snapshots
		SET active = false
		WHERE merchant_id = $1 AND product_id = $2 AND active`
	if _, err := tx.Exec(ctx, deactivate, snap.MerchantID, snap.ProductID); err != nil {
		return err
	}

	const insert = `
		INSERT INTO product_facts_snapshots
			(id, merchant_id, product_id, schema_version, facts, valid, validation_errors, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := tx.Exec(ctx, insert,
		snap.ID, snap.MerchantID, snap.ProductID, snap.SchemaVersion,
		snap.Facts, snap.Valid, snap.ValidationErrors, snap.Active, snap.CreatedAt,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *FactsRepo) GetActive(ctx context.Context, merchantID, productID string) (*domain.ProductFactsSnapshot, error) {
	const q = `
		SELECT id, merchant_id, product_id, schema_version, facts, valid, validation_errors, active, created_at
		FROM product_facts_snapshots
		WHERE merchant_id = $1 AND product_id = $2 AND active`
	var snap domain.ProductFactsSnapshot
	err := r.s.pool.QueryRow(ctx, q, merchantID, productID).Scan(
		&snap.ID, &snap.MerchantID, &snap.ProductID, &snap.SchemaVersion,
		&snap.Facts, &snap.Valid, &snap.ValidationErrors, &snap.Active, &snap.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
