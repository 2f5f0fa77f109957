package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shoprag/internal/domain"
)

// SettingsRepo implements domain.ShopSettingsRepository.
type SettingsRepo struct{ s *Store }

// Settings returns the shop settings repository.
func (s *Store) Settings() *SettingsRepo { return &SettingsRepo{s} }

func (r *SettingsRepo) Get(ctx context.Context, shopID string) (*domain.ShopSettings, error) {
	const q = `
		SELECT shop_id, default_lang, enabled_langs, multi_lang_rag_enabled, created_at, updated_at
		FROM shop_settings
		WHERE shop_id = $1`
	var st domain.ShopSettings
	err := r.s.pool.QueryRow(ctx, q, shopID).Scan(
		&st.ShopID, &st.DefaultLang, &st.EnabledLangs, &st.MultiLangRAGEnabled, &st.CreatedAt, &st.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *SettingsRepo) Create(ctx context.Context, st *domain.ShopSettings) error {
	const q = `
		INSERT INTO shop_settings (shop_id, default_lang, enabled_langs, multi_lang_rag_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.s.pool.Exec(ctx, q,
		st.ShopID, st.DefaultLang, st.EnabledLangs, st.MultiLangRAGEnabled, st.CreatedAt, st.UpdatedAt,
	)
	return err
}
