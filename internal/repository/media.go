package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminagems/gemstore/internal/domain"
)

// MediaRepository stores product photo records.
type MediaRepository struct {
	db dbtx
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{db: pool}
}

func NewMediaRepositoryWithTx(tx pgx.Tx) *MediaRepository {
	return &MediaRepository{db: tx}
}

const mediaColumns = `id, gemstone_id, filename, mime_type, storage_key, size_bytes, status, is_primary, created_at, completed_at`

func (r *MediaRepository) Create(ctx context.Context, m *domain.MediaAsset) error {
	query := `
		INSERT INTO media_assets (id, gemstone_id, filename, mime_type, storage_key, size_bytes, status, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		m.ID, m.GemstoneID, m.Filename, m.MimeType, m.StorageKey, m.SizeBytes, m.Status, m.IsPrimary, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create media asset: %w", err)
	}
	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id string) (*domain.MediaAsset, error) {
	query := fmt.Sprintf(`SELECT %s FROM media_assets WHERE id = $1`, mediaColumns)

	m, err := scanMediaAsset(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMediaAssetNotFound
		}
		return nil, fmt.Errorf("failed to get media asset: %w", err)
	}
	return m, nil
}

func (r *MediaRepository) ListByGemstone(ctx context.Context, gemstoneID string) ([]*domain.MediaAsset, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM media_assets
		WHERE gemstone_id = $1
		ORDER BY is_primary DESC, created_at ASC`, mediaColumns)

	rows, err := r.db.Query(ctx, query, gemstoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media assets: %w", err)
	}
	defer rows.Close()

	assets := make([]*domain.MediaAsset, 0)
	for rows.Next() {
		m, err := scanMediaAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, m)
	}
	return assets, rows.Err()
}

func (r *MediaRepository) MarkUploaded(ctx context.Context, id string, sizeBytes int64, completedAt time.Time) error {
	query := `
		UPDATE media_assets
		SET status = $2, size_bytes = $3, completed_at = $4
		WHERE id = $1 AND status = $5`

	tag, err := r.db.Exec(ctx, query, id, domain.MediaStatusUploaded, sizeBytes, completedAt, domain.MediaStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark media uploaded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUploadNotPending
	}
	return nil
}

func scanMediaAsset(row pgx.Row) (*domain.MediaAsset, error) {
	var m domain.MediaAsset
	err := row.Scan(&m.ID, &m.GemstoneID, &m.Filename, &m.MimeType, &m.StorageKey, &m.SizeBytes,
		&m.Status, &m.IsPrimary, &m.CreatedAt, &m.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
