package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminagems/gemstore/internal/service"
)

// SearchEventRepository is the insert-only store behind search analytics.
type SearchEventRepository struct {
	pool *pgxpool.Pool
}

func NewSearchEventRepository(pool *pgxpool.Pool) *SearchEventRepository {
	return &SearchEventRepository{pool: pool}
}

func (r *SearchEventRepository) CreateSearchEvent(ctx context.Context, event service.SearchEvent) (string, error) {
	filtersJSON, err := json.Marshal(event.Filters)
	if err != nil {
		return "", fmt.Errorf("failed to marshal filters: %w", err)
	}

	query := `
		INSERT INTO search_events (query, filters, results_count, used_fuzzy_search, user_id, session_id, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id string
	err = r.pool.QueryRow(ctx, query,
		event.Query,
		filtersJSON,
		event.ResultsCount,
		event.UsedFuzzySearch,
		nullableString(event.UserID),
		nullableString(event.SessionID),
		event.DurationMs,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert search event: %w", err)
	}
	return id, nil
}
