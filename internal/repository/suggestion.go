package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminagems/gemstore/internal/service"
)

// SuggestionRepository ranks "did you mean" candidates across the gemstone
// name, type, and serial number fields with trigram similarity.
type SuggestionRepository struct {
	pool *pgxpool.Pool
}

func NewSuggestionRepository(pool *pgxpool.Pool) *SuggestionRepository {
	return &SuggestionRepository{pool: pool}
}

// RankSuggestions returns up to limit distinct candidates scoring at or
// above the trigram cutoff, best first.
func (r *SuggestionRepository) RankSuggestions(ctx context.Context, query string, limit int) ([]*service.FuzzySuggestion, error) {
	sql := `
		SELECT suggestion, score, match_type FROM (
			SELECT DISTINCT ON (suggestion) suggestion, score, match_type FROM (
				SELECT name AS suggestion,
				       similarity(lower(name), $1)::float8 AS score,
				       'name' AS match_type
				FROM gemstones
				UNION ALL
				SELECT gem_type AS suggestion,
				       similarity(gem_type, $1)::float8 AS score,
				       'gem_type' AS match_type
				FROM gemstones
				UNION ALL
				SELECT serial_number AS suggestion,
				       similarity(lower(serial_number), $1)::float8 AS score,
				       'serial' AS match_type
				FROM gemstones
			) candidates
			WHERE score >= $2
			ORDER BY suggestion, score DESC
		) deduped
		ORDER BY score DESC, suggestion ASC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, sql, strings.ToLower(query), trigramCutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggestions := make([]*service.FuzzySuggestion, 0)
	for rows.Next() {
		var s service.FuzzySuggestion
		if err := rows.Scan(&s.Suggestion, &s.Score, &s.MatchType); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, &s)
	}
	return suggestions, rows.Err()
}
