package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminagems/gemstore/internal/domain"
	"github.com/luminagems/gemstore/internal/service"
)

// trigramCutoff is the similarity score below which a fuzzy candidate is not
// considered a match. Matches the pg_trgm default for the % operator.
const trigramCutoff = 0.3

// SearchRepository implements the exact and fuzzy search stages. Both apply
// the identical structural filter bundle; only the text-match mode differs.
type SearchRepository struct {
	pool *pgxpool.Pool
}

func NewSearchRepository(pool *pgxpool.Pool) *SearchRepository {
	return &SearchRepository{pool: pool}
}

const searchRowColumns = `g.id, g.serial_number, g.name, g.gem_type, g.color, g.cut, g.clarity, g.origin,
	g.weight_carats, g.price_cents, g.currency, g.in_stock,
	g.certification_lab <> '' AS has_certification,
	g.analysis IS NOT NULL AS has_analysis`

// SearchExact runs the ranked full-text stage. An empty weightedQuery means
// browse mode: filters only, ordered by recency, relevance 0.
func (r *SearchRepository) SearchExact(ctx context.Context, weightedQuery string, filters service.SearchFilters, limit, offset int) ([]*service.SearchRow, error) {
	var query string
	args := []any{}

	if weightedQuery == "" {
		where, whereArgs := buildFilterClauses(filters, 1)
		args = append(args, whereArgs...)
		query = fmt.Sprintf(`
			SELECT %s,
			       0::float8 AS relevance,
			       COUNT(*) OVER () AS total_count
			FROM gemstones g
			%s
			ORDER BY g.created_at DESC, g.id DESC
			LIMIT $%d OFFSET $%d`,
			searchRowColumns, where, len(args)+1, len(args)+2)
	} else {
		args = append(args, weightedQuery)
		where, whereArgs := buildFilterClauses(filters, 2)
		args = append(args, whereArgs...)
		match := "g.search_vector @@ to_tsquery('simple', $1)"
		if where == "" {
			where = "WHERE " + match
		} else {
			where += " AND " + match
		}
		query = fmt.Sprintf(`
			SELECT %s,
			       ts_rank(g.search_vector, to_tsquery('simple', $1))::float8 AS relevance,
			       COUNT(*) OVER () AS total_count
			FROM gemstones g
			%s
			ORDER BY relevance DESC, g.created_at DESC, g.id DESC
			LIMIT $%d OFFSET $%d`,
			searchRowColumns, where, len(args)+1, len(args)+2)
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSearchRows(rows)
}

// SearchFuzzy re-runs the same filtered query with trigram similarity in
// place of exact token matching.
func (r *SearchRepository) SearchFuzzy(ctx context.Context, query string, filters service.SearchFilters, limit, offset int) ([]*service.SearchRow, error) {
	args := []any{strings.ToLower(query)}
	where, whereArgs := buildFilterClauses(filters, 2)
	args = append(args, whereArgs...)

	// word_similarity scores the query against its best-matching extent of
	// search_text, so a short query is not diluted by the rest of the row.
	match := fmt.Sprintf("word_similarity($1, g.search_text) >= %g", trigramCutoff)
	if where == "" {
		where = "WHERE " + match
	} else {
		where += " AND " + match
	}

	sql := fmt.Sprintf(`
		SELECT %s,
		       word_similarity($1, g.search_text)::float8 AS relevance,
		       COUNT(*) OVER () AS total_count
		FROM gemstones g
		%s
		ORDER BY relevance DESC, g.created_at DESC, g.id DESC
		LIMIT $%d OFFSET $%d`,
		searchRowColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSearchRows(rows)
}

// buildFilterClauses renders the structural filter bundle as a WHERE clause.
// List filters are OR within the field (= ANY), AND across fields. next is
// the first free placeholder index.
func buildFilterClauses(f service.SearchFilters, next int) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		clauses = append(clauses, fmt.Sprintf(clause, next))
		args = append(args, value)
		next++
	}

	if len(f.GemTypes) > 0 {
		add("g.gem_type = ANY($%d)", stringSlice(f.GemTypes))
	}
	if len(f.Colors) > 0 {
		add("lower(g.color) = ANY($%d)", lowerAll(f.Colors))
	}
	if len(f.Cuts) > 0 {
		add("g.cut = ANY($%d)", stringSlice(f.Cuts))
	}
	if len(f.ClarityGrades) > 0 {
		add("g.clarity = ANY($%d)", stringSlice(f.ClarityGrades))
	}
	if len(f.Origins) > 0 {
		add("lower(g.origin) = ANY($%d)", lowerAll(f.Origins))
	}
	if f.PriceMinCents != nil {
		add("g.price_cents >= $%d", *f.PriceMinCents)
	}
	if f.PriceMaxCents != nil {
		add("g.price_cents <= $%d", *f.PriceMaxCents)
	}
	if f.WeightMinCarats != nil {
		add("g.weight_carats >= $%d", *f.WeightMinCarats)
	}
	if f.WeightMaxCarats != nil {
		add("g.weight_carats <= $%d", *f.WeightMaxCarats)
	}
	if f.InStockOnly {
		clauses = append(clauses, "g.in_stock")
	}
	if f.HasCertification {
		clauses = append(clauses, "g.certification_lab <> ''")
	}
	if f.HasAnalysis {
		clauses = append(clauses, "g.analysis IS NOT NULL")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanSearchRows(rows pgx.Rows) ([]*service.SearchRow, error) {
	results := make([]*service.SearchRow, 0)
	for rows.Next() {
		var row service.SearchRow
		var gemType, cut, clarity string
		if err := rows.Scan(&row.ID, &row.SerialNumber, &row.Name, &gemType, &row.Color, &cut, &clarity, &row.Origin,
			&row.WeightCarats, &row.PriceCents, &row.Currency, &row.InStock,
			&row.HasCertification, &row.HasAnalysis,
			&row.Relevance, &row.TotalCount); err != nil {
			return nil, err
		}
		row.GemType = domain.GemType(gemType)
		row.Cut = domain.GemCut(cut)
		row.Clarity = domain.ClarityGrade(clarity)
		results = append(results, &row)
	}
	return results, rows.Err()
}

func stringSlice[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
