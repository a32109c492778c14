package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/luminagems/gemstore/internal/domain"
	"github.com/luminagems/gemstore/internal/pagination"
	"github.com/luminagems/gemstore/internal/textquery"
)

// SearchFilters represents the structural constraints of a catalog search.
// List-valued fields are OR within the field and AND across fields.
type SearchFilters struct {
	GemTypes         []domain.GemType
	Colors           []string
	Cuts             []domain.GemCut
	ClarityGrades    []domain.ClarityGrade
	Origins          []string
	PriceMinCents    *int64
	PriceMaxCents    *int64
	WeightMinCarats  *float64
	WeightMaxCarats  *float64
	InStockOnly      bool
	HasCertification bool
	HasAnalysis      bool
}

// SearchRow is the validated record shape the search queries produce. Rows
// are mapped into it at the repository boundary; nothing past that boundary
// sees raw query output. TotalCount is the denormalized pre-pagination match
// count, identical on every row of a response.
type SearchRow struct {
	ID               string
	SerialNumber     string
	Name             string
	GemType          domain.GemType
	Color            string
	Cut              domain.GemCut
	Clarity          domain.ClarityGrade
	Origin           string
	WeightCarats     float64
	PriceCents       int64
	Currency         string
	InStock          bool
	HasCertification bool
	HasAnalysis      bool
	Relevance        float64
	TotalCount       int
}

// SearchRequest represents one storefront search call
type SearchRequest struct {
	Query     string
	Filters   SearchFilters
	Page      int
	PageSize  int
	Currency  string // optional display currency
	UserID    string
	SessionID string
}

// SearchResult is one product row of a search response. RelevanceScore is a
// request-scoped ranking signal; it is not comparable across stages or
// across requests.
type SearchResult struct {
	ID               string  `json:"id"`
	SerialNumber     string  `json:"serial_number"`
	Name             string  `json:"name"`
	GemType          string  `json:"gem_type"`
	Color            string  `json:"color,omitempty"`
	Cut              string  `json:"cut,omitempty"`
	Clarity          string  `json:"clarity,omitempty"`
	Origin           string  `json:"origin,omitempty"`
	WeightCarats     float64 `json:"weight_carats"`
	PriceCents       int64   `json:"price_cents"`
	Currency         string  `json:"currency"`
	DisplayPrice     string  `json:"display_price,omitempty"`
	InStock          bool    `json:"in_stock"`
	HasCertification bool    `json:"has_certification"`
	HasAnalysis      bool    `json:"has_ai_analysis"`
	RelevanceScore   float64 `json:"relevance_score"`
}

// SearchResponse represents the output of a search call
type SearchResponse struct {
	Results         []*SearchResult     `json:"results"`
	Pagination      pagination.PageInfo `json:"pagination"`
	UsedFuzzySearch bool                `json:"used_fuzzy_search"`
}

// SearchRepositoryInterface defines the two search stages over the catalog.
// Both apply the same filter bundle; they differ only in match mode.
type SearchRepositoryInterface interface {
	SearchExact(ctx context.Context, weightedQuery string, filters SearchFilters, limit, offset int) ([]*SearchRow, error)
	SearchFuzzy(ctx context.Context, query string, filters SearchFilters, limit, offset int) ([]*SearchRow, error)
}

// AnalyticsRecorder observes completed searches. Implementations must be
// best-effort: Track never returns and never propagates failure.
type AnalyticsRecorder interface {
	Track(ctx context.Context, event SearchEvent)
}

// PriceConverter converts and formats minor-unit amounts for display.
type PriceConverter interface {
	Convert(ctx context.Context, amountCents int64, from, to string) (int64, error)
	Format(amountCents int64, code string) (string, error)
}

// SearchService orchestrates the search resolution pipeline:
// sanitize, exact stage, gated fuzzy fallback, analytics.
type SearchService struct {
	repo      SearchRepositoryInterface
	analytics AnalyticsRecorder
	pricing   PriceConverter
}

// NewSearchService creates a new SearchService instance. analytics and
// pricing may be nil; both are enhancements, not requirements.
func NewSearchService(repo SearchRepositoryInterface, analytics AnalyticsRecorder, pricing PriceConverter) *SearchService {
	return &SearchService{repo: repo, analytics: analytics, pricing: pricing}
}

// SearchGemstones runs one search request through the pipeline.
//
// The exact stage always runs first. The fuzzy stage runs only when the
// trimmed query is non-empty and the exact stage matched nothing; a fuzzy
// failure degrades to the empty exact result instead of surfacing. Only a
// fault in the exact stage itself is returned as an error.
func (s *SearchService) SearchGemstones(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	start := time.Now()

	page, pageSize, err := pagination.ValidatePage(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	if err := validateFilters(req.Filters); err != nil {
		return nil, err
	}

	weighted := textquery.BuildWeighted(req.Query)
	offset := pagination.Offset(page, pageSize)

	rows, err := s.repo.SearchExact(ctx, weighted, req.Filters, pageSize, offset)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeSearchFailed, "search could not be executed", err)
	}

	usedFuzzy := false
	trimmed := strings.TrimSpace(req.Query)
	if len(rows) == 0 && trimmed != "" {
		fuzzyRows, fuzzyErr := s.repo.SearchFuzzy(ctx, textquery.Sanitize(req.Query), req.Filters, pageSize, offset)
		if fuzzyErr != nil {
			// Fallback failures never reach the caller; the response
			// degrades to the empty exact result.
			log.Printf("search: fuzzy fallback failed for %q: %v", trimmed, fuzzyErr)
		} else {
			rows = fuzzyRows
			usedFuzzy = true
		}
	}

	totalCount := 0
	if len(rows) > 0 {
		totalCount = rows[0].TotalCount
	}

	results := make([]*SearchResult, len(rows))
	for i, row := range rows {
		results[i] = s.presentRow(ctx, row, req.Currency)
	}

	resp := &SearchResponse{
		Results:         results,
		Pagination:      pagination.NewPageInfo(page, pageSize, totalCount),
		UsedFuzzySearch: usedFuzzy,
	}

	if s.analytics != nil {
		s.analytics.Track(ctx, SearchEvent{
			Query:           req.Query,
			Filters:         req.Filters,
			ResultsCount:    totalCount,
			UsedFuzzySearch: usedFuzzy,
			UserID:          req.UserID,
			SessionID:       req.SessionID,
			DurationMs:      int(time.Since(start).Milliseconds()),
		})
	}

	return resp, nil
}

func (s *SearchService) presentRow(ctx context.Context, row *SearchRow, displayCurrency string) *SearchResult {
	result := &SearchResult{
		ID:               row.ID,
		SerialNumber:     row.SerialNumber,
		Name:             row.Name,
		GemType:          string(row.GemType),
		Color:            row.Color,
		Cut:              string(row.Cut),
		Clarity:          string(row.Clarity),
		Origin:           row.Origin,
		WeightCarats:     row.WeightCarats,
		PriceCents:       row.PriceCents,
		Currency:         row.Currency,
		InStock:          row.InStock,
		HasCertification: row.HasCertification,
		HasAnalysis:      row.HasAnalysis,
		RelevanceScore:   row.Relevance,
	}

	if s.pricing == nil {
		return result
	}

	if displayCurrency != "" && displayCurrency != row.Currency {
		converted, err := s.pricing.Convert(ctx, row.PriceCents, row.Currency, displayCurrency)
		if err != nil {
			// Conversion is an enhancement; keep the stored price.
			log.Printf("search: price conversion %s->%s failed: %v", row.Currency, displayCurrency, err)
		} else {
			result.PriceCents = converted
			result.Currency = displayCurrency
		}
	}

	if formatted, err := s.pricing.Format(result.PriceCents, result.Currency); err == nil {
		result.DisplayPrice = formatted
	}

	return result
}

func validateFilters(f SearchFilters) error {
	if f.PriceMinCents != nil && f.PriceMaxCents != nil && *f.PriceMinCents > *f.PriceMaxCents {
		return domain.ErrInvalidPriceRange
	}
	if f.WeightMinCarats != nil && f.WeightMaxCarats != nil && *f.WeightMinCarats > *f.WeightMaxCarats {
		return domain.ErrInvalidWeightRange
	}
	for _, gt := range f.GemTypes {
		if !domain.IsValidGemType(gt) {
			return domain.ErrInvalidGemType
		}
	}
	for _, cut := range f.Cuts {
		if !domain.IsValidGemCut(cut) {
			return domain.ErrInvalidGemCut
		}
	}
	for _, grade := range f.ClarityGrades {
		if !domain.IsValidClarityGrade(grade) {
			return domain.ErrInvalidClarityGrade
		}
	}
	return nil
}
