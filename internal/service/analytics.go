package service

import (
	"context"
	"log"
	"strings"
)

// SearchEvent captures one completed search request for offline reporting.
// Events are written once and never read back by this pipeline.
type SearchEvent struct {
	Query           string
	Filters         SearchFilters
	ResultsCount    int
	UsedFuzzySearch bool
	UserID          string
	SessionID       string
	DurationMs      int
}

// SearchEventRepositoryInterface persists search events (insert only).
type SearchEventRepositoryInterface interface {
	CreateSearchEvent(ctx context.Context, event SearchEvent) (string, error)
}

// AnalyticsService records search telemetry. Every write is best-effort:
// failures are logged and discarded, and Track has no way to fail back into
// the search request path.
type AnalyticsService struct {
	repo SearchEventRepositoryInterface
}

// NewAnalyticsService creates a new AnalyticsService instance
func NewAnalyticsService(repo SearchEventRepositoryInterface) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Track persists one search event. The query is lowercased and trimmed so
// "Ruby" and "ruby " aggregate as the same query.
func (s *AnalyticsService) Track(ctx context.Context, event SearchEvent) {
	event.Query = strings.ToLower(strings.TrimSpace(event.Query))

	if _, err := s.repo.CreateSearchEvent(ctx, event); err != nil {
		log.Printf("analytics: dropping search event for %q: %v", event.Query, err)
	}
}
