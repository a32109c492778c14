package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luminagems/gemstore/internal/domain"
)

type MockSearchRepo struct {
	mock.Mock
}

func (m *MockSearchRepo) SearchExact(ctx context.Context, weightedQuery string, filters SearchFilters, limit, offset int) ([]*SearchRow, error) {
	args := m.Called(ctx, weightedQuery, filters, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*SearchRow), args.Error(1)
}

func (m *MockSearchRepo) SearchFuzzy(ctx context.Context, query string, filters SearchFilters, limit, offset int) ([]*SearchRow, error) {
	args := m.Called(ctx, query, filters, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*SearchRow), args.Error(1)
}

type MockAnalyticsRecorder struct {
	mock.Mock
}

func (m *MockAnalyticsRecorder) Track(ctx context.Context, event SearchEvent) {
	m.Called(ctx, event)
}

type MockPriceConverter struct {
	mock.Mock
}

func (m *MockPriceConverter) Convert(ctx context.Context, amountCents int64, from, to string) (int64, error) {
	args := m.Called(ctx, amountCents, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPriceConverter) Format(amountCents int64, code string) (string, error) {
	args := m.Called(amountCents, code)
	return args.String(0), args.Error(1)
}

func rubyRow(total int) *SearchRow {
	return &SearchRow{
		ID:           "g-1",
		SerialNumber: "GEM-001",
		Name:         "Burmese Ruby",
		GemType:      domain.GemTypeRuby,
		WeightCarats: 2.1,
		PriceCents:   1250000,
		Currency:     "USD",
		InStock:      true,
		Relevance:    0.8,
		TotalCount:   total,
	}
}

func TestSearchGemstones_ExactHitSkipsFuzzy(t *testing.T) {
	repo := new(MockSearchRepo)
	repo.On("SearchExact", mock.Anything, "ruby:A", mock.Anything, 24, 0).
		Return([]*SearchRow{rubyRow(1)}, nil)

	svc := NewSearchService(repo, nil, nil)
	resp, err := svc.SearchGemstones(context.Background(), SearchRequest{Query: "ruby", Page: 1})

	require.NoError(t, err)
	assert.False(t, resp.UsedFuzzySearch)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Burmese Ruby", resp.Results[0].Name)
	assert.Equal(t, 1, resp.Pagination.TotalCount)
	repo.AssertNotCalled(t, "SearchFuzzy", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchGemstones_FuzzyFallbackOnEmptyExact(t *testing.T) {
	repo := new(MockSearchRepo)
	repo.On("SearchExact", mock.Anything, mock.Anything, mock.Anything, 24, 0).
		Return([]*SearchRow{}, nil)
	repo.On("SearchFuzzy", mock.Anything, "rubby", mock.Anything, 24, 0).
		Return([]*SearchRow{rubyRow(1)}, nil)

	svc := NewSearchService(repo, nil, nil)
	resp, err := svc.SearchGemstones(context.Background(), SearchRequest{Query: "rubby", Page: 1})

	require.NoError(t, err)
	assert.True(t, resp.UsedFuzzySearch)
	require.Len(t, resp.Results, 1)
}

func TestSearchGemstones_EmptyQueryNeverFallsBack(t *testing.T) {
	// Browse mode: an empty query with zero matches is a final answer.
	repo := new(MockSearchRepo)
	repo.On("SearchExact", mock.Anything, "", mock.Anything, 24, 0).
		Return([]*SearchRow{}, nil)

	svc := NewSearchService(repo, nil, nil)
	resp, err := svc.SearchGemstones(context.Background(), SearchRequest{
		Query:   "   ",
		Filters: SearchFilters{InStockOnly: true},
		Page:    1,
	})

	require.NoError(t, err)
	assert.False(t, resp.UsedFuzzySearch)
	assert.Empty(t, resp.Results)
	repo.AssertNotCalled(t, "SearchFuzzy", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchGemstones_FuzzyEmptyStillMarksFallback(t *testing.T) {
	repo := new(MockSearchRepo)
	repo.On("SearchExact", mock.Anything, mock.Anything, mock.Anything, 24, 0).
		Return([]*SearchRow{}, nil)
	repo.On("SearchFuzzy", mock.Anything, mock.Anything, mock.Anything, 24, 0).
		Return([]*SearchRow{}, nil)

	svc := NewSearchService(repo, nil, nil)
	resp, err := svc.SearchGemstones(context.Background(), SearchRequest{Query: "xyzzy", Page: 1})

	require.NoError(t, err)
	assert.True(t, resp.UsedFuzzySearch)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.Pagination.TotalCount)
}

func TestSearchGemstones_FuzzyFailureDegradesToEmpty(t *testing.T) {
	repo := new(MockSearchRepo)
	repo.On("SearchExact", mock.Anything, mock.Anything, mock.Anything, 24, 0).
		Return([]*SearchRow{}, nil)
	repo.On("SearchFuzzy", mock.Anything, mock.Anything, mock.Anything, 24, 0).
		Return(nil, errors.New("pg_trgm exploded"))

	svc := NewSearchService(repo, nil, nil)
	resp, err := svc.SearchGemstones(context.Background(), SearchRequest{Query: "rubby", Page: 1})

	require.NoError(t, err)
	assert.False(t, resp.UsedFuzzySearch)
	assert.Empty(t, resp.Results)
}

func TestSearchGemstones_ExactFailureIsFatal(t *testing.T) {
	repo := new(MockSearchRepo)
	repo.On("SearchExact", mock.Anything, mock.Anything, mock.Anything, 24, 0).
		Return(nil, errors.New("connection refused"))

	svc := NewSearchService(repo, nil, nil)
	_, err := svc.SearchGemstones(context.Background(), SearchRequest{Query: "ruby", Page: 1})

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeSearchFailed, domainErr.Code)
	repo.AssertNotCalled(t, "SearchFuzzy", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchGemstones_InvalidPage(t *testing.T) {
	svc := NewSearchService(new(MockSearchRepo), nil, nil)

	_, err := svc.SearchGemstones(context.Background(), SearchRequest{Query: "ruby", Page: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidPage)

	_, err = svc.SearchGemstones(context.Background(), SearchRequest{Query: "ruby", Page: 1, PageSize: 13})
	assert.ErrorIs(t, err, domain.ErrInvalidPageSize)
}

func TestSearchGemstones_InvalidFilters(t *testing.T) {
	svc := NewSearchService(new(MockSearchRepo), nil, nil)

	minPrice, maxPrice := int64(5000), int64(100)
	_, err := svc.SearchGemstones(context.Background(), SearchRequest{
		Page:    1,
		Filters: SearchFilters{PriceMinCents: &minPrice, PriceMaxCents: &maxPrice},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPriceRange)

	_, err = svc.SearchGemstones(context.Background(), SearchRequest{
		Page:    1,
		Filters: SearchFilters{GemTypes: []domain.GemType{"kryptonite"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidGemType)
}

func TestSearchGemstones_TracksAnalytics(t *testing.T) {
	repo := new(MockSearchRepo)
	repo.On("SearchExact", mock.Anything, mock.Anything, mock.Anything, 24, 0).
		Return([]*SearchRow{rubyRow(7)}, nil)

	analytics := new(MockAnalyticsRecorder)
	analytics.On("Track", mock.Anything, mock.MatchedBy(func(e SearchEvent) bool {
		return e.Query == "ruby" && e.ResultsCount == 7 && !e.UsedFuzzySearch &&
			e.SessionID == "sess-1" && e.DurationMs >= 0
	})).Return()

	svc := NewSearchService(repo, analytics, nil)
	_, err := svc.SearchGemstones(context.Background(), SearchRequest{
		Query:     "ruby",
		Page:      1,
		SessionID: "sess-1",
	})

	require.NoError(t, err)
	analytics.AssertExpectations(t)
}

func TestSearchGemstones_ConvertsDisplayCurrency(t *testing.T) {
	repo := new(MockSearchRepo)
	repo.On("SearchExact", mock.Anything, mock.Anything, mock.Anything, 24, 0).
		Return([]*SearchRow{rubyRow(1)}, nil)

	pricing := new(MockPriceConverter)
	pricing.On("Convert", mock.Anything, int64(1250000), "USD", "EUR").Return(int64(1150000), nil)
	pricing.On("Format", int64(1150000), "EUR").Return("€ 11,500.00", nil)

	svc := NewSearchService(repo, nil, pricing)
	resp, err := svc.SearchGemstones(context.Background(), SearchRequest{
		Query:    "ruby",
		Page:     1,
		Currency: "EUR",
	})

	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, int64(1150000), resp.Results[0].PriceCents)
	assert.Equal(t, "EUR", resp.Results[0].Currency)
	assert.Equal(t, "€ 11,500.00", resp.Results[0].DisplayPrice)
}

func TestSearchGemstones_ConversionFailureKeepsStoredPrice(t *testing.T) {
	repo := new(MockSearchRepo)
	repo.On("SearchExact", mock.Anything, mock.Anything, mock.Anything, 24, 0).
		Return([]*SearchRow{rubyRow(1)}, nil)

	pricing := new(MockPriceConverter)
	pricing.On("Convert", mock.Anything, int64(1250000), "USD", "EUR").
		Return(int64(0), errors.New("no rate"))
	pricing.On("Format", int64(1250000), "USD").Return("$ 12,500.00", nil)

	svc := NewSearchService(repo, nil, pricing)
	resp, err := svc.SearchGemstones(context.Background(), SearchRequest{
		Query:    "ruby",
		Page:     1,
		Currency: "EUR",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1250000), resp.Results[0].PriceCents)
	assert.Equal(t, "USD", resp.Results[0].Currency)
}
