package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luminagems/gemstore/internal/domain"
	"github.com/luminagems/gemstore/internal/pagination"
	"github.com/luminagems/gemstore/internal/service"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) SearchGemstones(ctx context.Context, req service.SearchRequest) (*service.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResponse), args.Error(1)
}

type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) GetSuggestions(ctx context.Context, query string, limit int) []*service.FuzzySuggestion {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]*service.FuzzySuggestion)
}

func TestSearchHandler_Search(t *testing.T) {
	mockSearch := new(MockSearchService)
	mockSearch.On("SearchGemstones", mock.Anything, mock.MatchedBy(func(req service.SearchRequest) bool {
		return req.Query == "ruby" && req.Page == 1
	})).Return(&service.SearchResponse{
		Results: []*service.SearchResult{
			{ID: "g-1", Name: "Burmese Ruby", GemType: "ruby", RelevanceScore: 0.9},
			{ID: "g-2", Name: "Ruby Cabochon", GemType: "ruby", RelevanceScore: 0.5},
		},
		Pagination:      pagination.NewPageInfo(1, 24, 2),
		UsedFuzzySearch: false,
	}, nil)

	handler := NewSearchHandler(mockSearch, new(MockSuggestionService))

	body, _ := json.Marshal(SearchRequestBody{Query: "ruby"})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data service.SearchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Results, 2)
	assert.False(t, envelope.Data.UsedFuzzySearch)
	assert.Equal(t, 1, envelope.Data.Pagination.TotalPages)
	assert.False(t, envelope.Data.Pagination.HasNextPage)
	mockSearch.AssertExpectations(t)
}

func TestSearchHandler_Search_InvalidBody(t *testing.T) {
	handler := NewSearchHandler(new(MockSearchService), new(MockSuggestionService))

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestSearchHandler_Search_InvalidPageSize(t *testing.T) {
	mockSearch := new(MockSearchService)
	mockSearch.On("SearchGemstones", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidPageSize)

	handler := NewSearchHandler(mockSearch, new(MockSuggestionService))

	body, _ := json.Marshal(SearchRequestBody{Query: "ruby", PageSize: 17})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported page size")
}

func TestSearchHandler_Search_FiltersDecoded(t *testing.T) {
	mockSearch := new(MockSearchService)
	mockSearch.On("SearchGemstones", mock.Anything, mock.MatchedBy(func(req service.SearchRequest) bool {
		return len(req.Filters.GemTypes) == 1 &&
			req.Filters.GemTypes[0] == domain.GemTypeSapphire &&
			req.Filters.InStockOnly
	})).Return(&service.SearchResponse{
		Results:    []*service.SearchResult{},
		Pagination: pagination.NewPageInfo(1, 24, 0),
	}, nil)

	handler := NewSearchHandler(mockSearch, new(MockSuggestionService))

	body := []byte(`{"query":"","filters":{"gem_types":["Sapphire"],"in_stock_only":true}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSearch.AssertExpectations(t)
}

func TestSearchHandler_Search_SearchFailed(t *testing.T) {
	mockSearch := new(MockSearchService)
	mockSearch.On("SearchGemstones", mock.Anything, mock.Anything).
		Return(nil, domain.NewDomainError(domain.ErrCodeSearchFailed, "search could not be executed"))

	handler := NewSearchHandler(mockSearch, new(MockSuggestionService))

	body, _ := json.Marshal(SearchRequestBody{Query: "ruby"})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSearchHandler_FuzzySuggestions(t *testing.T) {
	mockSuggest := new(MockSuggestionService)
	mockSuggest.On("GetSuggestions", mock.Anything, "rubby", 5).Return([]*service.FuzzySuggestion{
		{Suggestion: "ruby", Score: 0.8, MatchType: "gem_type"},
		{Suggestion: "Ruby Cabochon", Score: 0.55, MatchType: "name"},
	})

	handler := NewSearchHandler(new(MockSearchService), mockSuggest)

	req := httptest.NewRequest(http.MethodGet, "/api/search/fuzzy-suggestions?query=rubby", nil)
	w := httptest.NewRecorder()

	handler.FuzzySuggestions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, s-maxage=300, stale-while-revalidate=600", w.Header().Get("Cache-Control"))

	var envelope struct {
		Data struct {
			Query       string                     `json:"query"`
			Suggestions []*service.FuzzySuggestion `json:"suggestions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "rubby", envelope.Data.Query)
	require.Len(t, envelope.Data.Suggestions, 2)
	assert.Equal(t, "ruby", envelope.Data.Suggestions[0].Suggestion)
	mockSuggest.AssertExpectations(t)
}

func TestSearchHandler_FuzzySuggestions_EmptyQuery(t *testing.T) {
	handler := NewSearchHandler(new(MockSearchService), new(MockSuggestionService))

	req := httptest.NewRequest(http.MethodGet, "/api/search/fuzzy-suggestions?query=%20%20", nil)
	w := httptest.NewRecorder()

	handler.FuzzySuggestions(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "details")
	assert.Contains(t, w.Body.String(), "must not be empty")
}

func TestSearchHandler_FuzzySuggestions_LimitOutOfRange(t *testing.T) {
	handler := NewSearchHandler(new(MockSearchService), new(MockSuggestionService))

	for _, limit := range []string{"0", "11", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/search/fuzzy-suggestions?query=ruby&limit="+limit, nil)
		w := httptest.NewRecorder()

		handler.FuzzySuggestions(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "must be between 1 and 10")
	}
}

func TestSearchHandler_FuzzySuggestions_CustomLimit(t *testing.T) {
	mockSuggest := new(MockSuggestionService)
	mockSuggest.On("GetSuggestions", mock.Anything, "emer", 10).Return([]*service.FuzzySuggestion{})

	handler := NewSearchHandler(new(MockSearchService), mockSuggest)

	req := httptest.NewRequest(http.MethodGet, "/api/search/fuzzy-suggestions?query=emer&limit=10", nil)
	w := httptest.NewRecorder()

	handler.FuzzySuggestions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSuggest.AssertExpectations(t)
}
