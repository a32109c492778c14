package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luminagems/gemstore/internal/cache"
)

type MockSuggestionRepo struct {
	mock.Mock
}

func (m *MockSuggestionRepo) RankSuggestions(ctx context.Context, query string, limit int) ([]*FuzzySuggestion, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*FuzzySuggestion), args.Error(1)
}

// fakeSuggestionCache is an in-memory SuggestionCache that records writes.
type fakeSuggestionCache struct {
	entries map[string]string
	sets    int
}

func newFakeSuggestionCache() *fakeSuggestionCache {
	return &fakeSuggestionCache{entries: make(map[string]string)}
}

func (c *fakeSuggestionCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.entries[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (c *fakeSuggestionCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.entries[key] = value
	c.sets++
	return nil
}

func TestGetSuggestions_EmptyQueryReturnsNothing(t *testing.T) {
	repo := new(MockSuggestionRepo)
	svc := NewSuggestionService(repo, nil)

	suggestions := svc.GetSuggestions(context.Background(), "   ", 5)

	assert.Empty(t, suggestions)
	repo.AssertNotCalled(t, "RankSuggestions", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSuggestions_NormalizesQuery(t *testing.T) {
	repo := new(MockSuggestionRepo)
	repo.On("RankSuggestions", mock.Anything, "ruby", 5).
		Return([]*FuzzySuggestion{{Suggestion: "ruby", Score: 0.9, MatchType: "gem_type"}}, nil)

	svc := NewSuggestionService(repo, nil)
	suggestions := svc.GetSuggestions(context.Background(), "  RuBy ", 5)

	require.Len(t, suggestions, 1)
	assert.Equal(t, "ruby", suggestions[0].Suggestion)
	repo.AssertExpectations(t)
}

func TestGetSuggestions_LimitClamping(t *testing.T) {
	repo := new(MockSuggestionRepo)
	repo.On("RankSuggestions", mock.Anything, "ruby", DefaultSuggestionLimit).
		Return([]*FuzzySuggestion{}, nil).Once()
	repo.On("RankSuggestions", mock.Anything, "ruby", MaxSuggestionLimit).
		Return([]*FuzzySuggestion{}, nil).Once()

	svc := NewSuggestionService(repo, nil)
	svc.GetSuggestions(context.Background(), "ruby", 0)
	svc.GetSuggestions(context.Background(), "ruby", 99)

	repo.AssertExpectations(t)
}

func TestGetSuggestions_RepoFailureDegradesToEmpty(t *testing.T) {
	repo := new(MockSuggestionRepo)
	repo.On("RankSuggestions", mock.Anything, "rubby", 5).
		Return(nil, errors.New("similarity query failed"))

	svc := NewSuggestionService(repo, nil)
	suggestions := svc.GetSuggestions(context.Background(), "rubby", 5)

	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestGetSuggestions_CachesResponses(t *testing.T) {
	repo := new(MockSuggestionRepo)
	repo.On("RankSuggestions", mock.Anything, "saphire", 5).
		Return([]*FuzzySuggestion{{Suggestion: "sapphire", Score: 0.72, MatchType: "gem_type"}}, nil).
		Once()

	suggestionCache := newFakeSuggestionCache()
	svc := NewSuggestionService(repo, suggestionCache)

	first := svc.GetSuggestions(context.Background(), "saphire", 5)
	second := svc.GetSuggestions(context.Background(), "Saphire", 5)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "sapphire", second[0].Suggestion)
	assert.Equal(t, 1, suggestionCache.sets)
	// Second call served from cache; the repo expectation is Once.
	repo.AssertExpectations(t)
}

func TestGetSuggestions_CorruptCacheEntryFallsThrough(t *testing.T) {
	repo := new(MockSuggestionRepo)
	repo.On("RankSuggestions", mock.Anything, "ruby", 5).
		Return([]*FuzzySuggestion{{Suggestion: "ruby", Score: 1, MatchType: "gem_type"}}, nil)

	suggestionCache := newFakeSuggestionCache()
	suggestionCache.entries["suggest:ruby:5"] = "{not json"

	svc := NewSuggestionService(repo, suggestionCache)
	suggestions := svc.GetSuggestions(context.Background(), "ruby", 5)

	require.Len(t, suggestions, 1)
	repo.AssertExpectations(t)

	var cached []*FuzzySuggestion
	require.NoError(t, json.Unmarshal([]byte(suggestionCache.entries["suggest:ruby:5"]), &cached))
	assert.Len(t, cached, 1)
}
