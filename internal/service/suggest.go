package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/luminagems/gemstore/internal/cache"
)

const (
	// DefaultSuggestionLimit applies when the caller does not specify one.
	DefaultSuggestionLimit = 5
	// MaxSuggestionLimit is the API cap on suggestion count.
	MaxSuggestionLimit = 10

	suggestionCacheTTL = 5 * time.Minute
)

// FuzzySuggestion is one "did you mean" candidate. MatchType names the
// catalog field the candidate came from (name, gem_type, serial).
type FuzzySuggestion struct {
	Suggestion string  `json:"suggestion"`
	Score      float64 `json:"score"`
	MatchType  string  `json:"match_type"`
}

// SuggestionRepositoryInterface ranks known catalog field values against a
// query by trigram similarity.
type SuggestionRepositoryInterface interface {
	RankSuggestions(ctx context.Context, query string, limit int) ([]*FuzzySuggestion, error)
}

// SuggestionCache is the keyed TTL store for suggestion responses.
type SuggestionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// SuggestionService produces "did you mean" candidates for queries that
// matched nothing. It is a recovery path separate from the fuzzy search
// fallback: the fallback returns ranked products, this returns alternate
// query strings.
type SuggestionService struct {
	repo  SuggestionRepositoryInterface
	cache SuggestionCache
}

// NewSuggestionService creates a new SuggestionService instance. cache may
// be nil, in which case every call hits the repository.
func NewSuggestionService(repo SuggestionRepositoryInterface, cache SuggestionCache) *SuggestionService {
	return &SuggestionService{repo: repo, cache: cache}
}

// GetSuggestions returns up to limit candidates ordered descending by score.
// A lookup failure yields an empty list, never an error: suggestions are a
// non-critical enhancement and the caller treats "none" and "failed"
// identically.
func (s *SuggestionService) GetSuggestions(ctx context.Context, query string, limit int) []*FuzzySuggestion {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return []*FuzzySuggestion{}
	}

	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if limit > MaxSuggestionLimit {
		limit = MaxSuggestionLimit
	}

	key := fmt.Sprintf("suggest:%s:%d", normalized, limit)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var suggestions []*FuzzySuggestion
			if err := json.Unmarshal([]byte(cached), &suggestions); err == nil {
				return suggestions
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Printf("suggestions: cache read failed for %q: %v", normalized, err)
		}
	}

	suggestions, err := s.repo.RankSuggestions(ctx, normalized, limit)
	if err != nil {
		log.Printf("suggestions: lookup failed for %q: %v", normalized, err)
		return []*FuzzySuggestion{}
	}
	if suggestions == nil {
		suggestions = []*FuzzySuggestion{}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(suggestions); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), suggestionCacheTTL); err != nil {
				log.Printf("suggestions: cache write failed for %q: %v", normalized, err)
			}
		}
	}

	return suggestions
}
