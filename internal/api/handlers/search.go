package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/luminagems/gemstore/internal/api"
	"github.com/luminagems/gemstore/internal/domain"
	"github.com/luminagems/gemstore/internal/service"
)

type SearchService interface {
	SearchGemstones(ctx context.Context, req service.SearchRequest) (*service.SearchResponse, error)
}

type SuggestionService interface {
	GetSuggestions(ctx context.Context, query string, limit int) []*service.FuzzySuggestion
}

type SearchHandler struct {
	search  SearchService
	suggest SuggestionService
}

func NewSearchHandler(search SearchService, suggest SuggestionService) *SearchHandler {
	return &SearchHandler{search: search, suggest: suggest}
}

type SearchFiltersRequest struct {
	GemTypes         []string `json:"gem_types"`
	Colors           []string `json:"colors"`
	Cuts             []string `json:"cuts"`
	ClarityGrades    []string `json:"clarity_grades"`
	Origins          []string `json:"origins"`
	PriceMinCents    *int64   `json:"price_min_cents"`
	PriceMaxCents    *int64   `json:"price_max_cents"`
	WeightMinCarats  *float64 `json:"weight_min_carats"`
	WeightMaxCarats  *float64 `json:"weight_max_carats"`
	InStockOnly      bool     `json:"in_stock_only"`
	HasCertification bool     `json:"has_certification"`
	HasAnalysis      bool     `json:"has_ai_analysis"`
}

type SearchRequestBody struct {
	Query     string               `json:"query"`
	Filters   SearchFiltersRequest `json:"filters"`
	Page      int                  `json:"page"`
	PageSize  int                  `json:"page_size"`
	Currency  string               `json:"currency"`
	UserID    string               `json:"user_id"`
	SessionID string               `json:"session_id"`
}

func (f SearchFiltersRequest) toFilters() service.SearchFilters {
	filters := service.SearchFilters{
		Colors:           f.Colors,
		Origins:          f.Origins,
		PriceMinCents:    f.PriceMinCents,
		PriceMaxCents:    f.PriceMaxCents,
		WeightMinCarats:  f.WeightMinCarats,
		WeightMaxCarats:  f.WeightMaxCarats,
		InStockOnly:      f.InStockOnly,
		HasCertification: f.HasCertification,
		HasAnalysis:      f.HasAnalysis,
	}
	for _, t := range f.GemTypes {
		filters.GemTypes = append(filters.GemTypes, domain.GemType(strings.ToLower(t)))
	}
	for _, c := range f.Cuts {
		filters.Cuts = append(filters.Cuts, domain.GemCut(strings.ToLower(c)))
	}
	for _, g := range f.ClarityGrades {
		filters.ClarityGrades = append(filters.ClarityGrades, domain.ClarityGrade(strings.ToUpper(g)))
	}
	return filters
}

// Search runs the storefront search pipeline.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.UserID == "" {
		req.UserID = r.Header.Get("X-User-ID")
	}
	if req.SessionID == "" {
		req.SessionID = r.Header.Get("X-Session-ID")
	}

	result, err := h.search.SearchGemstones(r.Context(), service.SearchRequest{
		Query:     req.Query,
		Filters:   req.Filters.toFilters(),
		Page:      req.Page,
		PageSize:  req.PageSize,
		Currency:  req.Currency,
		UserID:    req.UserID,
		SessionID: req.SessionID,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// FuzzySuggestions returns "did you mean" candidates for a partial or
// misspelled query. Responses are shared-cacheable: suggestions tolerate
// staleness and this endpoint takes the burst traffic of live typing.
func (h *SearchHandler) FuzzySuggestions(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		api.ErrorWithDetails(w, http.StatusBadRequest, "invalid suggestion request", map[string]string{
			"query": "must not be empty",
		})
		return
	}

	limit := service.DefaultSuggestionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > service.MaxSuggestionLimit {
			api.ErrorWithDetails(w, http.StatusBadRequest, "invalid suggestion request", map[string]string{
				"limit": "must be between 1 and 10",
			})
			return
		}
		limit = parsed
	}

	suggestions := h.suggest.GetSuggestions(r.Context(), query, limit)

	w.Header().Set("Cache-Control", "public, s-maxage=300, stale-while-revalidate=600")
	api.Success(w, http.StatusOK, map[string]interface{}{
		"query":       query,
		"suggestions": suggestions,
	})
}
