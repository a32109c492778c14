package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/luminagems/gemstore/internal/api"
	"github.com/luminagems/gemstore/internal/domain"
	"github.com/luminagems/gemstore/internal/service"
)

type CatalogService interface {
	Create(ctx context.Context, input service.CreateGemstoneInput) (*domain.Gemstone, error)
	GetByID(ctx context.Context, id string) (*domain.Gemstone, error)
	GetBySerial(ctx context.Context, serial string) (*domain.Gemstone, error)
	Update(ctx context.Context, input service.UpdateGemstoneInput) (*domain.Gemstone, error)
	Delete(ctx context.Context, id string) error
	Similar(ctx context.Context, id string, limit int) ([]*domain.Gemstone, error)
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type GemstoneRequest struct {
	SerialNumber     string  `json:"serial_number"`
	Name             string  `json:"name"`
	GemType          string  `json:"gem_type"`
	Color            string  `json:"color"`
	Cut              string  `json:"cut"`
	Clarity          string  `json:"clarity"`
	Origin           string  `json:"origin"`
	WeightCarats     float64 `json:"weight_carats"`
	PriceCents       int64   `json:"price_cents"`
	Currency         string  `json:"currency"`
	InStock          bool    `json:"in_stock"`
	CertificationLab string  `json:"certification_lab"`
	Description      string  `json:"description"`
}

type GemstoneResponse struct {
	ID               string              `json:"id"`
	SerialNumber     string              `json:"serial_number"`
	Name             string              `json:"name"`
	GemType          string              `json:"gem_type"`
	Color            string              `json:"color,omitempty"`
	Cut              string              `json:"cut,omitempty"`
	Clarity          string              `json:"clarity,omitempty"`
	Origin           string              `json:"origin,omitempty"`
	WeightCarats     float64             `json:"weight_carats"`
	PriceCents       int64               `json:"price_cents"`
	Currency         string              `json:"currency"`
	InStock          bool                `json:"in_stock"`
	CertificationLab string              `json:"certification_lab,omitempty"`
	Description      string              `json:"description,omitempty"`
	Analysis         *domain.GemAnalysis `json:"analysis,omitempty"`
	CreatedAt        string              `json:"created_at"`
	UpdatedAt        string              `json:"updated_at"`
}

func gemstoneToResponse(g *domain.Gemstone) *GemstoneResponse {
	return &GemstoneResponse{
		ID:               g.ID,
		SerialNumber:     g.SerialNumber,
		Name:             g.Name,
		GemType:          string(g.GemType),
		Color:            g.Color,
		Cut:              string(g.Cut),
		Clarity:          string(g.Clarity),
		Origin:           g.Origin,
		WeightCarats:     g.WeightCarats,
		PriceCents:       g.PriceCents,
		Currency:         g.Currency,
		InStock:          g.InStock,
		CertificationLab: g.CertificationLab,
		Description:      g.Description,
		Analysis:         g.Analysis,
		CreatedAt:        g.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:        g.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req GemstoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SerialNumber == "" {
		api.Error(w, http.StatusBadRequest, "serial_number is required")
		return
	}
	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.GemType == "" {
		api.Error(w, http.StatusBadRequest, "gem_type is required")
		return
	}

	g, err := h.svc.Create(r.Context(), service.CreateGemstoneInput{
		SerialNumber:     req.SerialNumber,
		Name:             req.Name,
		GemType:          domain.GemType(strings.ToLower(req.GemType)),
		Color:            req.Color,
		Cut:              domain.GemCut(strings.ToLower(req.Cut)),
		Clarity:          domain.ClarityGrade(strings.ToUpper(req.Clarity)),
		Origin:           req.Origin,
		WeightCarats:     req.WeightCarats,
		PriceCents:       req.PriceCents,
		Currency:         req.Currency,
		InStock:          req.InStock,
		CertificationLab: req.CertificationLab,
		Description:      req.Description,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, gemstoneToResponse(g))
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	g, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, gemstoneToResponse(g))
}

func (h *CatalogHandler) GetBySerial(w http.ResponseWriter, r *http.Request) {
	serial := chi.URLParam(r, "serial")

	g, err := h.svc.GetBySerial(r.Context(), serial)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, gemstoneToResponse(g))
}

// Similar returns catalog entries ranked by analysis-embedding proximity.
func (h *CatalogHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	similar, err := h.svc.Similar(r.Context(), id, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*GemstoneResponse, 0, len(similar))
	for _, g := range similar {
		responses = append(responses, gemstoneToResponse(g))
	}

	api.Success(w, http.StatusOK, responses)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req GemstoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := h.svc.Update(r.Context(), service.UpdateGemstoneInput{
		ID:               id,
		Name:             req.Name,
		Color:            req.Color,
		Cut:              domain.GemCut(strings.ToLower(req.Cut)),
		Clarity:          domain.ClarityGrade(strings.ToUpper(req.Clarity)),
		Origin:           req.Origin,
		WeightCarats:     req.WeightCarats,
		PriceCents:       req.PriceCents,
		Currency:         req.Currency,
		InStock:          req.InStock,
		CertificationLab: req.CertificationLab,
		Description:      req.Description,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, gemstoneToResponse(g))
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusNoContent, nil)
}
