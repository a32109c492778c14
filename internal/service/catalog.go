package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/luminagems/gemstore/internal/domain"
)

// GemstoneRepositoryInterface defines the repository interface for catalog persistence
type GemstoneRepositoryInterface interface {
	Create(ctx context.Context, g *domain.Gemstone) error
	GetByID(ctx context.Context, id string) (*domain.Gemstone, error)
	GetBySerial(ctx context.Context, serial string) (*domain.Gemstone, error)
	Update(ctx context.Context, g *domain.Gemstone) error
	Delete(ctx context.Context, id string) error
	SetStock(ctx context.Context, id string, inStock bool) error
	UpdateAnalysis(ctx context.Context, id string, analysis *domain.GemAnalysis, embedding []float32) error
	SimilarByEmbedding(ctx context.Context, id string, limit int) ([]*domain.Gemstone, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// CreateGemstoneInput represents input for creating a catalog entry
type CreateGemstoneInput struct {
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
	CertificationLab string
	Description      string
}

// UpdateGemstoneInput represents input for updating a catalog entry
type UpdateGemstoneInput struct {
	ID               string
	Name             string
	Color            string
	Cut              domain.GemCut
	Clarity          domain.ClarityGrade
	Origin           string
	WeightCarats     float64
	PriceCents       int64
	Currency         string
	InStock          bool
	CertificationLab string
	Description      string
}

// CatalogService handles business logic for the gemstone catalog
type CatalogService struct {
	repo    GemstoneRepositoryInterface
	uuidGen UUIDGenerator
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(repo GemstoneRepositoryInterface) *CatalogService {
	return &CatalogService{repo: repo, uuidGen: &DefaultUUIDGenerator{}}
}

// NewCatalogServiceWithUUIDGen creates a CatalogService with a custom UUID generator (for testing)
func NewCatalogServiceWithUUIDGen(repo GemstoneRepositoryInterface, uuidGen UUIDGenerator) *CatalogService {
	return &CatalogService{repo: repo, uuidGen: uuidGen}
}

// Create validates and persists a new catalog entry
func (s *CatalogService) Create(ctx context.Context, input CreateGemstoneInput) (*domain.Gemstone, error) {
	now := time.Now().UTC()
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	g := &domain.Gemstone{
		ID:               s.uuidGen.NewString(),
		SerialNumber:     input.SerialNumber,
		Name:             input.Name,
		GemType:          input.GemType,
		Color:            input.Color,
		Cut:              input.Cut,
		Clarity:          input.Clarity,
		Origin:           input.Origin,
		WeightCarats:     input.WeightCarats,
		PriceCents:       input.PriceCents,
		Currency:         currency,
		InStock:          input.InStock,
		CertificationLab: input.CertificationLab,
		Description:      input.Description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := domain.ValidateGemstone(g); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid gemstone", err)
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// GetByID fetches one catalog entry
func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Gemstone, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySerial fetches one catalog entry by its serial number
func (s *CatalogService) GetBySerial(ctx context.Context, serial string) (*domain.Gemstone, error) {
	return s.repo.GetBySerial(ctx, serial)
}

// Update applies mutable fields to an existing catalog entry
func (s *CatalogService) Update(ctx context.Context, input UpdateGemstoneInput) (*domain.Gemstone, error) {
	g, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		g.Name = input.Name
	}
	if input.Color != "" {
		g.Color = input.Color
	}
	if input.Cut != "" {
		g.Cut = input.Cut
	}
	if input.Clarity != "" {
		g.Clarity = input.Clarity
	}
	if input.Origin != "" {
		g.Origin = input.Origin
	}
	if input.WeightCarats > 0 {
		g.WeightCarats = input.WeightCarats
	}
	if input.PriceCents > 0 {
		g.PriceCents = input.PriceCents
	}
	if input.Currency != "" {
		g.Currency = input.Currency
	}
	g.InStock = input.InStock
	g.CertificationLab = input.CertificationLab
	if input.Description != "" {
		g.Description = input.Description
	}
	g.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateGemstone(g); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid gemstone", err)
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a catalog entry
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Similar returns catalog entries whose analysis embeddings are closest to
// the given stone's. Entries without an embedding are never returned.
func (s *CatalogService) Similar(ctx context.Context, id string, limit int) ([]*domain.Gemstone, error) {
	if limit <= 0 || limit > 24 {
		limit = 8
	}
	return s.repo.SimilarByEmbedding(ctx, id, limit)
}
