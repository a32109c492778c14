package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luminagems/gemstore/internal/domain"
)

type MockGemstoneRepo struct {
	mock.Mock
}

func (m *MockGemstoneRepo) Create(ctx context.Context, g *domain.Gemstone) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGemstoneRepo) GetByID(ctx context.Context, id string) (*domain.Gemstone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gemstone), args.Error(1)
}

func (m *MockGemstoneRepo) GetBySerial(ctx context.Context, serial string) (*domain.Gemstone, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gemstone), args.Error(1)
}

func (m *MockGemstoneRepo) Update(ctx context.Context, g *domain.Gemstone) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGemstoneRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGemstoneRepo) SetStock(ctx context.Context, id string, inStock bool) error {
	args := m.Called(ctx, id, inStock)
	return args.Error(0)
}

func (m *MockGemstoneRepo) UpdateAnalysis(ctx context.Context, id string, analysis *domain.GemAnalysis, embedding []float32) error {
	args := m.Called(ctx, id, analysis, embedding)
	return args.Error(0)
}

func (m *MockGemstoneRepo) SimilarByEmbedding(ctx context.Context, id string, limit int) ([]*domain.Gemstone, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Gemstone), args.Error(1)
}

type fixedUUIDGen struct{ id string }

func (g *fixedUUIDGen) NewString() string { return g.id }

func validCreateInput() CreateGemstoneInput {
	return CreateGemstoneInput{
		SerialNumber: "GEM-2024-001",
		Name:         "Burmese Ruby",
		GemType:      domain.GemTypeRuby,
		Color:        "pigeon blood red",
		Cut:          domain.GemCutOval,
		Clarity:      domain.ClarityVVS1,
		Origin:       "Myanmar",
		WeightCarats: 2.14,
		PriceCents:   1250000,
		InStock:      true,
	}
}

func TestCatalogCreate(t *testing.T) {
	repo := new(MockGemstoneRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(g *domain.Gemstone) bool {
		return g.ID == "fixed-id" && g.Currency == "USD" && !g.CreatedAt.IsZero()
	})).Return(nil)

	svc := NewCatalogServiceWithUUIDGen(repo, &fixedUUIDGen{id: "fixed-id"})
	g, err := svc.Create(context.Background(), validCreateInput())

	require.NoError(t, err)
	assert.Equal(t, "fixed-id", g.ID)
	assert.Equal(t, "USD", g.Currency)
	repo.AssertExpectations(t)
}

func TestCatalogCreate_InvalidInput(t *testing.T) {
	repo := new(MockGemstoneRepo)
	svc := NewCatalogService(repo)

	input := validCreateInput()
	input.WeightCarats = 0
	_, err := svc.Create(context.Background(), input)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogUpdate_PatchesProvidedFields(t *testing.T) {
	existing := &domain.Gemstone{
		ID:           "g-1",
		SerialNumber: "GEM-001",
		Name:         "Burmese Ruby",
		GemType:      domain.GemTypeRuby,
		WeightCarats: 2.14,
		PriceCents:   1250000,
		Currency:     "USD",
		InStock:      true,
	}

	repo := new(MockGemstoneRepo)
	repo.On("GetByID", mock.Anything, "g-1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(g *domain.Gemstone) bool {
		return g.PriceCents == 1500000 && g.Name == "Burmese Ruby" && !g.InStock
	})).Return(nil)

	svc := NewCatalogService(repo)
	g, err := svc.Update(context.Background(), UpdateGemstoneInput{
		ID:         "g-1",
		PriceCents: 1500000,
		InStock:    false,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1500000), g.PriceCents)
	assert.Equal(t, "Burmese Ruby", g.Name)
	repo.AssertExpectations(t)
}

func TestCatalogSimilar_DefaultsLimit(t *testing.T) {
	repo := new(MockGemstoneRepo)
	repo.On("SimilarByEmbedding", mock.Anything, "g-1", 8).
		Return([]*domain.Gemstone{}, nil).Times(2)
	repo.On("SimilarByEmbedding", mock.Anything, "g-1", 12).
		Return([]*domain.Gemstone{}, nil).Once()

	svc := NewCatalogService(repo)
	_, err := svc.Similar(context.Background(), "g-1", 0)
	require.NoError(t, err)
	_, err = svc.Similar(context.Background(), "g-1", 100)
	require.NoError(t, err)
	_, err = svc.Similar(context.Background(), "g-1", 12)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
