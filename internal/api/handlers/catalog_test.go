package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luminagems/gemstore/internal/domain"
	"github.com/luminagems/gemstore/internal/service"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Create(ctx context.Context, input service.CreateGemstoneInput) (*domain.Gemstone, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gemstone), args.Error(1)
}

func (m *MockCatalogService) GetByID(ctx context.Context, id string) (*domain.Gemstone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gemstone), args.Error(1)
}

func (m *MockCatalogService) GetBySerial(ctx context.Context, serial string) (*domain.Gemstone, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gemstone), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, input service.UpdateGemstoneInput) (*domain.Gemstone, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gemstone), args.Error(1)
}

func (m *MockCatalogService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) Similar(ctx context.Context, id string, limit int) ([]*domain.Gemstone, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Gemstone), args.Error(1)
}

func newTestGemstone() *domain.Gemstone {
	now := time.Now().UTC()
	return &domain.Gemstone{
		ID:           "g-123",
		SerialNumber: "LG-2024-0042",
		Name:         "Burmese Ruby",
		GemType:      domain.GemTypeRuby,
		Color:        "pigeon blood red",
		Cut:          domain.GemCutOval,
		Clarity:      domain.ClarityVS1,
		Origin:       "Myanmar",
		WeightCarats: 2.03,
		PriceCents:   1250000,
		Currency:     "USD",
		InStock:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCatalogHandler_Create(t *testing.T) {
	mockSvc := new(MockCatalogService)
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateGemstoneInput) bool {
		return input.SerialNumber == "LG-2024-0042" && input.GemType == domain.GemTypeRuby
	})).Return(newTestGemstone(), nil)

	handler := NewCatalogHandler(mockSvc)

	body, _ := json.Marshal(GemstoneRequest{
		SerialNumber: "LG-2024-0042",
		Name:         "Burmese Ruby",
		GemType:      "Ruby",
		WeightCarats: 2.03,
		PriceCents:   1250000,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/gemstones", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data GemstoneResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "g-123", envelope.Data.ID)
	assert.Equal(t, "ruby", envelope.Data.GemType)
	mockSvc.AssertExpectations(t)
}

func TestCatalogHandler_Create_MissingFields(t *testing.T) {
	handler := NewCatalogHandler(new(MockCatalogService))

	tests := []struct {
		name string
		body GemstoneRequest
		want string
	}{
		{"missing serial", GemstoneRequest{Name: "Ruby", GemType: "ruby"}, "serial_number is required"},
		{"missing name", GemstoneRequest{SerialNumber: "LG-1", GemType: "ruby"}, "name is required"},
		{"missing type", GemstoneRequest{SerialNumber: "LG-1", Name: "Ruby"}, "gem_type is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/admin/gemstones", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestCatalogHandler_Create_DuplicateSerial(t *testing.T) {
	mockSvc := new(MockCatalogService)
	mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrGemstoneAlreadyExists)

	handler := NewCatalogHandler(mockSvc)

	body, _ := json.Marshal(GemstoneRequest{SerialNumber: "LG-2024-0042", Name: "Ruby", GemType: "ruby"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/gemstones", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogHandler_Get(t *testing.T) {
	mockSvc := new(MockCatalogService)
	mockSvc.On("GetByID", mock.Anything, "g-123").Return(newTestGemstone(), nil)

	handler := NewCatalogHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/gemstones/g-123", nil)
	req = withURLParam(req, "id", "g-123")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestCatalogHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockCatalogService)
	mockSvc.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrGemstoneNotFound)

	handler := NewCatalogHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/gemstones/missing", nil)
	req = withURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandler_Similar(t *testing.T) {
	mockSvc := new(MockCatalogService)
	mockSvc.On("Similar", mock.Anything, "g-123", 4).Return([]*domain.Gemstone{newTestGemstone()}, nil)

	handler := NewCatalogHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/gemstones/g-123/similar?limit=4", nil)
	req = withURLParam(req, "id", "g-123")
	w := httptest.NewRecorder()

	handler.Similar(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []*GemstoneResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
	mockSvc.AssertExpectations(t)
}

func TestCatalogHandler_Similar_BadLimit(t *testing.T) {
	handler := NewCatalogHandler(new(MockCatalogService))

	req := httptest.NewRequest(http.MethodGet, "/api/gemstones/g-123/similar?limit=abc", nil)
	req = withURLParam(req, "id", "g-123")
	w := httptest.NewRecorder()

	handler.Similar(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_Update(t *testing.T) {
	updated := newTestGemstone()
	updated.PriceCents = 1400000

	mockSvc := new(MockCatalogService)
	mockSvc.On("Update", mock.Anything, mock.MatchedBy(func(input service.UpdateGemstoneInput) bool {
		return input.ID == "g-123" && input.PriceCents == 1400000
	})).Return(updated, nil)

	handler := NewCatalogHandler(mockSvc)

	body, _ := json.Marshal(GemstoneRequest{PriceCents: 1400000, InStock: true, CertificationLab: ""})
	req := httptest.NewRequest(http.MethodPut, "/api/admin/gemstones/g-123", bytes.NewReader(body))
	req = withURLParam(req, "id", "g-123")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestCatalogHandler_Delete(t *testing.T) {
	mockSvc := new(MockCatalogService)
	mockSvc.On("Delete", mock.Anything, "g-123").Return(nil)

	handler := NewCatalogHandler(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/gemstones/g-123", nil)
	req = withURLParam(req, "id", "g-123")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}
