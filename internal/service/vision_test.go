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

type MockVisionClient struct {
	mock.Mock
}

func (m *MockVisionClient) AnalyzeGemPhoto(ctx context.Context, imageURL string) (*domain.GemAnalysis, error) {
	args := m.Called(ctx, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GemAnalysis), args.Error(1)
}

func (m *MockVisionClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func analysisJobFixture() *domain.AnalysisJob {
	return &domain.AnalysisJob{
		ID:         "job-1",
		GemstoneID: "g-1",
		MediaID:    "m-1",
		Status:     domain.AnalysisJobStatusProcessing,
	}
}

func TestProcessJob(t *testing.T) {
	mediaRepo := new(MockMediaRepo)
	mediaRepo.On("GetByID", mock.Anything, "m-1").
		Return(&domain.MediaAsset{ID: "m-1", StorageKey: "gemstones/g-1/m-1"}, nil)

	storage := new(MockStorageClient)
	storage.On("GenerateDownloadURL", mock.Anything, "gemstones/g-1/m-1").
		Return("https://storage.example/photo", nil)

	vision := new(MockVisionClient)
	vision.On("AnalyzeGemPhoto", mock.Anything, "https://storage.example/photo").
		Return(&domain.GemAnalysis{Description: "vivid pigeon blood ruby, oval cut"}, nil)
	vision.On("GenerateEmbedding", mock.Anything, "vivid pigeon blood ruby, oval cut").
		Return([]float32{0.1, 0.2}, nil)

	gems := new(MockGemstoneRepo)
	gems.On("UpdateAnalysis", mock.Anything, "g-1", mock.MatchedBy(func(a *domain.GemAnalysis) bool {
		return a.Description != "" && !a.AnalyzedAt.IsZero()
	}), []float32{0.1, 0.2}).Return(nil)

	svc := NewAnalysisService(nil, mediaRepo, gems, storage, vision)
	err := svc.ProcessJob(context.Background(), analysisJobFixture())

	require.NoError(t, err)
	gems.AssertExpectations(t)
}

func TestProcessJob_EmptyDescriptionSkipsEmbedding(t *testing.T) {
	mediaRepo := new(MockMediaRepo)
	mediaRepo.On("GetByID", mock.Anything, "m-1").
		Return(&domain.MediaAsset{ID: "m-1", StorageKey: "k"}, nil)

	storage := new(MockStorageClient)
	storage.On("GenerateDownloadURL", mock.Anything, "k").
		Return("https://storage.example/photo", nil)

	vision := new(MockVisionClient)
	vision.On("AnalyzeGemPhoto", mock.Anything, mock.Anything).
		Return(&domain.GemAnalysis{}, nil)

	gems := new(MockGemstoneRepo)
	gems.On("UpdateAnalysis", mock.Anything, "g-1", mock.Anything, []float32(nil)).Return(nil)

	svc := NewAnalysisService(nil, mediaRepo, gems, storage, vision)
	err := svc.ProcessJob(context.Background(), analysisJobFixture())

	require.NoError(t, err)
	vision.AssertNotCalled(t, "GenerateEmbedding", mock.Anything, mock.Anything)
}

func TestProcessJob_VisionFailureSurfaces(t *testing.T) {
	mediaRepo := new(MockMediaRepo)
	mediaRepo.On("GetByID", mock.Anything, "m-1").
		Return(&domain.MediaAsset{ID: "m-1", StorageKey: "k"}, nil)

	storage := new(MockStorageClient)
	storage.On("GenerateDownloadURL", mock.Anything, "k").
		Return("https://storage.example/photo", nil)

	vision := new(MockVisionClient)
	vision.On("AnalyzeGemPhoto", mock.Anything, mock.Anything).
		Return(nil, errors.New("model overloaded"))

	gems := new(MockGemstoneRepo)
	svc := NewAnalysisService(nil, mediaRepo, gems, storage, vision)

	err := svc.ProcessJob(context.Background(), analysisJobFixture())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyze photo")
	gems.AssertNotCalled(t, "UpdateAnalysis", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
