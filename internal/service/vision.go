package service

import (
	"context"
	"fmt"
	"time"

	"github.com/luminagems/gemstore/internal/domain"
)

// VisionClientInterface extracts structured gem attributes from a product
// photo and produces text embeddings for similarity search.
type VisionClientInterface interface {
	AnalyzeGemPhoto(ctx context.Context, imageURL string) (*domain.GemAnalysis, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// AnalysisJobQueue claims and settles pending analysis jobs.
type AnalysisJobQueue interface {
	ClaimPending(ctx context.Context, limit int) ([]*domain.AnalysisJob, error)
	MarkCompleted(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, lastError string) error
}

// AnalysisService runs AI metadata extraction for uploaded product photos.
type AnalysisService struct {
	jobs      AnalysisJobQueue
	media     MediaRepositoryInterface
	gemstones GemstoneRepositoryInterface
	storage   StorageClientInterface
	vision    VisionClientInterface
}

// NewAnalysisService creates a new AnalysisService instance
func NewAnalysisService(
	jobs AnalysisJobQueue,
	media MediaRepositoryInterface,
	gemstones GemstoneRepositoryInterface,
	storage StorageClientInterface,
	vision VisionClientInterface,
) *AnalysisService {
	return &AnalysisService{
		jobs:      jobs,
		media:     media,
		gemstones: gemstones,
		storage:   storage,
		vision:    vision,
	}
}

// ProcessJob analyzes the photo behind one claimed job and stores the
// extracted attributes plus a description embedding on the gemstone.
func (s *AnalysisService) ProcessJob(ctx context.Context, job *domain.AnalysisJob) error {
	media, err := s.media.GetByID(ctx, job.MediaID)
	if err != nil {
		return fmt.Errorf("load media %s: %w", job.MediaID, err)
	}

	imageURL, err := s.storage.GenerateDownloadURL(ctx, media.StorageKey)
	if err != nil {
		return fmt.Errorf("presign photo %s: %w", media.StorageKey, err)
	}

	analysis, err := s.vision.AnalyzeGemPhoto(ctx, imageURL)
	if err != nil {
		return fmt.Errorf("analyze photo: %w", err)
	}
	analysis.AnalyzedAt = time.Now().UTC()

	var embedding []float32
	if analysis.Description != "" {
		embedding, err = s.vision.GenerateEmbedding(ctx, analysis.Description)
		if err != nil {
			return fmt.Errorf("embed description: %w", err)
		}
	}

	if err := s.gemstones.UpdateAnalysis(ctx, job.GemstoneID, analysis, embedding); err != nil {
		return fmt.Errorf("store analysis for %s: %w", job.GemstoneID, err)
	}

	return nil
}
