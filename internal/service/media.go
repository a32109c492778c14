package service

import (
	"context"
	"fmt"
	"time"

	"github.com/luminagems/gemstore/internal/domain"
)

// MediaRepositoryInterface defines the repository interface for product photos
type MediaRepositoryInterface interface {
	Create(ctx context.Context, m *domain.MediaAsset) error
	GetByID(ctx context.Context, id string) (*domain.MediaAsset, error)
	ListByGemstone(ctx context.Context, gemstoneID string) ([]*domain.MediaAsset, error)
	MarkUploaded(ctx context.Context, id string, sizeBytes int64, completedAt time.Time) error
}

// AnalysisJobRepositoryInterface queues photo analysis work
type AnalysisJobRepositoryInterface interface {
	Create(ctx context.Context, job *domain.AnalysisJob) error
}

// StorageClientInterface abstracts presigned object storage operations
type StorageClientInterface interface {
	GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error)
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	HeadObject(ctx context.Context, key string) (*ObjectMetadata, error)
	DeleteObject(ctx context.Context, key string) error
}

// ObjectMetadata describes a stored object
type ObjectMetadata struct {
	ContentLength int64
	ContentType   string
	ETag          string
}

// InitUploadInput represents input for starting a photo upload
type InitUploadInput struct {
	GemstoneID string
	Filename   string
	MimeType   string
	IsPrimary  bool
}

// InitUploadResult carries the presigned URL the client uploads against
type InitUploadResult struct {
	Media     *domain.MediaAsset
	UploadURL string
}

// MediaService handles the product photography upload flow
type MediaService struct {
	gemstones GemstoneRepositoryInterface
	media     MediaRepositoryInterface
	storage   StorageClientInterface
	txRunner  TxRunner
	uuidGen   UUIDGenerator
}

// NewMediaService creates a new MediaService instance
func NewMediaService(
	gemstones GemstoneRepositoryInterface,
	media MediaRepositoryInterface,
	storage StorageClientInterface,
	txRunner TxRunner,
) *MediaService {
	return &MediaService{
		gemstones: gemstones,
		media:     media,
		storage:   storage,
		txRunner:  txRunner,
		uuidGen:   &DefaultUUIDGenerator{},
	}
}

// InitUpload registers a pending photo and returns a presigned upload URL.
func (s *MediaService) InitUpload(ctx context.Context, input InitUploadInput) (*InitUploadResult, error) {
	if input.Filename == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "filename is required")
	}

	gem, err := s.gemstones.GetByID(ctx, input.GemstoneID)
	if err != nil {
		return nil, err
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	id := s.uuidGen.NewString()
	media := &domain.MediaAsset{
		ID:         id,
		GemstoneID: gem.ID,
		Filename:   input.Filename,
		MimeType:   mimeType,
		StorageKey: fmt.Sprintf("gemstones/%s/%s", gem.ID, id),
		Status:     domain.MediaStatusPending,
		IsPrimary:  input.IsPrimary,
		CreatedAt:  time.Now().UTC(),
	}

	if err := domain.ValidateMediaAsset(media); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid media asset", err)
	}

	uploadURL, err := s.storage.GenerateUploadURL(ctx, media.StorageKey, media.MimeType)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "storage operation failed", err)
	}

	if err := s.media.Create(ctx, media); err != nil {
		return nil, err
	}

	return &InitUploadResult{Media: media, UploadURL: uploadURL}, nil
}

// CompleteUpload verifies the object landed in storage, then marks the photo
// uploaded and enqueues an analysis job in one transaction.
func (s *MediaService) CompleteUpload(ctx context.Context, mediaID string) (*domain.MediaAsset, error) {
	media, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if media.Status != domain.MediaStatusPending {
		return nil, domain.ErrUploadNotPending
	}

	meta, err := s.storage.HeadObject(ctx, media.StorageKey)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "uploaded object not found in storage", err)
	}

	now := time.Now().UTC()
	job := &domain.AnalysisJob{
		ID:         s.uuidGen.NewString(),
		GemstoneID: media.GemstoneID,
		MediaID:    media.ID,
		Status:     domain.AnalysisJobStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Media().MarkUploaded(ctx, media.ID, meta.ContentLength, now); err != nil {
			return err
		}
		return repos.AnalysisJobs().Create(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	media.Status = domain.MediaStatusUploaded
	media.SizeBytes = meta.ContentLength
	media.CompletedAt = &now
	return media, nil
}

// GetDownloadURL returns a presigned URL for a stored photo.
func (s *MediaService) GetDownloadURL(ctx context.Context, mediaID string) (string, error) {
	media, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		return "", err
	}
	if media.Status != domain.MediaStatusUploaded {
		return "", domain.ErrMediaAssetNotFound
	}

	url, err := s.storage.GenerateDownloadURL(ctx, media.StorageKey)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "storage operation failed", err)
	}
	return url, nil
}

// ListByGemstone returns all photos registered for a stone.
func (s *MediaService) ListByGemstone(ctx context.Context, gemstoneID string) ([]*domain.MediaAsset, error) {
	return s.media.ListByGemstone(ctx, gemstoneID)
}
