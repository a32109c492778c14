package domain

import (
	"fmt"
	"time"
)

// MediaStatus represents the lifecycle state of a product photo
type MediaStatus string

const (
	MediaStatusPending  MediaStatus = "pending"
	MediaStatusUploaded MediaStatus = "uploaded"
)

// MediaAsset represents a product photo stored in object storage
type MediaAsset struct {
	ID          string
	GemstoneID  string
	Filename    string
	MimeType    string
	StorageKey  string
	SizeBytes   int64
	Status      MediaStatus
	IsPrimary   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// ValidateMediaAsset validates a MediaAsset instance
func ValidateMediaAsset(m *MediaAsset) error {
	if m == nil {
		return fmt.Errorf("media asset cannot be nil")
	}
	if m.ID == "" {
		return fmt.Errorf("media asset ID is required")
	}
	if m.GemstoneID == "" {
		return fmt.Errorf("media asset GemstoneID is required")
	}
	if m.Filename == "" {
		return fmt.Errorf("media asset Filename is required")
	}
	if m.StorageKey == "" {
		return fmt.Errorf("media asset StorageKey is required")
	}
	return nil
}

// AnalysisJobStatus represents the state of a photo analysis job
type AnalysisJobStatus string

const (
	AnalysisJobStatusPending    AnalysisJobStatus = "pending"
	AnalysisJobStatusProcessing AnalysisJobStatus = "processing"
	AnalysisJobStatusCompleted  AnalysisJobStatus = "completed"
	AnalysisJobStatusFailed     AnalysisJobStatus = "failed"
)

// AnalysisJob tracks metadata extraction for a single media asset
type AnalysisJob struct {
	ID          string
	GemstoneID  string
	MediaID     string
	Status      AnalysisJobStatus
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// IsValidAnalysisJobStatus checks if an AnalysisJobStatus is valid
func IsValidAnalysisJobStatus(s AnalysisJobStatus) bool {
	switch s {
	case AnalysisJobStatusPending, AnalysisJobStatusProcessing,
		AnalysisJobStatusCompleted, AnalysisJobStatusFailed:
		return true
	}
	return false
}
