package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/luminagems/gemstore/internal/domain"
	"github.com/luminagems/gemstore/internal/service"
)

const (
	// ClaimBatchSize is how many pending analysis jobs one poll claims.
	ClaimBatchSize = 5
)

// PhotoAnalyzer runs the metadata extraction for one claimed job.
type PhotoAnalyzer interface {
	ProcessJob(ctx context.Context, job *domain.AnalysisJob) error
}

// AnalysisWorker drains the photo analysis queue: each poll claims a batch
// of pending jobs, analyzes them, and settles their status.
type AnalysisWorker struct {
	queue    service.AnalysisJobQueue
	analyzer PhotoAnalyzer
}

// NewAnalysisWorker creates a new AnalysisWorker instance
func NewAnalysisWorker(queue service.AnalysisJobQueue, analyzer PhotoAnalyzer) *AnalysisWorker {
	return &AnalysisWorker{
		queue:    queue,
		analyzer: analyzer,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *AnalysisWorker) ProcessJobs(ctx context.Context) error {
	jobs, err := w.queue.ClaimPending(ctx, ClaimBatchSize)
	if err != nil {
		return fmt.Errorf("failed to claim pending jobs: %w", err)
	}

	if len(jobs) == 0 {
		return nil
	}

	log.Printf("Processing %d pending analysis jobs", len(jobs))

	for _, job := range jobs {
		if err := w.processJob(ctx, job); err != nil {
			log.Printf("Error processing job %s: %v", job.ID, err)
		}
	}

	return nil
}

func (w *AnalysisWorker) processJob(ctx context.Context, job *domain.AnalysisJob) error {
	log.Printf("Processing job %s for gemstone %s", job.ID, job.GemstoneID)

	if err := w.analyzer.ProcessJob(ctx, job); err != nil {
		log.Printf("Job %s failed on attempt %d: %v", job.ID, job.Attempts, err)
		if markErr := w.queue.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			return fmt.Errorf("failed to record job failure: %w", markErr)
		}
		return nil
	}

	if err := w.queue.MarkCompleted(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}

	log.Printf("Job %s completed successfully", job.ID)
	return nil
}
