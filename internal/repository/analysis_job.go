package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminagems/gemstore/internal/domain"
)

// maxJobAttempts is how many times a job is retried before it stays failed.
const maxJobAttempts = 3

// AnalysisJobRepository stores photo analysis work items.
type AnalysisJobRepository struct {
	db dbtx
}

func NewAnalysisJobRepository(pool *pgxpool.Pool) *AnalysisJobRepository {
	return &AnalysisJobRepository{db: pool}
}

func NewAnalysisJobRepositoryWithTx(tx pgx.Tx) *AnalysisJobRepository {
	return &AnalysisJobRepository{db: tx}
}

func (r *AnalysisJobRepository) Create(ctx context.Context, job *domain.AnalysisJob) error {
	query := `
		INSERT INTO analysis_jobs (id, gemstone_id, media_id, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		job.ID, job.GemstoneID, job.MediaID, job.Status, job.Attempts, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create analysis job: %w", err)
	}
	return nil
}

// ClaimPending atomically moves up to limit pending jobs to processing and
// returns them. SKIP LOCKED keeps concurrent workers off the same rows.
func (r *AnalysisJobRepository) ClaimPending(ctx context.Context, limit int) ([]*domain.AnalysisJob, error) {
	query := `
		UPDATE analysis_jobs
		SET status = $1, attempts = attempts + 1, updated_at = now()
		WHERE id IN (
			SELECT id FROM analysis_jobs
			WHERE status = $2 AND attempts < $3
			ORDER BY created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT $4
		)
		RETURNING id, gemstone_id, media_id, status, attempts, last_error, created_at, updated_at, completed_at`

	rows, err := r.db.Query(ctx, query,
		domain.AnalysisJobStatusProcessing, domain.AnalysisJobStatusPending, maxJobAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim analysis jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.AnalysisJob, 0)
	for rows.Next() {
		var job domain.AnalysisJob
		var lastError *string
		if err := rows.Scan(&job.ID, &job.GemstoneID, &job.MediaID, &job.Status, &job.Attempts,
			&lastError, &job.CreatedAt, &job.UpdatedAt, &job.CompletedAt); err != nil {
			return nil, err
		}
		if lastError != nil {
			job.LastError = *lastError
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

func (r *AnalysisJobRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `
		UPDATE analysis_jobs
		SET status = $2, last_error = NULL, updated_at = now(), completed_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, domain.AnalysisJobStatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to complete analysis job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnalysisJobNotFound
	}
	return nil
}

// MarkFailed records the error and returns the job to pending until the
// retry limit is reached, after which it stays failed.
func (r *AnalysisJobRepository) MarkFailed(ctx context.Context, id string, lastError string) error {
	query := `
		UPDATE analysis_jobs
		SET status = CASE WHEN attempts >= $3 THEN $4::text ELSE $5::text END,
		    last_error = $2,
		    updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, lastError, maxJobAttempts,
		string(domain.AnalysisJobStatusFailed), string(domain.AnalysisJobStatusPending))
	if err != nil {
		return fmt.Errorf("failed to fail analysis job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnalysisJobNotFound
	}
	return nil
}
