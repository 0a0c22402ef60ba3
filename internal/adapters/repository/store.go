// Package repository defines the match-ranking store interface and errors.
package repository

import (
	"context"
	"time"
)

// Entry represents one candidate's position in a job's ranking.
type Entry struct {
	Rank        int
	JobID       string
	CandidateID string
	Fit         float64
	Label       string
	ScoredAt    time.Time
}

// Store provides read/write access to per-job candidate rankings.
type Store interface {
	// UpdateFit records a candidate's latest fit for a job. A re-score
	// replaces the previous value. Returns true if the stored fit changed.
	UpdateFit(ctx context.Context, jobID, candidateID string, fit float64, label string, scoredAt time.Time) (bool, error)

	// Rank returns the current rank and fit for a candidate within a job.
	// Returns ErrNotFound if the job or candidate is unknown.
	Rank(ctx context.Context, jobID, candidateID string) (Entry, error)

	// TopN returns a job's top-N candidates ordered by fit desc.
	TopN(ctx context.Context, jobID string, n int) ([]Entry, error)

	// Count returns the number of candidates tracked across all jobs.
	Count(ctx context.Context) int

	// CountJob returns the number of candidates tracked for one job.
	CountJob(ctx context.Context, jobID string) int
}
