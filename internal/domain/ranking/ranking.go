// Package ranking scores collections of candidates against one job and
// produces a fit-ordered sequence.
package ranking

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/talentfit/internal/domain/model"
	"github.com/okian/talentfit/internal/domain/scoring"
)

// Default batch configuration constants.
const (
	defaultBatchLimit = 50 // practical cap on candidates scored per batch
)

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithBatchLimit caps how many candidates a single batch scores.
func WithBatchLimit(limit int) Option {
	return func(r *Ranker) {
		if limit > 0 {
			r.batchLimit = limit
		}
	}
}

// WithConcurrency bounds the scoring fan-out.
func WithConcurrency(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// Ranker applies a scorer across candidate batches. Scoring of each
// candidate is independent, so batches fan out across a bounded group.
type Ranker struct {
	scorer      scoring.Scorer
	batchLimit  int
	concurrency int
}

// NewRanker creates a ranker with configuration options.
func NewRanker(scorer scoring.Scorer, opts ...Option) *Ranker {
	r := &Ranker{
		scorer:      scorer,
		batchLimit:  defaultBatchLimit,
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ScoreMultiple scores every candidate against the job requirements and
// returns new decorated copies sorted descending by overall fit. Ties keep
// input-relative order. Input elements are never mutated. One candidate's
// failure never aborts the batch: the failed entry carries a Success:false
// result with neutral scores instead.
func (r *Ranker) ScoreMultiple(ctx context.Context, req model.JobRequirements, candidates []model.Candidate) []model.ScoredCandidate {
	if len(candidates) > r.batchLimit {
		candidates = candidates[:r.batchLimit]
	}

	out := make([]model.ScoredCandidate, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			out[i] = model.ScoredCandidate{
				Candidate: cand,
				Scoring:   r.scoreOne(gctx, req, cand),
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; failures are per-item results

	// Unrounded fit keeps the sort deterministic below display precision.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Scoring.Scores.RawFit > out[j].Scoring.Scores.RawFit
	})
	return out
}

// scoreOne isolates a single candidate's scoring so a panicking scorer
// cannot take down the batch.
func (r *Ranker) scoreOne(ctx context.Context, req model.JobRequirements, cand model.Candidate) (result model.ScoreResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = failedResult(fmt.Sprintf("scoring candidate %s failed: %v", cand.ID, rec))
		}
	}()
	return r.scorer.Score(ctx, req, cand.Profile)
}

// failedResult mirrors the engine's neutral result for scorers that
// violate the no-panic contract.
func failedResult(msg string) model.ScoreResult {
	const neutral = 0.5
	return model.ScoreResult{
		Scores: model.Scores{
			SkillMatch:      neutral,
			ExperienceMatch: neutral,
			EducationMatch:  neutral,
			LocationMatch:   neutral,
			SalaryMatch:     neutral,
			OverallFit:      neutral,
			RawFit:          neutral,
		},
		Metadata: model.Metadata{
			SkillsAnalysis: model.SkillsAnalysis{
				MatchingSkills:   []model.SkillPair{},
				MissingSkills:    []string{},
				AdditionalSkills: []string{},
			},
			Recommendations: []model.Recommendation{},
		},
		Label:    scoring.FitLabel(neutral),
		ScoredAt: time.Now().UTC(),
		Success:  false,
		Error:    msg,
	}
}
