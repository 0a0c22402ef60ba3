// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	requestqueue "github.com/okian/talentfit/internal/adapters/mq/queue"
	workerpool "github.com/okian/talentfit/internal/adapters/mq/worker"
	repository "github.com/okian/talentfit/internal/adapters/repository"
	"github.com/okian/talentfit/internal/domain/dedupe"
	"github.com/okian/talentfit/internal/domain/model"
	"github.com/okian/talentfit/internal/domain/ranking"
	"github.com/okian/talentfit/internal/domain/scoring"
	"github.com/okian/talentfit/internal/domain/types"
	"github.com/okian/talentfit/pkg/logger"
	"github.com/okian/talentfit/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = 100000
	defaultDedupeSize = 50000
)

// storeAdapter adapts repository.Store to the worker.Updater interface.
type storeAdapter struct {
	store repository.Store
}

func (a *storeAdapter) UpdateFit(ctx context.Context, jobID, candidateID string, result model.ScoreResult) (bool, error) {
	return a.store.UpdateFit(ctx, jobID, candidateID, result.Scores.OverallFit, result.Label, result.ScoredAt)
}

// Service implements the API dependencies for the matching system.
type Service struct {
	mu sync.RWMutex

	// Core components
	matches      repository.Store
	deduper      dedupe.Deduper
	requestQueue requestqueue.Queue
	engine       scoring.Scorer
	ranker       *ranking.Ranker
	workerPool   *workerpool.Pool

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	weights          scoring.Weights
	batchLimit       int
	batchConcurrency int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the score-request queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWeights sets the scoring weights for the engine.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithBatchLimit caps the number of candidates scored per batch call.
func WithBatchLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.batchLimit = limit
		}
	}
}

// WithBatchConcurrency sets how many candidates are scored in parallel
// during batch scoring.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        defaultQueueSize,
		dedupeSize:       defaultDedupeSize,
		weights:          scoring.DefaultWeights(),
		batchLimit:       0, // ranker default applies
		batchConcurrency: runtime.NumCPU(),
		stopCh:           make(chan struct{}),
		logger:           nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting matching service...")

	// Initialize components
	s.matches = repository.NewMatchStore(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.requestQueue = requestqueue.NewInMemoryQueue(
		requestqueue.WithCapacity(s.queueSize),
		requestqueue.WithBufferSize(s.queueSize),
	)
	s.engine = scoring.NewEngine(
		scoring.WithWeights(s.weights),
	)

	rankerOpts := []ranking.Option{
		ranking.WithConcurrency(s.batchConcurrency),
	}
	if s.batchLimit > 0 {
		rankerOpts = append(rankerOpts, ranking.WithBatchLimit(s.batchLimit))
	}
	s.ranker = ranking.NewRanker(s.engine, rankerOpts...)

	// Create and start worker pool writing into the match store
	s.workerPool = workerpool.NewPool(s.workerCount, s.requestQueue, s.engine, &storeAdapter{store: s.matches})
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping matching service...")

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Close queue
	if q, ok := s.requestQueue.(*requestqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "matching service stopped")
}

// SeenAndRecord atomically checks if a request id was seen and records it if
// not. Returns true if the request was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a request ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a score request for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, req model.ScoreRequest) bool {
	s.logger.Debug(ctx, "enqueueing score request",
		logger.String("requestID", req.RequestID),
		logger.String("jobID", req.JobID),
		logger.String("candidateID", req.CandidateID),
	)

	success := s.requestQueue.Enqueue(ctx, req)
	if success {
		metrics.UpdateQueueSize(s.requestQueue.Len(ctx))
	}
	return success
}

// ScoreOne synchronously scores a single candidate against a job.
func (s *Service) ScoreOne(ctx context.Context, req model.JobRequirements, prof model.CandidateProfile) model.ScoreResult {
	return s.engine.Score(ctx, req, prof)
}

// ScoreBatch synchronously scores a set of candidates against a job and
// returns them ordered by fit, best first.
func (s *Service) ScoreBatch(ctx context.Context, req model.JobRequirements, candidates []model.Candidate) []model.ScoredCandidate {
	metrics.RecordBatchSize(len(candidates))
	return s.ranker.ScoreMultiple(ctx, req, candidates)
}

// TopN returns the top N ranked candidates for a job.
func (s *Service) TopN(ctx context.Context, jobID string, n int) ([]types.RankedCandidate, error) {
	entries, err := s.matches.TopN(ctx, jobID, n)
	if err != nil {
		return nil, err
	}

	// Convert to API format
	apiEntries := make([]types.RankedCandidate, len(entries))
	for i, entry := range entries {
		apiEntries[i] = types.RankedCandidate{
			Rank:        entry.Rank,
			JobID:       entry.JobID,
			CandidateID: entry.CandidateID,
			Fit:         entry.Fit,
			Label:       entry.Label,
		}
	}

	return apiEntries, nil
}

// Rank returns the rank and fit for a candidate within a job.
func (s *Service) Rank(ctx context.Context, jobID, candidateID string) (types.RankedCandidate, error) {
	entry, err := s.matches.Rank(ctx, jobID, candidateID)
	if err != nil {
		return types.RankedCandidate{}, err
	}

	return types.RankedCandidate{
		Rank:        entry.Rank,
		JobID:       entry.JobID,
		CandidateID: entry.CandidateID,
		Fit:         entry.Fit,
		Label:       entry.Label,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.requestQueue.Len(ctx)
		totalCandidates := s.matches.Count(ctx)

		stats["queueLength"] = queueLen
		stats["trackedCandidates"] = totalCandidates

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTrackedCandidates(totalCandidates)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
