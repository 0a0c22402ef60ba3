// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/talentfit/internal/adapters/repository"
	"github.com/okian/talentfit/internal/domain/dedupe"
	"github.com/okian/talentfit/internal/domain/model"
	"github.com/okian/talentfit/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a score request for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, req model.ScoreRequest) bool

	// Synchronous scoring operations.
	ScoreOne(ctx context.Context, req model.JobRequirements, prof model.CandidateProfile) model.ScoreResult
	ScoreBatch(ctx context.Context, req model.JobRequirements, candidates []model.Candidate) []model.ScoredCandidate

	// Read operations expose per-job ranking data.
	TopN(ctx context.Context, jobID string, n int) ([]Entry, error)
	Rank(ctx context.Context, jobID, candidateID string) (Entry, error)
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.RankedCandidate

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	scoreHandler        *ScoreHandler
	batchHandler        *BatchScoreHandler
	applicationsHandler *ApplicationsHandler
	rankingHandler      *RankingHandler
	rankHandler         *RankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		scoreHandler:        NewScoreHandler(deps),
		batchHandler:        NewBatchScoreHandler(deps),
		applicationsHandler: NewApplicationsHandler(deps),
		rankingHandler:      NewRankingHandler(deps, maxRankingLimit),
		rankHandler:         NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score/batch", MetricsMiddleware(s.batchHandler.HandleBatchScore, "score_batch"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/applications", MetricsMiddleware(s.applicationsHandler.HandlePostApplication, "applications"))
	mux.HandleFunc("/ranking/", MetricsMiddleware(s.rankingHandler.HandleGetRanking, "ranking"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

// scoreRequest mirrors the OpenAPI schema for POST /score.
type scoreRequest struct {
	JobRequirements  model.JobRequirements  `json:"job_requirements"`
	CandidateProfile model.CandidateProfile `json:"candidate_profile"`
}

// batchScoreRequest mirrors the OpenAPI schema for POST /score/batch.
type batchScoreRequest struct {
	JobRequirements model.JobRequirements `json:"job_requirements"`
	Candidates      []model.Candidate     `json:"candidates"`
}

type batchScoreResponse struct {
	Results []model.ScoredCandidate `json:"results"`
	Count   int                     `json:"count"`
}

// applicationRequest mirrors the OpenAPI schema for POST /applications.
type applicationRequest struct {
	RequestID       string                 `json:"request_id"`
	JobID           string                 `json:"job_id"`
	CandidateID     string                 `json:"candidate_id"`
	JobRequirements model.JobRequirements  `json:"job_requirements"`
	Profile         model.CandidateProfile `json:"candidate_profile"`
	TS              string                 `json:"ts"`
}

func (a applicationRequest) validate() error {
	switch {
	case strings.TrimSpace(a.RequestID) == "":
		return errors.New("missing request_id")
	case strings.TrimSpace(a.JobID) == "":
		return errors.New("missing job_id")
	case strings.TrimSpace(a.CandidateID) == "":
		return errors.New("missing candidate_id")
	case strings.TrimSpace(a.TS) == "":
		return errors.New("missing ts")
	}
	if _, err := time.Parse(time.RFC3339, a.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, repository.ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
