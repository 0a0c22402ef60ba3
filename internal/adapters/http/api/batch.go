// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/talentfit/internal/domain/model"
)

// BatchScoreDependencies defines the interface for batch scoring.
type BatchScoreDependencies interface {
	ScoreBatch(ctx context.Context, req model.JobRequirements, candidates []model.Candidate) []model.ScoredCandidate
}

// BatchScoreHandler handles batch scoring requests.
type BatchScoreHandler struct {
	deps BatchScoreDependencies
}

// NewBatchScoreHandler creates a new batch score handler.
func NewBatchScoreHandler(deps BatchScoreDependencies) *BatchScoreHandler {
	return &BatchScoreHandler{deps: deps}
}

// HandleBatchScore handles POST /score/batch requests.
// Candidates beyond the configured batch limit are dropped before scoring.
func (h *BatchScoreHandler) HandleBatchScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if len(req.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%s: %w: %w", op, ErrBadRequest, errors.New("missing candidates")))
		return
	}

	results := h.deps.ScoreBatch(r.Context(), req.JobRequirements, req.Candidates)
	writeJSON(w, http.StatusOK, batchScoreResponse{Results: results, Count: len(results)})
}
