// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/talentfit/internal/domain/model"
)

// ScoreDependencies defines the interface for synchronous scoring.
type ScoreDependencies interface {
	ScoreOne(ctx context.Context, req model.JobRequirements, prof model.CandidateProfile) model.ScoreResult
}

// ScoreHandler handles single-candidate scoring requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleScore handles POST /score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	result := h.deps.ScoreOne(r.Context(), req.JobRequirements, req.CandidateProfile)
	writeJSON(w, http.StatusOK, result)
}
