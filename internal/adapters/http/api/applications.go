// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/talentfit/internal/domain/dedupe"
	"github.com/okian/talentfit/internal/domain/model"
	"github.com/okian/talentfit/pkg/metrics"
)

// ApplicationDependencies defines the interface for application intake.
type ApplicationDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, req model.ScoreRequest) bool
}

// ApplicationsHandler handles application submissions.
type ApplicationsHandler struct {
	deps ApplicationDependencies
}

// NewApplicationsHandler creates a new applications handler.
func NewApplicationsHandler(deps ApplicationDependencies) *ApplicationsHandler {
	return &ApplicationsHandler{deps: deps}
}

// HandlePostApplication handles POST /applications requests.
func (h *ApplicationsHandler) HandlePostApplication(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_application"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		metrics.RecordDuplicateApplication()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	ts, _ := time.Parse(time.RFC3339, req.TS)
	scoreReq := model.ScoreRequest{
		RequestID:    req.RequestID,
		JobID:        req.JobID,
		CandidateID:  req.CandidateID,
		Requirements: req.JobRequirements,
		Profile:      req.Profile,
		TS:           ts,
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), scoreReq); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.RequestID)
		writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%s: %w", op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
