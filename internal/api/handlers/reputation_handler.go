package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/artisanhub/server/internal/api/types"
)

// RepairScheduler schedules background reconciliation runs.
type RepairScheduler interface {
	EnqueueReconcile(ctx context.Context, artisanID uuid.UUID) error
	EnqueueReconcileAll(ctx context.Context) error
}

// ReputationHandler exposes the operator-facing repair pass. The rebuild
// runs in the worker; this endpoint only schedules it.
type ReputationHandler struct {
	scheduler RepairScheduler
}

func NewReputationHandler(scheduler RepairScheduler) *ReputationHandler {
	return &ReputationHandler{scheduler: scheduler}
}

func (h *ReputationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArtisanID string `json:"artisan_id"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorStr(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	if req.ArtisanID == "" {
		if err := h.scheduler.EnqueueReconcileAll(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, types.APIResponse{Success: true, Message: "full reconcile scheduled"})
		return
	}

	id, err := uuid.Parse(req.ArtisanID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid artisan id")
		return
	}
	if err := h.scheduler.EnqueueReconcile(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, types.APIResponse{Success: true, Message: "reconcile scheduled"})
}
