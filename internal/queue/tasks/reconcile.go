package tasks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/artisanhub/server/internal/services"
	"github.com/artisanhub/server/pkg/logger"
)

// TypeReconcile is the asynq task type for reputation repair runs.
const TypeReconcile = "reputation:reconcile"

// ReconcilePayload carries the target artisan. An empty ArtisanID means
// every artisan is reconciled.
type ReconcilePayload struct {
	ArtisanID string `json:"artisan_id"`
}

// ReconcileEnqueuer schedules reconcile tasks on the asynq queue. It backs
// the reputation service's degraded-success path and the operator-facing
// repair endpoint.
type ReconcileEnqueuer struct {
	client *asynq.Client
}

func NewReconcileEnqueuer(client *asynq.Client) *ReconcileEnqueuer {
	return &ReconcileEnqueuer{client: client}
}

var _ services.RepairEnqueuer = (*ReconcileEnqueuer)(nil)

func (e *ReconcileEnqueuer) EnqueueReconcile(ctx context.Context, artisanID uuid.UUID) error {
	payload, err := json.Marshal(ReconcilePayload{ArtisanID: artisanID.String()})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeReconcile, payload)
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return err
	}
	logger.L().Info("reconcile task enqueued", zap.String("artisan_id", artisanID.String()))
	return nil
}

// EnqueueReconcileAll schedules a full repair pass over every artisan.
func (e *ReconcileEnqueuer) EnqueueReconcileAll(ctx context.Context) error {
	payload, err := json.Marshal(ReconcilePayload{})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeReconcile, payload)
	_, err = e.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	return err
}

// ReconcileTaskHandler runs reconcile tasks inside the worker process.
type ReconcileTaskHandler struct {
	reputation services.ReputationService
}

func NewReconcileTaskHandler(reputation services.ReputationService) *ReconcileTaskHandler {
	return &ReconcileTaskHandler{reputation: reputation}
}

func (h *ReconcileTaskHandler) HandleReconcile(ctx context.Context, t *asynq.Task) error {
	var p ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid reconcile task payload", zap.Error(err))
		return err
	}

	if p.ArtisanID == "" {
		logger.L().Info("handling full reconcile task")
		return h.reputation.ReconcileAll(ctx)
	}

	id, err := uuid.Parse(p.ArtisanID)
	if err != nil {
		logger.L().Error("invalid artisan id in reconcile task", zap.Error(err))
		return err
	}
	logger.L().Info("handling reconcile task", zap.String("artisan_id", id.String()))
	return h.reputation.Reconcile(ctx, id)
}
