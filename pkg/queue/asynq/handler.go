package asynq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"servicedesk/pkg/logger"
)

type reportDispatcher interface {
	DispatchByID(ctx context.Context, reportID string) error
}

// DispatchHandler processes report dispatch tasks from the queue.
type DispatchHandler struct {
	dispatcher reportDispatcher
}

// NewDispatchHandler creates a new dispatch handler
func NewDispatchHandler(dispatcher reportDispatcher) *DispatchHandler {
	return &DispatchHandler{dispatcher: dispatcher}
}

// ProcessTask implements asynq.Handler
func (h *DispatchHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload DispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal dispatch payload: %w", err)
	}

	logger.InfoCtx(ctx, "processing report dispatch, report_id: %s", payload.ReportID)
	if err := h.dispatcher.DispatchByID(ctx, payload.ReportID); err != nil {
		return fmt.Errorf("failed to dispatch report %s: %w", payload.ReportID, err)
	}
	return nil
}
