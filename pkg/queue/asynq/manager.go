package asynq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"servicedesk/pkg/config"
	"servicedesk/pkg/logger"
)

const (
	TypeReportDispatch = "report:dispatch"
)

// DispatchPayload payload of a report dispatch task
type DispatchPayload struct {
	ReportID string `json:"report_id"`
}

// Manager queue manager for on-demand report dispatch
type Manager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewManager creates queue manager
func NewManager(cfg *config.Config) (*Manager, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				"default": 10,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Second
			},
		},
	)

	mux := asynq.NewServeMux()

	return &Manager{
		client: client,
		server: server,
		mux:    mux,
	}, nil
}

// EnqueueReportDispatch enqueues an on-demand dispatch of one scheduled report.
func (m *Manager) EnqueueReportDispatch(ctx context.Context, reportID string) error {
	payload, err := json.Marshal(DispatchPayload{ReportID: reportID})
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch payload: %w", err)
	}

	task := asynq.NewTask(TypeReportDispatch, payload)

	opts := []asynq.Option{
		asynq.MaxRetry(config.GlobalConfig.Queue.MaxRetry),
	}

	info, err := m.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue report dispatch: %w", err)
	}

	logger.InfoCtx(ctx, "report dispatch enqueued, report_id: %s, queue: %s", reportID, info.Queue)
	return nil
}

// RegisterHandler registers task handler
func (m *Manager) RegisterHandler(pattern string, handler asynq.Handler) {
	m.mux.Handle(pattern, handler)
}

// Start starts queue processor
func (m *Manager) Start() error {
	logger.InfoCtx(context.Background(), "starting queue server")
	return m.server.Start(m.mux)
}

// Stop stops queue processor
func (m *Manager) Stop() {
	logger.InfoCtx(context.Background(), "stopping queue server")
	m.server.Stop()
	m.server.Shutdown()
}

// Close closes client
func (m *Manager) Close() error {
	return m.client.Close()
}
