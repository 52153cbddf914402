package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"servicedesk/internal/jobs"
	"servicedesk/internal/service"
	"servicedesk/pkg/lock"
	"servicedesk/pkg/logger"
)

func (app *Application) initJobs() error {
	if app.analyticsService == nil || app.dispatchService == nil {
		logger.WarnCtx(app.ctx, "Service layer not fully initialized yet, skipping background task registration")
		return nil
	}

	manager := jobs.NewManager(app.ctx)

	// Distributed locks keep multiple replicas from aggregating or dispatching
	// at the same time. If Redis is unavailable, locks downgrade to
	// single-instance mode.
	var redisClient *redis.Client
	if app.redisClient != nil {
		redisClient = app.redisClient.GetClient()
	}

	aggregationLock := lock.NewRedisDistributedLock(redisClient, "analytics:daily-agg-lock")
	dispatchLock := lock.NewRedisDistributedLock(redisClient, "reports:dispatch-lock")

	tickInterval := time.Duration(app.config.Scheduler.TickInterval) * time.Second
	if tickInterval <= 0 {
		tickInterval = time.Hour
	}

	manager.Register(newDailyAggregationJob(24*time.Hour, app.analyticsService, aggregationLock))
	manager.Register(newReportDispatchJob(tickInterval, app.dispatchService, dispatchLock))

	app.jobsManager = manager
	return nil
}

// dailyAggregationJob recomputes every department's and user's snapshot rows
// once per day, aligned to midnight.
type dailyAggregationJob struct {
	interval         time.Duration
	analyticsService *service.AnalyticsService
	distributedLock  lock.DistributedLock
}

func newDailyAggregationJob(interval time.Duration, svc *service.AnalyticsService, l lock.DistributedLock) jobs.Job {
	return &dailyAggregationJob{
		interval:         interval,
		analyticsService: svc,
		distributedLock:  l,
	}
}

func (j *dailyAggregationJob) Name() string {
	return "daily-aggregation"
}

func (j *dailyAggregationJob) Interval() time.Duration {
	return j.interval
}

func (j *dailyAggregationJob) AlignToInterval() bool { return true }

func (j *dailyAggregationJob) Run(ctx context.Context) error {
	if j.analyticsService == nil {
		return fmt.Errorf("analytics service not configured")
	}

	// Try to acquire distributed lock
	if j.distributedLock != nil {
		acquired, err := j.distributedLock.TryLock(ctx)
		if err != nil || !acquired {
			logger.DebugCtx(ctx, "another instance is running the daily aggregation, skipping this cycle")
			return nil
		}
		defer j.distributedLock.Unlock(ctx)
	}

	logger.InfoCtx(ctx, "running daily aggregation job")
	return j.analyticsService.RunDailyAggregation(ctx)
}

// reportDispatchJob evaluates scheduled report due times every tick.
type reportDispatchJob struct {
	interval        time.Duration
	dispatchService *service.DispatchService
	distributedLock lock.DistributedLock
}

func newReportDispatchJob(interval time.Duration, svc *service.DispatchService, l lock.DistributedLock) jobs.Job {
	return &reportDispatchJob{
		interval:        interval,
		dispatchService: svc,
		distributedLock: l,
	}
}

func (j *reportDispatchJob) Name() string {
	return "report-dispatch"
}

func (j *reportDispatchJob) Interval() time.Duration {
	return j.interval
}

func (j *reportDispatchJob) Run(ctx context.Context) error {
	if j.dispatchService == nil {
		return fmt.Errorf("dispatch service not configured")
	}

	// Try to acquire distributed lock
	if j.distributedLock != nil {
		acquired, err := j.distributedLock.TryLock(ctx)
		if err != nil || !acquired {
			logger.DebugCtx(ctx, "another instance is dispatching reports, skipping this cycle")
			return nil
		}
		defer j.distributedLock.Unlock(ctx)
	}

	logger.DebugCtx(ctx, "running report dispatch tick")
	return j.dispatchService.EvaluateDueReports(ctx)
}
