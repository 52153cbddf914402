package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"servicedesk/internal/model"
	"servicedesk/pkg/analytics"
	"servicedesk/pkg/logger"
	mysqlModel "servicedesk/pkg/store/mysql/model"
)

// Metric names used consistently across snapshots, anomaly detection and
// forecasting. Department series and user series have disjoint key sets.
const (
	MetricTotalTasks        = "totalTasks"
	MetricCompletedTasks    = "completedTasks"
	MetricOverdueTasks      = "overdueTasks"
	MetricTasksCompleted    = "tasksCompleted"
	MetricTasksOverdue      = "tasksOverdue"
	MetricProductivityScore = "productivityScore"
)

// AnalyticsService computes daily snapshots from the task table and serves
// snapshot series, trends, anomalies and forecasts on top of them.
type AnalyticsService struct {
	taskRepo     taskRepository
	snapshotRepo snapshotRepository
	dirRepo      directoryRepository

	concurrency int
	now         func() time.Time
}

// NewAnalyticsService creates a new analytics service. concurrency bounds the
// department fan-out of the daily aggregation run.
func NewAnalyticsService(taskRepo taskRepository, snapshotRepo snapshotRepository, dirRepo directoryRepository, concurrency int) *AnalyticsService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &AnalyticsService{
		taskRepo:     taskRepo,
		snapshotRepo: snapshotRepo,
		dirRepo:      dirRepo,
		concurrency:  concurrency,
		now:          time.Now,
	}
}

// snapshotDate normalizes a timestamp to its calendar day in UTC, matching the
// DATE column the snapshot tables key on.
func snapshotDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeDepartmentSnapshot aggregates all tasks of one department created on
// or before asOf into a daily metrics row. Overdue means not completed and past
// due at asOf. Average completion time is in hours over completed tasks, zero
// when the department completed nothing.
func (s *AnalyticsService) ComputeDepartmentSnapshot(ctx context.Context, departmentID string, asOf time.Time) (*mysqlModel.DepartmentTaskMetrics, error) {
	tasks, err := s.taskRepo.ListByDepartment(ctx, departmentID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list department tasks: %w", err)
	}

	m := &mysqlModel.DepartmentTaskMetrics{
		DepartmentID: departmentID,
		SnapshotDate: snapshotDate(asOf),
	}
	var completionHours float64
	for _, t := range tasks {
		m.TotalTasks++
		switch t.Status {
		case string(model.TaskStatusCompleted):
			m.CompletedTasks++
			completionHours += t.UpdatedAt.Sub(t.CreatedAt).Hours()
		case string(model.TaskStatusPending), string(model.TaskStatusInProgress):
			m.PendingTasks++
		}
		if isOverdue(t, asOf) {
			m.OverdueTasks++
		}
	}
	if m.CompletedTasks > 0 {
		m.AverageCompletionTime = completionHours / float64(m.CompletedTasks)
	}
	return m, nil
}

// ComputeUserSnapshot aggregates all tasks assigned to one user created on or
// before asOf. The productivity score is completionRate*100 - overdueRate*50
// with both rates as fractions of the user's total; it is stored unclamped and
// goes negative when overdue work dominates.
func (s *AnalyticsService) ComputeUserSnapshot(ctx context.Context, userID string, asOf time.Time) (*mysqlModel.UserPerformanceMetrics, error) {
	tasks, err := s.taskRepo.ListByAssignee(ctx, userID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignee tasks: %w", err)
	}

	m := &mysqlModel.UserPerformanceMetrics{
		UserID:       userID,
		SnapshotDate: snapshotDate(asOf),
	}
	var responseHours float64
	total := len(tasks)
	for _, t := range tasks {
		if t.Status == string(model.TaskStatusCompleted) {
			m.TasksCompleted++
			responseHours += t.UpdatedAt.Sub(t.CreatedAt).Hours()
		}
		if isOverdue(t, asOf) {
			m.TasksOverdue++
		}
	}
	if m.TasksCompleted > 0 {
		m.AverageResponseTime = responseHours / float64(m.TasksCompleted)
	}
	if total > 0 {
		completionRate := float64(m.TasksCompleted) / float64(total)
		overdueRate := float64(m.TasksOverdue) / float64(total)
		m.ProductivityScore = completionRate*100 - overdueRate*50
	}
	return m, nil
}

// ComputeDepartmentAnalytics aggregates staffing counts and efficiency for one
// department. Efficiency is the completion rate as a percentage, zero when the
// department has no tasks.
func (s *AnalyticsService) ComputeDepartmentAnalytics(ctx context.Context, departmentID string, asOf time.Time) (*mysqlModel.DepartmentAnalytics, error) {
	users, err := s.dirRepo.ListUsersInDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department users: %w", err)
	}
	metrics, err := s.ComputeDepartmentSnapshot(ctx, departmentID, asOf)
	if err != nil {
		return nil, err
	}

	a := &mysqlModel.DepartmentAnalytics{
		DepartmentID:              departmentID,
		SnapshotDate:              snapshotDate(asOf),
		TotalEmployees:            len(users),
		AverageTaskCompletionTime: metrics.AverageCompletionTime,
	}
	for _, u := range users {
		if u.IsActive {
			a.ActiveEmployees++
		}
	}
	if metrics.TotalTasks > 0 {
		a.DepartmentEfficiency = float64(metrics.CompletedTasks) / float64(metrics.TotalTasks) * 100
	}
	return a, nil
}

// RunDailyAggregation computes and upserts today's snapshot rows for every
// department and every member of each department. Departments are processed
// with bounded concurrency; a failing department is logged and skipped so one
// bad scope cannot starve the rest.
func (s *AnalyticsService) RunDailyAggregation(ctx context.Context) error {
	asOf := s.now()
	departments, err := s.dirRepo.ListDepartments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list departments: %w", err)
	}

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed int

	for _, dept := range departments {
		dept := dept
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := s.aggregateDepartment(ctx, dept.DepartmentID, asOf); err != nil {
				logger.ErrorCtx(ctx, "daily aggregation failed for department %s: %v", dept.DepartmentID, err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	logger.InfoCtx(ctx, "daily aggregation finished: %d departments, %d failed", len(departments), failed)
	if failed > 0 {
		return fmt.Errorf("daily aggregation: %d of %d departments failed", failed, len(departments))
	}
	return nil
}

func (s *AnalyticsService) aggregateDepartment(ctx context.Context, departmentID string, asOf time.Time) error {
	metrics, err := s.ComputeDepartmentSnapshot(ctx, departmentID, asOf)
	if err != nil {
		return err
	}
	if err := s.snapshotRepo.UpsertDepartmentMetrics(ctx, metrics); err != nil {
		return fmt.Errorf("failed to upsert department metrics: %w", err)
	}

	dAnalytics, err := s.ComputeDepartmentAnalytics(ctx, departmentID, asOf)
	if err != nil {
		return err
	}
	if err := s.snapshotRepo.UpsertDepartmentAnalytics(ctx, dAnalytics); err != nil {
		return fmt.Errorf("failed to upsert department analytics: %w", err)
	}

	users, err := s.dirRepo.ListUsersInDepartment(ctx, departmentID)
	if err != nil {
		return fmt.Errorf("failed to list department users: %w", err)
	}
	for _, u := range users {
		perf, err := s.ComputeUserSnapshot(ctx, u.UserID, asOf)
		if err != nil {
			return err
		}
		if err := s.snapshotRepo.UpsertUserPerformance(ctx, perf); err != nil {
			return fmt.Errorf("failed to upsert user performance for %s: %w", u.UserID, err)
		}
	}
	return nil
}

// GetDepartmentMetrics returns the department's daily task snapshots in range,
// ordered by snapshot date.
func (s *AnalyticsService) GetDepartmentMetrics(ctx context.Context, departmentID string, start, end time.Time) ([]*mysqlModel.DepartmentTaskMetrics, error) {
	if err := s.checkDepartment(ctx, departmentID, start, end); err != nil {
		return nil, err
	}
	return s.snapshotRepo.ListDepartmentMetrics(ctx, departmentID, start, end)
}

// GetUserPerformanceMetrics returns the user's daily performance snapshots in
// range, ordered by snapshot date.
func (s *AnalyticsService) GetUserPerformanceMetrics(ctx context.Context, userID string, start, end time.Time) ([]*mysqlModel.UserPerformanceMetrics, error) {
	if err := s.checkUser(ctx, userID, start, end); err != nil {
		return nil, err
	}
	return s.snapshotRepo.ListUserPerformance(ctx, userID, start, end)
}

// GetDepartmentAnalytics returns the department's daily analytics snapshots in
// range, ordered by snapshot date.
func (s *AnalyticsService) GetDepartmentAnalytics(ctx context.Context, departmentID string, start, end time.Time) ([]*mysqlModel.DepartmentAnalytics, error) {
	if err := s.checkDepartment(ctx, departmentID, start, end); err != nil {
		return nil, err
	}
	return s.snapshotRepo.ListDepartmentAnalytics(ctx, departmentID, start, end)
}

// CalculateTaskTrends buckets created/completed task counts for one department
// by day, week or month across the range.
func (s *AnalyticsService) CalculateTaskTrends(ctx context.Context, departmentID string, period model.TrendPeriod, start, end time.Time) (*model.TrendSummary, error) {
	if !model.ValidTrendPeriod(string(period)) {
		return nil, fmt.Errorf("unknown trend period %q", period)
	}
	if err := s.checkDepartment(ctx, departmentID, start, end); err != nil {
		return nil, err
	}

	summary := &model.TrendSummary{
		DepartmentID: departmentID,
		Period:       period,
		StartDate:    start,
		EndDate:      end,
	}
	for bucketStart := start; bucketStart.Before(end); {
		bucketEnd := nextBucket(bucketStart, period)
		if bucketEnd.After(end) {
			bucketEnd = end
		}
		created, err := s.taskRepo.CountCreatedBetween(ctx, departmentID, bucketStart, bucketEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to count created tasks: %w", err)
		}
		completed, err := s.taskRepo.CountCompletedBetween(ctx, departmentID, bucketStart, bucketEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to count completed tasks: %w", err)
		}
		summary.Buckets = append(summary.Buckets, model.TrendBucket{
			Period:    bucketLabel(bucketStart, period),
			Created:   int(created),
			Completed: int(completed),
		})
		bucketStart = nextBucket(bucketStart, period)
	}
	return summary, nil
}

// DetectTaskAnomalies flags abrupt day-over-day changes in a department's
// completed and overdue task counts.
func (s *AnalyticsService) DetectTaskAnomalies(ctx context.Context, departmentID string, start, end time.Time) ([]analytics.Anomaly, error) {
	series, err := s.departmentSeries(ctx, departmentID, start, end)
	if err != nil {
		return nil, err
	}
	return analytics.DetectAnomalies(series, []string{MetricCompletedTasks, MetricOverdueTasks}), nil
}

// DetectUserActivityAnomalies flags abrupt day-over-day changes in a user's
// completed and overdue task counts.
func (s *AnalyticsService) DetectUserActivityAnomalies(ctx context.Context, userID string, start, end time.Time) ([]analytics.Anomaly, error) {
	series, err := s.userSeries(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return analytics.DetectAnomalies(series, []string{MetricTasksCompleted, MetricTasksOverdue}), nil
}

// DetectDepartmentTrends reports the overall direction of each department task
// metric across the range.
func (s *AnalyticsService) DetectDepartmentTrends(ctx context.Context, departmentID string, start, end time.Time) ([]analytics.Trend, error) {
	series, err := s.departmentSeries(ctx, departmentID, start, end)
	if err != nil {
		return nil, err
	}
	var trends []analytics.Trend
	for _, metric := range []string{MetricTotalTasks, MetricCompletedTasks, MetricOverdueTasks} {
		if trend, ok := analytics.DetectTrend(series, metric); ok {
			trends = append(trends, trend)
		}
	}
	return trends, nil
}

// ForecastTaskCompletion projects the department's daily completed task count
// one week forward.
func (s *AnalyticsService) ForecastTaskCompletion(ctx context.Context, departmentID string, start, end time.Time) ([]analytics.ForecastPoint, error) {
	series, err := s.departmentSeries(ctx, departmentID, start, end)
	if err != nil {
		return nil, err
	}
	return analytics.Forecast(series, MetricCompletedTasks, analytics.DefaultHorizonDays), nil
}

// ForecastDepartmentWorkload projects the department's total task count one
// week forward.
func (s *AnalyticsService) ForecastDepartmentWorkload(ctx context.Context, departmentID string, start, end time.Time) ([]analytics.ForecastPoint, error) {
	series, err := s.departmentSeries(ctx, departmentID, start, end)
	if err != nil {
		return nil, err
	}
	return analytics.Forecast(series, MetricTotalTasks, analytics.DefaultHorizonDays), nil
}

// ForecastUserProductivity projects the user's productivity score one week
// forward. Predictions are not clamped and can run negative.
func (s *AnalyticsService) ForecastUserProductivity(ctx context.Context, userID string, start, end time.Time) ([]analytics.ForecastPoint, error) {
	series, err := s.userSeries(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return analytics.Forecast(series, MetricProductivityScore, analytics.DefaultHorizonDays), nil
}

func (s *AnalyticsService) departmentSeries(ctx context.Context, departmentID string, start, end time.Time) ([]analytics.Point, error) {
	rows, err := s.GetDepartmentMetrics(ctx, departmentID, start, end)
	if err != nil {
		return nil, err
	}
	series := make([]analytics.Point, 0, len(rows))
	for _, r := range rows {
		series = append(series, analytics.Point{
			Date: r.SnapshotDate,
			Values: map[string]float64{
				MetricTotalTasks:     float64(r.TotalTasks),
				MetricCompletedTasks: float64(r.CompletedTasks),
				MetricOverdueTasks:   float64(r.OverdueTasks),
			},
		})
	}
	return series, nil
}

func (s *AnalyticsService) userSeries(ctx context.Context, userID string, start, end time.Time) ([]analytics.Point, error) {
	rows, err := s.GetUserPerformanceMetrics(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	series := make([]analytics.Point, 0, len(rows))
	for _, r := range rows {
		series = append(series, analytics.Point{
			Date: r.SnapshotDate,
			Values: map[string]float64{
				MetricTasksCompleted:    float64(r.TasksCompleted),
				MetricTasksOverdue:      float64(r.TasksOverdue),
				MetricProductivityScore: r.ProductivityScore,
			},
		})
	}
	return series, nil
}

func (s *AnalyticsService) checkDepartment(ctx context.Context, departmentID string, start, end time.Time) error {
	if end.Before(start) {
		return model.ErrInvalidDateRange
	}
	dept, err := s.dirRepo.GetDepartment(ctx, departmentID)
	if err != nil {
		return fmt.Errorf("failed to get department: %w", err)
	}
	if dept == nil {
		return model.ErrDepartmentNotFound
	}
	return nil
}

func (s *AnalyticsService) checkUser(ctx context.Context, userID string, start, end time.Time) error {
	if end.Before(start) {
		return model.ErrInvalidDateRange
	}
	user, err := s.dirRepo.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return model.ErrUserNotFound
	}
	return nil
}

func isOverdue(t *mysqlModel.Task, asOf time.Time) bool {
	return t.Status != string(model.TaskStatusCompleted) && t.DueDate != nil && t.DueDate.Before(asOf)
}

func nextBucket(t time.Time, period model.TrendPeriod) time.Time {
	switch period {
	case model.TrendPeriodWeekly:
		return t.AddDate(0, 0, 7)
	case model.TrendPeriodMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func bucketLabel(t time.Time, period model.TrendPeriod) string {
	if period == model.TrendPeriodMonthly {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}
