package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"servicedesk/internal/model"
	mysqlModel "servicedesk/pkg/store/mysql/model"
)

func ts(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time { return &t }

func newTestAnalytics(tasks *fakeTaskRepo, snapshots *fakeSnapshotRepo, dir *fakeDirectoryRepo) *AnalyticsService {
	s := NewAnalyticsService(tasks, snapshots, dir, 2)
	s.now = func() time.Time { return ts(10, 12) }
	return s
}

func TestComputeDepartmentSnapshot(t *testing.T) {
	asOf := ts(10, 12)
	tasks := &fakeTaskRepo{tasks: []*mysqlModel.Task{
		// completed in 4h
		{TaskID: "t1", DepartmentID: "eng", Status: "completed", CreatedAt: ts(1, 8), UpdatedAt: ts(1, 12)},
		// completed in 8h
		{TaskID: "t2", DepartmentID: "eng", Status: "completed", CreatedAt: ts(2, 8), UpdatedAt: ts(2, 16)},
		// pending, overdue
		{TaskID: "t3", DepartmentID: "eng", Status: "pending", CreatedAt: ts(3, 8), DueDate: datePtr(ts(5, 0))},
		// in progress, due in the future
		{TaskID: "t4", DepartmentID: "eng", Status: "in_progress", CreatedAt: ts(4, 8), DueDate: datePtr(ts(20, 0))},
		// cancelled, no due date
		{TaskID: "t5", DepartmentID: "eng", Status: "cancelled", CreatedAt: ts(5, 8)},
		// other department, ignored
		{TaskID: "t6", DepartmentID: "sales", Status: "pending", CreatedAt: ts(5, 8)},
		// created after asOf, ignored
		{TaskID: "t7", DepartmentID: "eng", Status: "pending", CreatedAt: ts(11, 8)},
	}}
	svc := newTestAnalytics(tasks, &fakeSnapshotRepo{}, &fakeDirectoryRepo{})

	m, err := svc.ComputeDepartmentSnapshot(context.Background(), "eng", asOf)
	require.NoError(t, err)
	require.Equal(t, 5, m.TotalTasks)
	require.Equal(t, 2, m.CompletedTasks)
	require.Equal(t, 2, m.PendingTasks)
	require.Equal(t, 1, m.OverdueTasks)
	require.InDelta(t, 6.0, m.AverageCompletionTime, 1e-9)
	require.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), m.SnapshotDate)
}

func TestComputeDepartmentSnapshotEmpty(t *testing.T) {
	svc := newTestAnalytics(&fakeTaskRepo{}, &fakeSnapshotRepo{}, &fakeDirectoryRepo{})

	m, err := svc.ComputeDepartmentSnapshot(context.Background(), "eng", ts(10, 12))
	require.NoError(t, err)
	require.Zero(t, m.TotalTasks)
	require.Zero(t, m.CompletedTasks)
	require.Zero(t, m.AverageCompletionTime)
}

func TestComputeUserSnapshotScore(t *testing.T) {
	asOf := ts(10, 12)
	tasks := &fakeTaskRepo{tasks: []*mysqlModel.Task{
		{TaskID: "t1", AssignedToID: "alice", Status: "completed", CreatedAt: ts(1, 8), UpdatedAt: ts(1, 10)},
		{TaskID: "t2", AssignedToID: "alice", Status: "completed", CreatedAt: ts(2, 8), UpdatedAt: ts(2, 14)},
		{TaskID: "t3", AssignedToID: "alice", Status: "pending", CreatedAt: ts(3, 8), DueDate: datePtr(ts(5, 0))},
		{TaskID: "t4", AssignedToID: "alice", Status: "pending", CreatedAt: ts(4, 8)},
	}}
	svc := newTestAnalytics(tasks, &fakeSnapshotRepo{}, &fakeDirectoryRepo{})

	m, err := svc.ComputeUserSnapshot(context.Background(), "alice", asOf)
	require.NoError(t, err)
	require.Equal(t, 2, m.TasksCompleted)
	require.Equal(t, 1, m.TasksOverdue)
	require.InDelta(t, 4.0, m.AverageResponseTime, 1e-9)
	// 2/4*100 - 1/4*50 = 37.5
	require.InDelta(t, 37.5, m.ProductivityScore, 1e-9)
}

func TestComputeUserSnapshotNegativeScore(t *testing.T) {
	asOf := ts(10, 12)
	tasks := &fakeTaskRepo{tasks: []*mysqlModel.Task{
		{TaskID: "t1", AssignedToID: "bob", Status: "pending", CreatedAt: ts(1, 8), DueDate: datePtr(ts(2, 0))},
		{TaskID: "t2", AssignedToID: "bob", Status: "in_progress", CreatedAt: ts(2, 8), DueDate: datePtr(ts(3, 0))},
	}}
	svc := newTestAnalytics(tasks, &fakeSnapshotRepo{}, &fakeDirectoryRepo{})

	m, err := svc.ComputeUserSnapshot(context.Background(), "bob", asOf)
	require.NoError(t, err)
	require.Zero(t, m.TasksCompleted)
	require.Equal(t, 2, m.TasksOverdue)
	// 0*100 - 1.0*50: the score is not clamped at zero
	require.InDelta(t, -50.0, m.ProductivityScore, 1e-9)
}

func TestComputeUserSnapshotNoTasks(t *testing.T) {
	svc := newTestAnalytics(&fakeTaskRepo{}, &fakeSnapshotRepo{}, &fakeDirectoryRepo{})

	m, err := svc.ComputeUserSnapshot(context.Background(), "ghost", ts(10, 12))
	require.NoError(t, err)
	require.Zero(t, m.ProductivityScore)
}

func TestComputeDepartmentAnalytics(t *testing.T) {
	tasks := &fakeTaskRepo{tasks: []*mysqlModel.Task{
		{TaskID: "t1", DepartmentID: "eng", Status: "completed", CreatedAt: ts(1, 8), UpdatedAt: ts(1, 12)},
		{TaskID: "t2", DepartmentID: "eng", Status: "pending", CreatedAt: ts(2, 8)},
	}}
	dir := &fakeDirectoryRepo{users: []*mysqlModel.User{
		{UserID: "alice", DepartmentID: "eng", IsActive: true},
		{UserID: "bob", DepartmentID: "eng", IsActive: false},
		{UserID: "sam", DepartmentID: "sales", IsActive: true},
	}}
	svc := newTestAnalytics(tasks, &fakeSnapshotRepo{}, dir)

	a, err := svc.ComputeDepartmentAnalytics(context.Background(), "eng", ts(10, 12))
	require.NoError(t, err)
	require.Equal(t, 2, a.TotalEmployees)
	require.Equal(t, 1, a.ActiveEmployees)
	require.InDelta(t, 50.0, a.DepartmentEfficiency, 1e-9)
	require.InDelta(t, 4.0, a.AverageTaskCompletionTime, 1e-9)
}

func TestRunDailyAggregation(t *testing.T) {
	tasks := &fakeTaskRepo{tasks: []*mysqlModel.Task{
		{TaskID: "t1", DepartmentID: "eng", AssignedToID: "alice", Status: "completed", CreatedAt: ts(1, 8), UpdatedAt: ts(1, 12)},
		{TaskID: "t2", DepartmentID: "sales", AssignedToID: "sam", Status: "pending", CreatedAt: ts(2, 8)},
	}}
	dir := &fakeDirectoryRepo{
		departments: []*mysqlModel.Department{
			{DepartmentID: "eng", Name: "Engineering"},
			{DepartmentID: "sales", Name: "Sales"},
		},
		users: []*mysqlModel.User{
			{UserID: "alice", DepartmentID: "eng", IsActive: true},
			{UserID: "sam", DepartmentID: "sales", IsActive: true},
		},
	}
	snapshots := &fakeSnapshotRepo{}
	svc := newTestAnalytics(tasks, snapshots, dir)

	require.NoError(t, svc.RunDailyAggregation(context.Background()))
	require.Len(t, snapshots.deptRows, 2)
	require.Len(t, snapshots.analytics, 2)
	require.Len(t, snapshots.userRows, 2)

	// rerun replaces rows instead of appending
	require.NoError(t, svc.RunDailyAggregation(context.Background()))
	require.Len(t, snapshots.deptRows, 2)
	require.Len(t, snapshots.analytics, 2)
	require.Len(t, snapshots.userRows, 2)
}

func TestRunDailyAggregationPartialFailure(t *testing.T) {
	dir := &fakeDirectoryRepo{departments: []*mysqlModel.Department{{DepartmentID: "eng"}}}
	snapshots := &fakeSnapshotRepo{upsertErr: errors.New("mysql down")}
	svc := newTestAnalytics(&fakeTaskRepo{}, snapshots, dir)

	err := svc.RunDailyAggregation(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 1 departments failed")
}

func TestGetDepartmentMetricsValidation(t *testing.T) {
	dir := &fakeDirectoryRepo{departments: []*mysqlModel.Department{{DepartmentID: "eng"}}}
	svc := newTestAnalytics(&fakeTaskRepo{}, &fakeSnapshotRepo{}, dir)

	_, err := svc.GetDepartmentMetrics(context.Background(), "eng", ts(10, 0), ts(1, 0))
	require.ErrorIs(t, err, model.ErrInvalidDateRange)

	_, err = svc.GetDepartmentMetrics(context.Background(), "nope", ts(1, 0), ts(10, 0))
	require.ErrorIs(t, err, model.ErrDepartmentNotFound)
}

func TestGetUserPerformanceMetricsValidation(t *testing.T) {
	dir := &fakeDirectoryRepo{users: []*mysqlModel.User{{UserID: "alice"}}}
	svc := newTestAnalytics(&fakeTaskRepo{}, &fakeSnapshotRepo{}, dir)

	_, err := svc.GetUserPerformanceMetrics(context.Background(), "nope", ts(1, 0), ts(10, 0))
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestCalculateTaskTrendsDaily(t *testing.T) {
	tasks := &fakeTaskRepo{tasks: []*mysqlModel.Task{
		{TaskID: "t1", DepartmentID: "eng", Status: "pending", CreatedAt: ts(1, 8), UpdatedAt: ts(1, 8)},
		{TaskID: "t2", DepartmentID: "eng", Status: "completed", CreatedAt: ts(1, 9), UpdatedAt: ts(2, 9)},
		{TaskID: "t3", DepartmentID: "eng", Status: "pending", CreatedAt: ts(2, 8), UpdatedAt: ts(2, 8)},
	}}
	dir := &fakeDirectoryRepo{departments: []*mysqlModel.Department{{DepartmentID: "eng"}}}
	svc := newTestAnalytics(tasks, &fakeSnapshotRepo{}, dir)

	summary, err := svc.CalculateTaskTrends(context.Background(), "eng", model.TrendPeriodDaily, ts(1, 0), ts(3, 0))
	require.NoError(t, err)
	require.Len(t, summary.Buckets, 2)
	require.Equal(t, "2026-03-01", summary.Buckets[0].Period)
	require.Equal(t, 2, summary.Buckets[0].Created)
	require.Equal(t, 0, summary.Buckets[0].Completed)
	require.Equal(t, "2026-03-02", summary.Buckets[1].Period)
	require.Equal(t, 1, summary.Buckets[1].Created)
	require.Equal(t, 1, summary.Buckets[1].Completed)
}

func TestCalculateTaskTrendsBadPeriod(t *testing.T) {
	dir := &fakeDirectoryRepo{departments: []*mysqlModel.Department{{DepartmentID: "eng"}}}
	svc := newTestAnalytics(&fakeTaskRepo{}, &fakeSnapshotRepo{}, dir)

	_, err := svc.CalculateTaskTrends(context.Background(), "eng", "hourly", ts(1, 0), ts(3, 0))
	require.Error(t, err)
}

func seedDeptSnapshots(snapshots *fakeSnapshotRepo, completed ...int) {
	for i, c := range completed {
		snapshots.deptRows = append(snapshots.deptRows, &mysqlModel.DepartmentTaskMetrics{
			DepartmentID:   "eng",
			SnapshotDate:   time.Date(2026, 3, i+1, 0, 0, 0, 0, time.UTC),
			TotalTasks:     c * 2,
			CompletedTasks: c,
		})
	}
}

func TestDetectTaskAnomaliesThroughService(t *testing.T) {
	dir := &fakeDirectoryRepo{departments: []*mysqlModel.Department{{DepartmentID: "eng"}}}
	snapshots := &fakeSnapshotRepo{}
	seedDeptSnapshots(snapshots, 5, 5, 9)
	svc := newTestAnalytics(&fakeTaskRepo{}, snapshots, dir)

	anomalies, err := svc.DetectTaskAnomalies(context.Background(), "eng", ts(1, 0), ts(31, 0))
	require.NoError(t, err)
	require.Len(t, anomalies, 1)
	require.Equal(t, MetricCompletedTasks, anomalies[0].Metric)
	require.InDelta(t, 5, anomalies[0].Previous, 1e-9)
	require.InDelta(t, 9, anomalies[0].Current, 1e-9)
}

func TestDetectDepartmentTrends(t *testing.T) {
	dir := &fakeDirectoryRepo{departments: []*mysqlModel.Department{{DepartmentID: "eng"}}}
	snapshots := &fakeSnapshotRepo{}
	seedDeptSnapshots(snapshots, 5, 6, 9)
	svc := newTestAnalytics(&fakeTaskRepo{}, snapshots, dir)

	trends, err := svc.DetectDepartmentTrends(context.Background(), "eng", ts(1, 0), ts(31, 0))
	require.NoError(t, err)
	require.Len(t, trends, 3)
	for _, trend := range trends {
		if trend.Metric == MetricOverdueTasks {
			require.Equal(t, "stable", string(trend.Direction))
		} else {
			require.Equal(t, "increasing", string(trend.Direction))
		}
	}
}

func TestForecastTaskCompletionThroughService(t *testing.T) {
	dir := &fakeDirectoryRepo{departments: []*mysqlModel.Department{{DepartmentID: "eng"}}}
	snapshots := &fakeSnapshotRepo{}
	seedDeptSnapshots(snapshots, 10, 12, 14)
	svc := newTestAnalytics(&fakeTaskRepo{}, snapshots, dir)

	points, err := svc.ForecastTaskCompletion(context.Background(), "eng", ts(1, 0), ts(31, 0))
	require.NoError(t, err)
	require.Len(t, points, 7)
	require.InDelta(t, 16.0, points[0].PredictedValue, 1e-9)
	require.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), points[0].Date)
}

func TestForecastUserProductivityShortSeries(t *testing.T) {
	dir := &fakeDirectoryRepo{users: []*mysqlModel.User{{UserID: "alice"}}}
	svc := newTestAnalytics(&fakeTaskRepo{}, &fakeSnapshotRepo{}, dir)

	points, err := svc.ForecastUserProductivity(context.Background(), "alice", ts(1, 0), ts(31, 0))
	require.NoError(t, err)
	require.Empty(t, points)
}
