package mysql

import (
	"context"
	"fmt"
	"time"

	"servicedesk/pkg/store/mysql/model"
)

// SnapshotRepository persists daily metric snapshots. All writes are upserts
// keyed on (scope, snapshot_date) so rerunning an aggregation for the same day
// replaces the row instead of appending a duplicate.
type SnapshotRepository struct {
	ds *Datastore
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(ds *Datastore) *SnapshotRepository {
	return &SnapshotRepository{ds: ds}
}

// UpsertDepartmentMetrics inserts or replaces a department task snapshot.
func (r *SnapshotRepository) UpsertDepartmentMetrics(ctx context.Context, m *model.DepartmentTaskMetrics) error {
	now := time.Now()
	err := r.ds.DB(ctx).Exec(`
		INSERT INTO department_task_metrics
			(department_id, snapshot_date, total_tasks, completed_tasks, pending_tasks, overdue_tasks, average_completion_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			total_tasks = VALUES(total_tasks),
			completed_tasks = VALUES(completed_tasks),
			pending_tasks = VALUES(pending_tasks),
			overdue_tasks = VALUES(overdue_tasks),
			average_completion_time = VALUES(average_completion_time),
			updated_at = VALUES(updated_at)
	`, m.DepartmentID, m.SnapshotDate.Format("2006-01-02"), m.TotalTasks, m.CompletedTasks,
		m.PendingTasks, m.OverdueTasks, m.AverageCompletionTime, now, now).Error
	if err != nil {
		return fmt.Errorf("failed to upsert department metrics: %w", err)
	}
	return nil
}

// UpsertUserPerformance inserts or replaces a user performance snapshot.
func (r *SnapshotRepository) UpsertUserPerformance(ctx context.Context, m *model.UserPerformanceMetrics) error {
	now := time.Now()
	err := r.ds.DB(ctx).Exec(`
		INSERT INTO user_performance_metrics
			(user_id, snapshot_date, tasks_completed, tasks_overdue, average_response_time, productivity_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			tasks_completed = VALUES(tasks_completed),
			tasks_overdue = VALUES(tasks_overdue),
			average_response_time = VALUES(average_response_time),
			productivity_score = VALUES(productivity_score),
			updated_at = VALUES(updated_at)
	`, m.UserID, m.SnapshotDate.Format("2006-01-02"), m.TasksCompleted, m.TasksOverdue,
		m.AverageResponseTime, m.ProductivityScore, now, now).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user performance: %w", err)
	}
	return nil
}

// UpsertDepartmentAnalytics inserts or replaces a department analytics snapshot.
func (r *SnapshotRepository) UpsertDepartmentAnalytics(ctx context.Context, m *model.DepartmentAnalytics) error {
	now := time.Now()
	err := r.ds.DB(ctx).Exec(`
		INSERT INTO department_analytics
			(department_id, snapshot_date, total_employees, active_employees, department_efficiency, average_task_completion_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			total_employees = VALUES(total_employees),
			active_employees = VALUES(active_employees),
			department_efficiency = VALUES(department_efficiency),
			average_task_completion_time = VALUES(average_task_completion_time),
			updated_at = VALUES(updated_at)
	`, m.DepartmentID, m.SnapshotDate.Format("2006-01-02"), m.TotalEmployees, m.ActiveEmployees,
		m.DepartmentEfficiency, m.AverageTaskCompletionTime, now, now).Error
	if err != nil {
		return fmt.Errorf("failed to upsert department analytics: %w", err)
	}
	return nil
}

// ListDepartmentMetrics retrieves a department's snapshot series in a date
// range, ordered by date.
func (r *SnapshotRepository) ListDepartmentMetrics(ctx context.Context, departmentID string, start, end time.Time) ([]*model.DepartmentTaskMetrics, error) {
	var rows []*model.DepartmentTaskMetrics
	err := r.ds.DB(ctx).
		Where("department_id = ? AND snapshot_date >= ? AND snapshot_date <= ?",
			departmentID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("snapshot_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list department metrics: %w", err)
	}
	return rows, nil
}

// ListUserPerformance retrieves a user's snapshot series in a date range,
// ordered by date.
func (r *SnapshotRepository) ListUserPerformance(ctx context.Context, userID string, start, end time.Time) ([]*model.UserPerformanceMetrics, error) {
	var rows []*model.UserPerformanceMetrics
	err := r.ds.DB(ctx).
		Where("user_id = ? AND snapshot_date >= ? AND snapshot_date <= ?",
			userID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("snapshot_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user performance: %w", err)
	}
	return rows, nil
}

// ListDepartmentAnalytics retrieves a department's analytics series in a date
// range, ordered by date.
func (r *SnapshotRepository) ListDepartmentAnalytics(ctx context.Context, departmentID string, start, end time.Time) ([]*model.DepartmentAnalytics, error) {
	var rows []*model.DepartmentAnalytics
	err := r.ds.DB(ctx).
		Where("department_id = ? AND snapshot_date >= ? AND snapshot_date <= ?",
			departmentID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("snapshot_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list department analytics: %w", err)
	}
	return rows, nil
}
