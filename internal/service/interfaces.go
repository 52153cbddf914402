package service

import (
	"context"
	"time"

	"servicedesk/pkg/store/mysql"
	mysqlModel "servicedesk/pkg/store/mysql/model"
)

type taskRepository interface {
	Create(ctx context.Context, task *mysqlModel.Task) error
	Query(ctx context.Context, filter mysql.TaskFilter) ([]*mysqlModel.Task, error)
	ListByDepartment(ctx context.Context, departmentID string, asOf time.Time) ([]*mysqlModel.Task, error)
	ListByAssignee(ctx context.Context, userID string, asOf time.Time) ([]*mysqlModel.Task, error)
	CountCreatedBetween(ctx context.Context, departmentID string, from, to time.Time) (int64, error)
	CountCompletedBetween(ctx context.Context, departmentID string, from, to time.Time) (int64, error)
}

type snapshotRepository interface {
	UpsertDepartmentMetrics(ctx context.Context, m *mysqlModel.DepartmentTaskMetrics) error
	UpsertUserPerformance(ctx context.Context, m *mysqlModel.UserPerformanceMetrics) error
	UpsertDepartmentAnalytics(ctx context.Context, m *mysqlModel.DepartmentAnalytics) error
	ListDepartmentMetrics(ctx context.Context, departmentID string, start, end time.Time) ([]*mysqlModel.DepartmentTaskMetrics, error)
	ListUserPerformance(ctx context.Context, userID string, start, end time.Time) ([]*mysqlModel.UserPerformanceMetrics, error)
	ListDepartmentAnalytics(ctx context.Context, departmentID string, start, end time.Time) ([]*mysqlModel.DepartmentAnalytics, error)
}

type directoryRepository interface {
	GetDepartment(ctx context.Context, departmentID string) (*mysqlModel.Department, error)
	ListDepartments(ctx context.Context) ([]*mysqlModel.Department, error)
	GetUser(ctx context.Context, userID string) (*mysqlModel.User, error)
	ListUsersInDepartment(ctx context.Context, departmentID string) ([]*mysqlModel.User, error)
}

type scheduledReportRepository interface {
	Create(ctx context.Context, report *mysqlModel.ScheduledReport) error
	Get(ctx context.Context, reportID string) (*mysqlModel.ScheduledReport, error)
	List(ctx context.Context) ([]*mysqlModel.ScheduledReport, error)
	ListActive(ctx context.Context) ([]*mysqlModel.ScheduledReport, error)
	Update(ctx context.Context, report *mysqlModel.ScheduledReport) error
	UpdateLastSent(ctx context.Context, reportID string, sentAt time.Time) error
	Delete(ctx context.Context, reportID string) error
}

type activityLogRepository interface {
	Append(ctx context.Context, entry *mysqlModel.ActivityLog) error
	ListByUser(ctx context.Context, userID string, start, end time.Time) ([]*mysqlModel.ActivityLog, error)
}

// compile-time assertions

var (
	_ taskRepository            = (*mysql.TaskRepository)(nil)
	_ snapshotRepository        = (*mysql.SnapshotRepository)(nil)
	_ directoryRepository       = (*mysql.DirectoryRepository)(nil)
	_ scheduledReportRepository = (*mysql.ScheduledReportRepository)(nil)
	_ activityLogRepository     = (*mysql.ActivityLogRepository)(nil)
)
