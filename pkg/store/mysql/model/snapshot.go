package model

import "time"

// DepartmentTaskMetrics daily task snapshot for one department. One row per
// (department, date); the aggregator upserts on rerun.
type DepartmentTaskMetrics struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	DepartmentID          string    `gorm:"column:department_id;type:varchar(64);not null;uniqueIndex:uk_dept_date,priority:1" json:"department_id"`
	SnapshotDate          time.Time `gorm:"column:snapshot_date;type:date;not null;uniqueIndex:uk_dept_date,priority:2;index:idx_snapshot_date" json:"snapshot_date"`
	TotalTasks            int       `gorm:"column:total_tasks;default:0" json:"total_tasks"`
	CompletedTasks        int       `gorm:"column:completed_tasks;default:0" json:"completed_tasks"`
	PendingTasks          int       `gorm:"column:pending_tasks;default:0" json:"pending_tasks"`
	OverdueTasks          int       `gorm:"column:overdue_tasks;default:0" json:"overdue_tasks"`
	AverageCompletionTime float64   `gorm:"column:average_completion_time;default:0" json:"average_completion_time"`
	CreatedAt             time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for DepartmentTaskMetrics
func (DepartmentTaskMetrics) TableName() string {
	return "department_task_metrics"
}

// UserPerformanceMetrics daily performance snapshot for one user. The
// productivity score is stored unclamped and can be negative.
type UserPerformanceMetrics struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID              string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:uk_user_date,priority:1" json:"user_id"`
	SnapshotDate        time.Time `gorm:"column:snapshot_date;type:date;not null;uniqueIndex:uk_user_date,priority:2;index:idx_user_snapshot_date" json:"snapshot_date"`
	TasksCompleted      int       `gorm:"column:tasks_completed;default:0" json:"tasks_completed"`
	TasksOverdue        int       `gorm:"column:tasks_overdue;default:0" json:"tasks_overdue"`
	AverageResponseTime float64   `gorm:"column:average_response_time;default:0" json:"average_response_time"`
	ProductivityScore   float64   `gorm:"column:productivity_score;default:0" json:"productivity_score"`
	CreatedAt           time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for UserPerformanceMetrics
func (UserPerformanceMetrics) TableName() string {
	return "user_performance_metrics"
}

// DepartmentAnalytics daily staffing and efficiency snapshot for one department.
type DepartmentAnalytics struct {
	ID                        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	DepartmentID              string    `gorm:"column:department_id;type:varchar(64);not null;uniqueIndex:uk_dept_analytics_date,priority:1" json:"department_id"`
	SnapshotDate              time.Time `gorm:"column:snapshot_date;type:date;not null;uniqueIndex:uk_dept_analytics_date,priority:2" json:"snapshot_date"`
	TotalEmployees            int       `gorm:"column:total_employees;default:0" json:"total_employees"`
	ActiveEmployees           int       `gorm:"column:active_employees;default:0" json:"active_employees"`
	DepartmentEfficiency      float64   `gorm:"column:department_efficiency;default:0" json:"department_efficiency"`
	AverageTaskCompletionTime float64   `gorm:"column:average_task_completion_time;default:0" json:"average_task_completion_time"`
	CreatedAt                 time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt                 time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for DepartmentAnalytics
func (DepartmentAnalytics) TableName() string {
	return "department_analytics"
}
