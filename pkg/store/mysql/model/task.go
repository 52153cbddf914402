package model

import "time"

// Task MySQL model for tasks table. The analytics engine treats this table as
// a read-only source; rows are written by the CRUD path only.
type Task struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"-"`
	TaskID       string     `gorm:"column:task_id;type:varchar(64);not null;uniqueIndex:idx_task_id_unique" json:"id"`
	HumanID      string     `gorm:"column:human_id;type:varchar(32);not null;uniqueIndex:idx_human_id_unique" json:"human_id"`
	Title        string     `gorm:"column:title;type:varchar(500);not null" json:"title"`
	DepartmentID string     `gorm:"column:department_id;type:varchar(64);not null;index:idx_department_status,priority:1" json:"department_id"`
	AssignedToID string     `gorm:"column:assigned_to_id;type:varchar(64);index:idx_assigned_to" json:"assigned_to_id"`
	CreatedBy    string     `gorm:"column:created_by;type:varchar(64);not null" json:"created_by"`
	Status       string     `gorm:"column:status;type:varchar(32);not null;index:idx_status;index:idx_department_status,priority:2" json:"status"`
	Priority     string     `gorm:"column:priority;type:varchar(16);not null" json:"priority"`
	DueDate      *time.Time `gorm:"column:due_date;type:datetime(3)" json:"due_date"`
	CreatedAt    time.Time  `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3);index:idx_created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}
