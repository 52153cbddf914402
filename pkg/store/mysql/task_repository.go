package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"servicedesk/pkg/store/mysql/model"
)

// TaskFilter narrows task queries. Zero-valued fields are ignored.
type TaskFilter struct {
	DepartmentID string
	AssignedToID string
	Status       string
	Priority     string
	CreatedFrom  time.Time
	CreatedTo    time.Time
	Limit        int
}

// TaskRepository handles task persistence in MySQL
type TaskRepository struct {
	ds *Datastore
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(ds *Datastore) *TaskRepository {
	return &TaskRepository{ds: ds}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.ds.DB(ctx).Create(task).Error
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	err := r.ds.DB(ctx).Where("task_id = ?", taskID).First(&task).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// Query retrieves tasks matching the filter, newest first.
func (r *TaskRepository) Query(ctx context.Context, filter TaskFilter) ([]*model.Task, error) {
	q := r.ds.DB(ctx).Model(&model.Task{})

	if filter.DepartmentID != "" {
		q = q.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.AssignedToID != "" {
		q = q.Where("assigned_to_id = ?", filter.AssignedToID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if !filter.CreatedFrom.IsZero() {
		q = q.Where("created_at >= ?", filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		q = q.Where("created_at <= ?", filter.CreatedTo)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var tasks []*model.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	return tasks, nil
}

// ListByDepartment retrieves all tasks for a department created on or before
// asOf. This is the aggregator's snapshot input.
func (r *TaskRepository) ListByDepartment(ctx context.Context, departmentID string, asOf time.Time) ([]*model.Task, error) {
	var tasks []*model.Task
	err := r.ds.DB(ctx).
		Where("department_id = ? AND created_at <= ?", departmentID, asOf).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by department: %w", err)
	}
	return tasks, nil
}

// ListByAssignee retrieves all tasks assigned to a user created on or before asOf.
func (r *TaskRepository) ListByAssignee(ctx context.Context, userID string, asOf time.Time) ([]*model.Task, error) {
	var tasks []*model.Task
	err := r.ds.DB(ctx).
		Where("assigned_to_id = ? AND created_at <= ?", userID, asOf).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by assignee: %w", err)
	}
	return tasks, nil
}

// CountCreatedBetween counts tasks created in [from, to) for a department.
func (r *TaskRepository) CountCreatedBetween(ctx context.Context, departmentID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.ds.DB(ctx).Model(&model.Task{}).
		Where("department_id = ? AND created_at >= ? AND created_at < ?", departmentID, from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count created tasks: %w", err)
	}
	return count, nil
}

// CountCompletedBetween counts tasks completed in [from, to) for a department,
// using updated_at as the completion instant.
func (r *TaskRepository) CountCompletedBetween(ctx context.Context, departmentID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.ds.DB(ctx).Model(&model.Task{}).
		Where("department_id = ? AND status = ? AND updated_at >= ? AND updated_at < ?",
			departmentID, "completed", from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return count, nil
}
