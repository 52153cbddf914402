package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"servicedesk/internal/model"
	"servicedesk/pkg/store/mysql"
	mysqlModel "servicedesk/pkg/store/mysql/model"
)

type idAllocator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// taskIDPrefix is the entity prefix of human-readable task IDs
// (TASK-20260830-1).
const taskIDPrefix = "TASK"

// TaskService owns the task write path and the activity feed.
type TaskService struct {
	taskRepo     taskRepository
	dirRepo      directoryRepository
	activityRepo activityLogRepository
	allocator    idAllocator
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo taskRepository, dirRepo directoryRepository, activityRepo activityLogRepository, allocator idAllocator) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		dirRepo:      dirRepo,
		activityRepo: activityRepo,
		allocator:    allocator,
	}
}

// CreateTaskInput fields for creating a task
type CreateTaskInput struct {
	Title        string     `json:"title" binding:"required"`
	DepartmentID string     `json:"department_id" binding:"required"`
	AssignedToID string     `json:"assigned_to_id"`
	CreatedBy    string     `json:"created_by" binding:"required"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
}

// Create validates the input, mints both task identifiers and persists the
// task plus an activity log entry. A sequence overflow is fatal and propagated
// as-is, never retried.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*mysqlModel.Task, error) {
	if in.Status == "" {
		in.Status = string(model.TaskStatusPending)
	}
	if in.Priority == "" {
		in.Priority = string(model.TaskPriorityMedium)
	}
	if !model.ValidTaskStatus(in.Status) {
		return nil, fmt.Errorf("unknown task status %q", in.Status)
	}
	if !model.ValidTaskPriority(in.Priority) {
		return nil, fmt.Errorf("unknown task priority %q", in.Priority)
	}
	dept, err := s.dirRepo.GetDepartment(ctx, in.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	if dept == nil {
		return nil, model.ErrDepartmentNotFound
	}

	humanID, err := s.allocator.Next(ctx, taskIDPrefix)
	if err != nil {
		return nil, err
	}

	task := &mysqlModel.Task{
		TaskID:       uuid.NewString(),
		HumanID:      humanID,
		Title:        in.Title,
		DepartmentID: in.DepartmentID,
		AssignedToID: in.AssignedToID,
		CreatedBy:    in.CreatedBy,
		Status:       in.Status,
		Priority:     in.Priority,
		DueDate:      in.DueDate,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.activityRepo.Append(ctx, &mysqlModel.ActivityLog{
		UserID:     in.CreatedBy,
		Action:     "task_created",
		EntityType: "task",
		EntityID:   task.TaskID,
		Details: mysqlModel.JSONMap{
			"human_id":      task.HumanID,
			"department_id": task.DepartmentID,
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to log task creation: %w", err)
	}
	return task, nil
}

// Query lists tasks matching the filter, newest first.
func (s *TaskService) Query(ctx context.Context, filter mysql.TaskFilter) ([]*mysqlModel.Task, error) {
	return s.taskRepo.Query(ctx, filter)
}

// ListActivity returns one user's activity entries in range, oldest first.
func (s *TaskService) ListActivity(ctx context.Context, userID string, start, end time.Time) ([]*mysqlModel.ActivityLog, error) {
	if end.Before(start) {
		return nil, model.ErrInvalidDateRange
	}
	return s.activityRepo.ListByUser(ctx, userID, start, end)
}
