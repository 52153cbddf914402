package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"servicedesk/internal/model"
	mysqlModel "servicedesk/pkg/store/mysql/model"
)

func newTaskFixture() (*TaskService, *fakeTaskRepo, *fakeActivityRepo, *fakeAllocator) {
	tasks := &fakeTaskRepo{}
	dir := &fakeDirectoryRepo{departments: []*mysqlModel.Department{{DepartmentID: "eng"}}}
	activity := &fakeActivityRepo{}
	allocator := &fakeAllocator{}
	return NewTaskService(tasks, dir, activity, allocator), tasks, activity, allocator
}

func TestCreateTask(t *testing.T) {
	svc, tasks, activity, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), CreateTaskInput{
		Title:        "Fix login flow",
		DepartmentID: "eng",
		AssignedToID: "alice",
		CreatedBy:    "bob",
		Priority:     "high",
	})
	require.NoError(t, err)
	require.NotEmpty(t, task.TaskID)
	require.Equal(t, "TASK-20260830-1", task.HumanID)
	require.Equal(t, "pending", task.Status)
	require.Equal(t, "high", task.Priority)
	require.Len(t, tasks.tasks, 1)

	require.Len(t, activity.entries, 1)
	require.Equal(t, "task_created", activity.entries[0].Action)
	require.Equal(t, "bob", activity.entries[0].UserID)
	require.Equal(t, task.TaskID, activity.entries[0].EntityID)
}

func TestCreateTaskValidation(t *testing.T) {
	svc, _, _, _ := newTaskFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTaskInput{Title: "x", DepartmentID: "nope", CreatedBy: "bob"})
	require.ErrorIs(t, err, model.ErrDepartmentNotFound)

	_, err = svc.Create(ctx, CreateTaskInput{Title: "x", DepartmentID: "eng", CreatedBy: "bob", Status: "archived"})
	require.Error(t, err)

	_, err = svc.Create(ctx, CreateTaskInput{Title: "x", DepartmentID: "eng", CreatedBy: "bob", Priority: "asap"})
	require.Error(t, err)
}

func TestCreateTaskSequenceOverflowPropagated(t *testing.T) {
	svc, tasks, _, allocator := newTaskFixture()
	allocator.err = model.ErrSequenceOverflow

	_, err := svc.Create(context.Background(), CreateTaskInput{Title: "x", DepartmentID: "eng", CreatedBy: "bob"})
	require.ErrorIs(t, err, model.ErrSequenceOverflow)
	require.Empty(t, tasks.tasks)
}

func TestListActivityRange(t *testing.T) {
	svc, _, activity, _ := newTaskFixture()
	activity.entries = []*mysqlModel.ActivityLog{{UserID: "alice", Action: "task_created"}}

	entries, err := svc.ListActivity(context.Background(), "alice", ts(1, 0), ts(10, 0))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = svc.ListActivity(context.Background(), "alice", ts(10, 0), ts(1, 0))
	require.ErrorIs(t, err, model.ErrInvalidDateRange)
}
