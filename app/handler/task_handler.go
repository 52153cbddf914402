package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servicedesk/internal/model"
	"servicedesk/internal/service"
	"servicedesk/pkg/store/mysql"
)

// TaskHandler handles task HTTP requests
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create creates a task
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var in service.CreateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.taskService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// List queries tasks
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param department_id query string false "Department ID"
// @Param status query string false "Task status"
// @Param priority query string false "Task priority"
// @Router /api/v1/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if s := c.Query("status"); s != "" && !model.ValidTaskStatus(s) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown task status"})
		return
	}
	if p := c.Query("priority"); p != "" && !model.ValidTaskPriority(p) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown task priority"})
		return
	}

	tasks, err := h.taskService.Query(c.Request.Context(), mysql.TaskFilter{
		DepartmentID: c.Query("department_id"),
		AssignedToID: c.Query("assigned_to_id"),
		Status:       c.Query("status"),
		Priority:     c.Query("priority"),
		CreatedFrom:  start,
		CreatedTo:    end,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// ActivityHandler handles activity feed HTTP requests
type ActivityHandler struct {
	taskService *service.TaskService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(taskService *service.TaskService) *ActivityHandler {
	return &ActivityHandler{taskService: taskService}
}

// List returns one user's activity entries in range
// @Summary List user activity
// @Tags activity
// @Produce json
// @Param user_id query string true "User ID"
// @Router /api/v1/activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	entries, err := h.taskService.ListActivity(c.Request.Context(), userID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
