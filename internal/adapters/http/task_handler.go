package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/ports"
)

// TaskHandler exposes the task store to the presentation layer
type TaskHandler struct {
	store  ports.TaskStore
	logger *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(store ports.TaskStore, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		store:  store,
		logger: logger,
	}
}

// ListTasks returns the filtered task view. Filter query params replace the
// store's filter state, mirroring how the client UI drives the filter chips;
// DELETE /tasks/filters resets it.
func (h *TaskHandler) ListTasks(c echo.Context) error {
	h.applyQueryFilter(c)
	return c.JSON(http.StatusOK, h.store.Filtered())
}

// ClearFilters resets the store's filter state
func (h *TaskHandler) ClearFilters(c echo.Context) error {
	h.store.ClearFilters()
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Filters cleared"})
}

// GroupedTasks returns the filtered view partitioned by category
func (h *TaskHandler) GroupedTasks(c echo.Context) error {
	order, groups := h.store.GroupedByCategory()

	type group struct {
		Category entities.TaskCategory `json:"category"`
		Tasks    []entities.Task       `json:"tasks"`
	}
	result := make([]group, 0, len(order))
	for _, category := range order {
		result = append(result, group{Category: category, Tasks: groups[category]})
	}
	return c.JSON(http.StatusOK, result)
}

// GetSummary returns aggregate task counts
func (h *TaskHandler) GetSummary(c echo.Context) error {
	all := h.store.All()
	return c.JSON(http.StatusOK, ports.TaskSummary{
		Total:              len(all),
		Completed:          h.store.CompletedCount(),
		CompletionProgress: h.store.CompletionProgress(),
	})
}

// CreateTask adds a new task
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !req.Priority.IsValid() || !req.Category.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid priority or category")
	}

	task, err := h.store.AddTask(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create task failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Priority != nil && !req.Priority.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid priority")
	}
	if req.Category != nil && !req.Category.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
	}

	task, err := h.store.UpdateTask(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Error("Update task failed", "error", err, "task_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	if err := h.store.DeleteTask(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete task failed", "error", err, "task_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Task deleted"})
}

// ToggleCompletion flips a task's completion flag
func (h *TaskHandler) ToggleCompletion(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	task, err := h.store.ToggleCompletion(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("Toggle completion failed", "error", err, "task_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) applyQueryFilter(c echo.Context) {
	filter := ports.TaskFilter{}
	applied := false

	if category := c.QueryParam("category"); category != "" {
		taskCategory := entities.TaskCategory(category)
		filter.Category = &taskCategory
		applied = true
	}
	if priority := c.QueryParam("priority"); priority != "" {
		taskPriority := entities.TaskPriority(priority)
		filter.Priority = &taskPriority
		applied = true
	}
	if query := c.QueryParam("q"); query != "" {
		filter.Query = query
		applied = true
	}

	if applied {
		h.store.SetFilter(filter)
	}
}
