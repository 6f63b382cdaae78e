package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/task-api/internal/api/metrics"
	"github.com/taskboard/task-api/internal/api/middleware"
	"github.com/taskboard/task-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /api/tasks.
//
// @Summary      List tasks visible to the caller
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "pending, in-progress or completed"
// @Param        priority    query     string  false  "low, medium or high"
// @Param        assignedTo  query     string  false  "Assignee user id"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Page size (default 10, max 100)"
// @Param        sort        query     string  false  "Sort spec, e.g. -createdAt or dueDate,-priority"
// @Success      200         {object}  taskListResponse
// @Failure      401         {object}  ErrorResponse
// @Failure      500         {object}  ErrorResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	page, err := h.service.ListTasks(c.Request().Context(), middleware.CurrentUser(c), toListInput(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskListResponse(page))
}

// Get handles GET /api/tasks/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  taskEnvelope
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetTask(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskEnvelope{Success: true, Data: toTaskResponse(*detail)})
}

// Create handles POST /api/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  taskEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	in, err := toCreateInput(req)
	if err != nil {
		return err
	}

	detail, err := h.service.CreateTask(c.Request().Context(), middleware.CurrentUser(c), in)
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(detail.Task.Priority)).Inc()
	return c.JSON(http.StatusCreated, taskEnvelope{Success: true, Data: toTaskResponse(*detail)})
}

// Update handles PUT /api/tasks/:id.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	in, err := toUpdateInput(req)
	if err != nil {
		return err
	}

	detail, err := h.service.UpdateTask(c.Request().Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return err
	}

	metrics.TasksUpdatedTotal.WithLabelValues(string(detail.Task.Status)).Inc()
	return c.JSON(http.StatusOK, taskEnvelope{Success: true, Data: toTaskResponse(*detail)})
}

// Delete handles DELETE /api/tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTask(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return err
	}

	metrics.TasksDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Task deleted successfully"})
}

// Activity handles GET /api/tasks/:id/activity.
//
// @Summary      List the change history of a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  activityListResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/tasks/{id}/activity [get]
func (h *TaskHandler) Activity(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	entries, err := h.service.ListActivity(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}

	data := make([]activityResponse, len(entries))
	for i, e := range entries {
		data[i] = toActivityResponse(e)
	}
	return c.JSON(http.StatusOK, activityListResponse{Success: true, Count: len(data), Data: data})
}

// taskID validates the :id path parameter as an ObjectID.
func taskID(c echo.Context) (string, error) {
	p := idParam{ID: c.Param("id")}
	if err := c.Validate(&p); err != nil {
		return "", err
	}
	return p.ID, nil
}
