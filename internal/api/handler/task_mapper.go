package handler

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/task-api/internal/core/domain"
	"github.com/taskboard/task-api/internal/core/ports"
)

func toCreateInput(req createTaskRequest) (ports.CreateTaskInput, error) {
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return ports.CreateTaskInput{}, err
	}
	return ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		Tags:        req.Tags,
	}, nil
}

func toUpdateInput(req updateTaskRequest) (ports.UpdateTaskInput, error) {
	in := ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			return ports.UpdateTaskInput{}, err
		}
		in.DueDate = &due
	}
	return in, nil
}

func parseDueDate(s string) (time.Time, error) {
	due, err := parseDate(s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("dueDate", fieldMessages["dueDate.isodate"])
	}
	return due, nil
}

// toListInput reads the listing query. Missing page/limit stay 0 so the
// service applies its defaults; malformed or non-positive values become 1.
// Positive values too large for an int saturate so they still address a page
// past the end.
func toListInput(c echo.Context) ports.ListTasksInput {
	return ports.ListTasksInput{
		Status:     c.QueryParam("status"),
		Priority:   c.QueryParam("priority"),
		AssignedTo: c.QueryParam("assignedTo"),
		Page:       positiveQueryInt(c, "page"),
		Limit:      positiveQueryInt(c, "limit"),
		Sort:       c.QueryParam("sort"),
	}
}

func positiveQueryInt(c echo.Context, name string) int {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return math.MaxInt
	}
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func toSummaryResponse(u *domain.UserSummary) *userSummaryResponse {
	if u == nil {
		return nil
	}
	return &userSummaryResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toTaskResponse(d ports.TaskDetail) taskResponse {
	t := d.Task
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		AssignedTo:  toSummaryResponse(d.AssignedTo),
		CreatedBy:   toSummaryResponse(d.CreatedBy),
		Tags:        tags,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskListResponse(page *ports.TaskPage) taskListResponse {
	data := make([]taskResponse, len(page.Items))
	for i, item := range page.Items {
		data[i] = toTaskResponse(item)
	}
	return taskListResponse{
		Success: true,
		Count:   len(data),
		Total:   page.Total,
		Pagination: paginationResponse{
			Page:  page.Page,
			Limit: page.Limit,
			Pages: page.Pages,
		},
		Data: data,
	}
}

func toActivityResponse(a domain.TaskActivity) activityResponse {
	return activityResponse{
		ID:         a.ID,
		Action:     string(a.Action),
		ActorID:    a.ActorID,
		Fields:     a.Fields,
		StatusFrom: string(a.StatusFrom),
		StatusTo:   string(a.StatusTo),
		At:         a.At,
	}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
