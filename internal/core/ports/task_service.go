package ports

import (
	"context"
	"time"

	"github.com/taskboard/task-api/internal/core/domain"
)

// ListTasksInput carries all parameters for the list endpoint.
// Page and Limit are 0 when the caller did not supply them.
type ListTasksInput struct {
	Status     string
	Priority   string
	AssignedTo string
	Page       int
	Limit      int
	Sort       string
}

// CreateTaskInput is everything a client may set when creating a task.
// The creator always comes from the acting user.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	AssignedTo  string
	Priority    string // optional, defaults to medium
	Tags        []string
}

// UpdateTaskInput is a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	AssignedTo  *string
	Tags        *[]string
}

// TaskDetail is a task with its user references resolved for display.
// A reference to a user that no longer exists resolves to nil.
type TaskDetail struct {
	Task       *domain.Task
	AssignedTo *domain.UserSummary
	CreatedBy  *domain.UserSummary
}

// TaskPage is returned by ListTasks.
type TaskPage struct {
	Items []TaskDetail
	Total int64
	Page  int
	Limit int
	Pages int
}

// TaskService defines use-case operations for tasks. Every method takes the
// authenticated actor and enforces the task access policy.
type TaskService interface {
	ListTasks(ctx context.Context, actor *domain.User, input ListTasksInput) (*TaskPage, error)
	GetTask(ctx context.Context, actor *domain.User, id string) (*TaskDetail, error)
	CreateTask(ctx context.Context, actor *domain.User, input CreateTaskInput) (*TaskDetail, error)
	UpdateTask(ctx context.Context, actor *domain.User, id string, input UpdateTaskInput) (*TaskDetail, error)
	DeleteTask(ctx context.Context, actor *domain.User, id string) error
	ListActivity(ctx context.Context, actor *domain.User, id string) ([]domain.TaskActivity, error)
}
