package ports

import (
	"context"

	"github.com/taskboard/task-api/internal/core/domain"
)

// ActivityRepository stores the task audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.TaskActivity) error
	// ListByTask returns entries oldest first.
	ListByTask(ctx context.Context, taskID string) ([]domain.TaskActivity, error)
}
