package ports

import (
	"context"
	"math"

	"github.com/taskboard/task-api/internal/core/domain"
)

// SortField is one key of a list ordering.
type SortField struct {
	Field string
	Desc  bool
}

// TaskFilter carries all query parameters for listing tasks.
// ParticipantID is always set by the service layer for non-admins.
type TaskFilter struct {
	ParticipantID string // empty = no scope (admin); otherwise assignee OR creator
	Status        string // optional
	Priority      string // optional
	AssignedTo    string // optional
	Page          int    // 1-based
	Limit         int
	Sort          []SortField
}

// Offset returns how many matches precede the requested page. It reports
// false when the offset does not fit in an int64, in which case the page is
// necessarily past the end of any result set.
func (f TaskFilter) Offset() (int64, bool) {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0, true
	}
	if int64(f.Page-1) > math.MaxInt64/int64(f.Limit) {
		return 0, false
	}
	return int64(f.Page-1) * int64(f.Limit), true
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	// Create inserts t and assigns its ID.
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// Update replaces the stored document. Concurrent writers are
	// last-writer-wins.
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	// List returns a page of tasks matching filter and the total count.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int64, error)
}
