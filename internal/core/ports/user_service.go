package ports

import (
	"context"

	"github.com/taskboard/task-api/internal/core/domain"
)

// UserService is the read-only user directory. Admin gating for ListUsers and
// GetUser is applied at the route level.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	Profile(ctx context.Context, actor *domain.User) (*domain.User, error)
}
