package ports

import (
	"context"

	"github.com/taskboard/task-api/internal/core/domain"
)

// UserRepository is read-only access to the account directory.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist, keyed by id. Unknown ids are
	// simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	ListActive(ctx context.Context) ([]*domain.User, error)
}
