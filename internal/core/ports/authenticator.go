package ports

import (
	"context"

	"github.com/taskboard/task-api/internal/core/domain"
)

// Authenticator resolves a bearer credential to the acting user. It returns
// domain.ErrUnauthenticated for any token it does not accept.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
