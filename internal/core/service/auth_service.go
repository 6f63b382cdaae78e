package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/taskboard/task-api/internal/core/domain"
	"github.com/taskboard/task-api/internal/core/ports"
)

// TokenAuthenticator verifies HS256 bearer tokens issued by the auth
// provider and resolves their subject to an active user.
type TokenAuthenticator struct {
	users  ports.UserRepository
	secret []byte
	logger zerolog.Logger
}

func NewTokenAuthenticator(users ports.UserRepository, jwtSecret string, logger zerolog.Logger) *TokenAuthenticator {
	return &TokenAuthenticator{users: users, secret: []byte(jwtSecret), logger: logger}
}

// Authenticate satisfies ports.Authenticator.
func (a *TokenAuthenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		a.logger.Debug().Err(err).Msg("rejected bearer token")
		return nil, domain.ErrUnauthenticated
	}

	userID := subject(claims)
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !user.IsActive {
		a.logger.Info().Str("user_id", user.ID).Msg("inactive user presented a token")
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// subject reads the user id from "sub", falling back to the legacy "id" claim.
func subject(claims jwt.MapClaims) string {
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok {
		return id
	}
	return ""
}
