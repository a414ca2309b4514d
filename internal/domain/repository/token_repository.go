package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenKind distinguishes access from refresh token registrations.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access_token"
	TokenKindRefresh TokenKind = "refresh_token"
)

// TokenRepository tracks issued tokens so they can be revoked before expiry.
type TokenRepository interface {
	Store(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string) error
}
