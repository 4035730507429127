package auth

import "context"

// RefreshTokenRepository persists hashed refresh tokens so they can be revoked across restarts.
type RefreshTokenRepository interface {
	Create(ctx context.Context, profileID string, token string, expiresAt int64) error

	// IsRevoked reports true for unknown, revoked and expired tokens
	IsRevoked(ctx context.Context, token string) (bool, error)

	Revoke(ctx context.Context, token string) error
	RevokeAllForProfile(ctx context.Context, profileID string) error
}
