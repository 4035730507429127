package auth

import (
	"context"

	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, accessToken string, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Me(ctx context.Context) (profile.ProfileResponse, error)

	// EnsureBootstrapAdmin creates the configured administrator, or promotes and reactivates it.
	EnsureBootstrapAdmin(ctx context.Context, admin BootstrapAdmin) error
}
