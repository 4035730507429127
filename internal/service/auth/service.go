package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	profileRepo   profile.ProfileRepository
	refreshTokens auth.RefreshTokenRepository
	jwtService    jwt.Service
}

func NewAuthService(profileRepo profile.ProfileRepository, refreshTokens auth.RefreshTokenRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		profileRepo:   profileRepo,
		refreshTokens: refreshTokens,
		jwtService:    jwtService,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	p, err := a.profileRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get profile by email: %w", err)
	}

	if p.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*p.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !p.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	var resp auth.TokenResponse
	resp.AccessToken, resp.AccessTokenExpiresAt, err = a.jwtService.GenerateAccessToken(p)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresAt, err = a.jwtService.GenerateRefreshToken(p.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := a.refreshTokens.Create(ctx, p.ID, resp.RefreshToken, resp.RefreshTokenExpiresAt); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	resp.Profile = profile.NewProfileResponse(p)
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, accessToken string, refreshToken string) error {
	if accessToken != "" {
		a.jwtService.RevokeToken(accessToken)
	}
	if refreshToken != "" {
		if err := a.refreshTokens.Revoke(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	profileID, err := a.jwtService.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := a.refreshTokens.IsRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	p, err := a.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get profile: %w", err)
	}
	if !p.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresAt, err = a.jwtService.GenerateAccessToken(p)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (profile.ProfileResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	if principal.IsDevice() {
		return profile.ProfileResponse{}, auth.ErrForbidden
	}

	p, err := a.profileRepo.GetByID(ctx, principal.ProfileID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	return profile.NewProfileResponse(p), nil
}

// EnsureBootstrapAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureBootstrapAdmin(ctx context.Context, admin auth.BootstrapAdmin) error {
	if admin.Email == "" {
		return nil
	}

	existing, err := a.profileRepo.GetByEmail(ctx, admin.Email)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		hash, err := hashPassword(admin.Password)
		if err != nil {
			return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
		}
		created, err := a.profileRepo.Create(ctx, profile.Profile{
			Email:        admin.Email,
			FullName:     admin.FullName,
			Role:         profile.RoleAdmin,
			PasswordHash: &hash,
			IsActive:     true,
		})
		if err != nil {
			return fmt.Errorf("failed to create bootstrap admin: %w", err)
		}
		slog.Info("Bootstrap admin created", "profile_id", created.ID, "email", created.Email)
		return nil

	case err != nil:
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	if existing.Role == profile.RoleAdmin && existing.IsActive {
		return nil
	}

	// The configured password is not applied to an existing account
	existing.Role = profile.RoleAdmin
	existing.IsActive = true
	if _, err := a.profileRepo.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to promote bootstrap admin: %w", err)
	}
	slog.Info("Bootstrap admin promoted", "profile_id", existing.ID, "email", existing.Email)
	return nil
}
