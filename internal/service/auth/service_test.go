package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/jwt"
	"github.com/dag-industries/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store   *memory.Store
	jwt     *jwt.JWTService
	service auth.AuthService
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	return &testEnv{
		store:   store,
		jwt:     jwtService,
		service: NewAuthService(store.Profiles(), store.RefreshTokens(), jwtService),
	}
}

func (e *testEnv) createProfile(t *testing.T, email, password string, role profile.Role, active bool) profile.Profile {
	t.Helper()
	hash, err := hashPassword(password)
	require.NoError(t, err)
	p, err := e.store.Profiles().Create(context.Background(), profile.Profile{
		Email:        email,
		FullName:     "Test " + string(role),
		Role:         role,
		PasswordHash: &hash,
		IsActive:     active,
	})
	require.NoError(t, err)
	return p
}

func TestAuthService_Login_Success(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	p := env.createProfile(t, "jane@dag.test", "password123", profile.RoleEmployee, true)

	resp, err := env.service.Login(ctx, auth.LoginRequest{Email: "Jane@DAG.test", Password: "password123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, p.ID, resp.Profile.ID)

	revoked, err := env.store.RefreshTokens().IsRevoked(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.False(t, revoked, "refresh token should be stored")
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	env.createProfile(t, "jane@dag.test", "password123", profile.RoleEmployee, true)

	_, err := env.service.Login(ctx, auth.LoginRequest{Email: "jane@dag.test", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	// Unknown email yields the same error
	_, err = env.service.Login(ctx, auth.LoginRequest{Email: "nobody@dag.test", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	env := setupTest(t)
	env.createProfile(t, "gone@dag.test", "password123", profile.RoleEmployee, false)

	_, err := env.service.Login(context.Background(), auth.LoginRequest{Email: "gone@dag.test", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestAuthService_RefreshToken(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	env.createProfile(t, "jane@dag.test", "password123", profile.RoleEmployee, true)

	login, err := env.service.Login(ctx, auth.LoginRequest{Email: "jane@dag.test", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := env.service.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// After logout the refresh token no longer works
	require.NoError(t, env.service.Logout(ctx, login.AccessToken, login.RefreshToken))
	assert.True(t, env.jwt.IsTokenRevoked(login.AccessToken))

	_, err = env.service.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	env.createProfile(t, "jane@dag.test", "password123", profile.RoleEmployee, true)

	login, err := env.service.Login(ctx, auth.LoginRequest{Email: "jane@dag.test", Password: "password123"})
	require.NoError(t, err)

	_, err = env.service.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Me(t *testing.T) {
	env := setupTest(t)
	p := env.createProfile(t, "jane@dag.test", "password123", profile.RoleEmployee, true)

	_, err := env.service.Me(context.Background())
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	ctx := auth.WithPrincipal(context.Background(), auth.Principal{ProfileID: p.ID, Role: p.Role})
	me, err := env.service.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@dag.test", me.Email)

	deviceCtx := auth.WithPrincipal(context.Background(), auth.Principal{DeviceID: "device-1"})
	_, err = env.service.Me(deviceCtx)
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestAuthService_EnsureBootstrapAdmin(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	admin := auth.BootstrapAdmin{Email: "admin@dag.test", Password: "admin-password", FullName: "Admin"}

	require.NoError(t, env.service.EnsureBootstrapAdmin(ctx, admin))

	created, err := env.store.Profiles().GetByEmail(ctx, "admin@dag.test")
	require.NoError(t, err)
	assert.Equal(t, profile.RoleAdmin, created.Role)
	assert.True(t, created.IsActive)
	assert.Nil(t, created.EmployeeID, "admins do not get an employee id")

	// Running again is a no-op
	require.NoError(t, env.service.EnsureBootstrapAdmin(ctx, admin))

	_, err = env.service.Login(ctx, auth.LoginRequest{Email: "admin@dag.test", Password: "admin-password"})
	assert.NoError(t, err)
}

func TestAuthService_EnsureBootstrapAdmin_PromotesExisting(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	existing := env.createProfile(t, "boss@dag.test", "original-password", profile.RoleHR, false)

	err := env.service.EnsureBootstrapAdmin(ctx, auth.BootstrapAdmin{Email: "boss@dag.test", Password: "new-password", FullName: "Boss"})
	require.NoError(t, err)

	promoted, err := env.store.Profiles().GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.RoleAdmin, promoted.Role)
	assert.True(t, promoted.IsActive)

	// The existing password is kept
	_, err = env.service.Login(ctx, auth.LoginRequest{Email: "boss@dag.test", Password: "original-password"})
	assert.NoError(t, err)
}
