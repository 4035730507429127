package jwt

import (
	"testing"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService()
	employeeID := "DAG00007"

	token, expiresAt, err := svc.GenerateAccessToken(profile.Profile{
		ID:         "profile-1",
		Email:      "jane@dag.test",
		Role:       profile.RoleEmployee,
		EmployeeID: &employeeID,
	})
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := parsed.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "profile-1", claims["profile_id"])
	assert.Equal(t, "employee", claims["role"])
	assert.Equal(t, "DAG00007", claims["employee_id"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestParseRefreshToken(t *testing.T) {
	svc := newTestService()

	refresh, _, err := svc.GenerateRefreshToken("profile-1")
	require.NoError(t, err)

	profileID, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "profile-1", profileID)

	// Access tokens are not accepted as refresh tokens
	access, _, err := svc.GenerateAccessToken(profile.Profile{ID: "profile-1", Role: profile.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.ParseRefreshToken(access)
	assert.Error(t, err)

	// Tokens signed with another key are rejected
	other := NewJWTService("other-secret", time.Minute, time.Hour)
	foreign, _, err := other.GenerateRefreshToken("profile-1")
	require.NoError(t, err)
	_, err = svc.ParseRefreshToken(foreign)
	assert.Error(t, err)
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	svc := newTestService()

	first, _, err := svc.GenerateRefreshToken("profile-1")
	require.NoError(t, err)
	second, _, err := svc.GenerateRefreshToken("profile-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRevokeAndPrune(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.GenerateAccessToken(profile.Profile{ID: "profile-1", Role: profile.RoleHR})
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))

	// Not yet expired
	assert.Equal(t, 0, svc.PruneRevoked(time.Now()))
	assert.True(t, svc.IsTokenRevoked(token))

	assert.Equal(t, 1, svc.PruneRevoked(time.Unix(expiresAt+1, 0)))
	assert.False(t, svc.IsTokenRevoked(token))
}
