package jwt

import (
	"net/http"
	"sync"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Service interface {
	GenerateAccessToken(p profile.Profile) (token string, expiresAt int64, err error)
	GenerateRefreshToken(profileID string) (token string, expiresAt int64, err error)

	// ParseRefreshToken verifies a refresh token and returns its profile id
	ParseRefreshToken(tokenString string) (profileID string, err error)

	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string)
	IsTokenRevoked(token string) bool

	// PruneRevoked drops revoked entries whose token has expired by now. Returns how many were dropped.
	PruneRevoked(now time.Time) int
}

type JWTService struct {
	accessTokenExpirationTime  time.Duration
	refreshTokenExpirationTime time.Duration
	tokenAuth                  *jwtauth.JWTAuth

	// token -> expiry (unix seconds)
	revokedTokens map[string]int64
	mu            sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration, refreshTokenExpirationTime time.Duration) *JWTService {
	return &JWTService{
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:              make(map[string]int64),
	}
}

func (j *JWTService) GenerateAccessToken(p profile.Profile) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		"profile_id":  p.ID,
		"email":       p.Email,
		"employee_id": returnValueOrNil(p.EmployeeID),
		"role":        string(p.Role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(profileID string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.refreshTokenExpirationTime).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"jti":        uuid.NewString(),
		"profile_id": profileID,
		"exp":        expiresAt,
		"type":       TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ParseRefreshToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeRefresh {
		return "", jwt.ErrInvalidJWT()
	}

	profileIDVal, ok := token.Get("profile_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	profileID, ok := profileIDVal.(string)
	if !ok || profileID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return profileID, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) RevokeToken(token string) {
	expiresAt := time.Now().Add(j.accessTokenExpirationTime).Unix()
	if t, err := j.tokenAuth.Decode(token); err == nil && !t.Expiration().IsZero() {
		expiresAt = t.Expiration().Unix()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

func (j *JWTService) PruneRevoked(now time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	pruned := 0
	for token, exp := range j.revokedTokens {
		if exp <= now.Unix() {
			delete(j.revokedTokens, token)
			pruned++
		}
	}
	return pruned
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
