package auth

import (
	"strings"

	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}
	return errs.Err()
}

// BootstrapAdmin describes the administrator provisioned at startup.
type BootstrapAdmin struct {
	Email    string
	Password string
	FullName string
}

type TokenResponse struct {
	AccessToken           string                  `json:"access_token"`
	AccessTokenExpiresAt  int64                   `json:"access_token_expires_at"`
	RefreshToken          string                  `json:"-"`
	RefreshTokenExpiresAt int64                   `json:"-"`
	Profile               profile.ProfileResponse `json:"profile"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresAt int64  `json:"access_token_expires_at"`
}
