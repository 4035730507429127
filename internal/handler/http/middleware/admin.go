package middleware

import (
	"net/http"

	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
)

func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(profile.RoleAdmin)(next)
}
