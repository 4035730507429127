package middleware

import (
	"net/http"
	"slices"

	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/handler/http/response"
)

// RequireRole allows the request through only for principals holding one of roles
func RequireRole(roles ...profile.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.PrincipalFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if principal.IsDevice() || !slices.Contains(roles, principal.Role) {
				response.HandleError(w, auth.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// StaffOnly requires admin or hr role
func StaffOnly(next http.Handler) http.Handler {
	return RequireRole(profile.RoleAdmin, profile.RoleHR)(next)
}
