package middleware

import (
	"net/http"

	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/handler/http/response"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified, unrevoked access tokens and attaches the caller as an
// auth.Principal to the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			principal, ok := principalFromClaims(claims)
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		}
		return http.HandlerFunc(hfn)
	}
}

func principalFromClaims(claims map[string]interface{}) (auth.Principal, bool) {
	profileID, ok := claims["profile_id"].(string)
	if !ok || profileID == "" {
		return auth.Principal{}, false
	}
	role, ok := claims["role"].(string)
	if !ok || !profile.Role(role).IsValid() {
		return auth.Principal{}, false
	}

	p := auth.Principal{
		ProfileID: profileID,
		Role:      profile.Role(role),
	}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		p.EmployeeID = &employeeID
	}
	return p, true
}
