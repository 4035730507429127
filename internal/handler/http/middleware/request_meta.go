package middleware

import (
	"net/http"

	"github.com/dag-industries/attendance-backend-go/internal/domain/audit"
)

// RequestMeta stores the client address and user agent for audit entries
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := audit.WithRequestMeta(r.Context(), audit.RequestMeta{
			IPAddress: r.RemoteAddr,
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
