package auth

import (
	"context"

	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
)

// Principal is the authenticated caller of an operation. Biometric devices act through a
// principal carrying DeviceID and no profile.
type Principal struct {
	ProfileID  string
	Email      string
	Role       profile.Role
	EmployeeID *string
	DeviceID   string
}

func (p Principal) IsStaff() bool {
	return p.DeviceID == "" && p.Role.IsStaff()
}

func (p Principal) IsAdmin() bool {
	return p.DeviceID == "" && p.Role == profile.RoleAdmin
}

func (p Principal) IsDevice() bool {
	return p.DeviceID != ""
}

// CanActFor reports whether the principal may touch attendance data owned by profileID.
func (p Principal) CanActFor(profileID string) bool {
	if p.IsDevice() || p.IsStaff() {
		return true
	}
	return p.ProfileID != "" && p.ProfileID == profileID
}

type principalCtxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext returns ErrUnauthenticated when no principal was attached.
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	if !ok || (p.ProfileID == "" && p.DeviceID == "") {
		return Principal{}, ErrUnauthenticated
	}
	return p, nil
}
