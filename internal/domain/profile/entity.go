package profile

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, manages users, devices and settings
	RoleHR       Role = "hr"       // Reviews corrections, records attendance for others
	RoleEmployee Role = "employee" // Checks in/out, requests corrections for own records
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// IsStaff reports whether r may act on other profiles' attendance.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleHR
}

type Profile struct {
	ID           string
	Email        string
	FullName     string
	EmployeeID   *string
	Role         Role
	DepartmentID *string
	Phone        *string
	AvatarURL    *string
	PasswordHash *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	DepartmentName *string
}

// NeedsEmployeeID reports whether an employee id should be allocated for p.
func (p *Profile) NeedsEmployeeID() bool {
	return p.Role == RoleEmployee && p.EmployeeID == nil
}
