package profile

import (
	"strings"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// PROFILE DTOs
// ========================================

type CreateProfileRequest struct {
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	Password     string  `json:"password"`
	Role         Role    `json:"role"`
	DepartmentID *string `json:"department_id,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

func (r *CreateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email format is invalid")
	}

	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	}

	if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}

	if !r.Role.IsValid() {
		errs.Add("role", "role must be one of: admin, hr, employee")
	}

	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid id")
	}

	return errs.Err()
}

// UpdateProfileRequest is the admin edit form. employee_id is deliberately absent.
type UpdateProfileRequest struct {
	ID           string  `json:"-"`
	FullName     *string `json:"full_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Role         *Role   `json:"role,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("full_name", "full_name must not be empty")
	}
	if r.Role != nil && !r.Role.IsValid() {
		errs.Add("role", "role must be one of: admin, hr, employee")
	}
	if r.DepartmentID != nil && *r.DepartmentID != "" && !validator.IsValidUUID(*r.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid id")
	}

	return errs.Err()
}

type UpdateMyProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (r *UpdateMyProfileRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("full_name", "full_name must not be empty")
	}
	return errs.Err()
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.CurrentPassword == "" {
		errs.Add("current_password", "current_password is required")
	}
	if len(r.NewPassword) < 8 {
		errs.Add("new_password", "new_password must be at least 8 characters")
	}
	if r.NewPassword != r.ConfirmPassword {
		errs.Add("confirm_password", "new passwords do not match")
	}
	return errs.Err()
}

type ProfileFilter struct {
	Role         *string `json:"role,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	Search       *string `json:"search,omitempty"` // name, email or employee id

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ProfileFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Role != nil && !Role(*f.Role).IsValid() {
		errs.Add("role", "role must be one of: admin, hr, employee")
	}

	return errs.Err()
}

type ProfileResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	EmployeeID     *string   `json:"employee_id"`
	Role           Role      `json:"role"`
	DepartmentID   *string   `json:"department_id,omitempty"`
	DepartmentName *string   `json:"department_name,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewProfileResponse(p Profile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		Email:          p.Email,
		FullName:       p.FullName,
		EmployeeID:     p.EmployeeID,
		Role:           p.Role,
		DepartmentID:   p.DepartmentID,
		DepartmentName: p.DepartmentName,
		Phone:          p.Phone,
		AvatarURL:      p.AvatarURL,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type ListProfileResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Profiles   []ProfileResponse `json:"profiles"`
}

type AssignEmployeeIDsResponse struct {
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

type NextEmployeeIDResponse struct {
	EmployeeID string `json:"employee_id"`
}
