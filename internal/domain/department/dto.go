package department

import (
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ManagerID   *string `json:"manager_id,omitempty"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if r.ManagerID != nil && !validator.IsValidUUID(*r.ManagerID) {
		errs.Add("manager_id", "manager_id must be a valid id")
	}

	return errs.Err()
}

type UpdateDepartmentRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ManagerID   *string `json:"manager_id,omitempty"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		}
		if len(*r.Name) > 100 {
			errs.Add("name", "name must not exceed 100 characters")
		}
	}
	if r.ManagerID != nil && *r.ManagerID != "" && !validator.IsValidUUID(*r.ManagerID) {
		errs.Add("manager_id", "manager_id must be a valid id")
	}

	return errs.Err()
}

type DepartmentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	ManagerID     *string   `json:"manager_id,omitempty"`
	ManagerName   *string   `json:"manager_name,omitempty"`
	EmployeeCount int       `json:"employee_count"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewDepartmentResponse(d Department) DepartmentResponse {
	return DepartmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		ManagerID:     d.ManagerID,
		ManagerName:   d.ManagerName,
		EmployeeCount: d.EmployeeCount,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
