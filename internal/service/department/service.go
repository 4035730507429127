package department

import (
	"context"
	"errors"
	"fmt"

	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/department"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
)

type DepartmentServiceImpl struct {
	departmentRepo department.DepartmentRepository
	profileRepo    profile.ProfileRepository
}

func NewDepartmentService(departmentRepo department.DepartmentRepository, profileRepo profile.ProfileRepository) department.DepartmentService {
	return &DepartmentServiceImpl{
		departmentRepo: departmentRepo,
		profileRepo:    profileRepo,
	}
}

func (s *DepartmentServiceImpl) requireAdmin(ctx context.Context) error {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if !principal.IsAdmin() {
		return auth.ErrForbidden
	}
	return nil
}

func (s *DepartmentServiceImpl) ensureManager(ctx context.Context, managerID *string) error {
	if managerID == nil || *managerID == "" {
		return nil
	}
	if _, err := s.profileRepo.GetByID(ctx, *managerID); err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return department.ErrManagerNotFound
		}
		return fmt.Errorf("failed to get manager profile: %w", err)
	}
	return nil
}

// Create implements department.DepartmentService.
func (s *DepartmentServiceImpl) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := s.ensureManager(ctx, req.ManagerID); err != nil {
		return department.DepartmentResponse{}, err
	}

	created, err := s.departmentRepo.Create(ctx, department.Department{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
		IsActive:    true,
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(created), nil
}

// GetByID implements department.DepartmentService.
func (s *DepartmentServiceImpl) GetByID(ctx context.Context, id string) (department.DepartmentResponse, error) {
	if _, err := auth.PrincipalFromContext(ctx); err != nil {
		return department.DepartmentResponse{}, err
	}
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(d), nil
}

// List implements department.DepartmentService.
func (s *DepartmentServiceImpl) List(ctx context.Context, includeInactive bool) ([]department.DepartmentResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !principal.IsStaff() {
		includeInactive = false
	}

	departments, err := s.departmentRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	resp := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		resp = append(resp, department.NewDepartmentResponse(d))
	}
	return resp, nil
}

// Update implements department.DepartmentService.
func (s *DepartmentServiceImpl) Update(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := s.ensureManager(ctx, req.ManagerID); err != nil {
		return department.DepartmentResponse{}, err
	}

	d, err := s.departmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = req.Description
	}
	if req.ManagerID != nil {
		if *req.ManagerID == "" {
			d.ManagerID = nil
		} else {
			d.ManagerID = req.ManagerID
		}
	}

	updated, err := s.departmentRepo.Update(ctx, d)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(updated), nil
}

// Deactivate implements department.DepartmentService.
func (s *DepartmentServiceImpl) Deactivate(ctx context.Context, id string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.departmentRepo.Deactivate(ctx, id)
}
