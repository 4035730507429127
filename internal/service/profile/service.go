package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/dag-industries/attendance-backend-go/internal/domain/audit"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/department"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// maxAllocationAttempts bounds retries when a concurrent writer takes the same employee id
const maxAllocationAttempts = 3

type ProfileServiceImpl struct {
	txManager      database.Transactor
	profileRepo    profile.ProfileRepository
	departmentRepo department.DepartmentRepository
	auditRepo      audit.AuditRepository
	refreshTokens  auth.RefreshTokenRepository
}

func NewProfileService(
	txManager database.Transactor,
	profileRepo profile.ProfileRepository,
	departmentRepo department.DepartmentRepository,
	auditRepo audit.AuditRepository,
	refreshTokens auth.RefreshTokenRepository,
) profile.ProfileService {
	return &ProfileServiceImpl{
		txManager:      txManager,
		profileRepo:    profileRepo,
		departmentRepo: departmentRepo,
		auditRepo:      auditRepo,
		refreshTokens:  refreshTokens,
	}
}

func requireAdmin(ctx context.Context) (auth.Principal, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return auth.Principal{}, err
	}
	if !principal.IsAdmin() {
		return auth.Principal{}, auth.ErrForbidden
	}
	return principal, nil
}

func requireSelf(ctx context.Context) (auth.Principal, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return auth.Principal{}, err
	}
	if principal.IsDevice() || principal.ProfileID == "" {
		return auth.Principal{}, auth.ErrForbidden
	}
	return principal, nil
}

func (s *ProfileServiceImpl) ensureDepartment(ctx context.Context, departmentID *string) error {
	if departmentID == nil || *departmentID == "" {
		return nil
	}
	dept, err := s.departmentRepo.GetByID(ctx, *departmentID)
	if err != nil {
		return err
	}
	if !dept.IsActive {
		var errs validator.ValidationErrors
		errs.Add("department_id", "department is inactive")
		return errs
	}
	return nil
}

// allocateEmployeeID assigns the next DAG id to profileID. Must run inside a transaction so the
// advisory lock is held until commit.
func (s *ProfileServiceImpl) allocateEmployeeID(ctx context.Context, profileID string) (string, error) {
	if err := s.profileRepo.LockEmployeeIDAllocation(ctx); err != nil {
		return "", err
	}
	existing, err := s.profileRepo.ListEmployeeIDs(ctx)
	if err != nil {
		return "", err
	}
	next, err := profile.NextEmployeeID(existing)
	if err != nil {
		return "", err
	}
	if err := s.profileRepo.AssignEmployeeID(ctx, profileID, next); err != nil {
		return "", err
	}
	return next, nil
}

// withAllocationRetry runs fn in a transaction, retrying when the employee id it picked was taken.
func (s *ProfileServiceImpl) withAllocationRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		err = s.txManager.WithinTransaction(ctx, fn)
		if !errors.Is(err, profile.ErrEmployeeIDTaken) {
			return err
		}
		slog.Warn("Employee id collision, retrying", "attempt", attempt)
	}
	return err
}

// CreateProfile implements profile.ProfileService.
func (s *ProfileServiceImpl) CreateProfile(ctx context.Context, req profile.CreateProfileRequest) (profile.ProfileResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return profile.ProfileResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}
	if err := s.ensureDepartment(ctx, req.DepartmentID); err != nil {
		return profile.ProfileResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return profile.ProfileResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	var created profile.Profile
	err = s.withAllocationRetry(ctx, func(txCtx context.Context) error {
		p, err := s.profileRepo.Create(txCtx, profile.Profile{
			Email:        req.Email,
			FullName:     req.FullName,
			Role:         req.Role,
			DepartmentID: req.DepartmentID,
			Phone:        req.Phone,
			PasswordHash: &hashed,
			IsActive:     true,
		})
		if err != nil {
			return err
		}
		if p.NeedsEmployeeID() {
			if _, err := s.allocateEmployeeID(txCtx, p.ID); err != nil {
				return err
			}
		}
		created, err = s.profileRepo.GetByID(txCtx, p.ID)
		return err
	})
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	return profile.NewProfileResponse(created), nil
}

// GetProfile implements profile.ProfileService.
func (s *ProfileServiceImpl) GetProfile(ctx context.Context, id string) (profile.ProfileResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	if !principal.IsStaff() && principal.ProfileID != id {
		return profile.ProfileResponse{}, auth.ErrForbidden
	}

	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	return profile.NewProfileResponse(p), nil
}

// GetMyProfile implements profile.ProfileService.
func (s *ProfileServiceImpl) GetMyProfile(ctx context.Context) (profile.ProfileResponse, error) {
	principal, err := requireSelf(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	return s.GetProfile(ctx, principal.ProfileID)
}

// GetByEmployeeID implements profile.ProfileService.
func (s *ProfileServiceImpl) GetByEmployeeID(ctx context.Context, employeeID string) (profile.ProfileResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	if !principal.IsStaff() && !principal.IsDevice() {
		return profile.ProfileResponse{}, auth.ErrForbidden
	}
	if !profile.IsValidEmployeeID(employeeID) {
		var errs validator.ValidationErrors
		errs.Add("employee_id", "employee_id must look like DAG00001")
		return profile.ProfileResponse{}, errs
	}

	p, err := s.profileRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	return profile.NewProfileResponse(p), nil
}

// ListProfiles implements profile.ProfileService.
func (s *ProfileServiceImpl) ListProfiles(ctx context.Context, filter profile.ProfileFilter) (profile.ListProfileResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return profile.ListProfileResponse{}, err
	}
	if !principal.IsStaff() {
		return profile.ListProfileResponse{}, auth.ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return profile.ListProfileResponse{}, err
	}

	profiles, total, err := s.profileRepo.List(ctx, filter)
	if err != nil {
		return profile.ListProfileResponse{}, fmt.Errorf("failed to list profiles: %w", err)
	}

	resp := profile.ListProfileResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Profiles:   make([]profile.ProfileResponse, 0, len(profiles)),
	}
	for _, p := range profiles {
		resp.Profiles = append(resp.Profiles, profile.NewProfileResponse(p))
	}
	return resp, nil
}

// UpdateProfile implements profile.ProfileService.
func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, req profile.UpdateProfileRequest) (profile.ProfileResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return profile.ProfileResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}
	if err := s.ensureDepartment(ctx, req.DepartmentID); err != nil {
		return profile.ProfileResponse{}, err
	}

	var updated profile.Profile
	err := s.withAllocationRetry(ctx, func(txCtx context.Context) error {
		p, err := s.profileRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.FullName != nil {
			p.FullName = *req.FullName
		}
		if req.Phone != nil {
			p.Phone = req.Phone
		}
		if req.AvatarURL != nil {
			p.AvatarURL = req.AvatarURL
		}
		if req.DepartmentID != nil {
			if *req.DepartmentID == "" {
				p.DepartmentID = nil
			} else {
				p.DepartmentID = req.DepartmentID
			}
		}
		if req.Role != nil {
			// Switching away from employee keeps the id already issued
			p.Role = *req.Role
		}

		if _, err := s.profileRepo.Update(txCtx, p); err != nil {
			return err
		}
		if p.NeedsEmployeeID() {
			if _, err := s.allocateEmployeeID(txCtx, p.ID); err != nil {
				return err
			}
		}
		updated, err = s.profileRepo.GetByID(txCtx, p.ID)
		return err
	})
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	return profile.NewProfileResponse(updated), nil
}

// UpdateMyProfile implements profile.ProfileService.
func (s *ProfileServiceImpl) UpdateMyProfile(ctx context.Context, req profile.UpdateMyProfileRequest) (profile.ProfileResponse, error) {
	principal, err := requireSelf(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}

	p, err := s.profileRepo.GetByID(ctx, principal.ProfileID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}

	updated, err := s.profileRepo.Update(ctx, p)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	return profile.NewProfileResponse(updated), nil
}

// ChangeMyPassword implements profile.ProfileService.
func (s *ProfileServiceImpl) ChangeMyPassword(ctx context.Context, req profile.ChangePasswordRequest) error {
	principal, err := requireSelf(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	p, err := s.profileRepo.GetByID(ctx, principal.ProfileID)
	if err != nil {
		return err
	}
	if p.PasswordHash == nil || bcrypt.CompareHashAndPassword([]byte(*p.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return profile.ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.profileRepo.UpdatePassword(ctx, p.ID, string(hash))
}

// DeactivateProfile implements profile.ProfileService.
func (s *ProfileServiceImpl) DeactivateProfile(ctx context.Context, id string) (profile.ProfileResponse, error) {
	principal, err := requireAdmin(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	if principal.ProfileID == id {
		return profile.ProfileResponse{}, profile.ErrCannotDeactivateSelf
	}

	var updated profile.Profile
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		p, err := s.profileRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !p.IsActive {
			updated = p
			return nil
		}

		p.IsActive = false
		if updated, err = s.profileRepo.Update(txCtx, p); err != nil {
			return err
		}
		if err := s.refreshTokens.RevokeAllForProfile(txCtx, id); err != nil {
			return err
		}

		entry, err := audit.NewLog(txCtx, principal.ProfileID, audit.ActionProfileDeactivated, audit.EntityProfile, id,
			map[string]any{"is_active": true}, map[string]any{"is_active": false})
		if err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, entry)
	})
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	return profile.NewProfileResponse(updated), nil
}

// AssignMissingEmployeeIDs implements profile.ProfileService.
func (s *ProfileServiceImpl) AssignMissingEmployeeIDs(ctx context.Context) (profile.AssignEmployeeIDsResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return profile.AssignEmployeeIDsResponse{}, err
	}

	missing, err := s.profileRepo.ListMissingEmployeeID(ctx)
	if err != nil {
		return profile.AssignEmployeeIDsResponse{}, fmt.Errorf("failed to list profiles without employee id: %w", err)
	}

	resp := profile.AssignEmployeeIDsResponse{Errors: []string{}}
	for _, p := range missing {
		err := s.withAllocationRetry(ctx, func(txCtx context.Context) error {
			_, err := s.allocateEmployeeID(txCtx, p.ID)
			return err
		})
		if err != nil {
			slog.Error("Failed to assign employee id", "profile_id", p.ID, "error", err)
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", p.Email, err))
			if errors.Is(err, profile.ErrEmployeeIDExhausted) {
				break
			}
			continue
		}
		resp.Updated++
	}

	return resp, nil
}

// PreviewNextEmployeeID implements profile.ProfileService.
func (s *ProfileServiceImpl) PreviewNextEmployeeID(ctx context.Context) (profile.NextEmployeeIDResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return profile.NextEmployeeIDResponse{}, err
	}

	existing, err := s.profileRepo.ListEmployeeIDs(ctx)
	if err != nil {
		return profile.NextEmployeeIDResponse{}, fmt.Errorf("failed to list employee ids: %w", err)
	}
	next, err := profile.NextEmployeeID(existing)
	if err != nil {
		return profile.NextEmployeeIDResponse{}, err
	}
	return profile.NextEmployeeIDResponse{EmployeeID: next}, nil
}
