package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dag-industries/attendance-backend-go/internal/domain/audit"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/settings"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

type SettingsServiceImpl struct {
	txManager    database.Transactor
	settingsRepo settings.SettingsRepository
	auditRepo    audit.AuditRepository
}

func NewSettingsService(txManager database.Transactor, settingsRepo settings.SettingsRepository, auditRepo audit.AuditRepository) settings.SettingsService {
	return &SettingsServiceImpl{
		txManager:    txManager,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
	}
}

func (s *SettingsServiceImpl) load(ctx context.Context) (settings.Stored, error) {
	stored, err := s.settingsRepo.Get(ctx)
	if errors.Is(err, settings.ErrSettingsNotFound) {
		stored, err = settings.Stored{Settings: settings.Default()}, nil
	}
	if err != nil {
		return settings.Stored{}, fmt.Errorf("failed to get settings: %w", err)
	}

	if stored.Settings, err = stored.Settings.Resolve(); err != nil {
		return settings.Stored{}, fmt.Errorf("failed to resolve organization time zone: %w", err)
	}
	return stored, nil
}

func toResponse(stored settings.Stored) settings.SettingsResponse {
	resp := settings.SettingsResponse{Settings: stored.Settings, UpdatedBy: stored.UpdatedBy}
	if !stored.UpdatedAt.IsZero() {
		updatedAt := stored.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.SettingsResponse, error) {
	if _, err := auth.PrincipalFromContext(ctx); err != nil {
		return settings.SettingsResponse{}, err
	}
	stored, err := s.load(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return toResponse(stored), nil
}

// Update implements settings.SettingsService.
func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	if !principal.IsAdmin() {
		return settings.SettingsResponse{}, auth.ErrForbidden
	}
	if req.IsEmpty() {
		var errs validator.ValidationErrors
		errs.Add("settings", "at least one setting must be provided")
		return settings.SettingsResponse{}, errs
	}

	var saved settings.Stored
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.load(txCtx)
		if err != nil {
			return err
		}
		if err := req.Validate(current.Settings); err != nil {
			return err
		}

		next := req.Apply(current.Settings)
		if saved, err = s.settingsRepo.Save(txCtx, next, &principal.ProfileID); err != nil {
			return err
		}

		entry, err := audit.NewLog(txCtx, principal.ProfileID, audit.ActionSettingsUpdated, audit.EntitySettings, "", current.Settings, next)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, entry)
	})
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	return toResponse(saved), nil
}

// Current implements settings.SettingsService.
func (s *SettingsServiceImpl) Current(ctx context.Context) (settings.Settings, error) {
	stored, err := s.load(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	return stored.Settings, nil
}

// Seed implements settings.SettingsService.
func (s *SettingsServiceImpl) Seed(ctx context.Context, initial settings.Settings) error {
	if err := initial.Validate(); err != nil {
		return err
	}
	if _, err := initial.Resolve(); err != nil {
		return err
	}
	inserted, err := s.settingsRepo.SeedIfMissing(ctx, initial)
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	if inserted {
		slog.Info("Organization settings seeded", "organization", initial.OrganizationName, "time_zone", initial.TimeZone)
	}
	return nil
}
