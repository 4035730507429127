package biometric

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/biometric"
	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
)

type BiometricServiceImpl struct {
	deviceService     device.DeviceService
	profileRepo       profile.ProfileRepository
	attendanceService attendance.AttendanceService
	requireAPIKey     bool
}

func NewBiometricService(
	deviceService device.DeviceService,
	profileRepo profile.ProfileRepository,
	attendanceService attendance.AttendanceService,
	requireAPIKey bool,
) biometric.BiometricService {
	return &BiometricServiceImpl{
		deviceService:     deviceService,
		profileRepo:       profileRepo,
		attendanceService: attendanceService,
		requireAPIKey:     requireAPIKey,
	}
}

// Verify implements biometric.BiometricService.
func (s *BiometricServiceImpl) Verify(ctx context.Context, req device.VerifyDeviceRequest) (device.VerifiedDevice, error) {
	return s.deviceService.Verify(ctx, req)
}

// Punch implements biometric.BiometricService.
func (s *BiometricServiceImpl) Punch(ctx context.Context, req biometric.PunchRequest) (biometric.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return biometric.PunchResponse{}, err
	}

	dev, err := s.deviceService.Resolve(ctx, strings.TrimSpace(req.DeviceID), req.APIKey, s.requireAPIKey)
	if err != nil {
		return biometric.PunchResponse{}, err
	}

	p, err := s.profileRepo.GetByEmployeeID(ctx, strings.ToUpper(strings.TrimSpace(req.EmployeeID)))
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return biometric.PunchResponse{}, err
		}
		return biometric.PunchResponse{}, fmt.Errorf("failed to get profile by employee id: %w", err)
	}

	// The terminal acts as a device principal; attendance rows reference the internal device key
	deviceCtx := auth.WithPrincipal(ctx, auth.Principal{DeviceID: dev.ID})
	deviceKey := dev.ID

	var rec attendance.AttendanceResponse
	var message string
	switch req.Action {
	case biometric.ActionCheckIn:
		rec, err = s.attendanceService.CheckIn(deviceCtx, attendance.CheckInRequest{
			ProfileID: p.ID,
			Method:    attendance.MethodBiometric,
			DeviceID:  &deviceKey,
		})
		message = "Check-in successful"
	case biometric.ActionCheckOut:
		rec, err = s.attendanceService.CheckOut(deviceCtx, attendance.CheckOutRequest{
			ProfileID: p.ID,
			Method:    attendance.MethodBiometric,
			DeviceID:  &deviceKey,
		})
		message = "Check-out successful"
	}
	if err != nil {
		return biometric.PunchResponse{}, err
	}

	return biometric.PunchResponse{
		Message: message,
		Employee: biometric.PunchEmployee{
			Name:       p.FullName,
			EmployeeID: p.EmployeeID,
		},
		Attendance: rec,
	}, nil
}
