package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/biometric"
	"github.com/dag-industries/attendance-backend-go/internal/domain/department"
	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	HandleErrorWithMessage(w, err, "An unexpected error occurred")
}

// HandleErrorWithMessage is HandleError with the message used for unexpected (persistence) errors.
func HandleErrorWithMessage(w http.ResponseWriter, err error, fallback string) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, auth.ErrForbidden):
		Forbidden(w, "You do not have permission to perform this action")

	// Profile domain errors
	case errors.Is(err, profile.ErrProfileNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, profile.ErrProfileInactive):
		Forbidden(w, "Profile is inactive")
	case errors.Is(err, profile.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, profile.ErrEmployeeIDTaken):
		Conflict(w, "Employee ID already assigned, please retry")
	case errors.Is(err, profile.ErrEmployeeIDExhausted):
		Conflict(w, "Employee ID range exhausted")
	case errors.Is(err, profile.ErrEmployeeIDImmutable):
		BadRequest(w, "Employee ID cannot be changed", nil)
	case errors.Is(err, profile.ErrInvalidPassword):
		BadRequest(w, "Current password is incorrect", nil)
	case errors.Is(err, profile.ErrCannotDeactivateSelf):
		BadRequest(w, "You cannot deactivate your own profile", nil)

	// Department domain errors
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrManagerNotFound):
		NotFound(w, "Manager not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, "Department name already exists")

	// Device domain errors
	case errors.Is(err, device.ErrDeviceNotFound):
		NotFound(w, "Device not found")
	case errors.Is(err, device.ErrDeviceIDExists):
		Conflict(w, "Device ID already registered")
	case errors.Is(err, device.ErrInvalidCredentials):
		Forbidden(w, "Invalid or inactive device")
	case errors.Is(err, biometric.ErrInvalidAction):
		BadRequest(w, `Invalid action. Must be "check-in" or "check-out"`, nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		BadRequest(w, "Already checked in today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		BadRequest(w, "Already checked out today", nil)
	case errors.Is(err, attendance.ErrNoOpenSession):
		BadRequest(w, "No check-in record found for today", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrCorrectionNotFound):
		NotFound(w, "Attendance correction not found")
	case errors.Is(err, attendance.ErrCorrectionNotPending):
		BadRequest(w, "Attendance correction has already been reviewed", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, fallback)
	}
}
