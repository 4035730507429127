package biometric

import (
	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

type Action string

const (
	ActionCheckIn  Action = "check-in"
	ActionCheckOut Action = "check-out"
)

func (a Action) IsValid() bool {
	return a == ActionCheckIn || a == ActionCheckOut
}

// PunchRequest is what a terminal posts after a successful scan. BiometricData is accepted
// for compatibility with existing terminals and is not stored.
type PunchRequest struct {
	DeviceID      string `json:"device_id"`
	EmployeeID    string `json:"employee_id"`
	Action        Action `json:"action"`
	BiometricData string `json:"biometric_data,omitempty"`
	APIKey        string `json:"api_key,omitempty"`
}

// Validate reports missing fields as validation errors and an unknown action as ErrInvalidAction.
func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DeviceID) {
		errs.Add("device_id", "device_id is required")
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(string(r.Action)) {
		errs.Add("action", "action is required")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	if !r.Action.IsValid() {
		return ErrInvalidAction
	}
	return nil
}

type PunchEmployee struct {
	Name       string  `json:"name"`
	EmployeeID *string `json:"employee_id"`
}

type PunchResponse struct {
	Message    string                        `json:"message"`
	Employee   PunchEmployee                 `json:"employee"`
	Attendance attendance.AttendanceResponse `json:"attendance"`
}
