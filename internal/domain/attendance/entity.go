package attendance

import (
	"time"
)

type Method string

const (
	MethodManual    Method = "manual"
	MethodBiometric Method = "biometric"
	MethodAdmin     Method = "admin"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodManual, MethodBiometric, MethodAdmin:
		return true
	}
	return false
}

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
	StatusOnLeave Status = "on_leave"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusHalfDay, StatusOnLeave:
		return true
	}
	return false
}

// Record is one check-in/check-out session. WorkDate is the organization-local date of the
// check-in, stored at midnight UTC.
type Record struct {
	ID             string
	ProfileID      string
	WorkDate       time.Time
	CheckInTime    time.Time
	CheckOutTime   *time.Time
	CheckInMethod  Method
	CheckOutMethod *Method
	Status         Status
	DeviceID       *string
	Notes          *string
	CreatedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO / Join
	EmployeeName   *string
	EmployeeCode   *string
	DepartmentName *string
}

func (r *Record) IsOpen() bool {
	return r.CheckOutTime == nil
}

// WorkedMinutes is nil while the session is open.
func (r *Record) WorkedMinutes() *int {
	if r.CheckOutTime == nil {
		return nil
	}
	m := int(r.CheckOutTime.Sub(r.CheckInTime).Minutes())
	return &m
}

type CorrectionStatus string

const (
	CorrectionPending  CorrectionStatus = "pending"
	CorrectionApproved CorrectionStatus = "approved"
	CorrectionRejected CorrectionStatus = "rejected"
)

func (s CorrectionStatus) IsValid() bool {
	switch s {
	case CorrectionPending, CorrectionApproved, CorrectionRejected:
		return true
	}
	return false
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Status maps a review decision to the terminal correction status.
func (d Decision) Status() (CorrectionStatus, bool) {
	switch d {
	case DecisionApprove:
		return CorrectionApproved, true
	case DecisionReject:
		return CorrectionRejected, true
	}
	return "", false
}

// Correction is a request to change the times of an attendance record. Original times are a
// snapshot taken when the request was filed.
type Correction struct {
	ID                string
	AttendanceID      string
	ProfileID         string
	RequestedBy       string
	OriginalCheckIn   *time.Time
	OriginalCheckOut  *time.Time
	CorrectedCheckIn  *time.Time
	CorrectedCheckOut *time.Time
	Reason            string
	Status            CorrectionStatus
	ReviewedBy        *string
	ReviewedAt        *time.Time
	ReviewNotes       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO / Join
	EmployeeName  *string
	EmployeeCode  *string
	EmployeeEmail *string
	ReviewerName  *string
}
