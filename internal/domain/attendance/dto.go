package attendance

import (
	"strings"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// LIFECYCLE DTOs
// ========================================

type CheckInRequest struct {
	ProfileID string  `json:"profile_id"`
	Method    Method  `json:"method"`
	DeviceID  *string `json:"-"` // internal device key, set by the biometric flow
	Notes     *string `json:"notes,omitempty"`
	Status    *Status `json:"status,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ProfileID) {
		errs.Add("profile_id", "profile_id is required")
	}
	if r.Method == "" {
		r.Method = MethodManual
	}
	if !r.Method.IsValid() {
		errs.Add("method", "method must be one of: manual, biometric, admin")
	}
	if r.Method == MethodBiometric && (r.DeviceID == nil || *r.DeviceID == "") {
		errs.Add("device_id", "device_id is required for biometric check-in")
	}
	if r.Status != nil && !r.Status.IsValid() {
		errs.Add("status", "status must be one of: present, late, absent, half_day, on_leave")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}

	return errs.Err()
}

// CheckOutRequest closes a session. When AttendanceID is empty the profile's latest record of
// the current day is used.
type CheckOutRequest struct {
	AttendanceID string  `json:"attendance_id,omitempty"`
	ProfileID    string  `json:"profile_id"`
	Method       Method  `json:"method"`
	DeviceID     *string `json:"-"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendanceID) && validator.IsEmpty(r.ProfileID) {
		errs.Add("profile_id", "profile_id or attendance_id is required")
	}
	if r.Method == "" {
		r.Method = MethodManual
	}
	if !r.Method.IsValid() {
		errs.Add("method", "method must be one of: manual, biometric, admin")
	}
	if r.Method == MethodBiometric && (r.DeviceID == nil || *r.DeviceID == "") {
		errs.Add("device_id", "device_id is required for biometric check-out")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}

	return errs.Err()
}

// ManualAttendanceRequest records a full session on someone's behalf.
type ManualAttendanceRequest struct {
	ProfileID    string     `json:"profile_id"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Status       Status     `json:"status"`
	Notes        *string    `json:"notes,omitempty"`
}

func (r *ManualAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ProfileID) {
		errs.Add("profile_id", "profile_id is required")
	}
	if r.CheckInTime.IsZero() {
		errs.Add("check_in_time", "check_in_time is required")
	}
	if r.CheckOutTime != nil && !r.CheckInTime.IsZero() && !r.CheckOutTime.After(r.CheckInTime) {
		errs.Add("check_out_time", "check_out_time must be after check_in_time")
	}
	if r.Status == "" {
		r.Status = StatusPresent
	}
	if !r.Status.IsValid() {
		errs.Add("status", "status must be one of: present, late, absent, half_day, on_leave")
	}

	return errs.Err()
}

// ========================================
// CORRECTION DTOs
// ========================================

type CorrectionRequest struct {
	AttendanceID      string     `json:"attendance_id"`
	CorrectedCheckIn  *time.Time `json:"corrected_check_in,omitempty"`
	CorrectedCheckOut *time.Time `json:"corrected_check_out,omitempty"`
	Reason            string     `json:"reason"`
}

func (r *CorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendanceID) {
		errs.Add("attendance_id", "attendance_id is required")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		errs.Add("reason", "reason is required")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}
	if r.CorrectedCheckIn == nil && r.CorrectedCheckOut == nil {
		errs.Add("corrected_check_in", "at least one of corrected_check_in or corrected_check_out is required")
	}
	if r.CorrectedCheckIn != nil && r.CorrectedCheckOut != nil && !r.CorrectedCheckOut.After(*r.CorrectedCheckIn) {
		errs.Add("corrected_check_out", "corrected_check_out must be after corrected_check_in")
	}

	return errs.Err()
}

type ReviewCorrectionRequest struct {
	CorrectionID string   `json:"-"`
	Decision     Decision `json:"decision"`
	ReviewNotes  *string  `json:"review_notes,omitempty"`
}

func (r *ReviewCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CorrectionID) {
		errs.Add("correction_id", "correction_id is required")
	}
	if _, ok := r.Decision.Status(); !ok {
		errs.Add("decision", "decision must be one of: approve, reject")
	}
	if r.ReviewNotes != nil && len(*r.ReviewNotes) > 1000 {
		errs.Add("review_notes", "review_notes must not exceed 1000 characters")
	}

	return errs.Err()
}

// ========================================
// FILTERS
// ========================================

type AttendanceFilter struct {
	ProfileID    *string `json:"profile_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // work_date, check_in_time, check_out_time, status, employee_name
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	validatePaging(&errs, &f.Page, &f.Limit)

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: present, late, absent, half_day, on_leave")
	}
	validateDateRange(&errs, f.StartDate, f.EndDate)

	if f.SortBy != "" {
		validSortFields := []string{"work_date", "check_in_time", "check_out_time", "status", "employee_name"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs.Add("sort_by", "sort_by must be one of: work_date, check_in_time, check_out_time, status, employee_name")
		}
	} else {
		f.SortBy = "work_date"
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
	} else {
		f.SortOrder = "desc"
	}

	return errs.Err()
}

type MyAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	validatePaging(&errs, &f.Page, &f.Limit)
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: present, late, absent, half_day, on_leave")
	}
	validateDateRange(&errs, f.StartDate, f.EndDate)

	return errs.Err()
}

type CorrectionFilter struct {
	ProfileID *string `json:"profile_id,omitempty"`
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *CorrectionFilter) Validate() error {
	var errs validator.ValidationErrors

	validatePaging(&errs, &f.Page, &f.Limit)
	if f.Status != nil && !CorrectionStatus(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: pending, approved, rejected")
	}

	return errs.Err()
}

func validatePaging(errs *validator.ValidationErrors, page, limit *int) {
	if *page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if *page == 0 {
		*page = 1
	}
	if *limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if *limit == 0 {
		*limit = 20
	}
	if *limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
}

func validateDateRange(errs *validator.ValidationErrors, startDate, endDate *string) {
	var start, end time.Time
	var startOK, endOK bool
	if startDate != nil && *startDate != "" {
		if start, startOK = validator.IsValidDate(*startDate); !startOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if endDate != nil && *endDate != "" {
		if end, endOK = validator.IsValidDate(*endDate); !endOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
}

// ========================================
// RESPONSES
// ========================================

type AttendanceResponse struct {
	ID             string     `json:"id"`
	ProfileID      string     `json:"profile_id"`
	EmployeeName   *string    `json:"employee_name,omitempty"`
	EmployeeID     *string    `json:"employee_id,omitempty"`
	DepartmentName *string    `json:"department_name,omitempty"`
	WorkDate       string     `json:"work_date"`
	CheckInTime    time.Time  `json:"check_in_time"`
	CheckOutTime   *time.Time `json:"check_out_time"`
	CheckInMethod  Method     `json:"check_in_method"`
	CheckOutMethod *Method    `json:"check_out_method,omitempty"`
	Status         Status     `json:"status"`
	DeviceID       *string    `json:"device_id,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	WorkedMinutes  *int       `json:"worked_minutes,omitempty"`
	CreatedBy      *string    `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func NewAttendanceResponse(r Record) AttendanceResponse {
	return AttendanceResponse{
		ID:             r.ID,
		ProfileID:      r.ProfileID,
		EmployeeName:   r.EmployeeName,
		EmployeeID:     r.EmployeeCode,
		DepartmentName: r.DepartmentName,
		WorkDate:       r.WorkDate.Format("2006-01-02"),
		CheckInTime:    r.CheckInTime,
		CheckOutTime:   r.CheckOutTime,
		CheckInMethod:  r.CheckInMethod,
		CheckOutMethod: r.CheckOutMethod,
		Status:         r.Status,
		DeviceID:       r.DeviceID,
		Notes:          r.Notes,
		WorkedMinutes:  r.WorkedMinutes(),
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type TodayStatusResponse struct {
	WorkDate    string              `json:"work_date"`
	Attendance  *AttendanceResponse `json:"attendance"`
	CanCheckIn  bool                `json:"can_check_in"`
	CanCheckOut bool                `json:"can_check_out"`
}

type CorrectionResponse struct {
	ID                string           `json:"id"`
	AttendanceID      string           `json:"attendance_id"`
	ProfileID         string           `json:"profile_id"`
	EmployeeName      *string          `json:"employee_name,omitempty"`
	EmployeeID        *string          `json:"employee_id,omitempty"`
	RequestedBy       string           `json:"requested_by"`
	OriginalCheckIn   *time.Time       `json:"original_check_in"`
	OriginalCheckOut  *time.Time       `json:"original_check_out"`
	CorrectedCheckIn  *time.Time       `json:"corrected_check_in"`
	CorrectedCheckOut *time.Time       `json:"corrected_check_out"`
	Reason            string           `json:"reason"`
	Status            CorrectionStatus `json:"status"`
	ReviewedBy        *string          `json:"reviewed_by,omitempty"`
	ReviewerName      *string          `json:"reviewer_name,omitempty"`
	ReviewedAt        *time.Time       `json:"reviewed_at,omitempty"`
	ReviewNotes       *string          `json:"review_notes,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func NewCorrectionResponse(c Correction) CorrectionResponse {
	return CorrectionResponse{
		ID:                c.ID,
		AttendanceID:      c.AttendanceID,
		ProfileID:         c.ProfileID,
		EmployeeName:      c.EmployeeName,
		EmployeeID:        c.EmployeeCode,
		RequestedBy:       c.RequestedBy,
		OriginalCheckIn:   c.OriginalCheckIn,
		OriginalCheckOut:  c.OriginalCheckOut,
		CorrectedCheckIn:  c.CorrectedCheckIn,
		CorrectedCheckOut: c.CorrectedCheckOut,
		Reason:            c.Reason,
		Status:            c.Status,
		ReviewedBy:        c.ReviewedBy,
		ReviewerName:      c.ReviewerName,
		ReviewedAt:        c.ReviewedAt,
		ReviewNotes:       c.ReviewNotes,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

type ListCorrectionResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Corrections []CorrectionResponse `json:"corrections"`
}
