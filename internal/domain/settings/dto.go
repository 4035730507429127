package settings

import (
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

const maxLateThresholdMinutes = 720

// UpdateSettingsRequest carries one optional field per setting. Nil fields are left unchanged.
type UpdateSettingsRequest struct {
	OrganizationName *string `json:"organization_name,omitempty"`
	TimeZone         *string `json:"time_zone,omitempty"`

	WorkingHoursStart *string `json:"working_hours_start,omitempty"`
	WorkingHoursEnd   *string `json:"working_hours_end,omitempty"`

	LateThresholdMinutes *int  `json:"late_threshold_minutes,omitempty"`
	AutoClockOut         *bool `json:"auto_clock_out,omitempty"`
	RequireApproval      *bool `json:"require_approval,omitempty"`

	EmailNotifications *bool `json:"email_notifications,omitempty"`
	DailyReports       *bool `json:"daily_reports,omitempty"`
	LateAlerts         *bool `json:"late_alerts,omitempty"`
}

// Validate checks each supplied field. The working hours pair is checked against current
// where only one side is supplied.
func (r *UpdateSettingsRequest) Validate(current Settings) error {
	var errs validator.ValidationErrors

	if r.OrganizationName != nil {
		if validator.IsEmpty(*r.OrganizationName) {
			errs.Add("organization_name", "organization_name must not be empty")
		} else if len(*r.OrganizationName) > 255 {
			errs.Add("organization_name", "organization_name must not exceed 255 characters")
		}
	}

	if r.TimeZone != nil && !validator.IsValidTimeZone(*r.TimeZone) {
		errs.Add("time_zone", "time_zone must be a valid IANA time zone")
	}

	start, end := current.WorkingHours.Start, current.WorkingHours.End
	clocksOK := true
	if r.WorkingHoursStart != nil {
		if !validator.IsValidClock(*r.WorkingHoursStart) {
			errs.Add("working_hours_start", "working_hours_start must be in HH:MM format")
			clocksOK = false
		}
		start = *r.WorkingHoursStart
	}
	if r.WorkingHoursEnd != nil {
		if !validator.IsValidClock(*r.WorkingHoursEnd) {
			errs.Add("working_hours_end", "working_hours_end must be in HH:MM format")
			clocksOK = false
		}
		end = *r.WorkingHoursEnd
	}
	if clocksOK && (r.WorkingHoursStart != nil || r.WorkingHoursEnd != nil) {
		s, errS := time.Parse(clockLayout, start)
		e, errE := time.Parse(clockLayout, end)
		if errS == nil && errE == nil && !s.Before(e) {
			errs.Add("working_hours_end", "working_hours_end must be after working_hours_start")
		}
	}

	if r.LateThresholdMinutes != nil {
		if *r.LateThresholdMinutes < 0 || *r.LateThresholdMinutes > maxLateThresholdMinutes {
			errs.Add("late_threshold_minutes", "late_threshold_minutes must be between 0 and 720")
		}
	}

	return errs.Err()
}

// IsEmpty reports whether no field was supplied.
func (r *UpdateSettingsRequest) IsEmpty() bool {
	return r.OrganizationName == nil && r.TimeZone == nil &&
		r.WorkingHoursStart == nil && r.WorkingHoursEnd == nil &&
		r.LateThresholdMinutes == nil && r.AutoClockOut == nil && r.RequireApproval == nil &&
		r.EmailNotifications == nil && r.DailyReports == nil && r.LateAlerts == nil
}

// Apply returns a copy of current with the supplied fields set.
func (r *UpdateSettingsRequest) Apply(current Settings) Settings {
	next := current
	if r.OrganizationName != nil {
		next.OrganizationName = *r.OrganizationName
	}
	if r.TimeZone != nil {
		next.TimeZone = *r.TimeZone
	}
	if r.WorkingHoursStart != nil {
		next.WorkingHours.Start = *r.WorkingHoursStart
	}
	if r.WorkingHoursEnd != nil {
		next.WorkingHours.End = *r.WorkingHoursEnd
	}
	if r.LateThresholdMinutes != nil {
		next.AttendanceRules.LateThresholdMinutes = *r.LateThresholdMinutes
	}
	if r.AutoClockOut != nil {
		next.AttendanceRules.AutoClockOut = *r.AutoClockOut
	}
	if r.RequireApproval != nil {
		next.AttendanceRules.RequireApproval = *r.RequireApproval
	}
	if r.EmailNotifications != nil {
		next.Notifications.EmailNotifications = *r.EmailNotifications
	}
	if r.DailyReports != nil {
		next.Notifications.DailyReports = *r.DailyReports
	}
	if r.LateAlerts != nil {
		next.Notifications.LateAlerts = *r.LateAlerts
	}
	return next
}

type SettingsResponse struct {
	Settings
	UpdatedBy *string    `json:"updated_by,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
