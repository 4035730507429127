package settings

import (
	"fmt"
	"sync"
	"time"
)

const clockLayout = "15:04"

// Settings is the organization-wide configuration, stored as a single row.
type Settings struct {
	OrganizationName string          `json:"organization_name" yaml:"organization_name"`
	TimeZone         string          `json:"time_zone" yaml:"time_zone"`
	WorkingHours     WorkingHours    `json:"working_hours" yaml:"working_hours"`
	AttendanceRules  AttendanceRules `json:"attendance_rules" yaml:"attendance_rules"`
	Notifications    Notifications   `json:"notifications" yaml:"notifications"`

	loc *time.Location
}

type WorkingHours struct {
	Start string `json:"start" yaml:"start"` // HH:MM
	End   string `json:"end" yaml:"end"`     // HH:MM
}

type AttendanceRules struct {
	LateThresholdMinutes int  `json:"late_threshold_minutes" yaml:"late_threshold_minutes"`
	AutoClockOut         bool `json:"auto_clock_out" yaml:"auto_clock_out"`
	RequireApproval      bool `json:"require_approval" yaml:"require_approval"`
}

type Notifications struct {
	EmailNotifications bool `json:"email_notifications" yaml:"email_notifications"`
	DailyReports       bool `json:"daily_reports" yaml:"daily_reports"`
	LateAlerts         bool `json:"late_alerts" yaml:"late_alerts"`
}

func Default() Settings {
	return Settings{
		OrganizationName: "DAG Industries",
		TimeZone:         "America/New_York",
		WorkingHours: WorkingHours{
			Start: "09:00",
			End:   "17:00",
		},
		AttendanceRules: AttendanceRules{
			LateThresholdMinutes: 15,
			AutoClockOut:         true,
			RequireApproval:      false,
		},
		Notifications: Notifications{
			EmailNotifications: true,
			DailyReports:       true,
			LateAlerts:         true,
		},
	}
}

// zones caches loaded locations by name.
var zones sync.Map

func loadZone(name string) (*time.Location, error) {
	if loc, ok := zones.Load(name); ok {
		return loc.(*time.Location), nil
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty", ErrUnknownTimeZone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownTimeZone, name, err)
	}
	zones.Store(name, loc)
	return loc, nil
}

// Resolve returns s with its time zone loaded. Settings read from storage or a seed file go
// through here so an unloadable zone is reported instead of silently shifting work dates.
func (s Settings) Resolve() (Settings, error) {
	loc, err := loadZone(s.TimeZone)
	if err != nil {
		return Settings{}, err
	}
	s.loc = loc
	return s, nil
}

// Location returns the resolved time zone. Unresolved settings fall back to UTC when the zone
// cannot be loaded; callers that need the error use Resolve.
func (s Settings) Location() *time.Location {
	if s.loc != nil && s.loc.String() == s.TimeZone {
		return s.loc
	}
	loc, err := loadZone(s.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WorkDate returns the organization-local calendar date containing t, at midnight UTC.
func (s Settings) WorkDate(t time.Time) time.Time {
	local := t.In(s.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// WorkEnd returns the end of working hours on workDate in the organization time zone.
func (s Settings) WorkEnd(workDate time.Time) (time.Time, error) {
	return s.clockOn(workDate, s.WorkingHours.End)
}

// WorkStart returns the start of working hours on workDate in the organization time zone.
func (s Settings) WorkStart(workDate time.Time) (time.Time, error) {
	return s.clockOn(workDate, s.WorkingHours.Start)
}

func (s Settings) clockOn(workDate time.Time, clock string) (time.Time, error) {
	c, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return time.Date(workDate.Year(), workDate.Month(), workDate.Day(), c.Hour(), c.Minute(), 0, 0, s.Location()), nil
}
