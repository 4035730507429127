package attendance

import (
	"context"
)

// AttendanceService defines the attendance lifecycle and correction workflow
type AttendanceService interface {
	// CheckIn opens today's session for a profile
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes a session, by id or the profile's latest of today
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// RecordManual stores a session entered by staff on someone's behalf
	RecordManual(ctx context.Context, req ManualAttendanceRequest) (AttendanceResponse, error)

	GetTodayStatus(ctx context.Context, profileID string) (TodayStatusResponse, error)
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	RequestCorrection(ctx context.Context, req CorrectionRequest) (CorrectionResponse, error)

	// ReviewCorrection approves or rejects a pending correction atomically
	ReviewCorrection(ctx context.Context, req ReviewCorrectionRequest) (CorrectionResponse, error)

	GetCorrection(ctx context.Context, id string) (CorrectionResponse, error)
	ListCorrections(ctx context.Context, filter CorrectionFilter) (ListCorrectionResponse, error)
	GetMyCorrections(ctx context.Context, filter CorrectionFilter) (ListCorrectionResponse, error)

	// AutoClockOut closes sessions left open on previous days. Returns the number closed.
	AutoClockOut(ctx context.Context) (int, error)
}
