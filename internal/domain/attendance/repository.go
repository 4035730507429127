package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a record. A second open session for the same profile and work date is
	// rejected by the database and returned as ErrAlreadyCheckedIn.
	Create(ctx context.Context, record Record) (Record, error)

	// GetByID retrieves a record with employee details joined
	GetByID(ctx context.Context, id string) (Record, error)

	// GetOpenByProfileAndDate returns the open session on workDate, or ErrAttendanceNotFound
	GetOpenByProfileAndDate(ctx context.Context, profileID string, workDate time.Time) (Record, error)

	// GetLatestByProfileAndDate returns the most recent record on workDate, or ErrAttendanceNotFound
	GetLatestByProfileAndDate(ctx context.Context, profileID string, workDate time.Time) (Record, error)

	// CloseSession sets the check-out only while the record is still open. A record that is
	// already closed yields ErrAlreadyCheckedOut.
	CloseSession(ctx context.Context, id string, checkOut time.Time, method Method, deviceID *string, notes *string) (Record, error)

	// UpdateTimes overwrites check-in, check-out and work date. Used when a correction is approved.
	UpdateTimes(ctx context.Context, record Record) (Record, error)

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Record, int64, error)

	// ListOpenBefore returns open sessions whose work date is before workDate
	ListOpenBefore(ctx context.Context, workDate time.Time) ([]Record, error)
}

// CorrectionRepository defines data access for correction requests.
type CorrectionRepository interface {
	Create(ctx context.Context, correction Correction) (Correction, error)
	GetByID(ctx context.Context, id string) (Correction, error)

	// Review moves a pending correction to status. A correction that is no longer pending
	// yields ErrCorrectionNotPending, a missing one ErrCorrectionNotFound.
	Review(ctx context.Context, id string, status CorrectionStatus, reviewerID string, reviewedAt time.Time, notes *string) (Correction, error)

	List(ctx context.Context, filter CorrectionFilter) ([]Correction, int64, error)
}
