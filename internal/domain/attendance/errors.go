package attendance

import "errors"

// Attendance domain errors
var (
	// Lifecycle conflicts
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrAlreadyCheckedOut = errors.New("already checked out")
	ErrNoOpenSession     = errors.New("no open attendance session found for today")

	// Corrections
	ErrCorrectionNotFound   = errors.New("attendance correction not found")
	ErrCorrectionNotPending = errors.New("attendance correction has already been reviewed")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
