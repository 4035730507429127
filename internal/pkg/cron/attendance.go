package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	interval          time.Duration
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		interval:          interval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_clock_out", j.interval, j.AutoClockOut)
}

// AutoClockOut closes sessions left open on earlier days. The service decides whether the
// organization has the rule enabled.
func (j *AttendanceJobs) AutoClockOut(ctx context.Context) error {
	closed, err := j.attendanceService.AutoClockOut(ctx)
	if err != nil {
		return fmt.Errorf("failed to auto clock out: %w", err)
	}
	if closed > 0 {
		slog.Info("Cron: Auto clocked out stale attendance", "count", closed)
	}
	return nil
}
