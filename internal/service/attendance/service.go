package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/audit"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/domain/settings"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/email"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

const autoClockOutNote = "Automatically clocked out at end of working hours"

type AttendanceServiceImpl struct {
	txManager       database.Transactor
	attendanceRepo  attendance.AttendanceRepository
	correctionRepo  attendance.CorrectionRepository
	profileRepo     profile.ProfileRepository
	deviceRepo      device.DeviceRepository
	auditRepo       audit.AuditRepository
	settingsService settings.SettingsService
	emailService    email.EmailService
	now             func() time.Time
}

func NewAttendanceService(
	txManager database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	correctionRepo attendance.CorrectionRepository,
	profileRepo profile.ProfileRepository,
	deviceRepo device.DeviceRepository,
	auditRepo audit.AuditRepository,
	settingsService settings.SettingsService,
	emailService email.EmailService,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		txManager:       txManager,
		attendanceRepo:  attendanceRepo,
		correctionRepo:  correctionRepo,
		profileRepo:     profileRepo,
		deviceRepo:      deviceRepo,
		auditRepo:       auditRepo,
		settingsService: settingsService,
		emailService:    emailService,
		now:             time.Now,
	}
}

// authorizeMethod checks that principal may record a check-in/out for profileID with method.
// Employees use manual for themselves, staff use manual or admin, devices use biometric.
func authorizeMethod(principal auth.Principal, profileID string, method attendance.Method) error {
	switch {
	case principal.IsDevice():
		if method != attendance.MethodBiometric {
			return auth.ErrForbidden
		}
	case principal.IsStaff():
		if method == attendance.MethodBiometric {
			return auth.ErrForbidden
		}
	default:
		if method != attendance.MethodManual || profileID == "" || principal.ProfileID != profileID {
			return auth.ErrForbidden
		}
	}
	return nil
}

func listMeta(page, limit int, total int64) (int, string) {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}
	return totalPages, showing
}

func (s *AttendanceServiceImpl) touchDevice(ctx context.Context, deviceID *string, at time.Time) {
	if deviceID == nil {
		return
	}
	if err := s.deviceRepo.TouchLastSync(ctx, *deviceID, at); err != nil {
		slog.Error("Failed to update device last sync", "device_id", *deviceID, "error", err)
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := authorizeMethod(principal, req.ProfileID, req.Method); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	status := attendance.StatusPresent
	if req.Status != nil {
		if !principal.IsStaff() && !principal.IsDevice() {
			return attendance.AttendanceResponse{}, auth.ErrForbidden
		}
		status = *req.Status
	}

	p, err := s.profileRepo.GetByID(ctx, req.ProfileID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !p.IsActive {
		return attendance.AttendanceResponse{}, profile.ErrProfileInactive
	}

	org, err := s.settingsService.Current(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := s.now()
	workDate := org.WorkDate(now)

	// Friendly pre-check; the partial unique index is what actually guarantees one open session
	_, err = s.attendanceRepo.GetOpenByProfileAndDate(ctx, p.ID, workDate)
	if err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check open attendance: %w", err)
	}

	rec := attendance.Record{
		ProfileID:     p.ID,
		WorkDate:      workDate,
		CheckInTime:   now,
		CheckInMethod: req.Method,
		Status:        status,
		DeviceID:      req.DeviceID,
		Notes:         req.Notes,
	}
	if principal.ProfileID != "" && principal.ProfileID != p.ID {
		rec.CreatedBy = &principal.ProfileID
	}

	created, err := s.attendanceRepo.Create(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.Method == attendance.MethodBiometric {
		s.touchDevice(ctx, req.DeviceID, now)
	}

	return attendance.NewAttendanceResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	var rec attendance.Record
	if req.AttendanceID != "" {
		rec, err = s.attendanceRepo.GetByID(ctx, req.AttendanceID)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNoOpenSession
		}
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		if req.ProfileID != "" && req.ProfileID != rec.ProfileID {
			return attendance.AttendanceResponse{}, attendance.ErrNoOpenSession
		}
		if !principal.CanActFor(rec.ProfileID) {
			return attendance.AttendanceResponse{}, attendance.ErrNoOpenSession
		}
	} else {
		if !principal.CanActFor(req.ProfileID) {
			return attendance.AttendanceResponse{}, auth.ErrForbidden
		}
		org, err := s.settingsService.Current(ctx)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		rec, err = s.todaysRecord(ctx, req.ProfileID, org.WorkDate(now))
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNoOpenSession
		}
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
	}

	if err := authorizeMethod(principal, rec.ProfileID, req.Method); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !rec.IsOpen() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	// Conditional on check_out_time IS NULL, a concurrent check-out yields ErrAlreadyCheckedOut
	closed, err := s.attendanceRepo.CloseSession(ctx, rec.ID, now, req.Method, req.DeviceID, req.Notes)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.Method == attendance.MethodBiometric {
		s.touchDevice(ctx, req.DeviceID, now)
	}

	return attendance.NewAttendanceResponse(closed), nil
}

// todaysRecord returns the open session on workDate when there is one, otherwise the latest
// closed record. A closed record entered later must not hide an open one.
func (s *AttendanceServiceImpl) todaysRecord(ctx context.Context, profileID string, workDate time.Time) (attendance.Record, error) {
	rec, err := s.attendanceRepo.GetOpenByProfileAndDate(ctx, profileID, workDate)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Record{}, fmt.Errorf("failed to get open attendance: %w", err)
	}

	rec, err = s.attendanceRepo.GetLatestByProfileAndDate(ctx, profileID, workDate)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Record{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return rec, err
}

// RecordManual implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordManual(ctx context.Context, req attendance.ManualAttendanceRequest) (attendance.AttendanceResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !principal.IsStaff() {
		return attendance.AttendanceResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	var errs validator.ValidationErrors
	if req.CheckInTime.After(now) {
		errs.Add("check_in_time", "check_in_time must not be in the future")
	}
	if req.CheckOutTime != nil && req.CheckOutTime.After(now) {
		errs.Add("check_out_time", "check_out_time must not be in the future")
	}
	if err := errs.Err(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	p, err := s.profileRepo.GetByID(ctx, req.ProfileID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	org, err := s.settingsService.Current(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec := attendance.Record{
		ProfileID:     p.ID,
		WorkDate:      org.WorkDate(req.CheckInTime),
		CheckInTime:   req.CheckInTime,
		CheckOutTime:  req.CheckOutTime,
		CheckInMethod: attendance.MethodAdmin,
		Status:        req.Status,
		Notes:         req.Notes,
		CreatedBy:     &principal.ProfileID,
	}
	if req.CheckOutTime != nil {
		method := attendance.MethodAdmin
		rec.CheckOutMethod = &method
	}

	var created attendance.Record
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if created, err = s.attendanceRepo.Create(txCtx, rec); err != nil {
			return err
		}
		entry, err := audit.NewLog(txCtx, principal.ProfileID, audit.ActionManualAttendance, audit.EntityAttendance, created.ID,
			nil, attendance.NewAttendanceResponse(created))
		if err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, entry)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(created), nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, profileID string) (attendance.TodayStatusResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}
	if profileID == "" {
		profileID = principal.ProfileID
	}
	if profileID == "" || !principal.CanActFor(profileID) {
		return attendance.TodayStatusResponse{}, auth.ErrForbidden
	}

	org, err := s.settingsService.Current(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}
	workDate := org.WorkDate(s.now())

	resp := attendance.TodayStatusResponse{
		WorkDate:   workDate.Format("2006-01-02"),
		CanCheckIn: true,
	}

	rec, err := s.todaysRecord(ctx, profileID, workDate)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return resp, nil
	}
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	r := attendance.NewAttendanceResponse(rec)
	resp.Attendance = &r
	resp.CanCheckIn = !rec.IsOpen()
	resp.CanCheckOut = rec.IsOpen()
	return resp, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !principal.CanActFor(rec.ProfileID) {
		return attendance.AttendanceResponse{}, auth.ErrForbidden
	}
	return attendance.NewAttendanceResponse(rec), nil
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.NewAttendanceResponse(rec))
	}

	totalPages, showing := listMeta(filter.Page, filter.Limit, total)
	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if !principal.IsStaff() {
		return attendance.ListAttendanceResponse{}, auth.ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.list(ctx, filter)
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if principal.IsDevice() {
		return attendance.ListAttendanceResponse{}, auth.ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	full := attendance.AttendanceFilter{
		ProfileID: &principal.ProfileID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Status:    filter.Status,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	if err := full.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.list(ctx, full)
}

// RequestCorrection implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RequestCorrection(ctx context.Context, req attendance.CorrectionRequest) (attendance.CorrectionResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}
	if principal.IsDevice() {
		return attendance.CorrectionResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return attendance.CorrectionResponse{}, err
	}

	rec, err := s.attendanceRepo.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}
	if rec.ProfileID != principal.ProfileID && !principal.IsStaff() {
		return attendance.CorrectionResponse{}, auth.ErrForbidden
	}

	checkIn, checkOut := rec.CheckInTime, rec.CheckOutTime
	if req.CorrectedCheckIn != nil {
		checkIn = *req.CorrectedCheckIn
	}
	if req.CorrectedCheckOut != nil {
		checkOut = req.CorrectedCheckOut
	}
	if checkOut != nil && !checkOut.After(checkIn) {
		var errs validator.ValidationErrors
		errs.Add("corrected_check_out", "check-out must be after check-in")
		return attendance.CorrectionResponse{}, errs
	}

	// Original times are frozen here and never re-read at review time
	originalCheckIn := rec.CheckInTime
	created, err := s.correctionRepo.Create(ctx, attendance.Correction{
		AttendanceID:      rec.ID,
		ProfileID:         rec.ProfileID,
		RequestedBy:       principal.ProfileID,
		OriginalCheckIn:   &originalCheckIn,
		OriginalCheckOut:  rec.CheckOutTime,
		CorrectedCheckIn:  req.CorrectedCheckIn,
		CorrectedCheckOut: req.CorrectedCheckOut,
		Reason:            req.Reason,
		Status:            attendance.CorrectionPending,
	})
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	return attendance.NewCorrectionResponse(created), nil
}

// applyCorrection overwrites rec's times with the non-null corrected values.
func applyCorrection(rec attendance.Record, c attendance.Correction, org settings.Settings) (attendance.Record, error) {
	if c.CorrectedCheckIn != nil {
		rec.CheckInTime = *c.CorrectedCheckIn
		rec.WorkDate = org.WorkDate(*c.CorrectedCheckIn)
	}
	if c.CorrectedCheckOut != nil {
		checkOut := *c.CorrectedCheckOut
		rec.CheckOutTime = &checkOut
		if rec.CheckOutMethod == nil {
			method := attendance.MethodAdmin
			rec.CheckOutMethod = &method
		}
	}
	if rec.CheckOutTime != nil && !rec.CheckOutTime.After(rec.CheckInTime) {
		var errs validator.ValidationErrors
		errs.Add("corrected_check_out", "corrected times would put check-out before check-in")
		return attendance.Record{}, errs
	}
	return rec, nil
}

// ReviewCorrection implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ReviewCorrection(ctx context.Context, req attendance.ReviewCorrectionRequest) (attendance.CorrectionResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}
	if !principal.IsStaff() {
		return attendance.CorrectionResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return attendance.CorrectionResponse{}, err
	}
	status, _ := req.Decision.Status()

	org, err := s.settingsService.Current(ctx)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	var reviewed attendance.Correction
	var updated attendance.Record
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		// Conditional on status = 'pending', so only one reviewer can win
		reviewed, err = s.correctionRepo.Review(txCtx, req.CorrectionID, status, principal.ProfileID, s.now(), req.ReviewNotes)
		if err != nil {
			return err
		}

		var oldValues, newValues any = map[string]any{"status": attendance.CorrectionPending}, map[string]any{"status": status}
		action := audit.ActionCorrectionRejected

		if status == attendance.CorrectionApproved {
			action = audit.ActionCorrectionApproved
			rec, err := s.attendanceRepo.GetByID(txCtx, reviewed.AttendanceID)
			if err != nil {
				return err
			}
			next, err := applyCorrection(rec, reviewed, org)
			if err != nil {
				return err
			}
			if updated, err = s.attendanceRepo.UpdateTimes(txCtx, next); err != nil {
				return err
			}
			oldValues = map[string]any{"status": attendance.CorrectionPending, "check_in_time": rec.CheckInTime, "check_out_time": rec.CheckOutTime}
			newValues = map[string]any{"status": status, "check_in_time": updated.CheckInTime, "check_out_time": updated.CheckOutTime}
		}

		entry, err := audit.NewLog(txCtx, principal.ProfileID, action, audit.EntityAttendanceCorrection, reviewed.ID, oldValues, newValues)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, entry)
	})
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	s.notifyReviewed(reviewed, updated, org)

	return attendance.NewCorrectionResponse(reviewed), nil
}

// notifyReviewed emails the requester in the background. Failures are logged only.
func (s *AttendanceServiceImpl) notifyReviewed(c attendance.Correction, rec attendance.Record, org settings.Settings) {
	if s.emailService == nil || !org.Notifications.EmailNotifications || c.EmployeeEmail == nil {
		return
	}

	loc := org.Location()
	data := email.CorrectionReviewedData{
		OrganizationName: org.OrganizationName,
		Decision:         string(c.Status),
	}
	if c.EmployeeName != nil {
		data.EmployeeName = *c.EmployeeName
	}
	if c.ReviewerName != nil {
		data.ReviewerName = *c.ReviewerName
	}
	if c.ReviewNotes != nil {
		data.ReviewNotes = *c.ReviewNotes
	}
	if !rec.WorkDate.IsZero() {
		data.WorkDate = rec.WorkDate.Format("2006-01-02")
	} else if c.OriginalCheckIn != nil {
		data.WorkDate = org.WorkDate(*c.OriginalCheckIn).Format("2006-01-02")
	}
	if c.CorrectedCheckIn != nil {
		data.CorrectedCheckIn = c.CorrectedCheckIn.In(loc).Format("15:04")
	}
	if c.CorrectedCheckOut != nil {
		data.CorrectedCheckOut = c.CorrectedCheckOut.In(loc).Format("15:04")
	}

	to := *c.EmployeeEmail
	go func() {
		if err := s.emailService.SendCorrectionReviewed(to, data); err != nil {
			slog.Error("Failed to send correction review email", "correction_id", c.ID, "error", err)
		}
	}()
}

// GetCorrection implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetCorrection(ctx context.Context, id string) (attendance.CorrectionResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	c, err := s.correctionRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}
	if !principal.IsStaff() && c.ProfileID != principal.ProfileID && c.RequestedBy != principal.ProfileID {
		return attendance.CorrectionResponse{}, auth.ErrForbidden
	}
	return attendance.NewCorrectionResponse(c), nil
}

func (s *AttendanceServiceImpl) listCorrections(ctx context.Context, filter attendance.CorrectionFilter) (attendance.ListCorrectionResponse, error) {
	corrections, total, err := s.correctionRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListCorrectionResponse{}, fmt.Errorf("failed to list corrections: %w", err)
	}

	responses := make([]attendance.CorrectionResponse, 0, len(corrections))
	for _, c := range corrections {
		responses = append(responses, attendance.NewCorrectionResponse(c))
	}

	totalPages, _ := listMeta(filter.Page, filter.Limit, total)
	return attendance.ListCorrectionResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Corrections: responses,
	}, nil
}

// ListCorrections implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListCorrections(ctx context.Context, filter attendance.CorrectionFilter) (attendance.ListCorrectionResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ListCorrectionResponse{}, err
	}
	if !principal.IsStaff() {
		return attendance.ListCorrectionResponse{}, auth.ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListCorrectionResponse{}, err
	}
	return s.listCorrections(ctx, filter)
}

// GetMyCorrections implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyCorrections(ctx context.Context, filter attendance.CorrectionFilter) (attendance.ListCorrectionResponse, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ListCorrectionResponse{}, err
	}
	if principal.IsDevice() {
		return attendance.ListCorrectionResponse{}, auth.ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListCorrectionResponse{}, err
	}
	filter.ProfileID = &principal.ProfileID
	return s.listCorrections(ctx, filter)
}

// AutoClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AutoClockOut(ctx context.Context) (int, error) {
	org, err := s.settingsService.Current(ctx)
	if err != nil {
		return 0, err
	}
	if !org.AttendanceRules.AutoClockOut {
		return 0, nil
	}

	today := org.WorkDate(s.now())
	stale, err := s.attendanceRepo.ListOpenBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list open attendance: %w", err)
	}

	closed := 0
	var errs []error
	note := autoClockOutNote
	for _, rec := range stale {
		checkOut, err := org.WorkEnd(rec.WorkDate)
		if err != nil {
			return closed, err
		}
		if checkOut.Before(rec.CheckInTime) {
			checkOut = rec.CheckInTime
		}

		err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
			updated, err := s.attendanceRepo.CloseSession(txCtx, rec.ID, checkOut, attendance.MethodAdmin, nil, &note)
			if err != nil {
				return err
			}
			entry, err := audit.NewLog(txCtx, "", audit.ActionAutoClockOut, audit.EntityAttendance, rec.ID,
				map[string]any{"check_out_time": nil}, map[string]any{"check_out_time": updated.CheckOutTime})
			if err != nil {
				return err
			}
			return s.auditRepo.Create(txCtx, entry)
		})
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			continue
		}
		if err != nil {
			slog.Error("Failed to auto clock out attendance", "attendance_id", rec.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		closed++
	}

	return closed, errors.Join(errs...)
}
