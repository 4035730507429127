package report

import (
	"context"
	"fmt"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/report"
	"github.com/dag-industries/attendance-backend-go/internal/domain/settings"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	reportRepo      report.ReportRepository
	settingsService settings.SettingsService
	now             func() time.Time
}

func NewReportService(reportRepo report.ReportRepository, settingsService settings.SettingsService) report.ReportService {
	return &ReportServiceImpl{
		reportRepo:      reportRepo,
		settingsService: settingsService,
		now:             time.Now,
	}
}

func requireStaff(ctx context.Context) error {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if !principal.IsStaff() {
		return auth.ErrForbidden
	}
	return nil
}

// Daily implements report.ReportService.
func (s *ReportServiceImpl) Daily(ctx context.Context, filter report.DailyReportFilter) (report.DailyReportResponse, error) {
	if err := requireStaff(ctx); err != nil {
		return report.DailyReportResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return report.DailyReportResponse{}, err
	}

	org, err := s.settingsService.Current(ctx)
	if err != nil {
		return report.DailyReportResponse{}, err
	}
	date := org.WorkDate(s.now())
	if filter.Date != "" {
		date, _ = time.Parse("2006-01-02", filter.Date)
	}

	var (
		records []attendance.Record
		totals  []report.StatusTotal
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.reportRepo.DailyRecords(gCtx, date, filter.DepartmentID)
		if err != nil {
			return fmt.Errorf("failed to get daily records: %w", err)
		}
		records = rows
		return nil
	})

	// Used only to count employees without a record
	g.Go(func() error {
		rows, err := s.reportRepo.StatusTotals(gCtx, date, date.AddDate(0, 0, 1), filter.DepartmentID)
		if err != nil {
			return fmt.Errorf("failed to get daily totals: %w", err)
		}
		totals = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.DailyReportResponse{}, err
	}

	resp := report.DailyReportResponse{
		Date:         date.Format("2006-01-02"),
		DepartmentID: filter.DepartmentID,
		TotalRecords: len(records),
		Records:      make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Counts.Add(rec.Status, 1)
		if rec.IsOpen() {
			resp.OpenSessions++
		}
		if m := rec.WorkedMinutes(); m != nil {
			resp.TotalWorkedMinutes += *m
		}
		resp.Records = append(resp.Records, attendance.NewAttendanceResponse(rec))
	}
	for _, t := range totals {
		if t.Status == "" {
			resp.NotRecorded++
		}
	}

	return resp, nil
}

// Monthly implements report.ReportService.
func (s *ReportServiceImpl) Monthly(ctx context.Context, filter report.MonthlyReportFilter) (report.MonthlyReportResponse, error) {
	if err := requireStaff(ctx); err != nil {
		return report.MonthlyReportResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return report.MonthlyReportResponse{}, err
	}

	var from time.Time
	if filter.Month != "" {
		from, _ = time.Parse("2006-01", filter.Month)
	} else {
		org, err := s.settingsService.Current(ctx)
		if err != nil {
			return report.MonthlyReportResponse{}, err
		}
		today := org.WorkDate(s.now())
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	to := from.AddDate(0, 1, 0)

	totals, err := s.reportRepo.StatusTotals(ctx, from, to, filter.DepartmentID)
	if err != nil {
		return report.MonthlyReportResponse{}, fmt.Errorf("failed to get monthly totals: %w", err)
	}

	// Rows arrive grouped by profile
	employees := make([]report.EmployeeMonthlySummary, 0)
	index := make(map[string]int)
	for _, t := range totals {
		i, ok := index[t.ProfileID]
		if !ok {
			i = len(employees)
			index[t.ProfileID] = i
			employees = append(employees, report.EmployeeMonthlySummary{
				ProfileID:      t.ProfileID,
				EmployeeName:   t.EmployeeName,
				EmployeeID:     t.EmployeeID,
				DepartmentName: t.DepartmentName,
			})
		}
		if t.Status == "" {
			continue
		}
		employees[i].DaysRecorded += t.Days
		employees[i].Counts.Add(t.Status, t.Days)
		employees[i].TotalWorkedMinutes += t.WorkedMinutes
	}

	return report.MonthlyReportResponse{
		Month:        from.Format("2006-01"),
		DepartmentID: filter.DepartmentID,
		Employees:    employees,
	}, nil
}
