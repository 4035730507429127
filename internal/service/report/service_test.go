package report

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/domain/report"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
	"github.com/dag-industries/attendance-backend-go/internal/repository/memory"
	settingsservice "github.com/dag-industries/attendance-backend-go/internal/service/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour, minute int) time.Time {
	return time.Date(2025, time.March, d, hour, minute, 0, 0, time.UTC)
}

func setupTest(t *testing.T) (report.ReportService, context.Context) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	newProfile := func(name string, role profile.Role) profile.Profile {
		p, err := store.Profiles().Create(ctx, profile.Profile{
			Email:    name + "@dag.test",
			FullName: name,
			Role:     role,
			IsActive: true,
		})
		require.NoError(t, err)
		return p
	}
	record := func(p profile.Profile, d int, in time.Time, out *time.Time, status attendance.Status) {
		_, err := store.Attendance().Create(ctx, attendance.Record{
			ProfileID:     p.ID,
			WorkDate:      day(d),
			CheckInTime:   in,
			CheckOutTime:  out,
			CheckInMethod: attendance.MethodManual,
			Status:        status,
		})
		require.NoError(t, err)
	}
	ptr := func(t time.Time) *time.Time { return &t }

	alice := newProfile("Alice", profile.RoleEmployee)
	bob := newProfile("Bob", profile.RoleEmployee)
	newProfile("Cara", profile.RoleEmployee)
	newProfile("Hank", profile.RoleHR)

	record(alice, 10, at(10, 9, 0), ptr(at(10, 17, 0)), attendance.StatusPresent)
	record(alice, 11, at(11, 9, 30), ptr(at(11, 17, 0)), attendance.StatusLate)
	record(bob, 10, at(10, 8, 45), nil, attendance.StatusPresent)
	record(bob, 2, at(2, 9, 0), ptr(at(2, 10, 0)), attendance.StatusPresent)

	settingsService := settingsservice.NewSettingsService(store.Transactor(), store.Settings(), store.Audit())
	service := NewReportService(store.Reports(), settingsService)
	service.(*ReportServiceImpl).now = func() time.Time { return at(10, 15, 0) }

	hrCtx := auth.WithPrincipal(ctx, auth.Principal{ProfileID: "hr-1", Role: profile.RoleHR})
	return service, hrCtx
}

func TestDaily(t *testing.T) {
	service, ctx := setupTest(t)

	resp, err := service.Daily(ctx, report.DailyReportFilter{Date: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, 2, resp.TotalRecords)
	assert.Equal(t, 2, resp.Counts.Present)
	assert.Equal(t, 1, resp.OpenSessions)
	assert.Equal(t, 1, resp.NotRecorded)
	assert.Equal(t, 8*60, resp.TotalWorkedMinutes)
	assert.Len(t, resp.Records, 2)
}

func TestDaily_DefaultsToToday(t *testing.T) {
	service, ctx := setupTest(t)

	resp, err := service.Daily(ctx, report.DailyReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, 2, resp.TotalRecords)
}

func TestMonthly(t *testing.T) {
	service, ctx := setupTest(t)

	resp, err := service.Monthly(ctx, report.MonthlyReportFilter{Month: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03", resp.Month)
	require.Len(t, resp.Employees, 3, "HR profiles are not part of the report")

	alice := resp.Employees[0]
	assert.Equal(t, "Alice", alice.EmployeeName)
	assert.Equal(t, 2, alice.DaysRecorded)
	assert.Equal(t, report.StatusCounts{Present: 1, Late: 1}, alice.Counts)
	assert.Equal(t, 8*60+7*60+30, alice.TotalWorkedMinutes)

	bob := resp.Employees[1]
	assert.Equal(t, "Bob", bob.EmployeeName)
	assert.Equal(t, 2, bob.DaysRecorded)
	assert.Equal(t, 60, bob.TotalWorkedMinutes, "open sessions add no worked time")

	cara := resp.Employees[2]
	assert.Equal(t, "Cara", cara.EmployeeName)
	assert.Zero(t, cara.DaysRecorded)
	assert.Equal(t, report.StatusCounts{}, cara.Counts)
}

func TestReports_Authorization(t *testing.T) {
	service, _ := setupTest(t)
	employeeCtx := auth.WithPrincipal(context.Background(), auth.Principal{ProfileID: "emp-1", Role: profile.RoleEmployee})

	_, err := service.Daily(employeeCtx, report.DailyReportFilter{})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = service.Monthly(context.Background(), report.MonthlyReportFilter{})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestReports_Validation(t *testing.T) {
	service, ctx := setupTest(t)

	_, err := service.Monthly(ctx, report.MonthlyReportFilter{Month: "2025-13"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "month")

	_, err = service.Daily(ctx, report.DailyReportFilter{Date: "10/03/2025"})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "date")
}
