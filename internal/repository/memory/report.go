package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/domain/report"
)

type reportRepository struct {
	store *Store
}

func (s *Store) Reports() report.ReportRepository {
	return &reportRepository{store: s}
}

func inDepartment(p profile.Profile, departmentID *string) bool {
	if departmentID == nil {
		return true
	}
	return p.DepartmentID != nil && *p.DepartmentID == *departmentID
}

func (r *reportRepository) DailyRecords(ctx context.Context, date time.Time, departmentID *string) ([]attendance.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []attendance.Record
	for _, rec := range r.store.data.records {
		if !rec.WorkDate.Equal(date) || !inDepartment(r.store.data.profiles[rec.ProfileID], departmentID) {
			continue
		}
		out = append(out, r.store.withEmployee(rec))
	}
	slices.SortFunc(out, func(a, b attendance.Record) int {
		return cmp.Or(strings.Compare(deref(a.EmployeeName), deref(b.EmployeeName)), a.CheckInTime.Compare(b.CheckInTime))
	})
	return out, nil
}

func (r *reportRepository) StatusTotals(ctx context.Context, from, to time.Time, departmentID *string) ([]report.StatusTotal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	type key struct {
		profileID string
		status    attendance.Status
	}
	totals := make(map[key]*report.StatusTotal)
	days := make(map[key]map[time.Time]struct{})

	for _, p := range r.store.data.profiles {
		if p.Role != profile.RoleEmployee || !p.IsActive || !inDepartment(p, departmentID) {
			continue
		}
		deptName := r.store.withDepartment(p).DepartmentName
		seen := false
		for _, rec := range r.store.data.records {
			if rec.ProfileID != p.ID || rec.WorkDate.Before(from) || !rec.WorkDate.Before(to) {
				continue
			}
			seen = true
			k := key{p.ID, rec.Status}
			t, ok := totals[k]
			if !ok {
				t = &report.StatusTotal{ProfileID: p.ID, EmployeeName: p.FullName, EmployeeID: p.EmployeeID, DepartmentName: deptName, Status: rec.Status}
				totals[k] = t
				days[k] = make(map[time.Time]struct{})
			}
			days[k][rec.WorkDate] = struct{}{}
			if m := rec.WorkedMinutes(); m != nil {
				t.WorkedMinutes += *m
			}
		}
		if !seen {
			totals[key{p.ID, ""}] = &report.StatusTotal{ProfileID: p.ID, EmployeeName: p.FullName, EmployeeID: p.EmployeeID, DepartmentName: deptName}
		}
	}

	out := make([]report.StatusTotal, 0, len(totals))
	for k, t := range totals {
		t.Days = len(days[k])
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b report.StatusTotal) int {
		return cmp.Or(
			strings.Compare(a.EmployeeName, b.EmployeeName),
			strings.Compare(a.ProfileID, b.ProfileID),
			strings.Compare(string(a.Status), string(b.Status)),
		)
	})
	return out, nil
}
