package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func (s *Store) Attendance() attendance.AttendanceRepository {
	return &attendanceRepository{store: s}
}

// withEmployee must be called with mu held.
func (s *Store) withEmployee(rec attendance.Record) attendance.Record {
	rec.EmployeeName, rec.EmployeeCode, rec.DepartmentName = nil, nil, nil
	if p, ok := s.data.profiles[rec.ProfileID]; ok {
		name := p.FullName
		rec.EmployeeName = &name
		rec.EmployeeCode = p.EmployeeID
		rec.DepartmentName = s.withDepartment(p).DepartmentName
	}
	return rec
}

// openConflict reports whether another open record exists for the same profile and work date.
func (r *attendanceRepository) openConflict(rec attendance.Record) bool {
	if rec.CheckOutTime != nil {
		return false
	}
	for _, other := range r.store.data.records {
		if other.ID != rec.ID && other.ProfileID == rec.ProfileID &&
			other.WorkDate.Equal(rec.WorkDate) && other.CheckOutTime == nil {
			return true
		}
	}
	return false
}

func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("attendance.Create"); err != nil {
		return attendance.Record{}, err
	}
	if r.openConflict(rec) {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}

	now := r.store.now()
	rec.ID = r.store.newID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	r.store.data.records[rec.ID] = rec
	return r.store.withEmployee(rec), nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.data.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return r.store.withEmployee(rec), nil
}

func (r *attendanceRepository) onDate(profileID string, workDate time.Time, openOnly bool) (attendance.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var found *attendance.Record
	for _, rec := range r.store.data.records {
		if rec.ProfileID != profileID || !rec.WorkDate.Equal(workDate) {
			continue
		}
		if openOnly && rec.CheckOutTime != nil {
			continue
		}
		if found == nil || rec.CheckInTime.After(found.CheckInTime) {
			found = &rec
		}
	}
	if found == nil {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return r.store.withEmployee(*found), nil
}

func (r *attendanceRepository) GetOpenByProfileAndDate(ctx context.Context, profileID string, workDate time.Time) (attendance.Record, error) {
	return r.onDate(profileID, workDate, true)
}

func (r *attendanceRepository) GetLatestByProfileAndDate(ctx context.Context, profileID string, workDate time.Time) (attendance.Record, error) {
	return r.onDate(profileID, workDate, false)
}

func (r *attendanceRepository) CloseSession(ctx context.Context, id string, checkOut time.Time, method attendance.Method, deviceID *string, notes *string) (attendance.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("attendance.CloseSession"); err != nil {
		return attendance.Record{}, err
	}

	rec, ok := r.store.data.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	if rec.CheckOutTime != nil {
		return attendance.Record{}, attendance.ErrAlreadyCheckedOut
	}

	rec.CheckOutTime = &checkOut
	rec.CheckOutMethod = &method
	if deviceID != nil {
		rec.DeviceID = deviceID
	}
	if notes != nil {
		rec.Notes = notes
	}
	rec.UpdatedAt = r.store.now()
	r.store.data.records[id] = rec
	return r.store.withEmployee(rec), nil
}

func (r *attendanceRepository) UpdateTimes(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("attendance.UpdateTimes"); err != nil {
		return attendance.Record{}, err
	}

	existing, ok := r.store.data.records[rec.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	existing.WorkDate = rec.WorkDate
	existing.CheckInTime = rec.CheckInTime
	existing.CheckOutTime = rec.CheckOutTime
	if existing.CheckOutMethod == nil {
		existing.CheckOutMethod = rec.CheckOutMethod
	}
	if r.openConflict(existing) {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}
	existing.UpdatedAt = r.store.now()
	r.store.data.records[rec.ID] = existing
	return r.store.withEmployee(existing), nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []attendance.Record
	for _, rec := range r.store.data.records {
		if filter.ProfileID != nil && *filter.ProfileID != "" && rec.ProfileID != *filter.ProfileID {
			continue
		}
		if filter.DepartmentID != nil && *filter.DepartmentID != "" {
			p := r.store.data.profiles[rec.ProfileID]
			if p.DepartmentID == nil || *p.DepartmentID != *filter.DepartmentID {
				continue
			}
		}
		day := rec.WorkDate.Format("2006-01-02")
		if filter.StartDate != nil && *filter.StartDate != "" && day < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && *filter.EndDate != "" && day > *filter.EndDate {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && string(rec.Status) != *filter.Status {
			continue
		}
		matched = append(matched, r.store.withEmployee(rec))
	}

	slices.SortFunc(matched, func(a, b attendance.Record) int {
		var c int
		switch filter.SortBy {
		case "check_in_time":
			c = a.CheckInTime.Compare(b.CheckInTime)
		case "status":
			c = strings.Compare(string(a.Status), string(b.Status))
		case "employee_name":
			c = strings.Compare(deref(a.EmployeeName), deref(b.EmployeeName))
		default:
			c = a.WorkDate.Compare(b.WorkDate)
		}
		if strings.ToLower(filter.SortOrder) != "asc" {
			c = -c
		}
		return cmp.Or(c, b.CheckInTime.Compare(a.CheckInTime))
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *attendanceRepository) ListOpenBefore(ctx context.Context, workDate time.Time) ([]attendance.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []attendance.Record
	for _, rec := range r.store.data.records {
		if rec.CheckOutTime == nil && rec.WorkDate.Before(workDate) {
			out = append(out, r.store.withEmployee(rec))
		}
	}
	slices.SortFunc(out, func(a, b attendance.Record) int { return a.WorkDate.Compare(b.WorkDate) })
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
