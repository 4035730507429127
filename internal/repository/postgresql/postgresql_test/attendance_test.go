package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProfile(t *testing.T, ctx context.Context, repo profile.ProfileRepository, email string) profile.Profile {
	t.Helper()
	p, err := repo.Create(ctx, profile.Profile{
		Email:    email,
		FullName: "Test Employee",
		Role:     profile.RoleEmployee,
		IsActive: true,
	})
	require.NoError(t, err)
	return p
}

func TestProfileRepository_EmployeeID(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewProfileRepository(db)

	first := createTestProfile(t, ctx, repo, "first@dag.test")
	second := createTestProfile(t, ctx, repo, "second@dag.test")

	_, err := repo.Create(ctx, profile.Profile{Email: "FIRST@dag.test", FullName: "Dup", Role: profile.RoleEmployee, IsActive: true})
	assert.ErrorIs(t, err, profile.ErrEmailExists)

	require.NoError(t, repo.AssignEmployeeID(ctx, first.ID, "DAG00001"))
	assert.ErrorIs(t, repo.AssignEmployeeID(ctx, first.ID, "DAG00002"), profile.ErrEmployeeIDImmutable)
	assert.ErrorIs(t, repo.AssignEmployeeID(ctx, second.ID, "DAG00001"), profile.ErrEmployeeIDTaken)

	found, err := repo.GetByEmployeeID(ctx, "DAG00001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	ids, err := repo.ListEmployeeIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"DAG00001"}, ids)

	missing, err := repo.ListMissingEmployeeID(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, second.ID, missing[0].ID)
}

func TestAttendanceRepository_OneOpenSessionPerDay(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	profiles := postgresql.NewProfileRepository(db)
	repo := postgresql.NewAttendanceRepository(db)

	p := createTestProfile(t, ctx, profiles, "open@dag.test")
	workDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)

	rec, err := repo.Create(ctx, attendance.Record{
		ProfileID:     p.ID,
		WorkDate:      workDate,
		CheckInTime:   checkIn,
		CheckInMethod: attendance.MethodManual,
		Status:        attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.True(t, rec.IsOpen())
	require.NotNil(t, rec.EmployeeName)
	assert.Equal(t, "Test Employee", *rec.EmployeeName)

	_, err = repo.Create(ctx, attendance.Record{
		ProfileID:     p.ID,
		WorkDate:      workDate,
		CheckInTime:   checkIn.Add(5 * time.Minute),
		CheckInMethod: attendance.MethodManual,
		Status:        attendance.StatusPresent,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	open, err := repo.GetOpenByProfileAndDate(ctx, p.ID, workDate)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, open.ID)

	closed, err := repo.CloseSession(ctx, rec.ID, checkIn.Add(8*time.Hour), attendance.MethodManual, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, closed.WorkedMinutes())
	assert.Equal(t, 480, *closed.WorkedMinutes())

	_, err = repo.CloseSession(ctx, rec.ID, checkIn.Add(9*time.Hour), attendance.MethodManual, nil, nil)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	_, err = repo.GetOpenByProfileAndDate(ctx, p.ID, workDate)
	assert.True(t, errors.Is(err, attendance.ErrAttendanceNotFound))

	// A closed session frees the day for a new one
	_, err = repo.Create(ctx, attendance.Record{
		ProfileID:     p.ID,
		WorkDate:      workDate,
		CheckInTime:   checkIn.Add(10 * time.Hour),
		CheckInMethod: attendance.MethodManual,
		Status:        attendance.StatusPresent,
	})
	require.NoError(t, err)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	profiles := postgresql.NewProfileRepository(db)
	tx := postgresql.NewTransactor(db)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		createTestProfile(t, ctx, profiles, "rollback@dag.test")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = profiles.GetByEmail(ctx, "rollback@dag.test")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}
