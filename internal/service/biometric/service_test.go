package biometric

import (
	"context"
	"testing"
	_ "time/tzdata"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/biometric"
	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
	"github.com/dag-industries/attendance-backend-go/internal/repository/memory"
	attendanceservice "github.com/dag-industries/attendance-backend-go/internal/service/attendance"
	deviceservice "github.com/dag-industries/attendance-backend-go/internal/service/device"
	settingsservice "github.com/dag-industries/attendance-backend-go/internal/service/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store         *memory.Store
	devices       device.DeviceService
	adminCtx      context.Context
	terminal      device.DeviceWithKeyResponse
	employee      profile.Profile
	requireAPIKey bool
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	env := &testEnv{
		store:    store,
		devices:  deviceservice.NewDeviceService(store.Devices()),
		adminCtx: auth.WithPrincipal(ctx, auth.Principal{ProfileID: "admin-1", Role: profile.RoleAdmin}),
	}

	var err error
	env.terminal, err = env.devices.Create(env.adminCtx, device.CreateDeviceRequest{
		DeviceID: "BIO-001",
		Name:     "Front Door",
		Location: "Lobby",
		Type:     device.DeviceTypeFingerprint,
	})
	require.NoError(t, err)

	env.employee, err = store.Profiles().Create(ctx, profile.Profile{
		Email:    "p1@dag.test",
		FullName: "Pat One",
		Role:     profile.RoleEmployee,
		IsActive: true,
	})
	require.NoError(t, err)
	require.NoError(t, store.Profiles().AssignEmployeeID(ctx, env.employee.ID, "DAG00001"))

	return env
}

func (e *testEnv) service() biometric.BiometricService {
	settingsService := settingsservice.NewSettingsService(e.store.Transactor(), e.store.Settings(), e.store.Audit())
	attendanceService := attendanceservice.NewAttendanceService(
		e.store.Transactor(),
		e.store.Attendance(),
		e.store.Corrections(),
		e.store.Profiles(),
		e.store.Devices(),
		e.store.Audit(),
		settingsService,
		nil,
	)
	return NewBiometricService(e.devices, e.store.Profiles(), attendanceService, e.requireAPIKey)
}

func TestPunch_CheckInThenCheckOut(t *testing.T) {
	env := setupTest(t)
	service := env.service()
	ctx := context.Background()

	in, err := service.Punch(ctx, biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "dag00001", Action: biometric.ActionCheckIn})
	require.NoError(t, err)
	assert.Equal(t, "Check-in successful", in.Message)
	assert.Equal(t, "Pat One", in.Employee.Name)
	require.NotNil(t, in.Employee.EmployeeID)
	assert.Equal(t, "DAG00001", *in.Employee.EmployeeID)
	assert.Equal(t, attendance.MethodBiometric, in.Attendance.CheckInMethod)
	require.NotNil(t, in.Attendance.DeviceID)
	assert.Equal(t, env.terminal.Device.ID, *in.Attendance.DeviceID)

	stored, err := env.store.Devices().GetByID(ctx, env.terminal.Device.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastSync)

	_, err = service.Punch(ctx, biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: biometric.ActionCheckIn})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	out, err := service.Punch(ctx, biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: biometric.ActionCheckOut})
	require.NoError(t, err)
	assert.Equal(t, "Check-out successful", out.Message)
	assert.Equal(t, in.Attendance.ID, out.Attendance.ID)
	assert.NotNil(t, out.Attendance.CheckOutTime)

	_, err = service.Punch(ctx, biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: biometric.ActionCheckOut})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestPunch_CheckOutWithoutCheckIn(t *testing.T) {
	env := setupTest(t)

	_, err := env.service().Punch(context.Background(), biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: biometric.ActionCheckOut})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestPunch_InvalidRequests(t *testing.T) {
	env := setupTest(t)
	service := env.service()

	t.Run("missing fields", func(t *testing.T) {
		_, err := service.Punch(context.Background(), biometric.PunchRequest{DeviceID: "BIO-001"})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "employee_id")
		assert.Contains(t, verrs.ToMap(), "action")
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := service.Punch(context.Background(), biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: "lunch"})
		assert.ErrorIs(t, err, biometric.ErrInvalidAction)
	})

	t.Run("unknown device", func(t *testing.T) {
		_, err := service.Punch(context.Background(), biometric.PunchRequest{DeviceID: "BIO-999", EmployeeID: "DAG00001", Action: biometric.ActionCheckIn})
		assert.ErrorIs(t, err, device.ErrInvalidCredentials)
	})

	t.Run("wrong api key", func(t *testing.T) {
		_, err := service.Punch(context.Background(), biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: biometric.ActionCheckIn, APIKey: "dag_wrong"})
		assert.ErrorIs(t, err, device.ErrInvalidCredentials)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := service.Punch(context.Background(), biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG09999", Action: biometric.ActionCheckIn})
		assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	})
}

func TestPunch_InactiveDevice(t *testing.T) {
	env := setupTest(t)
	require.NoError(t, env.devices.Deactivate(env.adminCtx, env.terminal.Device.ID))

	_, err := env.service().Punch(context.Background(), biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: biometric.ActionCheckIn})
	assert.ErrorIs(t, err, device.ErrInvalidCredentials)

	list, _, err := env.store.Attendance().List(context.Background(), attendance.AttendanceFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPunch_RequireAPIKey(t *testing.T) {
	env := setupTest(t)
	env.requireAPIKey = true
	service := env.service()

	_, err := service.Punch(context.Background(), biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: biometric.ActionCheckIn})
	assert.ErrorIs(t, err, device.ErrInvalidCredentials)

	_, err = service.Punch(context.Background(), biometric.PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: biometric.ActionCheckIn, APIKey: env.terminal.APIKey})
	assert.NoError(t, err)
}

func TestVerify(t *testing.T) {
	env := setupTest(t)

	verified, err := env.service().Verify(context.Background(), device.VerifyDeviceRequest{DeviceID: "BIO-001", APIKey: env.terminal.APIKey})
	require.NoError(t, err)
	assert.Equal(t, env.terminal.Device.ID, verified.ID)
	assert.Equal(t, "Front Door", verified.Name)
}
