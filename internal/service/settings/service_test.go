package settings

import (
	"context"
	"testing"
	_ "time/tzdata"

	"github.com/dag-industries/attendance-backend-go/internal/domain/audit"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/domain/settings"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
	"github.com/dag-industries/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) (settings.SettingsService, *memory.Store, context.Context) {
	t.Helper()
	store := memory.NewStore()
	service := NewSettingsService(store.Transactor(), store.Settings(), store.Audit())
	adminCtx := auth.WithPrincipal(context.Background(), auth.Principal{ProfileID: "admin-1", Role: profile.RoleAdmin})
	return service, store, adminCtx
}

func ptr[T any](v T) *T { return &v }

func TestSettingsService_CurrentDefaultsBeforeSeed(t *testing.T) {
	service, _, _ := setupTest(t)

	current, err := service.Current(context.Background())
	require.NoError(t, err)
	expected, err := settings.Default().Resolve()
	require.NoError(t, err)
	assert.Equal(t, expected, current)
}

func TestSettingsService_UnknownStoredTimeZone(t *testing.T) {
	service, store, _ := setupTest(t)
	ctx := context.Background()

	broken := settings.Default()
	broken.TimeZone = "Mars/Olympus_Mons"
	_, err := store.Settings().Save(ctx, broken, nil)
	require.NoError(t, err)

	_, err = service.Current(ctx)
	assert.ErrorIs(t, err, settings.ErrUnknownTimeZone)

	err = service.Seed(ctx, broken)
	assert.Error(t, err)
}

func TestSettingsService_SeedOnlyOnce(t *testing.T) {
	service, _, _ := setupTest(t)
	ctx := context.Background()

	first := settings.Default()
	first.OrganizationName = "First"
	require.NoError(t, service.Seed(ctx, first))

	second := settings.Default()
	second.OrganizationName = "Second"
	require.NoError(t, service.Seed(ctx, second))

	current, err := service.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "First", current.OrganizationName)
}

func TestSettingsService_Update(t *testing.T) {
	service, store, ctx := setupTest(t)
	require.NoError(t, service.Seed(context.Background(), settings.Default()))

	resp, err := service.Update(ctx, settings.UpdateSettingsRequest{
		TimeZone:             ptr("Asia/Jakarta"),
		LateThresholdMinutes: ptr(30),
		AutoClockOut:         ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", resp.TimeZone)
	assert.Equal(t, 30, resp.AttendanceRules.LateThresholdMinutes)
	assert.False(t, resp.AttendanceRules.AutoClockOut)
	assert.Equal(t, "DAG Industries", resp.OrganizationName, "untouched fields are kept")
	require.NotNil(t, resp.UpdatedBy)
	assert.Equal(t, "admin-1", *resp.UpdatedBy)

	logs := store.AuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, audit.ActionSettingsUpdated, logs[0].Action)
	assert.Contains(t, string(logs[0].NewValues), "Asia/Jakarta")
}

func TestSettingsService_Update_Validation(t *testing.T) {
	service, store, ctx := setupTest(t)

	tests := []struct {
		name  string
		req   settings.UpdateSettingsRequest
		field string
	}{
		{"empty request", settings.UpdateSettingsRequest{}, "settings"},
		{"bad time zone", settings.UpdateSettingsRequest{TimeZone: ptr("Mars/Olympus")}, "time_zone"},
		{"bad clock", settings.UpdateSettingsRequest{WorkingHoursStart: ptr("9am")}, "working_hours_start"},
		{"end before start", settings.UpdateSettingsRequest{WorkingHoursEnd: ptr("08:00")}, "working_hours_end"},
		{"threshold range", settings.UpdateSettingsRequest{LateThresholdMinutes: ptr(-1)}, "late_threshold_minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Update(ctx, tt.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
	assert.Empty(t, store.AuditLogs())
}

func TestSettingsService_Update_RequiresAdmin(t *testing.T) {
	service, _, _ := setupTest(t)
	hrCtx := auth.WithPrincipal(context.Background(), auth.Principal{ProfileID: "hr-1", Role: profile.RoleHR})

	_, err := service.Update(hrCtx, settings.UpdateSettingsRequest{OrganizationName: ptr("X")})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	// Any authenticated caller may read
	_, err = service.Get(hrCtx)
	assert.NoError(t, err)
}

func TestSettingsService_Update_RollsBackOnAuditFailure(t *testing.T) {
	service, store, ctx := setupTest(t)
	require.NoError(t, service.Seed(context.Background(), settings.Default()))
	store.FailOn("audit.Create", assert.AnError)

	_, err := service.Update(ctx, settings.UpdateSettingsRequest{OrganizationName: ptr("Renamed")})
	assert.ErrorIs(t, err, assert.AnError)

	current, err := service.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DAG Industries", current.OrganizationName)
}
