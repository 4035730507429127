package device

import (
	"context"
	"strings"
	"testing"

	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
	"github.com/dag-industries/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) (device.DeviceService, *memory.Store, context.Context) {
	t.Helper()
	store := memory.NewStore()
	adminCtx := auth.WithPrincipal(context.Background(), auth.Principal{ProfileID: "admin-1", Role: profile.RoleAdmin})
	return NewDeviceService(store.Devices()), store, adminCtx
}

func createDevice(t *testing.T, service device.DeviceService, ctx context.Context, deviceID string) device.DeviceWithKeyResponse {
	t.Helper()
	created, err := service.Create(ctx, device.CreateDeviceRequest{
		DeviceID: deviceID,
		Name:     "Front Door",
		Location: "Lobby",
		Type:     device.DeviceTypeFingerprint,
	})
	require.NoError(t, err)
	return created
}

func TestDeviceService_Create_ReturnsKeyOnce(t *testing.T) {
	service, store, ctx := setupTest(t)

	created := createDevice(t, service, ctx, "BIO-001")
	assert.True(t, strings.HasPrefix(created.APIKey, apiKeyPrefix))
	assert.True(t, created.Device.IsActive)

	stored, err := store.Devices().GetByDeviceID(context.Background(), "BIO-001")
	require.NoError(t, err)
	assert.NotEqual(t, created.APIKey, stored.APIKeyHash, "only the hash is stored")

	_, err = service.Create(ctx, device.CreateDeviceRequest{DeviceID: "BIO-001", Name: "Dup", Location: "X", Type: device.DeviceTypeCardReader})
	assert.ErrorIs(t, err, device.ErrDeviceIDExists)
}

func TestDeviceService_Verify(t *testing.T) {
	service, store, ctx := setupTest(t)
	created := createDevice(t, service, ctx, "BIO-002")

	verified, err := service.Verify(context.Background(), device.VerifyDeviceRequest{DeviceID: "BIO-002", APIKey: created.APIKey})
	require.NoError(t, err)
	assert.Equal(t, "BIO-002", verified.DeviceID)

	stored, err := store.Devices().GetByDeviceID(context.Background(), "BIO-002")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastSync)

	tests := []struct {
		name string
		req  device.VerifyDeviceRequest
	}{
		{"wrong key", device.VerifyDeviceRequest{DeviceID: "BIO-002", APIKey: "dag_wrong"}},
		{"unknown device", device.VerifyDeviceRequest{DeviceID: "BIO-404", APIKey: created.APIKey}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(context.Background(), tt.req)
			assert.ErrorIs(t, err, device.ErrInvalidCredentials)
		})
	}

	var verrs validator.ValidationErrors
	_, err = service.Verify(context.Background(), device.VerifyDeviceRequest{})
	assert.ErrorAs(t, err, &verrs)
}

func TestDeviceService_DeactivatedDeviceIsRejected(t *testing.T) {
	service, _, ctx := setupTest(t)
	created := createDevice(t, service, ctx, "BIO-003")

	require.NoError(t, service.Deactivate(ctx, created.Device.ID))

	_, err := service.Resolve(context.Background(), "BIO-003", "", false)
	assert.ErrorIs(t, err, device.ErrInvalidCredentials)
}

func TestDeviceService_Resolve_KeyOptional(t *testing.T) {
	service, _, ctx := setupTest(t)
	created := createDevice(t, service, ctx, "BIO-004")

	_, err := service.Resolve(context.Background(), "BIO-004", "", false)
	assert.NoError(t, err)

	_, err = service.Resolve(context.Background(), "BIO-004", "", true)
	assert.ErrorIs(t, err, device.ErrInvalidCredentials)

	// A supplied key is always checked
	_, err = service.Resolve(context.Background(), "BIO-004", "dag_wrong", false)
	assert.ErrorIs(t, err, device.ErrInvalidCredentials)

	_, err = service.Resolve(context.Background(), "BIO-004", created.APIKey, true)
	assert.NoError(t, err)
}

func TestDeviceService_RotateAPIKey(t *testing.T) {
	service, _, ctx := setupTest(t)
	created := createDevice(t, service, ctx, "BIO-005")

	rotated, err := service.RotateAPIKey(ctx, created.Device.ID)
	require.NoError(t, err)
	assert.NotEqual(t, created.APIKey, rotated.APIKey)

	_, err = service.Resolve(context.Background(), "BIO-005", created.APIKey, true)
	assert.ErrorIs(t, err, device.ErrInvalidCredentials)
	_, err = service.Resolve(context.Background(), "BIO-005", rotated.APIKey, true)
	assert.NoError(t, err)
}

func TestDeviceService_ManagementRequiresAdmin(t *testing.T) {
	service, _, _ := setupTest(t)
	employeeCtx := auth.WithPrincipal(context.Background(), auth.Principal{ProfileID: "e-1", Role: profile.RoleEmployee})

	_, err := service.Create(employeeCtx, device.CreateDeviceRequest{DeviceID: "X", Name: "X", Location: "X", Type: device.DeviceTypeFingerprint})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = service.List(employeeCtx)
	assert.ErrorIs(t, err, auth.ErrForbidden)
}
