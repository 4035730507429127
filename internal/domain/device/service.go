package device

import (
	"context"
	"time"
)

type DeviceService interface {
	Create(ctx context.Context, req CreateDeviceRequest) (DeviceWithKeyResponse, error)
	GetByID(ctx context.Context, id string) (DeviceResponse, error)
	List(ctx context.Context) ([]DeviceResponse, error)
	Update(ctx context.Context, req UpdateDeviceRequest) (DeviceResponse, error)
	Deactivate(ctx context.Context, id string) error
	RotateAPIKey(ctx context.Context, id string) (DeviceWithKeyResponse, error)

	// Verify checks a terminal's credentials. Any mismatch returns ErrInvalidCredentials.
	Verify(ctx context.Context, req VerifyDeviceRequest) (VerifiedDevice, error)

	// Resolve returns the active device registered under deviceID. apiKey is checked when
	// non-empty or when requireKey is set.
	Resolve(ctx context.Context, deviceID string, apiKey string, requireKey bool) (Device, error)

	TouchLastSync(ctx context.Context, id string, at time.Time) error
}
