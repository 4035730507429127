package device

import (
	"context"
	"time"
)

type DeviceRepository interface {
	// Create returns ErrDeviceIDExists on a duplicate device_id
	Create(ctx context.Context, device Device) (Device, error)
	GetByID(ctx context.Context, id string) (Device, error)
	GetByDeviceID(ctx context.Context, deviceID string) (Device, error)
	List(ctx context.Context) ([]Device, error)
	Update(ctx context.Context, device Device) (Device, error)
	UpdateAPIKeyHash(ctx context.Context, id string, apiKeyHash string) error
	TouchLastSync(ctx context.Context, id string, at time.Time) error
}
