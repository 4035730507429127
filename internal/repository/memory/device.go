package memory

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
)

type deviceRepository struct {
	store *Store
}

func (s *Store) Devices() device.DeviceRepository {
	return &deviceRepository{store: s}
}

func (r *deviceRepository) Create(ctx context.Context, d device.Device) (device.Device, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.data.devices {
		if existing.DeviceID == d.DeviceID {
			return device.Device{}, device.ErrDeviceIDExists
		}
	}

	now := r.store.now()
	d.ID = r.store.newID()
	d.CreatedAt = now
	d.UpdatedAt = now
	r.store.data.devices[d.ID] = d
	return d, nil
}

func (r *deviceRepository) GetByID(ctx context.Context, id string) (device.Device, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.data.devices[id]
	if !ok {
		return device.Device{}, device.ErrDeviceNotFound
	}
	return d, nil
}

func (r *deviceRepository) GetByDeviceID(ctx context.Context, deviceID string) (device.Device, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, d := range r.store.data.devices {
		if d.DeviceID == deviceID {
			return d, nil
		}
	}
	return device.Device{}, device.ErrDeviceNotFound
}

func (r *deviceRepository) List(ctx context.Context) ([]device.Device, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := slices.Collect(maps.Values(r.store.data.devices))
	slices.SortFunc(out, func(a, b device.Device) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *deviceRepository) Update(ctx context.Context, d device.Device) (device.Device, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.data.devices[d.ID]
	if !ok {
		return device.Device{}, device.ErrDeviceNotFound
	}
	existing.Name = d.Name
	existing.Location = d.Location
	existing.Type = d.Type
	existing.IPAddress = d.IPAddress
	existing.IsActive = d.IsActive
	existing.UpdatedAt = r.store.now()
	r.store.data.devices[d.ID] = existing
	return existing, nil
}

func (r *deviceRepository) UpdateAPIKeyHash(ctx context.Context, id string, apiKeyHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.data.devices[id]
	if !ok {
		return device.ErrDeviceNotFound
	}
	d.APIKeyHash = apiKeyHash
	d.UpdatedAt = r.store.now()
	r.store.data.devices[id] = d
	return nil
}

func (r *deviceRepository) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.fail("device.TouchLastSync"); err != nil {
		return err
	}
	d, ok := r.store.data.devices[id]
	if !ok {
		return device.ErrDeviceNotFound
	}
	d.LastSync = &at
	r.store.data.devices[id] = d
	return nil
}
