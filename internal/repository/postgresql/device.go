package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const deviceSelect = `
	SELECT id, device_id, device_name, location, device_type, ip_address, api_key_hash,
		   is_active, last_sync, created_at, updated_at
	FROM biometric_devices
`

type deviceRepositoryImpl struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.DeviceRepository {
	return &deviceRepositoryImpl{db: db}
}

func scanDevice(row pgx.Row) (device.Device, error) {
	var d device.Device
	err := row.Scan(
		&d.ID, &d.DeviceID, &d.Name, &d.Location, &d.Type, &d.IPAddress, &d.APIKeyHash,
		&d.IsActive, &d.LastSync, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

// Create implements device.DeviceRepository.
func (r *deviceRepositoryImpl) Create(ctx context.Context, newDevice device.Device) (device.Device, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return device.Device{}, fmt.Errorf("failed to generate device id: %w", err)
	}

	query := `
		INSERT INTO biometric_devices (id, device_id, device_name, location, device_type, ip_address, api_key_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
	`
	_, err = q.Exec(ctx, query,
		id.String(), newDevice.DeviceID, newDevice.Name, newDevice.Location, newDevice.Type,
		newDevice.IPAddress, newDevice.APIKeyHash,
	)
	if err != nil {
		if uniqueViolationOn(err, "uniq_biometric_devices_device_id") {
			return device.Device{}, device.ErrDeviceIDExists
		}
		return device.Device{}, fmt.Errorf("failed to create device: %w", err)
	}

	return r.GetByID(ctx, id.String())
}

func (r *deviceRepositoryImpl) getOne(ctx context.Context, where string, arg any) (device.Device, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDevice(q.QueryRow(ctx, deviceSelect+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.Device{}, device.ErrDeviceNotFound
		}
		return device.Device{}, fmt.Errorf("failed to get device: %w", err)
	}
	return d, nil
}

// GetByID implements device.DeviceRepository.
func (r *deviceRepositoryImpl) GetByID(ctx context.Context, id string) (device.Device, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByDeviceID implements device.DeviceRepository.
func (r *deviceRepositoryImpl) GetByDeviceID(ctx context.Context, deviceID string) (device.Device, error) {
	return r.getOne(ctx, "device_id = $1", deviceID)
}

// List implements device.DeviceRepository.
func (r *deviceRepositoryImpl) List(ctx context.Context) ([]device.Device, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, deviceSelect+` ORDER BY device_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []device.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// Update implements device.DeviceRepository.
func (r *deviceRepositoryImpl) Update(ctx context.Context, d device.Device) (device.Device, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE biometric_devices
		SET device_name = $1, location = $2, device_type = $3, ip_address = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := q.Exec(ctx, query, d.Name, d.Location, d.Type, d.IPAddress, d.IsActive, d.ID)
	if err != nil {
		return device.Device{}, fmt.Errorf("failed to update device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return device.Device{}, device.ErrDeviceNotFound
	}
	return r.GetByID(ctx, d.ID)
}

// UpdateAPIKeyHash implements device.DeviceRepository.
func (r *deviceRepositoryImpl) UpdateAPIKeyHash(ctx context.Context, id string, apiKeyHash string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE biometric_devices SET api_key_hash = $1, updated_at = NOW() WHERE id = $2`, apiKeyHash, id)
	if err != nil {
		return fmt.Errorf("failed to update device api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}
	return nil
}

// TouchLastSync implements device.DeviceRepository.
func (r *deviceRepositoryImpl) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE biometric_devices SET last_sync = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update device last sync: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}
	return nil
}
