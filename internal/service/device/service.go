package device

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"golang.org/x/crypto/bcrypt"
)

const (
	apiKeyPrefix = "dag_"
	apiKeyBytes  = 32
)

type DeviceServiceImpl struct {
	deviceRepo device.DeviceRepository
	now        func() time.Time
}

func NewDeviceService(deviceRepo device.DeviceRepository) device.DeviceService {
	return &DeviceServiceImpl{
		deviceRepo: deviceRepo,
		now:        time.Now,
	}
}

// generateAPIKey returns a new clear-text key and its bcrypt hash.
func generateAPIKey() (string, string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	key := apiKeyPrefix + base64.RawURLEncoding.EncodeToString(buf)

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return key, string(hash), nil
}

func requireRole(ctx context.Context, adminOnly bool) error {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if adminOnly && !principal.IsAdmin() {
		return auth.ErrForbidden
	}
	if !principal.IsStaff() {
		return auth.ErrForbidden
	}
	return nil
}

// Create implements device.DeviceService.
func (s *DeviceServiceImpl) Create(ctx context.Context, req device.CreateDeviceRequest) (device.DeviceWithKeyResponse, error) {
	if err := requireRole(ctx, true); err != nil {
		return device.DeviceWithKeyResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return device.DeviceWithKeyResponse{}, err
	}

	key, hash, err := generateAPIKey()
	if err != nil {
		return device.DeviceWithKeyResponse{}, err
	}

	created, err := s.deviceRepo.Create(ctx, device.Device{
		DeviceID:   req.DeviceID,
		Name:       req.Name,
		Location:   req.Location,
		Type:       req.Type,
		IPAddress:  req.IPAddress,
		APIKeyHash: hash,
		IsActive:   true,
	})
	if err != nil {
		return device.DeviceWithKeyResponse{}, err
	}

	return device.DeviceWithKeyResponse{Device: device.NewDeviceResponse(created), APIKey: key}, nil
}

// GetByID implements device.DeviceService.
func (s *DeviceServiceImpl) GetByID(ctx context.Context, id string) (device.DeviceResponse, error) {
	if err := requireRole(ctx, false); err != nil {
		return device.DeviceResponse{}, err
	}
	d, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return device.DeviceResponse{}, err
	}
	return device.NewDeviceResponse(d), nil
}

// List implements device.DeviceService.
func (s *DeviceServiceImpl) List(ctx context.Context) ([]device.DeviceResponse, error) {
	if err := requireRole(ctx, false); err != nil {
		return nil, err
	}
	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	resp := make([]device.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		resp = append(resp, device.NewDeviceResponse(d))
	}
	return resp, nil
}

// Update implements device.DeviceService.
func (s *DeviceServiceImpl) Update(ctx context.Context, req device.UpdateDeviceRequest) (device.DeviceResponse, error) {
	if err := requireRole(ctx, true); err != nil {
		return device.DeviceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return device.DeviceResponse{}, err
	}

	d, err := s.deviceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return device.DeviceResponse{}, err
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Location != nil {
		d.Location = *req.Location
	}
	if req.Type != nil {
		d.Type = *req.Type
	}
	if req.IPAddress != nil {
		d.IPAddress = req.IPAddress
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}

	updated, err := s.deviceRepo.Update(ctx, d)
	if err != nil {
		return device.DeviceResponse{}, err
	}
	return device.NewDeviceResponse(updated), nil
}

// Deactivate implements device.DeviceService.
func (s *DeviceServiceImpl) Deactivate(ctx context.Context, id string) error {
	inactive := false
	_, err := s.Update(ctx, device.UpdateDeviceRequest{ID: id, IsActive: &inactive})
	return err
}

// RotateAPIKey implements device.DeviceService.
func (s *DeviceServiceImpl) RotateAPIKey(ctx context.Context, id string) (device.DeviceWithKeyResponse, error) {
	if err := requireRole(ctx, true); err != nil {
		return device.DeviceWithKeyResponse{}, err
	}

	d, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return device.DeviceWithKeyResponse{}, err
	}

	key, hash, err := generateAPIKey()
	if err != nil {
		return device.DeviceWithKeyResponse{}, err
	}
	if err := s.deviceRepo.UpdateAPIKeyHash(ctx, d.ID, hash); err != nil {
		return device.DeviceWithKeyResponse{}, err
	}

	return device.DeviceWithKeyResponse{Device: device.NewDeviceResponse(d), APIKey: key}, nil
}

// Resolve implements device.DeviceService.
func (s *DeviceServiceImpl) Resolve(ctx context.Context, deviceID string, apiKey string, requireKey bool) (device.Device, error) {
	d, err := s.deviceRepo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return device.Device{}, device.ErrInvalidCredentials
		}
		return device.Device{}, fmt.Errorf("failed to get device: %w", err)
	}
	if !d.IsActive {
		return device.Device{}, device.ErrInvalidCredentials
	}

	if apiKey != "" || requireKey {
		if d.APIKeyHash == "" || bcrypt.CompareHashAndPassword([]byte(d.APIKeyHash), []byte(apiKey)) != nil {
			return device.Device{}, device.ErrInvalidCredentials
		}
	}
	return d, nil
}

// Verify implements device.DeviceService.
func (s *DeviceServiceImpl) Verify(ctx context.Context, req device.VerifyDeviceRequest) (device.VerifiedDevice, error) {
	if err := req.Validate(); err != nil {
		return device.VerifiedDevice{}, err
	}

	d, err := s.Resolve(ctx, req.DeviceID, req.APIKey, true)
	if err != nil {
		return device.VerifiedDevice{}, err
	}

	// A failed sync stamp does not fail the verification
	if err := s.deviceRepo.TouchLastSync(ctx, d.ID, s.now()); err != nil {
		slog.Error("Failed to update device last sync", "device_id", d.DeviceID, "error", err)
	}

	return device.VerifiedDevice{
		ID:       d.ID,
		DeviceID: d.DeviceID,
		Name:     d.Name,
		Location: d.Location,
		Type:     d.Type,
	}, nil
}

// TouchLastSync implements device.DeviceService.
func (s *DeviceServiceImpl) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	return s.deviceRepo.TouchLastSync(ctx, id, at)
}
