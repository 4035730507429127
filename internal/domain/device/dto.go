package device

import (
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
)

type CreateDeviceRequest struct {
	DeviceID  string     `json:"device_id"`
	Name      string     `json:"device_name"`
	Location  string     `json:"location"`
	Type      DeviceType `json:"device_type"`
	IPAddress *string    `json:"ip_address,omitempty"`
}

func (r *CreateDeviceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DeviceID) {
		errs.Add("device_id", "device_id is required")
	}
	if len(r.DeviceID) > 64 {
		errs.Add("device_id", "device_id must not exceed 64 characters")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("device_name", "device_name is required")
	}
	if validator.IsEmpty(r.Location) {
		errs.Add("location", "location is required")
	}
	if !r.Type.IsValid() {
		errs.Add("device_type", "device_type must be one of: fingerprint, face_recognition, card_reader")
	}

	return errs.Err()
}

type UpdateDeviceRequest struct {
	ID        string      `json:"-"`
	Name      *string     `json:"device_name,omitempty"`
	Location  *string     `json:"location,omitempty"`
	Type      *DeviceType `json:"device_type,omitempty"`
	IPAddress *string     `json:"ip_address,omitempty"`
	IsActive  *bool       `json:"is_active,omitempty"`
}

func (r *UpdateDeviceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("device_name", "device_name must not be empty")
	}
	if r.Location != nil && validator.IsEmpty(*r.Location) {
		errs.Add("location", "location must not be empty")
	}
	if r.Type != nil && !r.Type.IsValid() {
		errs.Add("device_type", "device_type must be one of: fingerprint, face_recognition, card_reader")
	}

	return errs.Err()
}

type VerifyDeviceRequest struct {
	DeviceID string `json:"device_id"`
	APIKey   string `json:"api_key"`
}

func (r *VerifyDeviceRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.DeviceID) {
		errs.Add("device_id", "device_id is required")
	}
	if validator.IsEmpty(r.APIKey) {
		errs.Add("api_key", "api_key is required")
	}
	return errs.Err()
}

type DeviceResponse struct {
	ID        string     `json:"id"`
	DeviceID  string     `json:"device_id"`
	Name      string     `json:"device_name"`
	Location  string     `json:"location"`
	Type      DeviceType `json:"device_type"`
	IPAddress *string    `json:"ip_address,omitempty"`
	IsActive  bool       `json:"is_active"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewDeviceResponse(d Device) DeviceResponse {
	return DeviceResponse{
		ID:        d.ID,
		DeviceID:  d.DeviceID,
		Name:      d.Name,
		Location:  d.Location,
		Type:      d.Type,
		IPAddress: d.IPAddress,
		IsActive:  d.IsActive,
		LastSync:  d.LastSync,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// DeviceWithKeyResponse is returned once, when a key is generated. The key is not stored in clear.
type DeviceWithKeyResponse struct {
	Device DeviceResponse `json:"device"`
	APIKey string         `json:"api_key"`
}

// VerifiedDevice is the descriptor returned to a terminal after a successful verify.
type VerifiedDevice struct {
	ID       string     `json:"id"`
	DeviceID string     `json:"device_id"`
	Name     string     `json:"device_name"`
	Location string     `json:"location"`
	Type     DeviceType `json:"device_type"`
}
