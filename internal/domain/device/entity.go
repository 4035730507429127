package device

import "time"

type DeviceType string

const (
	DeviceTypeFingerprint     DeviceType = "fingerprint"
	DeviceTypeFaceRecognition DeviceType = "face_recognition"
	DeviceTypeCardReader      DeviceType = "card_reader"
)

func (t DeviceType) IsValid() bool {
	switch t {
	case DeviceTypeFingerprint, DeviceTypeFaceRecognition, DeviceTypeCardReader:
		return true
	}
	return false
}

// Device is a registered biometric terminal. DeviceID is the identifier the hardware reports,
// ID is the internal primary key referenced by attendance records.
type Device struct {
	ID         string
	DeviceID   string
	Name       string
	Location   string
	Type       DeviceType
	IPAddress  *string
	APIKeyHash string
	IsActive   bool
	LastSync   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
