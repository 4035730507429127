package device

import "errors"

var (
	ErrDeviceNotFound     = errors.New("device not found")
	ErrDeviceIDExists     = errors.New("device id already registered")
	ErrInvalidCredentials = errors.New("invalid or inactive device")
)
