package biometric

import "errors"

var (
	ErrInvalidAction = errors.New(`invalid action, must be "check-in" or "check-out"`)
)
