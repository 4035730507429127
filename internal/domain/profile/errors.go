package profile

import "errors"

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileInactive      = errors.New("profile is inactive")
	ErrEmailExists          = errors.New("email already registered")
	ErrEmployeeIDTaken      = errors.New("employee id already assigned")
	ErrEmployeeIDExhausted  = errors.New("employee id range exhausted")
	ErrEmployeeIDImmutable  = errors.New("employee id cannot be changed")
	ErrInvalidPassword      = errors.New("current password is incorrect")
	ErrCannotDeactivateSelf = errors.New("you cannot deactivate your own profile")
)
