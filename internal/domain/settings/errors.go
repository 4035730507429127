package settings

import "errors"

var (
	ErrSettingsNotFound = errors.New("organization settings not found")
	ErrUnknownTimeZone  = errors.New("unknown time zone")
)
