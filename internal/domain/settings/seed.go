package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSeedFile reads initial settings from a YAML file on top of Default. An empty path or a
// missing file yields the defaults.
func LoadSeedFile(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings seed file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings seed file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings seed file: %w", err)
	}
	return s, nil
}

// Validate checks a complete settings value.
func (s Settings) Validate() error {
	req := UpdateSettingsRequest{
		OrganizationName:     &s.OrganizationName,
		TimeZone:             &s.TimeZone,
		WorkingHoursStart:    &s.WorkingHours.Start,
		WorkingHoursEnd:      &s.WorkingHours.End,
		LateThresholdMinutes: &s.AttendanceRules.LateThresholdMinutes,
	}
	return req.Validate(s)
}
