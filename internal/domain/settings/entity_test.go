package settings

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_WorkDate(t *testing.T) {
	s := Default()

	// 02:30 UTC on the 11th is still the 10th in New York
	got := s.WorkDate(time.Date(2025, 3, 11, 2, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)

	s.TimeZone = "Asia/Tokyo"
	got = s.WorkDate(time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), got)
}

func TestSettings_WorkEnd(t *testing.T) {
	s := Default()
	end, err := s.WorkEnd(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// 17:00 EDT
	assert.Equal(t, time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC), end.UTC())

	s.WorkingHours.End = "5pm"
	_, err = s.WorkEnd(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestSettings_Resolve(t *testing.T) {
	s, err := Default().Resolve()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", s.Location().String())

	again, err := Default().Resolve()
	require.NoError(t, err)
	assert.Same(t, s.Location(), again.Location())

	bad := Default()
	bad.TimeZone = "Mars/Olympus_Mons"
	_, err = bad.Resolve()
	assert.ErrorIs(t, err, ErrUnknownTimeZone)

	bad.TimeZone = ""
	_, err = bad.Resolve()
	assert.ErrorIs(t, err, ErrUnknownTimeZone)
}

func TestSettings_LocationFollowsTimeZoneChange(t *testing.T) {
	s, err := Default().Resolve()
	require.NoError(t, err)

	zone := "Asia/Tokyo"
	next := (&UpdateSettingsRequest{TimeZone: &zone}).Apply(s)
	assert.Equal(t, "Asia/Tokyo", next.Location().String())
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), next.WorkDate(time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)))
}

func TestUpdateSettingsRequest_Validate(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }

	tests := []struct {
		name    string
		req     UpdateSettingsRequest
		wantErr string
	}{
		{"valid partial", UpdateSettingsRequest{WorkingHoursEnd: str("18:00")}, ""},
		{"empty name", UpdateSettingsRequest{OrganizationName: str("  ")}, "organization_name"},
		{"bad time zone", UpdateSettingsRequest{TimeZone: str("Nowhere/City")}, "time_zone"},
		{"bad clock", UpdateSettingsRequest{WorkingHoursStart: str("9am")}, "working_hours_start"},
		{"start after current end", UpdateSettingsRequest{WorkingHoursStart: str("18:00")}, "working_hours_end"},
		{"threshold out of range", UpdateSettingsRequest{LateThresholdMinutes: num(-1)}, "late_threshold_minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(Default())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.wantErr)
		})
	}
}

func TestUpdateSettingsRequest_Apply(t *testing.T) {
	off := false
	req := UpdateSettingsRequest{AutoClockOut: &off}
	assert.False(t, req.IsEmpty())

	next := req.Apply(Default())
	assert.False(t, next.AttendanceRules.AutoClockOut)
	assert.Equal(t, Default().WorkingHours, next.WorkingHours)
	assert.True(t, (&UpdateSettingsRequest{}).IsEmpty())
}
