package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmployeeID(t *testing.T) {
	assert.True(t, IsValidEmployeeID("DAG00001"))
	assert.True(t, IsValidEmployeeID("DAG99999"))
	assert.False(t, IsValidEmployeeID("dag00001"))
	assert.False(t, IsValidEmployeeID("DAG0001"))
	assert.False(t, IsValidEmployeeID("DAG000001"))
	assert.False(t, IsValidEmployeeID("XYZ00001"))
	assert.False(t, IsValidEmployeeID(""))
}

func TestNextEmployeeID(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"first id", nil, "DAG00001"},
		{"after highest", []string{"DAG00001", "DAG00007", "DAG00003"}, "DAG00008"},
		{"gaps are not reused", []string{"DAG00002"}, "DAG00003"},
		{"malformed ids ignored", []string{"DAG00004", "DAG12", "DAGABCDE"}, "DAG00005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextEmployeeID(tt.existing)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextEmployeeID_Exhausted(t *testing.T) {
	_, err := NextEmployeeID([]string{"DAG00010", "DAG99999"})
	assert.ErrorIs(t, err, ErrEmployeeIDExhausted)
}
