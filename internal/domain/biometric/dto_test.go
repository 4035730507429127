package biometric

import (
	"testing"

	"github.com/dag-industries/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPunchRequest_Validate(t *testing.T) {
	req := PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: ActionCheckOut}
	assert.NoError(t, req.Validate())

	req = PunchRequest{Action: "lunch"}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "device_id")
	assert.Contains(t, verrs.ToMap(), "employee_id")
	assert.NotContains(t, verrs.ToMap(), "action")

	req = PunchRequest{DeviceID: "BIO-001", EmployeeID: "DAG00001", Action: "lunch"}
	assert.ErrorIs(t, req.Validate(), ErrInvalidAction)
}
