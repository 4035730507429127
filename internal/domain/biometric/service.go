package biometric

import (
	"context"

	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
)

// BiometricService is the terminal-facing surface. Callers are unauthenticated terminals that
// identify themselves by device id and optionally an API key.
type BiometricService interface {
	Verify(ctx context.Context, req device.VerifyDeviceRequest) (device.VerifiedDevice, error)
	Punch(ctx context.Context, req PunchRequest) (PunchResponse, error)
}
