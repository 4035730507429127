package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dag-industries/attendance-backend-go/internal/domain/biometric"
	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"github.com/dag-industries/attendance-backend-go/internal/handler/http/response"
)

// BiometricHandler serves the unauthenticated terminal endpoints
type BiometricHandler interface {
	Verify(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
}

type biometricHandlerImpl struct {
	biometricService biometric.BiometricService
}

func NewBiometricHandler(biometricService biometric.BiometricService) BiometricHandler {
	return &biometricHandlerImpl{
		biometricService: biometricService,
	}
}

// Verify implements BiometricHandler.
func (h *biometricHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	var req device.VerifyDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Device verify decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.biometricService.Verify(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to verify device")
		return
	}

	response.SuccessWithMessage(w, "Device verified", result)
}

// CheckIn implements BiometricHandler.
func (h *biometricHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req biometric.PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Biometric punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	fallback := "Failed to record check-in"
	if req.Action == biometric.ActionCheckOut {
		fallback = "Failed to record check-out"
	}

	result, err := h.biometricService.Punch(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, fallback)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}
