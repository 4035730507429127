package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"github.com/dag-industries/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DeviceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	RotateAPIKey(w http.ResponseWriter, r *http.Request)
}

type deviceHandlerImpl struct {
	deviceService device.DeviceService
}

func NewDeviceHandler(deviceService device.DeviceService) DeviceHandler {
	return &deviceHandlerImpl{
		deviceService: deviceService,
	}
}

// Create implements DeviceHandler.
func (h *deviceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req device.CreateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create device decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.deviceService.Create(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to register device")
		return
	}

	response.Created(w, "Device registered successfully", result)
}

// List implements DeviceHandler.
func (h *deviceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.deviceService.List(r.Context())
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to list devices")
		return
	}

	response.Success(w, results)
}

// Get implements DeviceHandler.
func (h *deviceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.deviceService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to get device")
		return
	}

	response.Success(w, result)
}

// Update implements DeviceHandler.
func (h *deviceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req device.UpdateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update device decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.deviceService.Update(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to update device")
		return
	}

	response.SuccessWithMessage(w, "Device updated successfully", result)
}

// Deactivate implements DeviceHandler.
func (h *deviceHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.deviceService.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to deactivate device")
		return
	}

	response.SuccessWithMessage(w, "Device deactivated successfully", nil)
}

// RotateAPIKey implements DeviceHandler.
func (h *deviceHandlerImpl) RotateAPIKey(w http.ResponseWriter, r *http.Request) {
	result, err := h.deviceService.RotateAPIKey(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to rotate API key")
		return
	}

	response.SuccessWithMessage(w, "API key rotated, store it now as it will not be shown again", result)
}
