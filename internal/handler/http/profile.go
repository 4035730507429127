package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ProfileHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetByEmployeeID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	GetMe(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
	AssignEmployeeIDs(w http.ResponseWriter, r *http.Request)
	NextEmployeeID(w http.ResponseWriter, r *http.Request)
}

type profileHandlerImpl struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) ProfileHandler {
	return &profileHandlerImpl{
		profileService: profileService,
	}
}

// Create implements ProfileHandler.
func (h *profileHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req profile.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create profile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.profileService.CreateProfile(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to create profile")
		return
	}

	response.Created(w, "Profile created successfully", result)
}

// List implements ProfileHandler.
func (h *profileHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := profile.ProfileFilter{
		Role:         queryString(r, "role"),
		DepartmentID: queryString(r, "department_id"),
		IsActive:     queryBool(r, "is_active"),
		Search:       queryString(r, "search"),
		Page:         queryInt(r, "page", 1),
		Limit:        queryInt(r, "limit", 20),
	}

	results, err := h.profileService.ListProfiles(r.Context(), filter)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to list profiles")
		return
	}

	response.Success(w, results)
}

// Get implements ProfileHandler.
func (h *profileHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.profileService.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to get profile")
		return
	}

	response.Success(w, result)
}

// GetByEmployeeID implements ProfileHandler.
func (h *profileHandlerImpl) GetByEmployeeID(w http.ResponseWriter, r *http.Request) {
	result, err := h.profileService.GetByEmployeeID(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to get profile")
		return
	}

	response.Success(w, result)
}

// Update implements ProfileHandler.
func (h *profileHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req profile.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update profile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.profileService.UpdateProfile(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to update profile")
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", result)
}

// Deactivate implements ProfileHandler.
func (h *profileHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	result, err := h.profileService.DeactivateProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to deactivate profile")
		return
	}

	response.SuccessWithMessage(w, "Profile deactivated successfully", result)
}

// GetMe implements ProfileHandler.
func (h *profileHandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	result, err := h.profileService.GetMyProfile(r.Context())
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to get profile")
		return
	}

	response.Success(w, result)
}

// UpdateMe implements ProfileHandler.
func (h *profileHandlerImpl) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req profile.UpdateMyProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update my profile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.profileService.UpdateMyProfile(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to update profile")
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", result)
}

// ChangePassword implements ProfileHandler.
func (h *profileHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req profile.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Change password decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.profileService.ChangeMyPassword(r.Context(), req); err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to change password")
		return
	}

	response.SuccessWithMessage(w, "Password changed successfully", nil)
}

// AssignEmployeeIDs implements ProfileHandler.
func (h *profileHandlerImpl) AssignEmployeeIDs(w http.ResponseWriter, r *http.Request) {
	result, err := h.profileService.AssignMissingEmployeeIDs(r.Context())
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to assign employee IDs")
		return
	}

	response.SuccessWithMessage(w, "Employee IDs assigned", result)
}

// NextEmployeeID implements ProfileHandler.
func (h *profileHandlerImpl) NextEmployeeID(w http.ResponseWriter, r *http.Request) {
	result, err := h.profileService.PreviewNextEmployeeID(r.Context())
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to preview employee ID")
		return
	}

	response.Success(w, result)
}
