package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dag-industries/attendance-backend-go/internal/domain/attendance"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	RecordManual(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)

	RequestCorrection(w http.ResponseWriter, r *http.Request)
	ListCorrections(w http.ResponseWriter, r *http.Request)
	GetMyCorrections(w http.ResponseWriter, r *http.Request)
	GetCorrection(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// callerProfileID fills an omitted profile id with the caller's own
func callerProfileID(r *http.Request, profileID string) string {
	if profileID != "" {
		return profileID
	}
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		return ""
	}
	return principal.ProfileID
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Check-in decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ProfileID = callerProfileID(r, req.ProfileID)

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to record check-in")
		return
	}

	response.Created(w, "Check-in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Check-out decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.AttendanceID == "" {
		req.ProfileID = callerProfileID(r, req.ProfileID)
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to record check-out")
		return
	}

	response.SuccessWithMessage(w, "Check-out successful", result)
}

// RecordManual implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordManual(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Manual attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.RecordManual(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to record attendance")
		return
	}

	response.Created(w, "Attendance recorded successfully", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetTodayStatus(r.Context(), r.URL.Query().Get("profile_id"))
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to get today's attendance")
		return
	}

	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		ProfileID:    queryString(r, "profile_id"),
		DepartmentID: queryString(r, "department_id"),
		StartDate:    queryString(r, "start_date"),
		EndDate:      queryString(r, "end_date"),
		Status:       queryString(r, "status"),
		Page:         queryInt(r, "page", 1),
		Limit:        queryInt(r, "limit", 20),
		SortBy:       r.URL.Query().Get("sort_by"),
		SortOrder:    r.URL.Query().Get("sort_order"),
	}

	results, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to list attendance")
		return
	}

	response.Success(w, results)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	filter := attendance.MyAttendanceFilter{
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Status:    queryString(r, "status"),
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", 20),
	}

	results, err := h.attendanceService.GetMyAttendance(r.Context(), filter)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to list attendance")
		return
	}

	response.Success(w, results)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetAttendance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to get attendance")
		return
	}

	response.Success(w, result)
}

// RequestCorrection implements AttendanceHandler.
func (h *attendanceHandlerImpl) RequestCorrection(w http.ResponseWriter, r *http.Request) {
	var req attendance.CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Correction request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.RequestCorrection(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to submit correction request")
		return
	}

	response.Created(w, "Correction request submitted", result)
}

// ListCorrections implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListCorrections(w http.ResponseWriter, r *http.Request) {
	filter := attendance.CorrectionFilter{
		ProfileID: queryString(r, "profile_id"),
		Status:    queryString(r, "status"),
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", 20),
	}

	results, err := h.attendanceService.ListCorrections(r.Context(), filter)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to list corrections")
		return
	}

	response.Success(w, results)
}

// GetMyCorrections implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyCorrections(w http.ResponseWriter, r *http.Request) {
	filter := attendance.CorrectionFilter{
		Status: queryString(r, "status"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}

	results, err := h.attendanceService.GetMyCorrections(r.Context(), filter)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to list corrections")
		return
	}

	response.Success(w, results)
}

// GetCorrection implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetCorrection(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetCorrection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to get correction")
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) review(w http.ResponseWriter, r *http.Request, decision attendance.Decision, message string) {
	var req attendance.ReviewCorrectionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("Correction review decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.CorrectionID = chi.URLParam(r, "id")
	req.Decision = decision

	result, err := h.attendanceService.ReviewCorrection(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to review correction")
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// Approve implements AttendanceHandler.
func (h *attendanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, attendance.DecisionApprove, "Correction approved successfully")
}

// Reject implements AttendanceHandler.
func (h *attendanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, attendance.DecisionReject, "Correction rejected successfully")
}
