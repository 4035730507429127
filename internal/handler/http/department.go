package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dag-industries/attendance-backend-go/internal/domain/department"
	"github.com/dag-industries/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DepartmentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type departmentHandlerImpl struct {
	departmentService department.DepartmentService
}

func NewDepartmentHandler(departmentService department.DepartmentService) DepartmentHandler {
	return &departmentHandlerImpl{
		departmentService: departmentService,
	}
}

// Create implements DepartmentHandler.
func (h *departmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req department.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create department decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.departmentService.Create(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to create department")
		return
	}

	response.Created(w, "Department created successfully", result)
}

// List implements DepartmentHandler.
func (h *departmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if v := queryBool(r, "include_inactive"); v != nil {
		includeInactive = *v
	}

	results, err := h.departmentService.List(r.Context(), includeInactive)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to list departments")
		return
	}

	response.Success(w, results)
}

// Get implements DepartmentHandler.
func (h *departmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.departmentService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to get department")
		return
	}

	response.Success(w, result)
}

// Update implements DepartmentHandler.
func (h *departmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req department.UpdateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update department decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.departmentService.Update(r.Context(), req)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to update department")
		return
	}

	response.SuccessWithMessage(w, "Department updated successfully", result)
}

// Deactivate implements DepartmentHandler.
func (h *departmentHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.departmentService.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to deactivate department")
		return
	}

	response.SuccessWithMessage(w, "Department deactivated successfully", nil)
}
