package http

import (
	"net/http"

	"github.com/dag-industries/attendance-backend-go/internal/domain/report"
	"github.com/dag-industries/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Daily attendance report
	GetDailyReport(w http.ResponseWriter, r *http.Request)

	// Monthly per-employee summary
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetDailyReport handles GET /reports/daily
func (h *reportHandlerImpl) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	filter := report.DailyReportFilter{
		Date:         r.URL.Query().Get("date"),
		DepartmentID: queryString(r, "department_id"),
	}

	result, err := h.reportService.Daily(r.Context(), filter)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to generate daily report")
		return
	}

	response.Success(w, result)
}

// GetMonthlyReport handles GET /reports/monthly
func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	filter := report.MonthlyReportFilter{
		Month:        r.URL.Query().Get("month"),
		DepartmentID: queryString(r, "department_id"),
	}

	result, err := h.reportService.Monthly(r.Context(), filter)
	if err != nil {
		response.HandleErrorWithMessage(w, err, "Failed to generate monthly report")
		return
	}

	response.Success(w, result)
}
