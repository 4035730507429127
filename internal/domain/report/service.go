package report

import "context"

type ReportService interface {
	Daily(ctx context.Context, filter DailyReportFilter) (DailyReportResponse, error)
	Monthly(ctx context.Context, filter MonthlyReportFilter) (MonthlyReportResponse, error)
}
