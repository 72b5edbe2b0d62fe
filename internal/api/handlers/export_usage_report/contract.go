package export_usage_report

import (
	"context"
	"io"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getUsageReport "github.com/m04kA/SMC-ParkingService/internal/usecase/get_usage_report"
)

type UsageReportUseCase interface {
	Execute(ctx context.Context, req *getUsageReport.Request) (*getUsageReport.Response, error)
}

// ReportWriter сериализует строки отчёта в файл
type ReportWriter interface {
	Write(out io.Writer, period *domain.Period, rows []domain.MonthlyUsage) error
	FileName(period *domain.Period) string
	ContentType() string
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
